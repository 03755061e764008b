/*
PURPOSE:
  Defines the root Cobra command for the housing-price CLI.
  Handles global flags, configuration loading and logger setup.

REQUIREMENTS:
  User-specified:
  - Running the binary with no arguments trains, evaluates, predicts and
    waits for a key, exactly like `housing-price run`.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - Config precedence: defaults < file < HOUSING_* env < flags.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/housing-price/main.go
  - Calls: Child commands (run, compare, dataset, init)

ERROR HANDLING:
  - Returns error to main.go for exit code handling.
  - Usage is not printed for runtime errors.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Commands are built by constructors so tests get fresh flag state.
  - Logs go to the command's stdout; interrupts cancel the context.

USAGE:
  Called by main.go.

SELF-HEALING INSTRUCTIONS:
  - If adding new global flags, add them to newRootCmd() and apply them in
    globalOptions.load().

RELATED FILES:
  - cmd/housing-price/main.go
  - internal/config/config.go

MAINTENANCE:
  - Update when adding global configuration options.
*/

package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/daryltucker/housing-price/internal/config"
	"github.com/daryltucker/housing-price/internal/output"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	cfgFile   string
	logLevel  string
	logFormat string
}

// Execute executes the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	run := newRunCmd(g)

	cmd := &cobra.Command{
		Use:   "housing-price",
		Short: "Predict house prices from their size with a tiny regression pipeline",
		Long: `Trains a one-feature regression model (size -> price) on a small housing
dataset, reports R-Squared and Mean Absolute Error, and predicts prices for a
few house sizes. Without a subcommand it behaves like 'run'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run.RunE,
	}

	cmd.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default is ./housing_price.yaml)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "log format: text or json")

	cmd.AddCommand(run, newCompareCmd(g), newDatasetCmd(g), newInitCmd())
	return cmd
}

// load resolves the configuration for cmd.
func (g *globalOptions) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(g.cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = g.logFormat
	}
	return cfg, nil
}

// logger builds the process logger on the command's stdout.
func (g *globalOptions) logger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, func() error, error) {
	logger, cleanup, err := output.Setup(cmd.OutOrStdout(), cfg.LogOptions())
	if err != nil {
		return nil, cleanup, err
	}
	if cfg.Path != "" {
		logger.Debug("Loaded config file", "path", cfg.Path)
	}
	return logger, cleanup, nil
}
