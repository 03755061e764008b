/*
PURPOSE:
  Defines the 'run' subcommand (also the default action).
  Trains, evaluates and predicts with one trainer.

REQUIREMENTS:
  User-specified:
  - Sequential flow ending with "Press any key to exit...".

  Implementation-discovered:
  - Need to load config first.
  - Apply flag overrides to config, only for flags the user set.
  - --no-wait for scripts; non-terminal stdin never blocks anyway.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Engine.Run()
  - Uses: internal/config, internal/telemetry, internal/console

ERROR HANDLING:
  - Returns error if config load fails or engine run fails.

IMPLEMENTATION RULES:
  - Logic: Load Config -> Override -> Engine.Run -> Wait.

USAGE:
  housing-price run --trainer fasttree --sizes 700,1300,2500

SELF-HEALING INSTRUCTIONS:
  - Check flag names match Config struct fields generally.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/daryltucker/housing-price/internal/config"
	"github.com/daryltucker/housing-price/internal/console"
	"github.com/daryltucker/housing-price/internal/engine"
	"github.com/daryltucker/housing-price/internal/telemetry"
)

// runOptions holds the per-run overrides shared by run and compare.
type runOptions struct {
	trainer     string
	seed        int64
	sizes       []float64
	outputDir   string
	compression string
	metricsFile string
	datasetFile string
	noWait      bool
}

func (o *runOptions) register(cmd *cobra.Command, withTrainer bool) {
	f := cmd.Flags()
	if withTrainer {
		f.StringVarP(&o.trainer, "trainer", "t", "", "regression trainer: sdca (least-squares) or fasttree (tree-ensemble)")
	}
	f.Int64Var(&o.seed, "seed", 0, "seed for every randomised training step")
	f.Float64SliceVar(&o.sizes, "sizes", nil, "comma-separated house sizes to predict (sqft)")
	f.StringVarP(&o.outputDir, "output-dir", "o", "", "write predictions.csv and report.jsonl to this directory")
	f.StringVar(&o.compression, "compression", "", "report compression: none, zstd or lz4")
	f.StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	f.StringVar(&o.datasetFile, "dataset", "", "CSV file with size and price columns (default: built-in samples)")
	f.BoolVar(&o.noWait, "no-wait", false, "do not wait for a key press before exiting")
}

// apply copies the flags the user set onto cfg.
func (o *runOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("trainer") {
		cfg.Trainer = o.trainer
	}
	if f.Changed("seed") {
		cfg.Seed = o.seed
	}
	if f.Changed("sizes") {
		cfg.PredictionSizes = o.sizes
	}
	if f.Changed("output-dir") {
		cfg.OutputDir = o.outputDir
	}
	if f.Changed("compression") {
		cfg.OutputCompression = o.compression
	}
	if f.Changed("metrics-file") {
		cfg.MetricsFile = o.metricsFile
	}
	if f.Changed("dataset") {
		cfg.DatasetFile = o.datasetFile
	}
	if o.noWait {
		cfg.WaitForKey = false
	}
}

func newRunCmd(g *globalOptions) *cobra.Command {
	o := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train, evaluate and predict with one trainer",
		Long: `Loads the dataset, fits the selected regression pipeline, logs its
R-Squared and Mean Absolute Error on the training data, and logs a predicted
price for each configured size. Sizes outside the training range are
predicted as-is.`,
		Example: `  # The default demo (SDCA, seed 0, sizes 700, 1300, 2500)
  housing-price run

  # Boosted trees, custom sizes, no prompt at the end
  housing-price run --trainer fasttree --sizes 900,1600 --no-wait

  # Keep compressed reports and a metrics file
  housing-price run -o ./runs --compression zstd --metrics-file ./runs/housing.prom`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 1. Load Config
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}

			// 2. Overrides
			o.apply(cmd, cfg)

			logger, cleanup, err := g.logger(cmd, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			// 3. Execution
			e, err := engine.New(cfg, logger, engine.WithMetrics(telemetry.NewMetrics()))
			if err != nil {
				return err
			}
			if _, err := e.Run(cmd.Context()); err != nil {
				return err
			}

			if cfg.WaitForKey {
				return console.WaitForKey(os.Stdin, cmd.OutOrStdout(), console.DefaultPrompt)
			}
			return nil
		},
	}

	o.register(cmd, true)
	return cmd
}
