package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/daryltucker/housing-price/internal/assets"
)

func newInitCmd() *cobra.Command {
	var (
		dir   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the annotated default housing_price.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := filepath.Join(dir, assets.DefaultConfigName)

			if !force {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", target)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("failed to check %s: %w", target, err)
				}
			}

			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create target directory %s: %w", dir, err)
			}
			if err := os.WriteFile(target, assets.DefaultConfig, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory to write the config file into")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
