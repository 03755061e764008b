/*
PURPOSE:
  Defines the 'dataset' subcommand.
  Shows the training data a run would use.

REQUIREMENTS:
  User-specified:
  - None.

  Implementation-discovered:
  - Useful validation step before a full run, especially with --dataset.
  - The fingerprint lets two reports be matched to the same data.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Engine.LoadDataset()

ERROR HANDLING:
  - Invalid CSV files are reported with the offending row.

IMPLEMENTATION RULES:
  - Simple output to stdout.

USAGE:
  housing-price dataset --dataset ./houses.csv

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/dataset/dataset.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/housing-price/internal/dataset"
	"github.com/daryltucker/housing-price/internal/engine"
	"github.com/daryltucker/housing-price/internal/output"
	"github.com/daryltucker/housing-price/internal/predict"
)

func newDatasetCmd(g *globalOptions) *cobra.Command {
	var datasetFile string

	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Print the training samples, their range and fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dataset") {
				cfg.DatasetFile = datasetFile
			}

			e, err := engine.New(cfg, output.Discard())
			if err != nil {
				return err
			}
			ds, err := e.LoadDataset()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%10s  %s\n", "Size", "Price")
			for _, s := range ds {
				fmt.Fprintf(w, "%10v  %s\n", s.Size, predict.FormatCurrency(s.Price))
			}

			b := dataset.Range(ds)
			fmt.Fprintf(w, "\nSamples:     %d\n", len(ds))
			fmt.Fprintf(w, "Size range:  %v - %v sqft\n", b.MinSize, b.MaxSize)
			fmt.Fprintf(w, "Price range: %s - %s\n", predict.FormatCurrency(b.MinPrice), predict.FormatCurrency(b.MaxPrice))
			fmt.Fprintf(w, "Fingerprint: %s\n", dataset.Fingerprint(ds))
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetFile, "dataset", "", "CSV file with size and price columns (default: built-in samples)")
	return cmd
}
