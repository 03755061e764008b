/*
PURPOSE:
  Defines the 'compare' subcommand.
  Fits every trainer on the same data and prints the results side by side.

REQUIREMENTS:
  User-specified:
  - Swapping the trainer changes the numbers, not the shape of the output.

  Implementation-discovered:
  - Pipelines are independent, so they run concurrently.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Engine.Compare()
  - Renders with github.com/charmbracelet/lipgloss/table

ERROR HANDLING:
  - The first failing pipeline aborts the comparison.

IMPLEMENTATION RULES:
  - The table goes to stdout after the log lines.

USAGE:
  housing-price compare --sizes 700,1300,2500

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/compare.go

MAINTENANCE:
  - Add a column when RunReport gains a headline number.
*/

package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/daryltucker/housing-price/internal/engine"
	"github.com/daryltucker/housing-price/internal/model"
	"github.com/daryltucker/housing-price/internal/predict"
	"github.com/daryltucker/housing-price/internal/telemetry"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newCompareCmd(g *globalOptions) *cobra.Command {
	o := &runOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Fit every trainer on the same data and compare them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			o.apply(cmd, cfg)

			logger, cleanup, err := g.logger(cmd, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			e, err := engine.New(cfg, logger, engine.WithMetrics(telemetry.NewMetrics()))
			if err != nil {
				return err
			}
			reports, err := e.Compare(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderComparison(reports))
			return nil
		},
	}

	o.register(cmd, false)
	return cmd
}

// renderComparison builds one row per trainer: fit quality, then one column
// per predicted size.
func renderComparison(reports []*model.RunReport) string {
	headers := []string{"Trainer", "R-Squared", "MAE"}
	if len(reports) > 0 {
		for _, p := range reports[0].Predictions {
			label := strconv.FormatFloat(p.Size, 'f', -1, 64) + " sqft"
			if p.Extrapolated {
				label += "*"
			}
			headers = append(headers, label)
		}
	}

	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		row := []string{
			r.Trainer.String(),
			fmt.Sprintf("%.4f", r.Metrics.RSquared),
			predict.FormatCurrency(r.Metrics.MeanAbsoluteError),
		}
		for _, p := range r.Predictions {
			row = append(row, predict.FormatCurrency(p.PredictedPrice))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.Render()
}
