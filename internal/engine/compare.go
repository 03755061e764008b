package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/daryltucker/housing-price/internal/model"
)

// Compare fits every trainer kind on the same dataset concurrently and
// returns the reports in model.TrainerKinds order. The first failure cancels
// the other pipelines.
func (e *Engine) Compare(ctx context.Context) ([]*model.RunReport, error) {
	kinds := model.TrainerKinds()
	e.logger.Info("Starting Housing Price Prediction comparison...", "trainers", len(kinds), "seed", e.cfg.Seed)

	ds, err := e.LoadDataset()
	if err != nil {
		return nil, err
	}

	reports := make([]*model.RunReport, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			r, err := e.runPipeline(gctx, kind, ds)
			if e.metrics != nil {
				e.metrics.RecordRun(kind.String(), err)
			}
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := e.writeOutputs(reports); err != nil {
		return nil, err
	}

	e.logger.Info("Housing Price Prediction comparison finished.")
	return reports, nil
}
