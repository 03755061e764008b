/*
PURPOSE:
  Scores a fitted pipeline against a dataset and reports regression metrics.

REQUIREMENTS:
  User-specified:
  - Report R-Squared and Mean Absolute Error after training.

  Implementation-discovered:
  - The built-in flow evaluates on the training set itself (no holdout).
    This is kept on purpose and flagged in the log, not silently fixed.
  - An empty dataset has no defined metrics: every value is NaN.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: learn.Transformer, model.Dataset
  - Produces: model.EvaluationMetrics

ERROR HANDLING:
  - Scoring failures are returned as model.OpError of kind predict.

IMPLEMENTATION RULES:
  - R² comes from gonum/stat.RSquaredFrom; do not hand-roll it.
  - LossFunction is the squared loss, equal to MSE.

USAGE:
  m, err := evaluate.Evaluate(tf, ds, logger)

SELF-HEALING INSTRUCTIONS:
  - If R² drops below zero on the training set, the trainer regressed.

RELATED FILES:
  - internal/learn/pipeline.go
  - internal/model/types.go

MAINTENANCE:
  - Add new metrics to model.EvaluationMetrics first, then compute them here.
*/

package evaluate

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/daryltucker/housing-price/internal/learn"
	"github.com/daryltucker/housing-price/internal/model"
)

// Evaluate scores every sample of ds with tf and aggregates the results.
// A nil logger disables the metrics log lines.
func Evaluate(tf *learn.Transformer, ds model.Dataset, logger *slog.Logger) (model.EvaluationMetrics, error) {
	if len(ds) == 0 {
		nan := math.NaN()
		m := model.EvaluationMetrics{
			RSquared:             nan,
			MeanAbsoluteError:    nan,
			MeanSquaredError:     nan,
			RootMeanSquaredError: nan,
			LossFunction:         nan,
		}
		logMetrics(logger, m)
		return m, nil
	}

	scores, err := tf.Transform(ds)
	if err != nil {
		return model.EvaluationMetrics{}, model.NewOpError("evaluate.Evaluate", model.KindPredict, err)
	}

	m := Metrics(scores, ds.Prices())
	logMetrics(logger, m)
	return m, nil
}

// Metrics computes regression metrics of estimates against observed values.
// Both slices must have the same length.
func Metrics(estimates, observed []float64) model.EvaluationMetrics {
	if len(observed) == 0 || len(estimates) != len(observed) {
		nan := math.NaN()
		return model.EvaluationMetrics{
			RSquared: nan, MeanAbsoluteError: nan, MeanSquaredError: nan,
			RootMeanSquaredError: nan, LossFunction: nan,
		}
	}

	n := float64(len(observed))
	mae := floats.Distance(estimates, observed, 1) / n
	l2 := floats.Distance(estimates, observed, 2)
	mse := l2 * l2 / n

	return model.EvaluationMetrics{
		RSquared:             stat.RSquaredFrom(estimates, observed, nil),
		MeanAbsoluteError:    mae,
		MeanSquaredError:     mse,
		RootMeanSquaredError: math.Sqrt(mse),
		LossFunction:         mse,
	}
}

func logMetrics(logger *slog.Logger, m model.EvaluationMetrics) {
	if logger == nil {
		return
	}
	logger.Info("Model Evaluation Metrics:", "evaluated_on", "training_set")
	logger.Info(fmt.Sprintf("R-Squared: %.4f", m.RSquared))
	logger.Info(fmt.Sprintf("Mean Absolute Error: %.2f", m.MeanAbsoluteError))
	logger.Debug("Additional metrics",
		"mse", m.MeanSquaredError,
		"rmse", m.RootMeanSquaredError,
		"loss", m.LossFunction,
	)
}
