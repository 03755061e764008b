package evaluate

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/housing-price/internal/dataset"
	"github.com/daryltucker/housing-price/internal/learn"
	"github.com/daryltucker/housing-price/internal/model"
)

func fit(t *testing.T, kind model.TrainerKind) *learn.Transformer {
	t.Helper()
	trainer, err := learn.NewSession(0, nil).Trainer(kind)
	require.NoError(t, err)
	tf, err := learn.Concatenate("Features", "Size").Append(trainer).Fit(context.Background(), dataset.Load(nil))
	require.NoError(t, err)
	return tf
}

func TestEvaluateTrainingSet(t *testing.T) {
	for _, kind := range model.TrainerKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			m, err := Evaluate(fit(t, kind), dataset.Load(nil), logger)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, m.RSquared, 0.0)
			assert.LessOrEqual(t, m.RSquared, 1.0)
			assert.Greater(t, m.RSquared, 0.95)
			assert.Greater(t, m.MeanAbsoluteError, 0.0)
			assert.InDelta(t, m.MeanSquaredError, m.RootMeanSquaredError*m.RootMeanSquaredError, 1e-3)
			assert.Equal(t, m.MeanSquaredError, m.LossFunction)

			out := buf.String()
			assert.Contains(t, out, "Model Evaluation Metrics:")
			assert.Contains(t, out, "R-Squared: ")
			assert.Contains(t, out, "Mean Absolute Error: ")
		})
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	for _, kind := range model.TrainerKinds() {
		a, err := Evaluate(fit(t, kind), dataset.Load(nil), nil)
		require.NoError(t, err)
		b, err := Evaluate(fit(t, kind), dataset.Load(nil), nil)
		require.NoError(t, err)
		assert.Equal(t, a, b, kind.String())
	}
}

func TestEvaluateEmpty(t *testing.T) {
	m, err := Evaluate(fit(t, model.TrainerSDCA), nil, nil)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(m.RSquared))
	assert.True(t, math.IsNaN(m.MeanAbsoluteError))
	assert.True(t, math.IsNaN(m.RootMeanSquaredError))
}

func TestEvaluateScoringError(t *testing.T) {
	tf := learn.NewTransformer(learn.Concatenate("Features", "Bedrooms"), &learn.LinearModel{Weights: []float64{1}})
	_, err := Evaluate(tf, dataset.Load(nil), nil)
	assert.ErrorIs(t, err, model.ErrPredict)
}

func TestMetrics(t *testing.T) {
	m := Metrics([]float64{1, 2, 3, 4}, []float64{2, 2, 2, 6})
	assert.InDelta(t, 1.0, m.MeanAbsoluteError, 1e-12)
	assert.InDelta(t, 1.5, m.MeanSquaredError, 1e-12)
	assert.InDelta(t, math.Sqrt(1.5), m.RootMeanSquaredError, 1e-12)
	// 1 - SSres/SStot with SSres = 6 and SStot = 12.
	assert.InDelta(t, 0.5, m.RSquared, 1e-12)

	perfect := Metrics([]float64{1, 2, 3}, []float64{1, 2, 3})
	assert.Equal(t, 1.0, perfect.RSquared)
	assert.Zero(t, perfect.MeanAbsoluteError)

	assert.True(t, math.IsNaN(Metrics([]float64{1}, nil).RSquared))
}
