package learn

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/daryltucker/housing-price/internal/model"
)

// Trainer fits a regression model to a feature matrix and label vector.
type Trainer interface {
	Kind() model.TrainerKind
	Fit(ctx context.Context, features *mat.Dense, labels []float64) (Model, error)
}

// Model is a fitted regressor. Implementations are immutable and safe for
// concurrent use.
type Model interface {
	Kind() model.TrainerKind
	// Predict scores a single feature vector.
	Predict(features []float64) float64
	String() string
}

// Pipeline is a featurizer followed by a trainer.
type Pipeline struct {
	Featurizer Featurizer
	Trainer    Trainer
}

// Fit featurizes ds, trains the model against the price label and returns
// the fitted Transformer.
func (p *Pipeline) Fit(ctx context.Context, ds model.Dataset) (*Transformer, error) {
	if p.Trainer == nil {
		return nil, model.NewOpError("learn.Pipeline.Fit", model.KindFit,
			fmt.Errorf("pipeline has no trainer"))
	}

	features, err := p.Featurizer.Transform(ds)
	if err != nil {
		return nil, model.NewOpError("learn.Pipeline.Fit", model.KindFit, err)
	}

	m, err := p.Trainer.Fit(ctx, features, ds.Prices())
	if err != nil {
		return nil, err
	}

	return &Transformer{featurizer: p.Featurizer, model: m}, nil
}

// Transformer is a fitted pipeline: it maps rows to predicted prices.
type Transformer struct {
	featurizer Featurizer
	model      Model
}

// NewTransformer pairs an already fitted model with the featurizer it was
// trained behind.
func NewTransformer(f Featurizer, m Model) *Transformer {
	return &Transformer{featurizer: f, model: m}
}

// Model returns the fitted model.
func (t *Transformer) Model() Model {
	return t.model
}

// Featurizer returns the feature projection used at training time.
func (t *Transformer) Featurizer() Featurizer {
	return t.featurizer
}

// Predict scores a single input.
func (t *Transformer) Predict(in model.PredictionInput) float64 {
	return t.model.Predict(t.featurizer.Row(in))
}

// Transform scores every sample of ds, in order.
func (t *Transformer) Transform(ds model.Dataset) ([]float64, error) {
	if len(ds) == 0 {
		return nil, nil
	}
	features, err := t.featurizer.Transform(ds)
	if err != nil {
		return nil, err
	}

	rows, _ := features.Dims()
	scores := make([]float64, rows)
	for i := range rows {
		scores[i] = t.model.Predict(features.RawRowView(i))
	}
	return scores, nil
}

// checkTrainingData rejects inputs no trainer can fit.
func checkTrainingData(op string, features *mat.Dense, labels []float64) (rows, cols int, err error) {
	if features == nil {
		return 0, 0, model.NewOpError(op, model.KindFit, fmt.Errorf("no features"))
	}
	rows, cols = features.Dims()
	if rows == 0 || cols == 0 {
		return 0, 0, model.NewOpError(op, model.KindFit, fmt.Errorf("empty feature matrix"))
	}
	if rows != len(labels) {
		return 0, 0, model.NewOpError(op, model.KindFit,
			fmt.Errorf("mismatched data lengths: %d rows vs %d labels", rows, len(labels)))
	}

	for i := range rows {
		for j := range cols {
			if v := features.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, 0, model.NewOpError(op, model.KindFit,
					fmt.Errorf("feature %d of row %d is not finite", j, i))
			}
		}
		if math.IsNaN(labels[i]) || math.IsInf(labels[i], 0) {
			return 0, 0, model.NewOpError(op, model.KindFit,
				fmt.Errorf("label of row %d is not finite", i))
		}
	}

	return rows, cols, nil
}
