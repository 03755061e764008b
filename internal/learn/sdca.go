package learn

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/daryltucker/housing-price/internal/model"
	"github.com/daryltucker/housing-price/internal/options"
)

// SDCAOptions configures the SDCA trainer.
type SDCAOptions struct {
	// L2Regularization is the ridge penalty λ on standardised weights.
	L2Regularization float64
	// MaximumNumberOfIterations bounds the number of passes over the data.
	MaximumNumberOfIterations int
	// ConvergenceTolerance stops training once the relative weight change of
	// a full pass drops below it.
	ConvergenceTolerance float64
	// Shuffle visits samples in a seeded random order on every pass.
	Shuffle bool
}

// DefaultSDCAOptions returns the options used when none are given.
func DefaultSDCAOptions() SDCAOptions {
	return SDCAOptions{
		L2Regularization:          0.01,
		MaximumNumberOfIterations: 1000,
		ConvergenceTolerance:      1e-9,
		Shuffle:                   true,
	}
}

// SDCAOption is a functional option for SDCAOptions.
type SDCAOption = options.Option[*SDCAOptions]

// WithL2Regularization sets the ridge penalty. It must be positive.
func WithL2Regularization(l2 float64) SDCAOption {
	return options.New(func(o *SDCAOptions) error {
		if !(l2 > 0) || math.IsInf(l2, 0) {
			return fmt.Errorf("l2 regularization must be positive, got %v", l2)
		}
		o.L2Regularization = l2
		return nil
	})
}

// WithMaximumNumberOfIterations sets the pass limit.
func WithMaximumNumberOfIterations(n int) SDCAOption {
	return options.New(func(o *SDCAOptions) error {
		if n <= 0 {
			return fmt.Errorf("maximum number of iterations must be positive, got %d", n)
		}
		o.MaximumNumberOfIterations = n
		return nil
	})
}

// WithConvergenceTolerance sets the stopping tolerance.
func WithConvergenceTolerance(tol float64) SDCAOption {
	return options.New(func(o *SDCAOptions) error {
		if !(tol > 0) {
			return fmt.Errorf("convergence tolerance must be positive, got %v", tol)
		}
		o.ConvergenceTolerance = tol
		return nil
	})
}

// WithShuffle toggles the seeded visiting order.
func WithShuffle(shuffle bool) SDCAOption {
	return options.NoError(func(o *SDCAOptions) {
		o.Shuffle = shuffle
	})
}

// SDCATrainer fits least squares with L2 regularisation by stochastic dual
// coordinate ascent.
type SDCATrainer struct {
	sess *Session
	opts SDCAOptions
}

// SDCA creates an SDCA trainer bound to the session.
func (s *Session) SDCA(opts ...SDCAOption) (*SDCATrainer, error) {
	o := DefaultSDCAOptions()
	if err := options.Apply(&o, opts...); err != nil {
		return nil, model.NewOpError("learn.SDCA", model.KindInvalidConfig, err)
	}
	return &SDCATrainer{sess: s, opts: o}, nil
}

// Options returns the effective options.
func (t *SDCATrainer) Options() SDCAOptions {
	return t.opts
}

// Kind implements Trainer.
func (t *SDCATrainer) Kind() model.TrainerKind {
	return model.TrainerSDCA
}

// Fit implements Trainer.
//
// Features are standardised and labels centred before the dual updates; the
// returned LinearModel is expressed in the raw feature space. For squared
// loss the coordinate step on α_i has the closed form
//
//	Δα_i = (y_i - w·x_i - α_i) / (1 + ‖x_i‖² / (λn))
//
// with w = Σ α_i x_i / (λn).
func (t *SDCATrainer) Fit(ctx context.Context, features *mat.Dense, labels []float64) (Model, error) {
	n, d, err := checkTrainingData("learn.SDCA.Fit", features, labels)
	if err != nil {
		return nil, err
	}
	logger := t.sess.Logger().With("trainer", model.TrainerSDCA.String())

	means := make([]float64, d)
	scales := make([]float64, d)
	col := make([]float64, n)
	for j := range d {
		mat.Col(col, j, features)
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		means[j], scales[j] = mean, std
	}

	z := mat.NewDense(n, d, nil)
	z.Apply(func(_, j int, v float64) float64 {
		return (v - means[j]) / scales[j]
	}, features)

	labelMean := stat.Mean(labels, nil)
	targets := slices.Clone(labels)
	floats.AddConst(-labelMean, targets)

	lambdaN := t.opts.L2Regularization * float64(n)
	alpha := make([]float64, n)
	w := make([]float64, d)
	prev := make([]float64, d)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng := t.sess.newRand()

	converged := false
	epoch := 0
	for epoch < t.opts.MaximumNumberOfIterations {
		if err := ctx.Err(); err != nil {
			return nil, model.NewOpError("learn.SDCA.Fit", model.KindFit, err)
		}
		epoch++

		if t.opts.Shuffle {
			rng.Shuffle(n, func(a, b int) { order[a], order[b] = order[b], order[a] })
		}
		copy(prev, w)

		for _, i := range order {
			zi := z.RawRowView(i)
			q := floats.Dot(zi, zi) / lambdaN
			delta := (targets[i] - floats.Dot(w, zi) - alpha[i]) / (1 + q)
			alpha[i] += delta
			floats.AddScaled(w, delta/lambdaN, zi)
		}

		change := floats.Distance(w, prev, 2) / math.Max(floats.Norm(w, 2), 1e-12)
		if change < t.opts.ConvergenceTolerance {
			converged = true
			break
		}
	}

	if !converged {
		logger.Warn("SDCA reached the iteration limit before converging", "iterations", epoch)
	} else {
		logger.Debug("SDCA converged", "iterations", epoch)
	}

	weights := make([]float64, d)
	bias := labelMean
	for j := range d {
		weights[j] = w[j] / scales[j]
		bias -= weights[j] * means[j]
	}

	return &LinearModel{Bias: bias, Weights: weights, Iterations: epoch}, nil
}

// LinearModel predicts Bias + Weights·x.
type LinearModel struct {
	Bias    float64
	Weights []float64
	// Iterations is the number of passes training took.
	Iterations int
}

// Kind implements Model.
func (m *LinearModel) Kind() model.TrainerKind {
	return model.TrainerSDCA
}

// Predict implements Model.
func (m *LinearModel) Predict(features []float64) float64 {
	if len(features) != len(m.Weights) {
		return math.NaN()
	}
	return m.Bias + floats.Dot(m.Weights, features)
}

// String returns a human-readable formula.
func (m *LinearModel) String() string {
	terms := make([]string, 0, len(m.Weights)+1)
	terms = append(terms, fmt.Sprintf("%.4f", m.Bias))
	for j, w := range m.Weights {
		terms = append(terms, fmt.Sprintf("%.4f*x%d", w, j))
	}
	return fmt.Sprintf("Linear{y = %s, iterations: %d}", strings.Join(terms, " + "), m.Iterations)
}

// Coefficients returns [bias, weights...].
func (m *LinearModel) Coefficients() []float64 {
	return append([]float64{m.Bias}, slices.Clone(m.Weights)...)
}
