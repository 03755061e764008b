package learn

import (
	"context"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/daryltucker/housing-price/internal/model"
	"github.com/daryltucker/housing-price/internal/options"
)

// FastTreeOptions configures the boosted tree trainer.
type FastTreeOptions struct {
	NumberOfTrees              int
	NumberOfLeaves             int
	MinimumExampleCountPerLeaf int
	LearningRate               float64
	// SubsampleFraction is the share of rows each tree is fitted on. Rows
	// are drawn without replacement from the session seed when below 1.
	SubsampleFraction float64
}

// DefaultFastTreeOptions returns the options used when none are given.
func DefaultFastTreeOptions() FastTreeOptions {
	return FastTreeOptions{
		NumberOfTrees:              100,
		NumberOfLeaves:             8,
		MinimumExampleCountPerLeaf: 2,
		LearningRate:               0.2,
		SubsampleFraction:          1,
	}
}

// FastTreeOption is a functional option for FastTreeOptions.
type FastTreeOption = options.Option[*FastTreeOptions]

// WithNumberOfTrees sets the ensemble size.
func WithNumberOfTrees(n int) FastTreeOption {
	return options.New(func(o *FastTreeOptions) error {
		if n <= 0 {
			return fmt.Errorf("number of trees must be positive, got %d", n)
		}
		o.NumberOfTrees = n
		return nil
	})
}

// WithNumberOfLeaves sets the maximum leaves per tree.
func WithNumberOfLeaves(n int) FastTreeOption {
	return options.New(func(o *FastTreeOptions) error {
		if n < 2 {
			return fmt.Errorf("number of leaves must be at least 2, got %d", n)
		}
		o.NumberOfLeaves = n
		return nil
	})
}

// WithMinimumExampleCountPerLeaf sets the smallest leaf size.
func WithMinimumExampleCountPerLeaf(n int) FastTreeOption {
	return options.New(func(o *FastTreeOptions) error {
		if n <= 0 {
			return fmt.Errorf("minimum example count per leaf must be positive, got %d", n)
		}
		o.MinimumExampleCountPerLeaf = n
		return nil
	})
}

// WithLearningRate sets the shrinkage applied to every tree.
func WithLearningRate(rate float64) FastTreeOption {
	return options.New(func(o *FastTreeOptions) error {
		if !(rate > 0 && rate <= 1) {
			return fmt.Errorf("learning rate must be in (0, 1], got %v", rate)
		}
		o.LearningRate = rate
		return nil
	})
}

// WithSubsampleFraction sets the per-tree row fraction.
func WithSubsampleFraction(fraction float64) FastTreeOption {
	return options.New(func(o *FastTreeOptions) error {
		if !(fraction > 0 && fraction <= 1) {
			return fmt.Errorf("subsample fraction must be in (0, 1], got %v", fraction)
		}
		o.SubsampleFraction = fraction
		return nil
	})
}

// FastTreeTrainer fits a gradient-boosted ensemble of regression trees on
// squared loss.
type FastTreeTrainer struct {
	sess *Session
	opts FastTreeOptions
}

// FastTree creates a boosted tree trainer bound to the session.
func (s *Session) FastTree(opts ...FastTreeOption) (*FastTreeTrainer, error) {
	o := DefaultFastTreeOptions()
	if err := options.Apply(&o, opts...); err != nil {
		return nil, model.NewOpError("learn.FastTree", model.KindInvalidConfig, err)
	}
	return &FastTreeTrainer{sess: s, opts: o}, nil
}

// Options returns the effective options.
func (t *FastTreeTrainer) Options() FastTreeOptions {
	return t.opts
}

// Kind implements Trainer.
func (t *FastTreeTrainer) Kind() model.TrainerKind {
	return model.TrainerFastTree
}

// Fit implements Trainer. The ensemble starts from the label mean; every
// tree is fitted to the current residuals and added with the learning rate
// already folded into its leaf values.
func (t *FastTreeTrainer) Fit(ctx context.Context, features *mat.Dense, labels []float64) (Model, error) {
	n, _, err := checkTrainingData("learn.FastTree.Fit", features, labels)
	if err != nil {
		return nil, err
	}
	logger := t.sess.Logger().With("trainer", model.TrainerFastTree.String())

	bias := stat.Mean(labels, nil)
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = bias
	}
	residuals := make([]float64, n)

	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	sampleSize := n
	if t.opts.SubsampleFraction < 1 {
		sampleSize = max(int(math.Round(t.opts.SubsampleFraction*float64(n))), 2*t.opts.MinimumExampleCountPerLeaf)
		sampleSize = min(sampleSize, n)
	}
	rng := t.sess.newRand()

	grower := &treeGrower{
		features:     features,
		targets:      residuals,
		maxLeaves:    t.opts.NumberOfLeaves,
		minLeaf:      t.opts.MinimumExampleCountPerLeaf,
		learningRate: t.opts.LearningRate,
	}

	trees := make([]*RegressionTree, 0, t.opts.NumberOfTrees)
	for len(trees) < t.opts.NumberOfTrees {
		if err := ctx.Err(); err != nil {
			return nil, model.NewOpError("learn.FastTree.Fit", model.KindFit, err)
		}

		floats.SubTo(residuals, labels, scores)

		rows := all
		if sampleSize < n {
			rows = rng.Perm(n)[:sampleSize]
			slices.Sort(rows)
		}

		tree := grower.grow(rows)
		if tree.Leaves() == 1 {
			logger.Debug("FastTree stopped early, no split improves the residuals", "trees", len(trees))
			break
		}
		trees = append(trees, tree)
		for i := range n {
			scores[i] += tree.Predict(features.RawRowView(i))
		}
	}

	logger.Debug("FastTree ensemble built", "trees", len(trees), "training_rmse", rmse(labels, scores))

	_, cols := features.Dims()
	return &TreeEnsembleModel{Bias: bias, Trees: trees, featureCount: cols}, nil
}

// TreeEnsembleModel predicts Bias plus the sum of its trees.
type TreeEnsembleModel struct {
	Bias         float64
	Trees        []*RegressionTree
	featureCount int
}

// Kind implements Model.
func (m *TreeEnsembleModel) Kind() model.TrainerKind {
	return model.TrainerFastTree
}

// Predict implements Model.
func (m *TreeEnsembleModel) Predict(features []float64) float64 {
	if len(features) != m.featureCount {
		return math.NaN()
	}
	score := m.Bias
	for _, tree := range m.Trees {
		score += tree.Predict(features)
	}
	return score
}

// String returns a short summary of the ensemble.
func (m *TreeEnsembleModel) String() string {
	leaves := 0
	for _, tree := range m.Trees {
		leaves += tree.Leaves()
	}
	return fmt.Sprintf("TreeEnsemble{trees: %d, leaves: %d, bias: %.4f}", len(m.Trees), leaves, m.Bias)
}

func rmse(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}
	return floats.Distance(observed, predicted, 2) / math.Sqrt(float64(len(observed)))
}
