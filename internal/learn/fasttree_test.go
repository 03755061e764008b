package learn

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/daryltucker/housing-price/internal/model"
)

func fitFastTree(t *testing.T, seed int64, opts ...FastTreeOption) *Transformer {
	t.Helper()
	trainer, err := NewSession(seed, nil).FastTree(opts...)
	require.NoError(t, err)
	tf, err := Concatenate("Features", "Size").Append(trainer).Fit(context.Background(), housingData())
	require.NoError(t, err)
	return tf
}

func TestFastTreeFitsTrainingData(t *testing.T) {
	ds := housingData()
	tf := fitFastTree(t, 0)

	ens, ok := tf.Model().(*TreeEnsembleModel)
	require.True(t, ok)
	assert.Equal(t, stat.Mean(ds.Prices(), nil), ens.Bias)
	assert.NotEmpty(t, ens.Trees)
	assert.LessOrEqual(t, len(ens.Trees), DefaultFastTreeOptions().NumberOfTrees)

	// Nine rows with at least two per leaf allow at most four leaves.
	for _, tree := range ens.Trees {
		assert.LessOrEqual(t, tree.Leaves(), 4)
	}

	scores, err := tf.Transform(ds)
	require.NoError(t, err)
	_, std := stat.MeanStdDev(ds.Prices(), nil)
	assert.Less(t, rmse(ds.Prices(), scores), std/4)
}

func TestFastTreePredictions(t *testing.T) {
	tf := fitFastTree(t, 0)

	at1000 := tf.Predict(model.PredictionInput{Size: 1000})
	assert.InEpsilon(t, 150000, at1000, 0.15)

	for size := 600.0; size <= 2400; size += 100 {
		p := tf.Predict(model.PredictionInput{Size: size})
		assert.GreaterOrEqual(t, p, 100000.0, "size %v", size)
		assert.LessOrEqual(t, p, 320000.0, "size %v", size)
	}

	// Trees are piecewise constant past the last threshold.
	far := tf.Predict(model.PredictionInput{Size: 2500})
	assert.False(t, math.IsNaN(far) || math.IsInf(far, 0))
	assert.Equal(t, tf.Predict(model.PredictionInput{Size: 2400}), far)
}

func TestFastTreeDeterministic(t *testing.T) {
	opt := cmp.AllowUnexported(TreeEnsembleModel{}, RegressionTree{}, treeNode{})

	a := fitFastTree(t, 3, WithSubsampleFraction(0.7)).Model()
	b := fitFastTree(t, 3, WithSubsampleFraction(0.7)).Model()
	if diff := cmp.Diff(a, b, opt); diff != "" {
		t.Errorf("same seed produced different ensembles (-a +b):\n%s", diff)
	}

	full := fitFastTree(t, 3).Model()
	assert.False(t, cmp.Equal(a, full, opt, cmpopts.EquateApprox(0, 1e-12)))
}

func TestFastTreeOptions(t *testing.T) {
	sess := NewSession(0, nil)

	tr, err := sess.FastTree(WithNumberOfTrees(5), WithNumberOfLeaves(3),
		WithMinimumExampleCountPerLeaf(1), WithLearningRate(1), WithSubsampleFraction(0.5))
	require.NoError(t, err)
	assert.Equal(t, FastTreeOptions{
		NumberOfTrees:              5,
		NumberOfLeaves:             3,
		MinimumExampleCountPerLeaf: 1,
		LearningRate:               1,
		SubsampleFraction:          0.5,
	}, tr.Options())
	assert.Equal(t, model.TrainerFastTree, tr.Kind())

	bad := []FastTreeOption{
		WithNumberOfTrees(0),
		WithNumberOfLeaves(1),
		WithMinimumExampleCountPerLeaf(0),
		WithLearningRate(0),
		WithLearningRate(1.5),
		WithLearningRate(math.NaN()),
		WithSubsampleFraction(0),
		WithSubsampleFraction(2),
	}
	for _, opt := range bad {
		tr, err := sess.FastTree(opt)
		assert.Nil(t, tr)
		assert.ErrorIs(t, err, model.ErrInvalidConfig)
	}
}

func TestFastTreeStopsWhenNothingSplits(t *testing.T) {
	ds := model.Dataset{{Size: 1, Price: 5}, {Size: 2, Price: 5}, {Size: 3, Price: 5}, {Size: 4, Price: 5}}
	trainer, err := NewSession(0, nil).FastTree()
	require.NoError(t, err)

	tf, err := Concatenate("Features", "Size").Append(trainer).Fit(context.Background(), ds)
	require.NoError(t, err)

	ens := tf.Model().(*TreeEnsembleModel)
	assert.Empty(t, ens.Trees)
	assert.Equal(t, 5.0, tf.Predict(model.PredictionInput{Size: 100}))
}

func TestTreeEnsembleModel(t *testing.T) {
	stump := &RegressionTree{Nodes: []treeNode{
		{Feature: 0, Threshold: 10, Left: 1, Right: 2},
		{Feature: -1, Left: -1, Right: -1, Value: -1},
		{Feature: -1, Left: -1, Right: -1, Value: 1},
	}}
	m := &TreeEnsembleModel{Bias: 100, Trees: []*RegressionTree{stump, stump}, featureCount: 1}

	assert.Equal(t, 98.0, m.Predict([]float64{3}))
	assert.Equal(t, 102.0, m.Predict([]float64{11}))
	assert.True(t, math.IsNaN(m.Predict(nil)))
	assert.Equal(t, model.TrainerFastTree, m.Kind())
	assert.Equal(t, "TreeEnsemble{trees: 2, leaves: 4, bias: 100.0000}", m.String())
}
