package learn

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/daryltucker/housing-price/internal/model"
)

// columnAccessors maps input column names to the sample field they read.
var columnAccessors = map[string]func(model.Sample) float64{
	"Size": func(s model.Sample) float64 { return s.Size },
}

// Featurizer concatenates named input columns into a single feature vector.
type Featurizer struct {
	Output  string
	Columns []string
}

// Concatenate returns a Featurizer writing columns into the output vector
// column, in the given order.
func Concatenate(output string, columns ...string) Featurizer {
	return Featurizer{Output: output, Columns: slices.Clone(columns)}
}

// Append chains a trainer after the featurizer.
func (f Featurizer) Append(t Trainer) *Pipeline {
	return &Pipeline{Featurizer: f, Trainer: t}
}

// Width is the length of the produced feature vector.
func (f Featurizer) Width() int {
	return len(f.Columns)
}

func (f Featurizer) validate() error {
	if len(f.Columns) == 0 {
		return fmt.Errorf("featurizer %q has no input columns", f.Output)
	}
	for _, c := range f.Columns {
		if _, ok := columnAccessors[c]; !ok {
			return fmt.Errorf("featurizer %q: unknown input column %q", f.Output, c)
		}
	}
	return nil
}

// Transform builds the rows x width feature matrix for ds.
func (f Featurizer) Transform(ds model.Dataset) (*mat.Dense, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	if len(ds) == 0 {
		return nil, fmt.Errorf("featurizer %q: no rows", f.Output)
	}

	data := make([]float64, 0, len(ds)*f.Width())
	for i, s := range ds {
		for _, c := range f.Columns {
			v := columnAccessors[c](s)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("row %d: column %q is not finite", i, c)
			}
			data = append(data, v)
		}
	}

	return mat.NewDense(len(ds), f.Width(), data), nil
}

// Row projects a single prediction input into the feature representation.
// Unknown columns read as NaN; Transform reports them during fitting.
func (f Featurizer) Row(in model.PredictionInput) []float64 {
	s := model.Sample{Size: in.Size}
	out := make([]float64, len(f.Columns))
	for i, c := range f.Columns {
		if get, ok := columnAccessors[c]; ok {
			out[i] = get(s)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
