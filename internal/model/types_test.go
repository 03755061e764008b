package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrainerKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TrainerKind
		wantErr bool
	}{
		{name: "sdca", input: "sdca", want: TrainerSDCA},
		{name: "alias least-squares", input: "least-squares", want: TrainerSDCA},
		{name: "fasttree upper", input: "FastTree", want: TrainerFastTree},
		{name: "alias tree-ensemble", input: " tree-ensemble ", want: TrainerFastTree},
		{name: "unknown", input: "ols", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTrainerKind(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrainerKindString(t *testing.T) {
	assert.Equal(t, "sdca", TrainerSDCA.String())
	assert.Equal(t, "fasttree", TrainerFastTree.String())
	assert.Equal(t, "unknown", TrainerKind(42).String())
}

func TestTrainerKindJSON(t *testing.T) {
	report := RunReport{Trainer: TrainerFastTree}
	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"trainer":"fasttree"`)

	var decoded RunReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TrainerFastTree, decoded.Trainer)
}

func TestDatasetColumns(t *testing.T) {
	ds := Dataset{{Size: 600, Price: 100000}, {Size: 800, Price: 120000}}
	assert.Equal(t, []float64{600, 800}, ds.Sizes())
	assert.Equal(t, []float64{100000, 120000}, ds.Prices())
}

func TestOpError(t *testing.T) {
	cause := errors.New("row 3: size must be positive")
	err := fmt.Errorf("load: %w", NewOpError("dataset.Validate", KindInvalidDataset, cause))

	assert.True(t, IsKind(err, KindInvalidDataset))
	assert.False(t, IsKind(err, KindFit))
	assert.ErrorIs(t, err, ErrInvalidDataset)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrFit)
	assert.Equal(t, "load: dataset.Validate: invalid_dataset: row 3: size must be positive", err.Error())

	var nilErr *OpError
	assert.Equal(t, "<nil>", nilErr.Error())
}
