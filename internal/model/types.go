/*
PURPOSE:
  Defines the core data structures used throughout housing-price.
  These models represent training samples, evaluation metrics and run reports.

REQUIREMENTS:
  User-specified:
  - A sample is a (size, price) pair, immutable once created.
  - Record R-squared and mean absolute error for a fitted model.
  - Record every prediction made during a run.

  Implementation-discovered:
  - Need JSON tags for the report.jsonl sink.
  - Need a trainer selector shared by config, CLI and the learn package.

ARCHITECTURE INTEGRATION:
  - Used by: internal/dataset, internal/learn, internal/evaluate, internal/predict,
    internal/engine, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - ParseTrainerKind returns ErrInvalidConfig for unknown names.

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Use float64 for all numeric values; time.Duration for timings.

USAGE:
  ds := model.Dataset{{Size: 600, Price: 100000}}
  kind, err := model.ParseTrainerKind("fasttree")

SELF-HEALING INSTRUCTIONS:
  - If new metrics are needed, add the field and update CSV/JSON writers.

RELATED FILES:
  - internal/output/csv.go
  - internal/output/json.go

MAINTENANCE:
  - Update when adding trainers or report fields.
*/

package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Sample is a single training row: house size in square feet and its price.
type Sample struct {
	Size  float64 `json:"size"`
	Price float64 `json:"price"`
}

// Dataset is an ordered sequence of samples.
type Dataset []Sample

// Sizes returns the feature column.
func (d Dataset) Sizes() []float64 {
	out := make([]float64, len(d))
	for i, s := range d {
		out[i] = s.Size
	}
	return out
}

// Prices returns the label column.
func (d Dataset) Prices() []float64 {
	out := make([]float64, len(d))
	for i, s := range d {
		out[i] = s.Price
	}
	return out
}

// EvaluationMetrics holds aggregate regression metrics computed over a dataset.
type EvaluationMetrics struct {
	RSquared             float64 `json:"r_squared"`
	MeanAbsoluteError    float64 `json:"mean_absolute_error"`
	MeanSquaredError     float64 `json:"mean_squared_error"`
	RootMeanSquaredError float64 `json:"root_mean_squared_error"`
	LossFunction         float64 `json:"loss_function"`
}

// PredictionInput is the single-row input to a prediction engine.
type PredictionInput struct {
	Size float64 `json:"size"`
}

// PredictionResult is the output of a prediction engine.
type PredictionResult struct {
	PredictedPrice float64 `json:"predicted_price"`
}

// PredictionRecord is a prediction as recorded in a run report.
type PredictionRecord struct {
	Size           float64 `json:"size"`
	PredictedPrice float64 `json:"predicted_price"`
	// Extrapolated is true when Size lies outside the training range.
	// It is informational only.
	Extrapolated bool `json:"extrapolated"`
}

// RunReport represents the outcome of a single train/evaluate/predict run.
type RunReport struct {
	RunID              string             `json:"run_id"`
	Trainer            TrainerKind        `json:"trainer"`
	Seed               int64              `json:"seed"`
	DatasetFingerprint string             `json:"dataset_fingerprint"`
	Samples            int                `json:"samples"`
	Model              string             `json:"model"`
	Metrics            EvaluationMetrics  `json:"metrics"`
	Predictions        []PredictionRecord `json:"predictions"`
	TrainDuration      time.Duration      `json:"train_duration"`
	Timestamp          time.Time          `json:"timestamp"`
}

// TrainerKind selects the regression algorithm used by the pipeline.
type TrainerKind int

const (
	// TrainerSDCA is least squares fitted by stochastic dual coordinate ascent.
	TrainerSDCA TrainerKind = iota
	// TrainerFastTree is a gradient-boosted regression tree ensemble.
	TrainerFastTree
)

var trainerKindNames = map[TrainerKind]string{
	TrainerSDCA:     "sdca",
	TrainerFastTree: "fasttree",
}

var trainerKindFromString = map[string]TrainerKind{
	"sdca":          TrainerSDCA,
	"least-squares": TrainerSDCA,
	"fasttree":      TrainerFastTree,
	"tree-ensemble": TrainerFastTree,
}

// TrainerKinds returns every trainer kind in declaration order.
func TrainerKinds() []TrainerKind {
	return []TrainerKind{TrainerSDCA, TrainerFastTree}
}

// String returns the canonical name of the trainer kind.
func (k TrainerKind) String() string {
	if name, ok := trainerKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseTrainerKind maps a name (case-insensitive) to a TrainerKind.
func ParseTrainerKind(name string) (TrainerKind, error) {
	if k, ok := trainerKindFromString[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}

	names := make([]string, 0, len(trainerKindFromString))
	for n := range trainerKindFromString {
		names = append(names, n)
	}
	slices.Sort(names)

	return TrainerKind(-1), fmt.Errorf("%w: unknown trainer %q (supported: %s)",
		ErrInvalidConfig, name, strings.Join(names, ", "))
}

// MarshalText implements encoding.TextMarshaler so reports carry the name.
func (k TrainerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TrainerKind) UnmarshalText(text []byte) error {
	parsed, err := ParseTrainerKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
