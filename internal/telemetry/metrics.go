/*
PURPOSE:
  Prometheus metrics for a housing-price run: training time, fit quality
  and prediction counts. Optionally exported as a node-exporter textfile.

REQUIREMENTS:
  User-specified:
  - None. The program has no server; metrics are written to a file on request.

  Implementation-discovered:
  - Every Metrics owns its registry. Nothing registers on the default
    registry, so tests and the compare command may create several.

ARCHITECTURE INTEGRATION:
  - Created by: internal/cli
  - Used by: internal/engine

ERROR HANDLING:
  - WriteTextfile wraps file errors as model.OpError of kind output.

IMPLEMENTATION RULES:
  - Metric names are prefixed with housing_price_.
  - Label values are trainer names from model.TrainerKind.String().

USAGE:
  m := telemetry.NewMetrics()
  m.ObserveTraining("sdca", time.Since(start))
  err := m.WriteTextfile("metrics.prom")

SELF-HEALING INSTRUCTIONS:
  - A duplicate registration panic means a collector was added twice to
    the same registry.

RELATED FILES:
  - internal/telemetry/tracing.go
  - internal/engine/runner.go

MAINTENANCE:
  - Document new metrics in README when adding them.
*/

package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/daryltucker/housing-price/internal/model"
)

const namespace = "housing_price"

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	trainDuration *prometheus.HistogramVec
	rSquared      *prometheus.GaugeVec
	meanAbsError  *prometheus.GaugeVec
	predictions   *prometheus.CounterVec
	runs          *prometheus.CounterVec
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		trainDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "train_duration_seconds",
				Help:      "Time spent fitting the pipeline",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"trainer"},
		),
		rSquared: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "r_squared",
				Help:      "Coefficient of determination on the evaluation set",
			},
			[]string{"trainer"},
		),
		meanAbsError: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "mean_absolute_error",
				Help:      "Mean absolute error on the evaluation set",
			},
			[]string{"trainer"},
		),
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "predictions_total",
				Help:      "Predictions served, by whether the size was outside the training range",
			},
			[]string{"trainer", "extrapolated"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Completed pipeline runs by outcome",
			},
			[]string{"trainer", "status"},
		),
	}

	m.registry.MustRegister(m.trainDuration, m.rSquared, m.meanAbsError, m.predictions, m.runs)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTraining records one fit duration.
func (m *Metrics) ObserveTraining(trainer string, d time.Duration) {
	m.trainDuration.WithLabelValues(trainer).Observe(d.Seconds())
}

// RecordEvaluation sets the fit quality gauges.
func (m *Metrics) RecordEvaluation(trainer string, em model.EvaluationMetrics) {
	m.rSquared.WithLabelValues(trainer).Set(em.RSquared)
	m.meanAbsError.WithLabelValues(trainer).Set(em.MeanAbsoluteError)
}

// RecordPrediction counts one prediction.
func (m *Metrics) RecordPrediction(trainer string, extrapolated bool) {
	m.predictions.WithLabelValues(trainer, strconv.FormatBool(extrapolated)).Inc()
}

// RecordRun counts a finished run. A nil err counts as success.
func (m *Metrics) RecordRun(trainer string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.runs.WithLabelValues(trainer, status).Inc()
}

// WriteTextfile writes every metric in the Prometheus text format, replacing
// path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return model.NewOpError("telemetry.WriteTextfile", model.KindOutput, err)
	}
	return nil
}
