/*
PURPOSE:
  High-level runner that orchestrates one housing-price run.
  Load -> validate -> train -> evaluate -> predict -> record.

REQUIREMENTS:
  User-specified:
  - Strictly sequential flow: dataset, train, evaluate, predict each size.
  - Informational log line for every stage.
  - A fitting failure aborts the run; no recovery.
  - Predictions outside the training range are not guarded.

  Implementation-discovered:
  - Reports carry a run id, the seed and a dataset fingerprint so two runs
    can be shown to be comparable.
  - compare fits every trainer kind on the same data concurrently.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/dataset, internal/learn, internal/evaluate,
    internal/predict, internal/output, internal/telemetry

ERROR HANDLING:
  - Every error is returned to the caller. Nothing is retried.
  - Sinks are closed on every path.

IMPLEMENTATION RULES:
  - The logger and session are passed in, never global.
  - Training is timed around Pipeline.Fit only.

USAGE:
  e, err := engine.New(cfg, logger, engine.WithMetrics(m))
  report, err := e.Run(ctx)

SELF-HEALING INSTRUCTIONS:
  - If reports differ between identical runs, check the seed plumbing into
    learn.NewSession.

RELATED FILES:
  - internal/engine/compare.go
  - internal/learn/pipeline.go

MAINTENANCE:
  - Update stage list here when adding a stage.
*/

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/daryltucker/housing-price/internal/config"
	"github.com/daryltucker/housing-price/internal/dataset"
	"github.com/daryltucker/housing-price/internal/evaluate"
	"github.com/daryltucker/housing-price/internal/learn"
	"github.com/daryltucker/housing-price/internal/model"
	"github.com/daryltucker/housing-price/internal/output"
	"github.com/daryltucker/housing-price/internal/predict"
	"github.com/daryltucker/housing-price/internal/telemetry"
)

// Engine runs the housing-price pipeline for one configuration.
type Engine struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *telemetry.Metrics
	now     func() time.Time
	newID   func() string
}

// Option customises an Engine.
type Option func(*Engine)

// WithMetrics records run metrics into m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRunID replaces the random run id generator.
func WithRunID(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// New creates an Engine after validating cfg. A nil logger discards output.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = output.Discard()
	}

	e := &Engine{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// LoadDataset returns the configured dataset: the CSV file when set,
// otherwise the built-in samples. The result is validated.
func (e *Engine) LoadDataset() (model.Dataset, error) {
	var ds model.Dataset
	if e.cfg.DatasetFile != "" {
		var err error
		ds, err = dataset.LoadCSV(e.cfg.DatasetFile, e.logger)
		if err != nil {
			return nil, err
		}
	} else {
		ds = dataset.Load(e.logger)
	}

	if err := dataset.Validate(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// Run executes the configured trainer end to end and writes the enabled
// outputs.
func (e *Engine) Run(ctx context.Context) (*model.RunReport, error) {
	kind, err := e.cfg.TrainerKind()
	if err != nil {
		return nil, err
	}

	e.logger.Info("Starting Housing Price Prediction...", "trainer", kind.String(), "seed", e.cfg.Seed)

	ds, err := e.LoadDataset()
	if err != nil {
		return nil, err
	}

	report, err := e.runPipeline(ctx, kind, ds)
	if e.metrics != nil {
		e.metrics.RecordRun(kind.String(), err)
	}
	if err != nil {
		return nil, err
	}

	if err := e.writeOutputs([]*model.RunReport{report}); err != nil {
		return nil, err
	}

	e.logger.Info("Housing Price Prediction finished.", "run_id", report.RunID)
	return report, nil
}

// runPipeline trains, evaluates and predicts with one trainer kind.
func (e *Engine) runPipeline(ctx context.Context, kind model.TrainerKind, ds model.Dataset) (report *model.RunReport, err error) {
	runID := e.newID()
	logger := e.logger.With("run_id", runID, "trainer", kind.String())

	ctx, span := telemetry.StartSpan(ctx, "housing.run",
		attribute.String("trainer", kind.String()),
		attribute.Int64("seed", e.cfg.Seed),
		attribute.String("run_id", runID),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	sess := learn.NewSession(e.cfg.Seed, logger)
	trainer, err := e.trainer(sess, kind)
	if err != nil {
		return nil, err
	}
	pipeline := learn.Concatenate("Features", "Size").Append(trainer)

	logger.Info("Building and training the model...")
	trainCtx, trainSpan := telemetry.StartSpan(ctx, "housing.train")
	start := time.Now()
	tf, err := pipeline.Fit(trainCtx, ds)
	trainDuration := time.Since(start)
	telemetry.EndSpan(trainSpan, err)
	if err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}
	logger.Info("Model training completed successfully.", "model", tf.Model().String(), "duration", trainDuration)

	_, evalSpan := telemetry.StartSpan(ctx, "housing.evaluate")
	metrics, err := evaluate.Evaluate(tf, ds, logger)
	telemetry.EndSpan(evalSpan, err)
	if err != nil {
		return nil, err
	}

	_, predictSpan := telemetry.StartSpan(ctx, "housing.predict")
	records := predict.NewEngine(tf).Records(e.cfg.PredictionSizes, dataset.Range(ds))
	for _, rec := range records {
		logger.Info(fmt.Sprintf("Predicted price for a %v sqft house: %s", rec.Size, predict.FormatCurrency(rec.PredictedPrice)),
			"extrapolated", rec.Extrapolated)
	}
	telemetry.EndSpan(predictSpan, nil)

	if e.metrics != nil {
		e.metrics.ObserveTraining(kind.String(), trainDuration)
		e.metrics.RecordEvaluation(kind.String(), metrics)
		for _, rec := range records {
			e.metrics.RecordPrediction(kind.String(), rec.Extrapolated)
		}
	}

	return &model.RunReport{
		RunID:              runID,
		Trainer:            kind,
		Seed:               e.cfg.Seed,
		DatasetFingerprint: dataset.Fingerprint(ds),
		Samples:            len(ds),
		Model:              tf.Model().String(),
		Metrics:            metrics,
		Predictions:        records,
		TrainDuration:      trainDuration,
		Timestamp:          e.now().UTC(),
	}, nil
}

// trainer builds the trainer for kind with the configured hyperparameters.
func (e *Engine) trainer(sess *learn.Session, kind model.TrainerKind) (learn.Trainer, error) {
	switch kind {
	case model.TrainerSDCA:
		opts, err := e.cfg.SDCAOptions()
		if err != nil {
			return nil, err
		}
		t, err := sess.SDCA(opts...)
		if err != nil {
			return nil, err
		}
		return t, nil
	case model.TrainerFastTree:
		opts, err := e.cfg.FastTreeOptions()
		if err != nil {
			return nil, err
		}
		t, err := sess.FastTree(opts...)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return sess.Trainer(kind)
	}
}

// writeOutputs writes the CSV, JSONL and metrics files that are enabled.
func (e *Engine) writeOutputs(reports []*model.RunReport) error {
	if e.cfg.OutputDir != "" {
		if err := e.writeReports(reports); err != nil {
			return err
		}
	}

	if e.cfg.MetricsFile != "" && e.metrics != nil {
		if err := e.metrics.WriteTextfile(e.cfg.MetricsFile); err != nil {
			return err
		}
		e.logger.Info("Metrics written", "path", e.cfg.MetricsFile)
	}
	return nil
}

func (e *Engine) writeReports(reports []*model.RunReport) (err error) {
	if err := os.MkdirAll(e.cfg.OutputDir, 0755); err != nil {
		return model.NewOpError("engine.writeReports", model.KindOutput,
			fmt.Errorf("failed to create output directory %s: %w", e.cfg.OutputDir, err))
	}

	compression, err := e.cfg.Compression()
	if err != nil {
		return err
	}

	csvPath := filepath.Join(e.cfg.OutputDir, "predictions.csv")
	csvWriter, err := output.NewCSVWriter(csvPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := csvWriter.Close(); cerr != nil && err == nil {
			err = model.NewOpError("engine.writeReports", model.KindOutput, cerr)
		}
	}()

	jsonPath := output.ReportPath(e.cfg.OutputDir, compression)
	jsonWriter, err := output.NewJSONWriter(jsonPath, compression)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := jsonWriter.Close(); cerr != nil && err == nil {
			err = model.NewOpError("engine.writeReports", model.KindOutput, cerr)
		}
	}()

	for _, r := range reports {
		if err := csvWriter.Write(r); err != nil {
			return err
		}
		if err := jsonWriter.Write(r); err != nil {
			return err
		}
	}

	e.logger.Info("Results written", "csv", csvPath, "json", jsonPath)
	return nil
}
