package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/housing-price/internal/model"
)

func sampleReport(trainer model.TrainerKind) *model.RunReport {
	return &model.RunReport{
		RunID:              "3f1c2d4e-0000-4000-8000-000000000001",
		Trainer:            trainer,
		Seed:               0,
		DatasetFingerprint: "abc123",
		Samples:            9,
		Model:              "Linear{y = 1 + 2*x0}",
		Metrics:            model.EvaluationMetrics{RSquared: 0.99, MeanAbsoluteError: 4000},
		Predictions: []model.PredictionRecord{
			{Size: 700, PredictedPrice: 114444.444},
			{Size: 2500, PredictedPrice: 336944.5, Extrapolated: true},
		},
		TrainDuration: 3 * time.Millisecond,
		Timestamp:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, LogOptions{Level: "warn", Format: "json"})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, float64(1), line["k"])

	_, err = NewLogger(&buf, LogOptions{Level: "loud"})
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
	_, err = NewLogger(&buf, LogOptions{Format: "xml"})
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]string{"": "INFO", "DEBUG": "DEBUG", "warning": "WARN", "error": "ERROR"} {
		lvl, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, lvl.String())
	}
}

func TestSetupWithFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "housing.log")

	logger, cleanup, err := Setup(&console, LogOptions{File: path})
	require.NoError(t, err)
	logger.Info("Starting Housing Price Prediction...")
	require.NoError(t, cleanup())
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Starting Housing Price Prediction...")
	assert.Contains(t, console.String(), "Starting Housing Price Prediction...")

	_, _, err = Setup(&console, LogOptions{File: filepath.Join(t.TempDir(), "nope", "x.log")})
	assert.Error(t, err)
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleReport(model.TrainerSDCA)))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	want := [][]string{
		CSVHeader,
		{"3f1c2d4e-0000-4000-8000-000000000001", "sdca", "0", "700", "114444.44", "false", "2026-01-02T03:04:05Z"},
		{"3f1c2d4e-0000-4000-8000-000000000001", "sdca", "0", "2500", "336944.50", "true", "2026-01-02T03:04:05Z"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("csv rows mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONWriterRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(string(c), func(t *testing.T) {
			path := ReportPath(t.TempDir(), c)
			assert.True(t, strings.HasSuffix(path, "report.jsonl"+c.Extension()))

			w, err := NewJSONWriter(path, c)
			require.NoError(t, err)
			require.NoError(t, w.Write(sampleReport(model.TrainerSDCA)))
			require.NoError(t, w.Write(sampleReport(model.TrainerFastTree)))
			require.NoError(t, w.Close())

			got, err := ReadReports(path, c)
			require.NoError(t, err)
			want := []model.RunReport{*sampleReport(model.TrainerSDCA), *sampleReport(model.TrainerFastTree)}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("reports mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSONWriterPlainIsReadable(t *testing.T) {
	path := ReportPath(t.TempDir(), CompressionNone)
	w, err := NewJSONWriter(path, CompressionNone)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleReport(model.TrainerFastTree)))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"trainer":"fasttree"`)
	assert.True(t, strings.HasSuffix(string(data), "\n"))
}

func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)

	c, err = ParseCompression("lz4")
	require.NoError(t, err)
	assert.Equal(t, CompressionLZ4, c)

	_, err = ParseCompression("gzip")
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}
