/*
PURPOSE:
  Writes predictions to a CSV file, one row per predicted size.
  Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - None. CSV output is opt-in through output_dir.

  Implementation-discovered:
  - A run overwrites the previous file.
  - compare writes the rows of several trainers into the same file.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: internal/model.RunReport

ERROR HANDLING:
  - Returns model.OpError of kind output on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every report (crash resilience).
  - Mutex guards writes; compare may write concurrently.

USAGE:
  w, err := output.NewCSVWriter("predictions.csv")
  w.Write(report)
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - If CSV format changes, update header and record conversion together.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update Write() mapping when PredictionRecord changes.
*/

package output

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/daryltucker/housing-price/internal/model"
)

// CSVHeader is the first row of every predictions file.
var CSVHeader = []string{
	"run_id", "trainer", "seed", "size", "predicted_price", "extrapolated", "timestamp",
}

// CSVWriter handles writing predictions to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates a new CSVWriter.
// It overwrites the file if it exists.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, model.NewOpError("output.NewCSVWriter", model.KindOutput, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(CSVHeader); err != nil {
		f.Close()
		return nil, model.NewOpError("output.NewCSVWriter", model.KindOutput, err)
	}
	w.Flush()

	return &CSVWriter{
		file:   f,
		writer: w,
	}, nil
}

// Write writes one row per prediction of r.
// It is thread-safe.
func (cw *CSVWriter) Write(r *model.RunReport) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, p := range r.Predictions {
		record := []string{
			r.RunID,
			r.Trainer.String(),
			strconv.FormatInt(r.Seed, 10),
			strconv.FormatFloat(p.Size, 'f', -1, 64),
			strconv.FormatFloat(p.PredictedPrice, 'f', 2, 64),
			strconv.FormatBool(p.Extrapolated),
			r.Timestamp.Format(time.RFC3339),
		}
		if err := cw.writer.Write(record); err != nil {
			return model.NewOpError("output.CSVWriter.Write", model.KindOutput, err)
		}
	}

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return model.NewOpError("output.CSVWriter.Write", model.KindOutput, err)
	}
	return nil
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	return cw.file.Close()
}
