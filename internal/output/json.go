/*
PURPOSE:
  Writes run reports to a JSON Lines file (NDJSON), optionally compressed.
  Optimized for machine parsing.

REQUIREMENTS:
  User-specified:
  - None. Report output is opt-in through output_dir.

  Implementation-discovered:
  - JSON Lines is append-friendly and streams well.
  - Reports can be kept compressed (zstd or lz4) next to other run artifacts.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: internal/model.RunReport

ERROR HANDLING:
  - Returns model.OpError of kind output on file, codec or encode failure.

IMPLEMENTATION RULES:
  - Use encoding/json.NewEncoder on top of the codec writer.
  - Close flushes the codec before closing the file.
  - Thread-safe.

USAGE:
  w, err := output.NewJSONWriter(output.ReportPath(dir, output.CompressionZstd), output.CompressionZstd)
  w.Write(report)
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - A truncated .zst/.lz4 file means Close was not called.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Keep ReadReports able to read every Compression value.
*/

package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/daryltucker/housing-price/internal/model"
)

// Compression selects the codec applied to the report file.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// ParseCompression validates a compression name. Empty means none.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(s); c {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionZstd, CompressionLZ4:
		return c, nil
	default:
		return "", fmt.Errorf("%w: unknown output compression %q (supported: none, zstd, lz4)", model.ErrInvalidConfig, s)
	}
}

// Extension returns the file suffix added by the codec.
func (c Compression) Extension() string {
	switch c {
	case CompressionZstd:
		return ".zst"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// ReportPath is the report file name inside dir for codec c.
func ReportPath(dir string, c Compression) string {
	return filepath.Join(dir, "report.jsonl"+c.Extension())
}

// JSONWriter handles writing reports to a JSON Lines file.
type JSONWriter struct {
	file    *os.File
	codec   io.WriteCloser
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter creates a new JSONWriter. It overwrites the file if it exists.
func NewJSONWriter(path string, c Compression) (*JSONWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, model.NewOpError("output.NewJSONWriter", model.KindOutput, err)
	}

	jw := &JSONWriter{file: f}
	var w io.Writer = f

	switch c {
	case CompressionZstd:
		enc, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, model.NewOpError("output.NewJSONWriter", model.KindOutput, err)
		}
		jw.codec, w = enc, enc
	case CompressionLZ4:
		enc := lz4.NewWriter(f)
		jw.codec, w = enc, enc
	}

	jw.encoder = json.NewEncoder(w)
	return jw, nil
}

// Write writes a single report as a JSON line.
func (jw *JSONWriter) Write(r *model.RunReport) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if err := jw.encoder.Encode(r); err != nil {
		return model.NewOpError("output.JSONWriter.Write", model.KindOutput, err)
	}
	return nil
}

// Close flushes the codec and closes the underlying file.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	var codecErr error
	if jw.codec != nil {
		codecErr = jw.codec.Close()
	}
	return errors.Join(codecErr, jw.file.Close())
}

// ReadReports decodes every report of a file written by JSONWriter.
func ReadReports(path string, c Compression) ([]model.RunReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, model.NewOpError("output.ReadReports", model.KindOutput, err)
	}
	defer f.Close()

	var r io.Reader = f
	switch c {
	case CompressionZstd:
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, model.NewOpError("output.ReadReports", model.KindOutput, err)
		}
		defer dec.Close()
		r = dec
	case CompressionLZ4:
		r = lz4.NewReader(f)
	}

	var reports []model.RunReport
	dec := json.NewDecoder(r)
	for {
		var rep model.RunReport
		if err := dec.Decode(&rep); err != nil {
			if errors.Is(err, io.EOF) {
				return reports, nil
			}
			return nil, model.NewOpError("output.ReadReports", model.KindOutput, err)
		}
		reports = append(reports, rep)
	}
}
