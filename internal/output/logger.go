/*
PURPOSE:
  Provides the structured logger for housing-price.
  Wraps slog for consistent console output.

REQUIREMENTS:
  User-specified:
  - Timestamped informational lines on the console.
  - The logger is acquired at start and released at exit.

  Implementation-discovered:
  - Text for humans, JSON for pipelines (--log-format).
  - An optional log file receives the same lines as the console.
  - No package global: the logger is passed to whoever needs it.

ARCHITECTURE INTEGRATION:
  - Created by: internal/cli (root command)
  - Used everywhere through explicit *slog.Logger parameters.

ERROR HANDLING:
  - Unknown level or format returns model.ErrInvalidConfig.
  - Log file open failure is returned; nothing is half-installed.

IMPLEMENTATION RULES:
  - Use `log/slog` (Go 1.21+).
  - Cleanup must be safe to call more than once.

USAGE:
  logger, cleanup, err := output.Setup(os.Stdout, output.LogOptions{Level: "info"})
  defer cleanup()

SELF-HEALING INSTRUCTIONS:
  - If log lines are missing, check the level parsed from config/env.

RELATED FILES:
  - internal/config/config.go
  - internal/cli/root.go

MAINTENANCE:
  - Add handler options here, not at call sites.
*/

package output

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/daryltucker/housing-price/internal/model"
)

// LogOptions configures the process logger.
type LogOptions struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	File   string // optional path; lines are appended
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", model.ErrInvalidConfig, s)
	}
}

// NewLogger builds a logger writing to w.
func NewLogger(w io.Writer, opts LogOptions) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	switch strings.ToLower(opts.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("%w: unknown log format %q", model.ErrInvalidConfig, opts.Format)
	}
}

// Setup creates the process logger on console, tee-ing into opts.File when
// set. The returned cleanup closes the log file.
func Setup(console io.Writer, opts LogOptions) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }

	if opts.File == "" {
		logger, err := NewLogger(console, opts)
		if err != nil {
			return nil, noop, err
		}
		return logger, noop, nil
	}

	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open log file %s: %w", opts.File, err)
	}

	logger, err := NewLogger(io.MultiWriter(console, f), opts)
	if err != nil {
		f.Close()
		return nil, noop, err
	}

	var once sync.Once
	var closeErr error
	cleanup := func() error {
		once.Do(func() { closeErr = f.Close() })
		return closeErr
	}
	return logger, cleanup, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
