package learn

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/daryltucker/housing-price/internal/model"
)

// Session holds the state shared by every trainer of a process: the seed
// used for all randomised steps and the logger trainers report progress to.
// A Session is read-only after construction.
type Session struct {
	seed   int64
	logger *slog.Logger
}

// NewSession creates a Session. A nil logger discards trainer output.
func NewSession(seed int64, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{seed: seed, logger: logger}
}

// Seed returns the session seed.
func (s *Session) Seed() int64 {
	return s.seed
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// newRand returns a fresh deterministic source for one Fit call.
func (s *Session) newRand() *rand.Rand {
	return rand.New(rand.NewPCG(uint64(s.seed), 0x9e3779b97f4a7c15))
}

// Trainer builds the trainer selected by kind with its default options.
func (s *Session) Trainer(kind model.TrainerKind) (Trainer, error) {
	switch kind {
	case model.TrainerSDCA:
		t, err := s.SDCA()
		if err != nil {
			return nil, err
		}
		return t, nil
	case model.TrainerFastTree:
		t, err := s.FastTree()
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, model.NewOpError("learn.Trainer", model.KindInvalidConfig,
			fmt.Errorf("unsupported trainer kind %d", int(kind)))
	}
}
