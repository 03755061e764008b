package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrInvalidDataset = errors.New("invalid dataset")
	ErrInvalidConfig  = errors.New("invalid config")
	ErrFit            = errors.New("fit failed")
	ErrPredict        = errors.New("prediction failed")
	ErrOutput         = errors.New("output failed")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindInvalidDataset ErrorKind = "invalid_dataset"
	KindInvalidConfig  ErrorKind = "invalid_config"
	KindFit            ErrorKind = "fit"
	KindPredict        ErrorKind = "predict"
	KindOutput         ErrorKind = "output"
)

var kindSentinels = map[ErrorKind]error{
	KindInvalidDataset: ErrInvalidDataset,
	KindInvalidConfig:  ErrInvalidConfig,
	KindFit:            ErrFit,
	KindPredict:        ErrPredict,
	KindOutput:         ErrOutput,
}

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

// NewOpError builds an OpError.
func NewOpError(op string, kind ErrorKind, err error) *OpError {
	return &OpError{Op: op, Kind: kind, Err: err}
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is match an OpError against the sentinel of its kind.
func (e *OpError) Is(target error) bool {
	if e == nil {
		return false
	}
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// IsKind helps callers classify errors without depending on the producing package.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}
