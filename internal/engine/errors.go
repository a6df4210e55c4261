package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrPhaseOrder indicates a system registered after a system of a later phase.
	ErrPhaseOrder = errors.New("engine: system registered out of phase order")

	// ErrNilSystem indicates AddSystem was called with nil.
	ErrNilSystem = errors.New("engine: nil system")

	// ErrInvalidInterval indicates Run was given a non-positive tick interval.
	ErrInvalidInterval = errors.New("engine: tick interval must be positive")
)

// TickError wraps a fatal system error with the tick it happened on.
type TickError struct {
	Tick    uint64
	System  string
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d: %s: %v", e.Tick, e.System, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
