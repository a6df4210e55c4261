package ecs

import (
	"errors"
	"fmt"
)

// Domain errors for store and wiring operations.
var (
	// ErrUnknownEntity indicates an id that no World entity carries.
	ErrUnknownEntity = errors.New("ecs: unknown entity")

	// ErrMissingComponent indicates an entity lacks a component a system requires.
	ErrMissingComponent = errors.New("ecs: missing required component")
)

// EndpointError reports a spring whose endpoint cannot take part in the
// force computation. It signals a wiring bug, not a runtime condition.
type EndpointError struct {
	Spring   EntityID
	Endpoint EntityID
	Kind     Kind
	Wrapped  error
}

func (e *EndpointError) Error() string {
	if errors.Is(e.Wrapped, ErrUnknownEntity) {
		return fmt.Sprintf("spring %d: endpoint %d: %v", e.Spring, e.Endpoint, e.Wrapped)
	}
	return fmt.Sprintf("spring %d: endpoint %d has no %s: %v", e.Spring, e.Endpoint, e.Kind, e.Wrapped)
}

func (e *EndpointError) Unwrap() error {
	return e.Wrapped
}
