package voronoi

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientInput is returned when fewer than two distinct sites are given.
	ErrInsufficientInput = errors.New("voronoi: at least two distinct sites are required")
	// ErrInvalidSite is returned for sites with NaN or infinite coordinates.
	ErrInvalidSite = errors.New("voronoi: site coordinates must be finite")
	// ErrInvariantViolation marks a corrupted sweep state. It is never recovered.
	ErrInvariantViolation = errors.New("voronoi: sweep invariant violated")
	// ErrSweepDone is returned by Step once the event queue is empty.
	ErrSweepDone = errors.New("voronoi: sweep finished")
)

// InvariantError carries the event that exposed a broken invariant.
type InvariantError struct {
	Event  Event
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v: %s (event %s)", ErrInvariantViolation, e.Reason, e.Event)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}
