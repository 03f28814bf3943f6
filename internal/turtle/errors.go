package turtle

import (
	"errors"
	"fmt"
)

var (
	// ErrHistoryCorrupt indicates the x and y position histories disagree
	// with each other or with the step counter. The recorded path cannot be
	// trusted and must not be rendered.
	ErrHistoryCorrupt = errors.New("turtle: position history corrupt")

	// ErrInvalidTheta indicates theta could not be parsed as a decimal.
	ErrInvalidTheta = errors.New("turtle: invalid theta")
)

// StepError wraps an error with the step at which it happened.
type StepError struct {
	Step    int64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("turtle: step %d: %v", e.Step, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
