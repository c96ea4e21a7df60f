package creature

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every ValidationError.
	ErrInvalidConfig = errors.New("invalid creature config")

	// ErrQueueFull is returned when the loop's input queue cannot accept more events.
	ErrQueueFull = errors.New("input queue full")
)

// ValidationError reports a single rejected configuration or tuning value.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s=%v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidConfig).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}
