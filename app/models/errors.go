package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks bad input and failed transition guards.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidTransition marks an event that is not allowed from the current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError names the offending field. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// TransitionError reports the status and event that were rejected. It
// matches ErrInvalidTransition.
type TransitionError struct {
	From  Status
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s an order that is %s", e.Event, e.From.Label())
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
