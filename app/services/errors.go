// Package services holds the customer, admin and driver workflows. Each
// workflow reads and writes through a store.Store and records every status
// change in the order's audit trail.
package services

import (
	"errors"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/pkg/validate"
)

var (
	// ErrConfirmationRequired guards destructive operations such as ResetSales.
	ErrConfirmationRequired = errors.New("explicit confirmation required")
	ErrDuplicateUser        = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	// ErrNotAssigned is returned when a driver acts on an order assigned to
	// someone else.
	ErrNotAssigned = errors.New("order is not assigned to this driver")
)

// InputError carries field-level messages from struct-tag validation. It
// matches models.ErrValidation.
type InputError struct {
	Fields validate.Errors
}

func (e *InputError) Error() string { return "validation: " + e.Fields.Error() }

func (e *InputError) Unwrap() error { return models.ErrValidation }

func check(v any) error {
	if errs := validate.Struct(v); errs != nil {
		return &InputError{Fields: errs}
	}
	return nil
}
