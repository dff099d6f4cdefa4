package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. All lifecycle and search failures wrap one
// of these sentinels so callers can branch with errors.Is.
var (
	// ErrValidation: malformed input — unknown enum value, bad coordinate
	// shape, missing required field.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound: referenced user or request does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden: actor lacks permission for the requested mutation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState: requested transition is not legal from the current
	// request status.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidInput: missing required geo parameters for donor search.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict: a conditional update matched zero rows because the status
	// changed underneath; the caller retries against fresh state.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrStorage: persistence-layer failure (connectivity, timeout). Not
	// retried inside the core.
	ErrStorage = errors.New("storage failure")
)

// Validationf builds an ErrValidation with detail.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// StorageErr wraps a driver error as ErrStorage. Nil passes through.
func StorageErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
