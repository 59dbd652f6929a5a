package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidationFailed  = errors.New("employee: validation failed")
	ErrDuplicateID       = errors.New("employee: id already exists")
	ErrNotFound          = errors.New("employee: not found")
	ErrCancelled         = errors.New("employee: operation cancelled")
	ErrNoChanges         = errors.New("employee: no changes")
	ErrPersistenceFailed = errors.New("employee: persistence failed")
	ErrIOFailure         = errors.New("employee: io failure")
	ErrParseFailure      = errors.New("employee: parse failure")
	ErrDeliveryFailure   = errors.New("employee: notification delivery failed")
)

// ValidationError reports why a single field was rejected.
type ValidationError struct {
	Field  Field
	Reason string
}

func NewValidationError(field Field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is makes every ValidationError match ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// IsRetryable reports whether repeating the same call may succeed.
// Only persistence failures are transient; everything else needs new input.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPersistenceFailed)
}
