package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")
	ErrValidation      = errors.New("validation error")
	ErrEmptyInput      = errors.New("input text cannot be empty")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidLimit    = errors.New("invalid limit")
)

// ValidationError describes a rejected field. It matches both ErrValidation
// and the specific cause under errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for a single field
func NewValidationError(field string, cause error, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: cause}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}
