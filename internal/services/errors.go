package services

import (
	"errors"
	"fmt"
)

// NotFoundError represents a referenced record that does not exist where
// the operation requires it to.
type NotFoundError struct {
	Resource string `json:"resource"`
	ID       string `json:"id"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFoundError creates a new not-found error
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNotFoundError checks if an error is a NotFoundError
func IsNotFoundError(err error) (*NotFoundError, bool) {
	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return notFoundErr, true
	}
	return nil, false
}

// ValidationError represents malformed input: bad date ordering, unknown
// status code, non-positive extension.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}

// PreconditionError represents an operation that is not legal from the
// account's current state.
type PreconditionError struct {
	Operation string `json:"operation"`
	Message   string `json:"message"`
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

// NewPreconditionError creates a new precondition error
func NewPreconditionError(operation, message string) *PreconditionError {
	return &PreconditionError{Operation: operation, Message: message}
}

// IsPreconditionError checks if an error is a PreconditionError
func IsPreconditionError(err error) (*PreconditionError, bool) {
	var preconditionErr *PreconditionError
	if errors.As(err, &preconditionErr) {
		return preconditionErr, true
	}
	return nil, false
}
