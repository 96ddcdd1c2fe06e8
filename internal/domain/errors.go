// Package domain defines the core business entities and errors
// for the newcomer task suggestion engine.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrTopicIDEmpty is returned when a topic is constructed with an
	// empty identifier. This is a caller programming error.
	ErrTopicIDEmpty = errors.New("topic ID cannot be empty")

	// ErrTopicIDInvalid is returned when a catalog topic identifier
	// contains reserved characters.
	ErrTopicIDInvalid = errors.New("topic ID contains reserved characters")

	// ErrTagEmpty is returned when a tag-based topic carries no tags.
	ErrTagEmpty = errors.New("topic must carry at least one tag")

	// ErrTaskTypeIDEmpty is returned when a task type has no identifier.
	ErrTaskTypeIDEmpty = errors.New("task type ID cannot be empty")

	// ErrTaskItemEmpty is returned when a task references no content item.
	ErrTaskItemEmpty = errors.New("task content item cannot be empty")

	// ErrInvalidOffset is returned when a task set is built with a
	// negative offset.
	ErrInvalidOffset = errors.New("offset cannot be negative")

	// ErrInvalidItemRef is returned when an excluded-item reference fails
	// boundary validation.
	ErrInvalidItemRef = errors.New("invalid content item reference")
)

// ValidationError wraps a field-level validation failure with the name of
// the offending field, so callers can report which input was rejected.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return "validation failed for " + e.Field + ": " + e.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
