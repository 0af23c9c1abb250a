package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidQuality is returned when a recall quality is outside 0-5.
	ErrInvalidQuality = errors.New("quality must be between 0 and 5")

	// ErrInvalidSessionType is returned for an unknown review session type.
	ErrInvalidSessionType = errors.New("invalid session type")

	// ErrInvalidEaseFactor is returned when an ease factor is below the floor.
	ErrInvalidEaseFactor = errors.New("ease factor below minimum")

	// ErrInvalidInterval is returned when a completed session carries an interval below one day.
	ErrInvalidInterval = errors.New("interval must be at least 1 day")

	// ErrSessionCompleted is returned when completing a session that is already completed.
	ErrSessionCompleted = errors.New("review session already completed")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}
