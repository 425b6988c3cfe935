package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is returned when a required credential or setting is missing.
	ErrConfig = errors.New("configuration error")
	// ErrRetrieval is returned when a document, store or provider is unreachable
	// or answers with a non-success status.
	ErrRetrieval = errors.New("retrieval error")
	// ErrParse is returned when a provider response has an unexpected shape.
	ErrParse = errors.New("parse error")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// MissingConfig returns an ErrConfig naming the missing key.
func MissingConfig(key string) error {
	return fmt.Errorf("%w: %s is not set", ErrConfig, key)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
