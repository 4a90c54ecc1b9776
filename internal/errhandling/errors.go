// Package errhandling provides error types and classification for the runtime.
// This file defines error categories and constructors used by pipeline modules
// to report configuration and data errors consistently.
package errhandling

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the type/category of an error.
// Categories help determine the appropriate error handling strategy.
type ErrorCategory string

// Error categories for classification.
const (
	// CategoryConfiguration represents invalid module configuration
	// (e.g., a dedup key that resolves to a non-string or empty value).
	// Configuration errors are fatal and surface before any record flows.
	CategoryConfiguration ErrorCategory = "configuration"

	// CategoryKeyExtraction represents a record whose extracted key value is
	// not comparable and therefore cannot participate in set membership.
	// Key extraction errors fail the stream they occur on.
	CategoryKeyExtraction ErrorCategory = "key_extraction"

	// CategoryInputType represents an input element that is not a field
	// mapping. Input type errors fail the stream they occur on.
	CategoryInputType ErrorCategory = "input_type"

	// CategoryIO represents errors reading or writing feed data.
	CategoryIO ErrorCategory = "io"

	// CategoryUnknown represents unclassified errors.
	CategoryUnknown ErrorCategory = "unknown"
)

// ClassifiedError wraps an error with classification metadata.
// It provides category, retryability status, and contextual information.
type ClassifiedError struct {
	// Category is the error classification category.
	Category ErrorCategory

	// Retryable indicates whether the error is transient and can be retried.
	// The filter stages have no transient failure modes, so every category
	// except IO is permanent.
	Retryable bool

	// Message is a human-readable error message.
	Message string

	// OriginalErr is the underlying error, if any.
	OriginalErr error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s error: %s", e.Category, e.Message)
}

// Unwrap returns the original error for use with errors.Is and errors.As.
func (e *ClassifiedError) Unwrap() error {
	return e.OriginalErr
}

// NewConfigurationError creates a configuration error.
func NewConfigurationError(format string, args ...any) *ClassifiedError {
	return &ClassifiedError{
		Category:  CategoryConfiguration,
		Retryable: false,
		Message:   fmt.Sprintf(format, args...),
	}
}

// NewKeyExtractionError creates a key extraction error for a record whose
// key value cannot be used for set membership.
func NewKeyExtractionError(field string, value any) *ClassifiedError {
	return &ClassifiedError{
		Category:  CategoryKeyExtraction,
		Retryable: false,
		Message:   fmt.Sprintf("field %q yields value of type %T, which is not comparable", field, value),
	}
}

// NewInputTypeError creates an input type error for an element that is not
// a field mapping.
func NewInputTypeError(value any) *ClassifiedError {
	return &ClassifiedError{
		Category:  CategoryInputType,
		Retryable: false,
		Message:   fmt.Sprintf("input element is %T, expected an object", value),
	}
}

// NewIOError wraps an I/O error from a feed source or destination.
func NewIOError(err error, context string) *ClassifiedError {
	return &ClassifiedError{
		Category:    CategoryIO,
		Retryable:   true,
		Message:     fmt.Sprintf("%s: %v", context, err),
		OriginalErr: err,
	}
}

// Classify returns the category of an error, or CategoryUnknown if the error
// carries no classification.
func Classify(err error) ErrorCategory {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return CategoryUnknown
}

// IsCategory reports whether err is a ClassifiedError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Category == category
	}
	return false
}
