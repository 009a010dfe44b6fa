// Package errors provides a lightweight structured error type (ProvisionError)
// for category-based classification of provisioning failures in the CLI.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a provisioning error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Local workspace errors
	CategoryFileSystem ErrorCategory = "filesystem"

	// External tool errors
	CategoryPerforce ErrorCategory = "perforce"
	CategoryBridge   ErrorCategory = "bridge"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal ErrorSeverity = "fatal" // Stops execution
)

// ProvisionError is a structured error with category, severity and context
type ProvisionError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for ProvisionError
type ContextFields map[string]any

// Error implements the error interface
func (e *ProvisionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *ProvisionError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *ProvisionError) WithContext(key string, value any) *ProvisionError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new ProvisionError
func New(category ErrorCategory, severity ErrorSeverity, message string) *ProvisionError {
	return &ProvisionError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new ProvisionError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *ProvisionError {
	return &ProvisionError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As returns the outermost ProvisionError in err's chain.
func As(err error) (*ProvisionError, bool) {
	var pe *ProvisionError
	if stdErrors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsCategory checks if an error (or anything it wraps) belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if pe, ok := As(err); ok {
		return pe.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a ProvisionError
func GetCategory(err error) ErrorCategory {
	if pe, ok := As(err); ok {
		return pe.Category
	}
	return CategoryInternal
}
