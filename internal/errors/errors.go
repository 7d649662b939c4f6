package errors

import (
	stderrors "errors"
	"fmt"
)

// SymError is the structured error type for symscope.
// It provides rich context for error handling, logging, and user presentation.
type SymError struct {
	// Code is the unique error code (e.g., "ERR_201_INDEX_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *SymError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SymError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with SymError.
func (e *SymError) Is(target error) bool {
	if t, ok := target.(*SymError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *SymError) WithDetail(key, value string) *SymError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *SymError) WithSuggestion(suggestion string) *SymError {
	e.Suggestion = suggestion
	return e
}

// New creates a new SymError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *SymError {
	return &SymError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a SymError from an existing error.
// The error's message becomes the SymError message.
func Wrap(code string, err error) *SymError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *SymError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *SymError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *SymError {
	return New(ErrCodeInternal, message, cause)
}

// AllSubQueriesFailed aggregates the per-sub-query causes into one error.
// It is returned only when every sub-query search of a decomposed request
// errored; a partial failure never surfaces as an error.
func AllSubQueriesFailed(causes []error) *SymError {
	return New(ErrCodeAllSubQueriesFail,
		fmt.Sprintf("all %d sub-query searches failed", len(causes)),
		stderrors.Join(causes...))
}

// GetCode extracts the error code from an error.
// Returns ErrCodeInternal for non-SymError errors.
func GetCode(err error) string {
	var se *SymError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}
