// Package errors provides structured error types for kale.
//
// Errors carry a machine-readable [Code] so that hosts (the CLI, the HTTP
// server, the terminal editor) can decide how to surface a failure without
// parsing messages. The core packages use three categories:
//   - NOT_FOUND: an identity or stored function is absent
//   - INVARIANT_VIOLATION: an operation would break a tree invariant; this is
//     a defect and is raised through [Assert] rather than returned
//   - MEASURE_FAILED: the text-measurement collaborator failed during layout
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "node %d not found", id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle missing node
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMeasureFailed, origErr, "measure %q", text)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidTheme  Code = "INVALID_THEME"
	ErrCodeInvalidName   Code = "INVALID_NAME"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeFunctionNotFound Code = "FUNCTION_NOT_FOUND"

	// Tree invariants
	ErrCodeInvariantViolation Code = "INVARIANT_VIOLATION"

	// Collaborator failures
	ErrCodeMeasureFailed Code = "MEASURE_FAILED"
	ErrCodeStoreFailed   Code = "STORE_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Assert panics with an INVARIANT_VIOLATION error when cond is false.
// Invariant violations are defects, never user-recoverable, so they are not
// returned through the error channel.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(New(ErrCodeInvariantViolation, format, args...))
	}
}

// Recover converts a panic raised by [Assert] back into an error. Any other
// panic value is re-raised. It must be called directly from a deferred
// function:
//
//	defer errors.Recover(&err)
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(*Error); ok && e.Code == ErrCodeInvariantViolation {
		*errp = e
		return
	}
	panic(r)
}
