package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure raised by the workflow core or the engine client.
type ErrorCode string

const (
	// ErrConfig marks invalid constructor, option, or descriptor arguments.
	ErrConfig ErrorCode = "CONFIG"
	// ErrDuplicateName marks a task name collision on attachment.
	ErrDuplicateName ErrorCode = "DUPLICATE_NAME"
	// ErrUnresolvedDependency marks an edge referencing a task that is not attached yet.
	ErrUnresolvedDependency ErrorCode = "UNRESOLVED_DEPENDENCY"
	// ErrNotFound marks a missing workflow document.
	ErrNotFound ErrorCode = "NOT_FOUND"
	// ErrFormat marks a document that cannot be parsed.
	ErrFormat ErrorCode = "FORMAT"
	// ErrMissingField marks a document without the required top-level name.
	ErrMissingField ErrorCode = "MISSING_FIELD"
)

// Error is a structured error with code, message, and an optional cause.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates a new Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}

// IsCode reports whether err or any error in its chain carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
