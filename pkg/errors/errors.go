// Package errors provides structured error types for aeda.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages naming the offending series, package or path
//
// # Error Codes
//
// Generation errors map one-to-one onto the failure kinds of the pipeline:
//   - UNSUPPORTED_SERIES: E-series cardinality with no tolerance/value table
//   - UNKNOWN_PACKAGE: package code absent from the geometry/power table
//   - IO_FAILURE: a file could not be created or written
//   - MALFORMED_DESCRIPTOR: a JSON library descriptor failed validation
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownPackage, "unknown package: %s", code)
//	if errors.Is(err, errors.ErrCodeUnknownPackage) {
//	    // Handle lookup error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Generation errors
	ErrCodeUnsupportedSeries   Code = "UNSUPPORTED_SERIES"
	ErrCodeUnknownPackage      Code = "UNKNOWN_PACKAGE"
	ErrCodeIO                  Code = "IO_FAILURE"
	ErrCodeMalformedDescriptor Code = "MALFORMED_DESCRIPTOR"

	// Input validation errors
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeUnknownManufacturer Code = "UNKNOWN_MANUFACTURER"
	ErrCodeInvalidFormat       Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle        Code = "INVALID_STYLE"
	ErrCodeInvalidPath         Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeLibraryNotFound Code = "LIBRARY_NOT_FOUND"

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
// It unwraps the error chain (including errors.Join trees) looking for an
// *Error with a matching code.
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

// FileError records a failed write of a single output file.
type FileError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error { return e.Err }
