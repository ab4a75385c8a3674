// Package errors provides structured error types for crateinfo.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP server
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input and configuration validation failures
//   - *_NOT_FOUND: Resource not found
//   - NETWORK_ERROR, REGISTRY_ERROR, BAD_RESPONSE: failures talking to crates.io
//   - INTERNAL_ERROR, CANCELED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "timeout must be positive")
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle validation error
//	}
//
//	// Map a crate query failure onto a code and an HTTP status
//	code := errors.Classify(err)
//	status := errors.HTTPStatus(code)
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/crateinfo/pkg/integrations"
	"github.com/matzehuels/crateinfo/pkg/integrations/crates"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"

	// Resource not found errors
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Registry errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeRegistry    Code = "REGISTRY_ERROR"
	ErrCodeBadResponse Code = "BAD_RESPONSE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
	ErrCodeCanceled Code = "CANCELED"
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

// Classify maps an error onto a Code.
//
// Structured errors keep their own code. Crate query failures are mapped by
// kind: an [*crates.APIError] is a registry error, a [*crates.TransportError]
// is a network error when the request never completed and a bad response
// otherwise. Cancellation wins over every other classification. A nil error
// yields the empty code.
func Classify(err error) Code {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return ErrCodeCanceled
	}
	if code := GetCode(err); code != "" {
		return code
	}

	var apiErr *crates.APIError
	if errors.As(err, &apiErr) {
		return ErrCodeRegistry
	}
	var transportErr *crates.TransportError
	if errors.As(err, &transportErr) {
		if errors.Is(err, integrations.ErrNetwork) {
			return ErrCodeNetwork
		}
		return ErrCodeBadResponse
	}
	if errors.Is(err, integrations.ErrNetwork) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeNetwork
	}
	return ErrCodeInternal
}

// HTTPStatus returns the HTTP status code the server answers with for code.
func HTTPStatus(code Code) int {
	switch code {
	case "":
		return http.StatusOK
	case ErrCodeInvalidInput, ErrCodeInvalidManifest:
		return http.StatusBadRequest
	case ErrCodePackageNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeRegistry, ErrCodeBadResponse:
		return http.StatusBadGateway
	case ErrCodeNetwork:
		return http.StatusServiceUnavailable
	case ErrCodeCanceled:
		// nginx's "client closed request"
		return 499
	default:
		return http.StatusInternalServerError
	}
}
