// Package domainerrors defines the coded error taxonomy shared by all
// services. Stores return sentinel errors; services wrap them into coded
// errors; the HTTP layer translates codes into status lines and JSON
// envelopes without leaking internal detail.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error category with a stable wire representation.
type Code string

const (
	CodeBadRequest      Code = "bad_request"
	CodeNotFound        Code = "not_found"
	CodeUnauthenticated Code = "unauthenticated"
	CodeForbidden       Code = "forbidden"
	CodeRateLimited     Code = "rate_limited"
	CodeQuotaExceeded   Code = "quota_exceeded"
	CodeInternal        Code = "internal_error"
)

// Error is a coded domain error. Message is safe to return to callers for
// 4xx codes; for CodeInternal only the code itself is surfaced.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded error without an underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and caller-safe message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal so that
// unclassified failures are never surfaced as client errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-safe message from err, empty for
// unclassified errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// ToHTTPStatus maps a code to its HTTP status. Invalid or disabled API keys
// answer 403, matching the upstream gateway behavior this service replaces.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthenticated, CodeForbidden:
		return http.StatusForbidden
	case CodeRateLimited, CodeQuotaExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
