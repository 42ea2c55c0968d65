package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies a caplaunch failure.
type ErrorCode string

const (
	ErrConfiguration ErrorCode = "CONFIGURATION" // missing token or space id
	ErrRateLimited   ErrorCode = "RATE_LIMITED"  // metadata fetch denied; soft degradation
	ErrTransport     ErrorCode = "TRANSPORT"     // network or decode failure at the gateway
	ErrValidation    ErrorCode = "VALIDATION"    // malformed input caught before any network call
)

// Error is a structured error with a code and optional details.
// Every failure path in caplaunch terminates in one of these; nothing
// crosses back to the launcher runtime uncaught.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewConfiguration creates an error for a missing credential or setting.
// The message points the user at the config command.
func NewConfiguration(what string) *Error {
	return &Error{
		Code:    ErrConfiguration,
		Message: fmt.Sprintf("%s not found. Run 'caplaunch config' to see configuration instructions.", what),
		Details: map[string]any{"missing": what},
	}
}

// NewRateLimited creates an error for a denied metadata request.
// Callers degrade gracefully; this never surfaces as a user-facing failure.
func NewRateLimited(spaceID string) *Error {
	return &Error{
		Code:    ErrRateLimited,
		Message: fmt.Sprintf("rate limit exceeded for space-info requests (space %s)", spaceID),
		Details: map[string]any{"space_id": spaceID},
	}
}

// NewTransport creates an error for a failed API call. Status is 0 when the
// request never produced a response (connection error, encode failure).
func NewTransport(status int, err error) *Error {
	statusText := "connection error"
	if status > 0 {
		statusText = fmt.Sprintf("%d", status)
	}
	msg := "request failed"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrTransport,
		Message: fmt.Sprintf("API request failed: %s (Status: %s)", msg, statusText),
		Details: map[string]any{"status": status},
	}
}

// NewValidation creates an error for malformed user input, with corrective guidance.
func NewValidation(msg string) *Error {
	return &Error{
		Code:    ErrValidation,
		Message: msg,
	}
}

// Is reports whether err is (or wraps) an Error with the given code.
func Is(err error, code ErrorCode) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}
