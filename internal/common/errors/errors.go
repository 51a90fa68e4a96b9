// Package errors provides standardized error handling for the generation pipeline.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeInvalidRequest covers missing or malformed caller input,
	// detected before any network call is attempted.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	// ErrCodeTransportFailure covers network-level faults reaching the
	// completion provider.
	ErrCodeTransportFailure ErrorCode = "TRANSPORT_FAILURE"

	// ErrCodeProviderError covers structured failures reported by the
	// completion provider (error object or non-success status).
	ErrCodeProviderError ErrorCode = "PROVIDER_ERROR"

	// ErrCodeInvalidResponse covers provider bodies that cannot be parsed.
	ErrCodeInvalidResponse ErrorCode = "INVALID_RESPONSE"

	// ErrCodeScopeRefused marks an out-of-scope request. This is a valid
	// terminal outcome rather than a failure; it only appears as an error
	// code so the HTTP layer can classify it uniformly.
	ErrCodeScopeRefused ErrorCode = "SCOPE_REFUSED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewInvalidRequestError creates a non-retryable caller-input error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid or incomplete generation request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportFailureError creates a retryable network-level error.
func NewTransportFailureError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportFailure,
		Message:   "Network failure reaching completion provider",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderError creates a retryable upstream-reported error.
func NewProviderError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderError,
		Message:   "Completion provider reported a failure",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidResponseError creates a non-retryable malformed-body error.
func NewInvalidResponseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidResponse,
		Message:   "Completion provider returned an unparsable body",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf extracts the ErrorCode from err, or empty string for plain errors.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsRetryable reports whether a higher layer may reasonably retry.
func IsRetryable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// HTTPStatus maps an error to the status code the boundary layer returns.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeTransportFailure:
		return http.StatusBadGateway
	case ErrCodeProviderError:
		return http.StatusBadGateway
	case ErrCodeInvalidResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
