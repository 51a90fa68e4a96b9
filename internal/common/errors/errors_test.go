package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidRequest, CodeOf(NewInvalidRequestError("bad")))
	assert.Equal(t, ErrCodeTransportFailure, CodeOf(NewTransportFailureError(errors.New("refused"))))
	assert.Equal(t, ErrCodeProviderError, CodeOf(NewProviderError("status 500")))
	assert.Equal(t, ErrCodeInvalidResponse, CodeOf(NewInvalidResponseError("not json")))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
}

func TestCodeOf_UnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("calling provider: %w", NewProviderError("boom"))

	assert.Equal(t, ErrCodeProviderError, CodeOf(wrapped))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(NewInvalidRequestError("bad")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(NewTransportFailureError(errors.New("refused"))))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(NewProviderError("boom")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(NewInvalidResponseError("empty")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestRetryability(t *testing.T) {
	assert.True(t, IsRetryable(NewTransportFailureError(errors.New("timeout"))))
	assert.True(t, IsRetryable(NewProviderError("overloaded")))
	assert.False(t, IsRetryable(NewInvalidRequestError("bad")))
	assert.False(t, IsRetryable(NewInvalidResponseError("garbage")))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestErrorString_ContainsCodeAndMessage(t *testing.T) {
	err := NewInvalidRequestError("prompt must not be empty")

	assert.Contains(t, err.Error(), string(ErrCodeInvalidRequest))
	assert.Contains(t, err.Error(), err.Message)
	assert.Equal(t, "prompt must not be empty", err.Details)
}
