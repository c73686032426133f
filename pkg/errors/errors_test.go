package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := NewConflictError("meeting already exists")
	assert.Equal(t, "CONFLICT: meeting already exists", err.Error())

	wrapped := WrapError(errors.New("dial tcp: refused"), ErrCodeInternal, "backend unavailable", http.StatusInternalServerError)
	assert.Contains(t, wrapped.Error(), "caused by: dial tcp: refused")
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapError(cause, ErrCodeInternal, "wrapped", http.StatusInternalServerError)
	assert.ErrorIs(t, err, cause)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewNotFoundError("meeting").WithContext("code", "AB12CD")
	assert.Equal(t, "AB12CD", err.Context["code"])
}

func TestGetAppError(t *testing.T) {
	appErr := NewInvalidInputError("bad code")

	assert.Same(t, appErr, GetAppError(appErr))
	assert.Same(t, appErr, GetAppError(fmt.Errorf("handler: %w", appErr)))
	assert.Nil(t, GetAppError(errors.New("plain")))
	assert.Nil(t, GetAppError(nil))
}

func TestConstructorStatuses(t *testing.T) {
	tests := []struct {
		err    *AppError
		code   ErrorCode
		status int
	}{
		{NewInvalidInputError("x"), ErrCodeInvalidInput, http.StatusBadRequest},
		{NewNotFoundError("x"), ErrCodeNotFound, http.StatusNotFound},
		{NewUnauthorizedError("x"), ErrCodeUnauthorized, http.StatusUnauthorized},
		{NewConflictError("x"), ErrCodeConflict, http.StatusConflict},
		{NewRateLimitError(), ErrCodeRateLimit, http.StatusTooManyRequests},
		{NewInternalError("x"), ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		require.Equal(t, tt.code, tt.err.Code)
		require.Equal(t, tt.status, tt.err.HTTPStatus)
	}
}
