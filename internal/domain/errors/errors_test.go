package errors

import (
	"net/http"
	"testing"

	"leadhub/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestBaseError_IsMatchesByCode(t *testing.T) {
	detailed := ErrNotFound.WithDetails("lead 42")

	assert.True(t, errors.Is(detailed, ErrNotFound))
	assert.True(t, errors.Is(errors.Wrap(detailed, "repo"), ErrNotFound))
	assert.False(t, errors.Is(detailed, ErrForbidden))
	assert.Equal(t, "Resource not found: lead 42", detailed.Error())
	assert.Equal(t, "lead 42", detailed.Details())
	assert.Empty(t, ErrNotFound.Details())
}

func TestBaseError_WrapMessage(t *testing.T) {
	err := ErrDuplicateEmail.WrapMessage("register")

	var appErr AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.HTTPCode())
	assert.Equal(t, "DUPLICATE_EMAIL", appErr.ErrorCode())
}

func TestDatabaseExecuteError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewDatabaseExecuteError(cause, "insert lead")

	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", err.ErrorCode())
	assert.Contains(t, err.Error(), "connection reset")
	assert.True(t, errors.Is(err, cause))
}
