package validation

import (
	"testing"

	domainerrors "leadhub/internal/domain/errors"
	"leadhub/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"omitempty,email"`
	Mobile string `json:"mobileNumber" validate:"required,mobile"`
}

func TestMobileRule(t *testing.T) {
	valid := []string{"9876543210", "+919876543210", "123456789012345"}
	invalid := []string{"", "987654321", "+91 98765 43210", "98765-43210", "1234567890123456", "abcdefghij"}

	for _, m := range valid {
		assert.NoError(t, Struct(sample{Name: "a", Mobile: m}), m)
	}
	for _, m := range invalid {
		assert.Error(t, Struct(sample{Name: "a", Mobile: m}), m)
	}
}

func TestStruct_DetailsUseJSONNames(t *testing.T) {
	err := Struct(sample{Email: "not-an-email", Mobile: "1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Details(), "name: is required")
	assert.Contains(t, appErr.Details(), "email: must be a valid email address")
	assert.Contains(t, appErr.Details(), "mobileNumber: must be 10-15 digits")
}

func TestFail(t *testing.T) {
	err := Fail("status: unknown value")
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}
