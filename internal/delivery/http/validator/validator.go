// Package validator adapts the shared validation rules to echo's Validator interface.
package validator

import (
	"leadhub/internal/validation"
)

// EchoValidator implements echo.Validator.
type EchoValidator struct{}

// New returns the echo validator.
func New() *EchoValidator {
	return &EchoValidator{}
}

// Validate validates i against its struct tags.
func (v *EchoValidator) Validate(i any) error {
	return validation.Struct(i)
}
