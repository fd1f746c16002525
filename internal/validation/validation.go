// Package validation checks inputs against struct tags using go-playground/validator
// and turns failures into ErrValidationFailed with readable details.
package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	domainerrors "leadhub/internal/domain/errors"
	"leadhub/internal/errors"

	"github.com/go-playground/validator/v10"
)

// mobilePattern accepts digits with an optional leading + country code, 10 to 15 characters.
var mobilePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator with the custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		if err := v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
			return mobilePattern.MatchString(fl.Field().String())
		}); err != nil {
			panic(err)
		}
		instance = v
	})

	return instance
}

// Struct validates s and returns an error matching ErrValidationFailed on failure.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return domainerrors.ErrValidationFailed.WithDetails(Describe(fieldErrs))
}

// Fail returns a validation error carrying details.
func Fail(details string) error {
	return domainerrors.ErrValidationFailed.WithDetails(details)
}

// Describe renders field errors as "field: reason" pairs separated by semicolons.
func Describe(fieldErrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fe.Field()+": "+reason(fe))
	}

	return strings.Join(parts, "; ")
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "mobile":
		return "must be 10-15 digits with an optional leading +"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}
