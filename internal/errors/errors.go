// Package errors is the error toolkit shared by handlers, middleware and adapters:
// stdlib matching plus pkg/errors stack traces. Domain error values live in
// internal/domain/errors; this package only wraps and inspects them.
package errors

import (
	stderrors "errors"

	pkgerrors "github.com/pkg/errors"
)

// New returns an error that formats as the given text.
func New(text string) error {
	return stderrors.New(text)
}

// Is reports whether any error in err's tree matches target. Domain errors
// match by business code, so a copy carrying details still matches its sentinel.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// AsType is a generic version of As, used to pull an AppError or a driver error out of a chain.
func AsType[T error](err error) (T, bool) {
	var target T
	ok := stderrors.As(err, &target)

	return target, ok
}

// Wrap returns an error annotating err with a stack trace and the supplied message.
func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

// Wrapf returns an error annotating err with a stack trace and the format specifier.
func Wrapf(err error, format string, args ...any) error {
	return pkgerrors.Wrapf(err, format, args...)
}

// WithStack annotates err with a stack trace at the point WithStack was called.
// Handlers use it when returning use case errors to echo's error handler.
func WithStack(err error) error {
	return pkgerrors.WithStack(err)
}
