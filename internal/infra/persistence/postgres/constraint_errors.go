package postgres

import (
	"strings"

	domainerrors "leadhub/internal/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// Unique index names declared on the models.
const (
	constraintUsername = "idx_users_username"
	constraintEmail    = "idx_users_email"
)

func pgErrorCode(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}

	return nil, false
}

// Helper functions for PostgreSQL error checking
func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	pgErr, ok := pgErrorCode(err)

	return ok && pgErr.Code == pgUniqueViolation
}

func isForeignKeyConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	pgErr, ok := pgErrorCode(err)

	return ok && pgErr.Code == pgForeignKeyViolation
}

func isNotNullConstraintViolation(err error) bool {
	if pgErr, ok := pgErrorCode(err); ok {
		return pgErr.Code == pgNotNullViolation
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "23502") // PostgreSQL not_null_violation error code
}

func isCheckConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	pgErr, ok := pgErrorCode(err)

	return ok && pgErr.Code == pgCheckViolation
}

// duplicateUserError maps a unique violation on users to the matching domain error.
// Without a constraint name the message is inspected; username wins ties, as in registration.
func duplicateUserError(err error) error {
	if pgErr, ok := pgErrorCode(err); ok {
		switch pgErr.ConstraintName {
		case constraintUsername:
			return domainerrors.ErrDuplicateUsername
		case constraintEmail:
			return domainerrors.ErrDuplicateEmail
		}
	}

	if strings.Contains(strings.ToLower(err.Error()), "email") {
		return domainerrors.ErrDuplicateEmail
	}

	return domainerrors.ErrDuplicateUsername
}

// translateWriteError converts constraint failures on non-user tables into domain errors.
func translateWriteError(err error, what string) error {
	switch {
	case isForeignKeyConstraintViolation(err):
		return domainerrors.ErrNotFound.WithDetails(what + " references a missing record")
	case isNotNullConstraintViolation(err), isCheckConstraintViolation(err):
		return domainerrors.ErrValidationFailed.WithDetails(what + " is missing required information")
	case isUniqueConstraintViolation(err):
		return domainerrors.NewDatabaseExecuteError(err, what+" already exists")
	}

	return domainerrors.NewDatabaseExecuteError(err, "failed to write "+what)
}

// notFoundOr maps gorm.ErrRecordNotFound to ErrNotFound and wraps anything else.
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerrors.ErrNotFound.WithDetails(what + " not found")
	}

	return domainerrors.NewDatabaseExecuteError(err, "failed to load "+what)
}
