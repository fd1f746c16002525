// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"

	"leadhub/internal/domain/entity"
	domainerrors "leadhub/internal/domain/errors"
	"leadhub/internal/domain/policy"
	"leadhub/internal/domain/repository"
	"leadhub/internal/domain/service"
	"leadhub/internal/errors"
	"leadhub/internal/usecase"
	"leadhub/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func isNotFound(err error) bool {
	return errors.Is(err, domainerrors.ErrNotFound)
}

// authorize evaluates the access table and returns the denial as an error.
func authorize(caller entity.Caller, op policy.Operation) (policy.Decision, error) {
	decision := policy.Evaluate(caller, op)
	if err := decision.Check(); err != nil {
		return decision, errors.Wrapf(err, "%s denied", op)
	}

	return decision, nil
}

// notVisible reports a record outside the caller's filter exactly like a missing one.
func notVisible(what string) error {
	return domainerrors.ErrNotFound.WithDetails(what + " not found")
}

func requireNonNegative(field string, value *decimal.Decimal) error {
	if value != nil && value.IsNegative() {
		return validation.Fail(field + ": must not be negative")
	}

	return nil
}

// ensureDsaUser resolves id to an existing dsa-role user. Anything else is NotFound.
func ensureDsaUser(ctx context.Context, users repository.UserRepository, id uuid.UUID) error {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return domainerrors.ErrNotFound.WithDetails("dsa user not found")
		}

		return errors.Wrap(err, "failed to load dsa user")
	}
	if user.Role != entity.RoleDsa {
		return domainerrors.ErrNotFound.WithDetails("dsa user not found")
	}

	return nil
}

// createAccount checks username then email for conflicts and inserts the user.
// Unique violations raised by the store at insert time map to the same errors.
func createAccount(ctx context.Context, users repository.UserRepository, input usecase.RegisterInput, role entity.Role, passwordHash string) (*entity.User, error) {
	if _, err := users.FindByUsername(ctx, input.Username); err == nil {
		return nil, domainerrors.ErrDuplicateUsername
	} else if !isNotFound(err) {
		return nil, errors.Wrap(err, "failed to check username")
	}

	if _, err := users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domainerrors.ErrDuplicateEmail
	} else if !isNotFound(err) {
		return nil, errors.Wrap(err, "failed to check email")
	}

	user := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         role,
		FullName:     input.FullName,
		MobileNumber: input.MobileNumber,
		City:         input.City,
		IsActive:     true,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}

	return user, nil
}

func hashPassword(hasher service.PasswordHasher, password string) (string, error) {
	hash, err := hasher.Hash(password)
	if err != nil {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	return hash, nil
}
