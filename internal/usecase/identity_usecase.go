// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
//
// Every operation takes the caller explicitly; nothing reads ambient request state.
package usecase

import (
	"context"

	"leadhub/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username     string      `json:"username" validate:"required,min=3,max=100"`
	Email        string      `json:"email" validate:"required,email,max=255"`
	Password     string      `json:"password" validate:"required,min=6,max=72"`
	FullName     string      `json:"fullName" validate:"required,max=255"`
	MobileNumber string      `json:"mobileNumber" validate:"required,mobile"`
	City         *string     `json:"city" validate:"omitempty,max=100"`
	Role         entity.Role `json:"role" validate:"omitempty,oneof=user dsa admin"`
}

// LoginInput defines the data required for a user to log in.
// Username accepts either the username or the email address.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordInput carries the replacement password.
type ResetPasswordInput struct {
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// AdminSeed describes the administrator created at startup.
type AdminSeed struct {
	Username     string `validate:"required,min=3,max=100"`
	Email        string `validate:"required,email,max=255"`
	Password     string `validate:"required,min=6,max=72"`
	FullName     string `validate:"required,max=255"`
	MobileNumber string `validate:"required,mobile"`
	City         *string
}

// --- Output DTOs ---

// SessionOutput is returned after a session has been established.
type SessionOutput struct {
	Token   string
	Session *entity.Session
	User    *entity.User
}

// IdentityUsecase covers registration, credentials and sessions.
type IdentityUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*entity.User, error)
	Authenticate(ctx context.Context, login, password string) (*entity.User, error)
	EstablishSession(ctx context.Context, user *entity.User) (*SessionOutput, error)

	// Login authenticates and establishes a session in one step.
	Login(ctx context.Context, input LoginInput) (*SessionOutput, error)

	// ResolveSession turns a session token into a caller. Unknown, expired or
	// ended sessions fail with ErrUnauthenticated.
	ResolveSession(ctx context.Context, token string) (entity.Caller, error)

	// EndSession invalidates the caller's session. Anonymous callers are a no-op.
	EndSession(ctx context.Context, caller entity.Caller) error

	CurrentUser(ctx context.Context, caller entity.Caller) (*entity.User, error)
	ResetPassword(ctx context.Context, caller entity.Caller, userID uuid.UUID, input ResetPasswordInput) error

	// EnsureAdmin creates the seeded administrator when no user with that
	// username exists. It reports whether a user was created.
	EnsureAdmin(ctx context.Context, seed AdminSeed) (bool, error)
}
