package repository

import (
	"context"

	"leadhub/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionRepository stores server-side session bindings.
// Implementations exist for postgres and redis.
type SessionRepository interface {
	// Create persists a new session.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID returns an unexpired session or an error matching domainerrors.ErrNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByUserID removes every session of a user, e.g. after deactivation or a password reset.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
