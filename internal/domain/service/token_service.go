package service

import (
	"time"

	"leadhub/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionClaims is the verified content of a session token.
type SessionClaims struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
	Role      entity.Role
	ExpiresAt time.Time
}

// TokenService defines the interface for generating and validating session tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// Issue signs a token bound to the given session.
	Issue(session *entity.Session) (string, error)

	// Parse verifies a token and returns its claims. Invalid or expired tokens
	// return an error matching domainerrors.ErrUnauthenticated.
	Parse(token string) (*SessionClaims, error)
}
