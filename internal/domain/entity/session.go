package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session binds an opaque identifier to a user and role until it expires or is ended.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Role      Role
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session is no longer usable at the given time.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Caller returns the identity bound to the session.
func (s *Session) Caller() Caller {
	return Caller{UserID: s.UserID, Role: s.Role, SessionID: s.ID}
}
