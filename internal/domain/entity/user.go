// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account of any role. Users are never hard-deleted; IsActive=false disables them.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Username     string    // Unique login name.
	Email        string    // Unique contact email, also accepted as a login identifier.
	PasswordHash string    // bcrypt hash; the plaintext is never stored.
	Role         Role
	FullName     string
	MobileNumber string
	City         *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Caller returns the identity this user acts under.
func (u *User) Caller() Caller {
	return NewCaller(u.ID, u.Role)
}
