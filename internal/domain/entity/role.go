// Package entity contains the core business objects of the project.
package entity

import "github.com/google/uuid"

// Role represents the type of role a user can have in the system.
type Role string

const (
	// RoleAdmin manages every record and assigns leads.
	RoleAdmin Role = "admin"
	// RoleDsa indicates a Direct Sales Agent partner.
	RoleDsa Role = "dsa"
	// RoleUser indicates a regular customer.
	RoleUser Role = "user"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDsa, RoleUser:
		return true
	default:
		return false
	}
}

// Caller identifies who is invoking an operation. The zero value is the anonymous caller.
type Caller struct {
	UserID uuid.UUID
	Role   Role
	// SessionID is set when the identity was resolved from a session.
	SessionID uuid.UUID
}

// AnonymousCaller returns a caller without identity.
func AnonymousCaller() Caller {
	return Caller{}
}

// NewCaller returns an authenticated caller.
func NewCaller(userID uuid.UUID, role Role) Caller {
	return Caller{UserID: userID, Role: role}
}

// IsAnonymous reports whether the caller carries no session.
func (c Caller) IsAnonymous() bool {
	return c.UserID == uuid.Nil || !c.Role.IsValid()
}
