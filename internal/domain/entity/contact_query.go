package entity

import (
	"time"

	"github.com/google/uuid"
)

// ContactQueryStatus is the inbox state of a contact query.
type ContactQueryStatus string

const (
	ContactQueryNew       ContactQueryStatus = "new"
	ContactQueryResponded ContactQueryStatus = "responded"
	ContactQueryClosed    ContactQueryStatus = "closed"
)

// IsValid checks if the ContactQueryStatus is a known value.
func (s ContactQueryStatus) IsValid() bool {
	switch s {
	case ContactQueryNew, ContactQueryResponded, ContactQueryClosed:
		return true
	default:
		return false
	}
}

// ContactQuery is a message left through the public contact form.
type ContactQuery struct {
	ID           uuid.UUID
	Name         string
	MobileNumber string
	Email        *string
	LoanType     *string
	Message      string
	Status       ContactQueryStatus
	CreatedAt    time.Time
}
