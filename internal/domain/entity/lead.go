package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeadStatus is the pipeline stage of a lead.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadConverted LeadStatus = "converted"
	LeadClosed    LeadStatus = "closed"
)

// IsValid checks if the LeadStatus is a known value.
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadConverted, LeadClosed:
		return true
	default:
		return false
	}
}

// Well-known lead sources. Source is free-form; these are the values the service writes itself.
const (
	LeadSourceWebsite           = "website"
	LeadSourceApplication       = "application"
	LeadSourceDirectApplication = "direct_application"
)

// Lead is a prospective customer contact, independent of any loan application.
type Lead struct {
	ID            uuid.UUID
	Name          string
	MobileNumber  string
	Email         *string
	LoanType      string
	Amount        *decimal.Decimal
	City          *string
	Source        string
	Status        LeadStatus
	AssignedDsaID *uuid.UUID
	AssignedAt    *time.Time
	ConvertedAt   *time.Time
	Remarks       *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AssignedTo reports whether the lead is assigned to the given DSA user.
func (l *Lead) AssignedTo(dsaID uuid.UUID) bool {
	return l.AssignedDsaID != nil && *l.AssignedDsaID == dsaID
}

// SetStatus applies a status change. The first transition to converted stamps
// ConvertedAt; later writes never move it.
func (l *Lead) SetStatus(status LeadStatus, now time.Time) {
	l.Status = status
	if status == LeadConverted && l.ConvertedAt == nil {
		l.ConvertedAt = &now
	}
}

// Assign points the lead at a DSA. AssignedAt is stamped only when the assignee changes.
// It reports whether anything changed.
func (l *Lead) Assign(dsaID uuid.UUID, now time.Time) bool {
	if l.AssignedTo(dsaID) {
		return false
	}
	l.AssignedDsaID = &dsaID
	l.AssignedAt = &now

	return true
}

// NormalizeMobile strips the formatting characters people commonly type into
// phone numbers: spaces, dashes, dots and parentheses.
func NormalizeMobile(mobile string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')', '\t':
			return -1
		}

		return r
	}, mobile)
}
