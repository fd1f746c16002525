package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApplicationStatus is the review state of a loan application.
type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationUnderReview ApplicationStatus = "under-review"
	ApplicationApproved    ApplicationStatus = "approved"
	ApplicationRejected    ApplicationStatus = "rejected"
)

// IsValid checks if the ApplicationStatus is a known value.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationPending, ApplicationUnderReview, ApplicationApproved, ApplicationRejected:
		return true
	default:
		return false
	}
}

// DefaultInterestRate is the rate assigned to new applications.
var DefaultInterestRate = decimal.RequireFromString("7.5")

// LoanApplication is a structured loan request. UserID is nil only for records
// imported without an owner; the public direct path produces a Lead instead.
type LoanApplication struct {
	ID             uuid.UUID
	UserID         *uuid.UUID
	LoanType       string
	Amount         *decimal.Decimal
	Tenure         *int // months
	MonthlyIncome  *decimal.Decimal
	EmploymentType *string
	Purpose        *string
	Documents      []string // references to uploaded files
	InterestRate   decimal.Decimal
	Status         ApplicationStatus
	AssignedDsaID  *uuid.UUID
	Remarks        *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OwnedBy reports whether the application belongs to the given user.
func (a *LoanApplication) OwnedBy(userID uuid.UUID) bool {
	return a.UserID != nil && *a.UserID == userID
}

// AssignedTo reports whether the application is assigned to the given DSA user.
func (a *LoanApplication) AssignedTo(dsaID uuid.UUID) bool {
	return a.AssignedDsaID != nil && *a.AssignedDsaID == dsaID
}
