package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// KycStatus is the Know-Your-Customer verification state of a DSA partner.
type KycStatus string

const (
	KycPending  KycStatus = "pending"
	KycVerified KycStatus = "verified"
	KycRejected KycStatus = "rejected"
)

// IsValid checks if the KycStatus is a known value.
func (s KycStatus) IsValid() bool {
	switch s {
	case KycPending, KycVerified, KycRejected:
		return true
	default:
		return false
	}
}

// Partner defaults applied at registration.
var (
	DefaultCommissionRate = decimal.RequireFromString("2.0")
)

// DsaPartner is the partner profile owned by exactly one dsa-role User.
type DsaPartner struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Experience      *string
	Background      *string
	ProfilePicture  *string // URL
	CommissionRate  decimal.Decimal
	TotalEarnings   decimal.Decimal
	TotalLeads      int
	SuccessfulLeads int
	KycStatus       KycStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewDsaPartner builds a partner profile with registration defaults.
func NewDsaPartner(userID uuid.UUID, experience, background *string) *DsaPartner {
	return &DsaPartner{
		UserID:         userID,
		Experience:     experience,
		Background:     background,
		CommissionRate: DefaultCommissionRate,
		TotalEarnings:  decimal.Zero,
		KycStatus:      KycPending,
	}
}

// DsaPartnerDetail is a partner joined with the contact fields of its owning user.
type DsaPartnerDetail struct {
	DsaPartner
	Username     string
	Email        string
	FullName     string
	MobileNumber string
	City         *string
	IsActive     bool
}
