package handler

import (
	"time"

	"leadhub/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserResponse is the public view of an account. The password hash never leaves the service.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	FullName     string    `json:"fullName"`
	MobileNumber string    `json:"mobileNumber"`
	City         *string   `json:"city,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LoginResponse carries the session token and the logged-in user.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      *UserResponse `json:"user"`
}

// LoanApplicationResponse is the public view of a loan application.
type LoanApplicationResponse struct {
	ID             uuid.UUID        `json:"id"`
	UserID         *uuid.UUID       `json:"userId,omitempty"`
	LoanType       string           `json:"loanType"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	Tenure         *int             `json:"tenure,omitempty"`
	MonthlyIncome  *decimal.Decimal `json:"monthlyIncome,omitempty"`
	EmploymentType *string          `json:"employmentType,omitempty"`
	Purpose        *string          `json:"purpose,omitempty"`
	Documents      []string         `json:"documents,omitempty"`
	InterestRate   decimal.Decimal  `json:"interestRate"`
	Status         string           `json:"status"`
	AssignedDsaID  *uuid.UUID       `json:"assignedDsaId,omitempty"`
	Remarks        *string          `json:"remarks,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// DirectApplicationResponse identifies the lead recorded for a direct application.
type DirectApplicationResponse struct {
	ApplicationID  uuid.UUID     `json:"applicationId"`
	TrackingNumber uuid.UUID     `json:"trackingNumber"`
	Lead           *LeadResponse `json:"lead"`
}

// LeadResponse is the public view of a lead.
type LeadResponse struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	MobileNumber  string           `json:"mobileNumber"`
	Email         *string          `json:"email,omitempty"`
	LoanType      string           `json:"loanType"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	City          *string          `json:"city,omitempty"`
	Source        string           `json:"source"`
	Status        string           `json:"status"`
	AssignedDsaID *uuid.UUID       `json:"assignedDsaId,omitempty"`
	AssignedAt    *time.Time       `json:"assignedAt,omitempty"`
	ConvertedAt   *time.Time       `json:"convertedAt,omitempty"`
	Remarks       *string          `json:"remarks,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// DsaPartnerResponse is the public view of a partner profile.
type DsaPartnerResponse struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	Experience      *string         `json:"experience,omitempty"`
	Background      *string         `json:"background,omitempty"`
	ProfilePicture  *string         `json:"profilePicture,omitempty"`
	CommissionRate  decimal.Decimal `json:"commissionRate"`
	TotalEarnings   decimal.Decimal `json:"totalEarnings"`
	TotalLeads      int             `json:"totalLeads"`
	SuccessfulLeads int             `json:"successfulLeads"`
	KycStatus       string          `json:"kycStatus"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// DsaPartnerDetailResponse is a partner with the contact fields of its user.
type DsaPartnerDetailResponse struct {
	DsaPartnerResponse
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	FullName     string  `json:"fullName"`
	MobileNumber string  `json:"mobileNumber"`
	City         *string `json:"city,omitempty"`
	IsActive     bool    `json:"isActive"`
}

// DsaRegistrationResponse pairs the created account with its partner profile.
type DsaRegistrationResponse struct {
	User    *UserResponse       `json:"user"`
	Partner *DsaPartnerResponse `json:"partner"`
}

// ContactQueryResponse is the public view of a contact query.
type ContactQueryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	MobileNumber string    `json:"mobileNumber"`
	Email        *string   `json:"email,omitempty"`
	LoanType     *string   `json:"loanType,omitempty"`
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toUserResponse(u *entity.User) *UserResponse {
	return &UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role.String(),
		FullName:     u.FullName,
		MobileNumber: u.MobileNumber,
		City:         u.City,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
}

func toLoanApplicationResponse(a *entity.LoanApplication) *LoanApplicationResponse {
	return &LoanApplicationResponse{
		ID:             a.ID,
		UserID:         a.UserID,
		LoanType:       a.LoanType,
		Amount:         a.Amount,
		Tenure:         a.Tenure,
		MonthlyIncome:  a.MonthlyIncome,
		EmploymentType: a.EmploymentType,
		Purpose:        a.Purpose,
		Documents:      a.Documents,
		InterestRate:   a.InterestRate,
		Status:         string(a.Status),
		AssignedDsaID:  a.AssignedDsaID,
		Remarks:        a.Remarks,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toLeadResponse(l *entity.Lead) *LeadResponse {
	return &LeadResponse{
		ID:            l.ID,
		Name:          l.Name,
		MobileNumber:  l.MobileNumber,
		Email:         l.Email,
		LoanType:      l.LoanType,
		Amount:        l.Amount,
		City:          l.City,
		Source:        l.Source,
		Status:        string(l.Status),
		AssignedDsaID: l.AssignedDsaID,
		AssignedAt:    l.AssignedAt,
		ConvertedAt:   l.ConvertedAt,
		Remarks:       l.Remarks,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func toDsaPartnerResponse(p *entity.DsaPartner) *DsaPartnerResponse {
	return &DsaPartnerResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		Experience:      p.Experience,
		Background:      p.Background,
		ProfilePicture:  p.ProfilePicture,
		CommissionRate:  p.CommissionRate,
		TotalEarnings:   p.TotalEarnings,
		TotalLeads:      p.TotalLeads,
		SuccessfulLeads: p.SuccessfulLeads,
		KycStatus:       string(p.KycStatus),
		CreatedAt:       p.CreatedAt,
	}
}

func toDsaPartnerDetailResponse(d *entity.DsaPartnerDetail) *DsaPartnerDetailResponse {
	return &DsaPartnerDetailResponse{
		DsaPartnerResponse: *toDsaPartnerResponse(&d.DsaPartner),
		Username:           d.Username,
		Email:              d.Email,
		FullName:           d.FullName,
		MobileNumber:       d.MobileNumber,
		City:               d.City,
		IsActive:           d.IsActive,
	}
}

func toContactQueryResponse(q *entity.ContactQuery) *ContactQueryResponse {
	return &ContactQueryResponse{
		ID:           q.ID,
		Name:         q.Name,
		MobileNumber: q.MobileNumber,
		Email:        q.Email,
		LoanType:     q.LoanType,
		Message:      q.Message,
		Status:       string(q.Status),
		CreatedAt:    q.CreatedAt,
	}
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}

	return out
}
