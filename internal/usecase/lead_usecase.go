package usecase

import (
	"context"

	"leadhub/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateLeadInput is a lead submitted through a public form.
type CreateLeadInput struct {
	Name         string           `json:"name" validate:"required,max=255"`
	MobileNumber string           `json:"mobileNumber" validate:"required,mobile"`
	Email        *string          `json:"email" validate:"omitempty,email,max=255"`
	LoanType     string           `json:"loanType" validate:"required,max=50"`
	Amount       *decimal.Decimal `json:"amount"`
	City         *string          `json:"city" validate:"omitempty,max=100"`
	Source       string           `json:"source" validate:"omitempty,max=50"`
	Remarks      *string          `json:"remarks"`
}

// LeadPatch is a partial update. Nil fields are left untouched.
type LeadPatch struct {
	Status        *entity.LeadStatus `json:"status"`
	Remarks       *string            `json:"remarks"`
	AssignedDsaID *uuid.UUID         `json:"assignedDsaId"`
}

// AssignLeadInput names the DSA user a lead is assigned to.
type AssignLeadInput struct {
	DsaID uuid.UUID `json:"dsaId" validate:"required"`
}

// LeadUsecase manages leads and the public tracking lookup.
type LeadUsecase interface {
	Create(ctx context.Context, caller entity.Caller, input CreateLeadInput) (*entity.Lead, error)
	List(ctx context.Context, caller entity.Caller) ([]*entity.Lead, error)
	Update(ctx context.Context, caller entity.Caller, id uuid.UUID, patch LeadPatch) (*entity.Lead, error)
	AssignToDsa(ctx context.Context, caller entity.Caller, leadID, dsaID uuid.UUID) (*entity.Lead, error)

	// TrackByMobile returns every lead recorded for a mobile number.
	TrackByMobile(ctx context.Context, caller entity.Caller, mobileNumber string) ([]*entity.Lead, error)
}
