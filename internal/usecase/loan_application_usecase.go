package usecase

import (
	"context"

	"leadhub/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateApplicationInput is a loan application submitted by an authenticated caller.
type CreateApplicationInput struct {
	LoanType       string           `json:"loanType" validate:"required,max=50"`
	Amount         *decimal.Decimal `json:"amount"`
	Tenure         *int             `json:"tenure" validate:"omitempty,gte=0"`
	MonthlyIncome  *decimal.Decimal `json:"monthlyIncome"`
	EmploymentType *string          `json:"employmentType" validate:"omitempty,max=50"`
	Purpose        *string          `json:"purpose"`
	Documents      []string         `json:"documents" validate:"omitempty,max=20,dive,required,max=500"`
}

// ApplicantInfo holds the contact fields of an anonymous applicant.
type ApplicantInfo struct {
	FullName     string  `json:"fullName" validate:"required,max=255"`
	MobileNumber string  `json:"mobileNumber" validate:"required,mobile"`
	Email        string  `json:"email" validate:"required,email,max=255"`
	City         *string `json:"city" validate:"omitempty,max=100"`
}

// DirectApplicationInput is an application submitted without an account.
type DirectApplicationInput struct {
	ApplicantInfo  ApplicantInfo    `json:"applicantInfo"`
	LoanType       string           `json:"loanType" validate:"required,max=50"`
	Amount         *decimal.Decimal `json:"amount"`
	Tenure         *int             `json:"tenure" validate:"omitempty,gte=0"`
	MonthlyIncome  *decimal.Decimal `json:"monthlyIncome"`
	EmploymentType *string          `json:"employmentType" validate:"omitempty,max=50"`
	Purpose        *string          `json:"purpose"`
}

// DirectApplicationOutput identifies the lead created for a direct application.
// Both identifiers equal the lead id.
type DirectApplicationOutput struct {
	ApplicationID  uuid.UUID
	TrackingNumber uuid.UUID
	Lead           *entity.Lead
}

// ApplicationPatch is a partial update. Nil fields are left untouched.
type ApplicationPatch struct {
	Status        *entity.ApplicationStatus `json:"status"`
	AssignedDsaID *uuid.UUID                `json:"assignedDsaId"`
	Remarks       *string                   `json:"remarks"`
	InterestRate  *decimal.Decimal          `json:"interestRate"`
}

// LoanApplicationUsecase manages loan applications.
type LoanApplicationUsecase interface {
	Create(ctx context.Context, caller entity.Caller, input CreateApplicationInput) (*entity.LoanApplication, error)
	CreateDirect(ctx context.Context, caller entity.Caller, input DirectApplicationInput) (*DirectApplicationOutput, error)
	List(ctx context.Context, caller entity.Caller) ([]*entity.LoanApplication, error)
	Update(ctx context.Context, caller entity.Caller, id uuid.UUID, patch ApplicationPatch) (*entity.LoanApplication, error)
}
