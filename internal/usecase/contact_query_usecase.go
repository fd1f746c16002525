package usecase

import (
	"context"

	"leadhub/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateContactQueryInput is a public contact form submission.
type CreateContactQueryInput struct {
	Name         string  `json:"name" validate:"required,max=255"`
	MobileNumber string  `json:"mobileNumber" validate:"required,mobile"`
	Email        *string `json:"email" validate:"omitempty,email,max=255"`
	LoanType     *string `json:"loanType" validate:"omitempty,max=50"`
	Message      string  `json:"message" validate:"required,max=5000"`
}

// UpdateContactQueryInput changes the inbox state of a query.
type UpdateContactQueryInput struct {
	Status entity.ContactQueryStatus `json:"status" validate:"required,oneof=new responded closed"`
}

// ContactQueryUsecase manages the contact inbox.
type ContactQueryUsecase interface {
	Create(ctx context.Context, caller entity.Caller, input CreateContactQueryInput) (*entity.ContactQuery, error)
	List(ctx context.Context, caller entity.Caller) ([]*entity.ContactQuery, error)
	UpdateStatus(ctx context.Context, caller entity.Caller, id uuid.UUID, input UpdateContactQueryInput) (*entity.ContactQuery, error)
}
