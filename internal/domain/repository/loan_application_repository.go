package repository

import (
	"context"

	"leadhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ApplicationFilter narrows an application listing. Zero fields match everything.
type ApplicationFilter struct {
	OwnerID       *uuid.UUID
	AssignedDsaID *uuid.UUID
}

// LoanApplicationRepository persists loan applications.
type LoanApplicationRepository interface {
	Create(ctx context.Context, app *entity.LoanApplication) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.LoanApplication, error)

	// List returns matching applications, newest first.
	List(ctx context.Context, filter ApplicationFilter) ([]*entity.LoanApplication, error)

	Update(ctx context.Context, app *entity.LoanApplication) error
}
