package repository

import (
	"context"

	"leadhub/internal/domain/entity"

	"github.com/google/uuid"
)

// LeadFilter narrows a lead listing. Zero fields match everything.
type LeadFilter struct {
	AssignedDsaID *uuid.UUID
	MobileNumber  *string
	// NormalizeMobile compares mobile numbers after stripping formatting characters.
	NormalizeMobile bool
}

// LeadRepository persists leads.
type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error)

	// FindByIDForUpdate locks the lead row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Lead, error)

	// List returns matching leads, newest first.
	List(ctx context.Context, filter LeadFilter) ([]*entity.Lead, error)

	Update(ctx context.Context, lead *entity.Lead) error
}
