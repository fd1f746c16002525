package repository

import (
	"context"

	"leadhub/internal/domain/entity"

	"github.com/google/uuid"
)

// DsaPartnerRepository persists DSA partner profiles.
type DsaPartnerRepository interface {
	Create(ctx context.Context, partner *entity.DsaPartner) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.DsaPartner, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.DsaPartner, error)

	// List returns partners joined with their owning user, newest first.
	// A non-nil userID restricts the result to that user's profile.
	List(ctx context.Context, userID *uuid.UUID) ([]*entity.DsaPartnerDetail, error)

	Update(ctx context.Context, partner *entity.DsaPartner) error
}
