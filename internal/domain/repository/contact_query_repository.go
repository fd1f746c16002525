package repository

import (
	"context"

	"leadhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ContactQueryRepository persists contact form submissions.
type ContactQueryRepository interface {
	Create(ctx context.Context, query *entity.ContactQuery) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ContactQuery, error)
	// List returns every query, newest first.
	List(ctx context.Context) ([]*entity.ContactQuery, error)
	Update(ctx context.Context, query *entity.ContactQuery) error
}
