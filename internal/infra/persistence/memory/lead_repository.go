package memory

import (
	"context"
	"time"

	"leadhub/internal/domain/entity"
	"leadhub/internal/domain/repository"

	"github.com/google/uuid"
)

type leadRepository struct {
	store  *Store
	access access
}

func (repo *leadRepository) Create(_ context.Context, lead *entity.Lead) error {
	return repo.access(true, func(st *state) error {
		if lead.ID == uuid.Nil {
			id, err := newID()
			if err != nil {
				return err
			}
			lead.ID = id
		}
		now := repo.store.now()
		lead.CreatedAt = now
		lead.UpdatedAt = now
		st.leads[lead.ID] = *lead

		return nil
	})
}

func (repo *leadRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Lead, error) {
	var found *entity.Lead
	err := repo.access(false, func(st *state) error {
		lead, ok := st.leads[id]
		if !ok {
			return notFound("lead")
		}
		found = &lead

		return nil
	})

	return found, err
}

// FindByIDForUpdate needs no extra locking: transactions already hold the store lock.
func (repo *leadRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	return repo.FindByID(ctx, id)
}

func (repo *leadRepository) List(_ context.Context, filter repository.LeadFilter) ([]*entity.Lead, error) {
	var wantMobile string
	if filter.MobileNumber != nil {
		wantMobile = *filter.MobileNumber
		if filter.NormalizeMobile {
			wantMobile = entity.NormalizeMobile(wantMobile)
		}
	}

	var leads []*entity.Lead
	err := repo.access(false, func(st *state) error {
		for _, lead := range st.leads {
			if filter.AssignedDsaID != nil && !lead.AssignedTo(*filter.AssignedDsaID) {
				continue
			}
			if filter.MobileNumber != nil {
				mobile := lead.MobileNumber
				if filter.NormalizeMobile {
					mobile = entity.NormalizeMobile(mobile)
				}
				if mobile != wantMobile {
					continue
				}
			}
			leads = append(leads, &lead)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return newestFirst(leads,
		func(l *entity.Lead) time.Time { return l.CreatedAt },
		func(l *entity.Lead) uuid.UUID { return l.ID },
	), nil
}

func (repo *leadRepository) Update(_ context.Context, lead *entity.Lead) error {
	return repo.access(true, func(st *state) error {
		current, ok := st.leads[lead.ID]
		if !ok {
			return notFound("lead")
		}
		lead.CreatedAt = current.CreatedAt
		lead.UpdatedAt = repo.store.now()
		st.leads[lead.ID] = *lead

		return nil
	})
}
