package memory

import (
	"context"
	"time"

	"leadhub/internal/domain/entity"
	"leadhub/internal/domain/repository"

	"github.com/google/uuid"
)

type loanApplicationRepository struct {
	store  *Store
	access access
}

func (repo *loanApplicationRepository) Create(_ context.Context, app *entity.LoanApplication) error {
	return repo.access(true, func(st *state) error {
		if app.ID == uuid.Nil {
			id, err := newID()
			if err != nil {
				return err
			}
			app.ID = id
		}
		now := repo.store.now()
		app.CreatedAt = now
		app.UpdatedAt = now
		st.apps[app.ID] = *app

		return nil
	})
}

func (repo *loanApplicationRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.LoanApplication, error) {
	var found *entity.LoanApplication
	err := repo.access(false, func(st *state) error {
		app, ok := st.apps[id]
		if !ok {
			return notFound("loan application")
		}
		found = &app

		return nil
	})

	return found, err
}

func (repo *loanApplicationRepository) List(_ context.Context, filter repository.ApplicationFilter) ([]*entity.LoanApplication, error) {
	var apps []*entity.LoanApplication
	err := repo.access(false, func(st *state) error {
		for _, app := range st.apps {
			if filter.OwnerID != nil && !app.OwnedBy(*filter.OwnerID) {
				continue
			}
			if filter.AssignedDsaID != nil && !app.AssignedTo(*filter.AssignedDsaID) {
				continue
			}
			apps = append(apps, &app)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return newestFirst(apps,
		func(a *entity.LoanApplication) time.Time { return a.CreatedAt },
		func(a *entity.LoanApplication) uuid.UUID { return a.ID },
	), nil
}

func (repo *loanApplicationRepository) Update(_ context.Context, app *entity.LoanApplication) error {
	return repo.access(true, func(st *state) error {
		current, ok := st.apps[app.ID]
		if !ok {
			return notFound("loan application")
		}
		app.CreatedAt = current.CreatedAt
		app.UpdatedAt = repo.store.now()
		st.apps[app.ID] = *app

		return nil
	})
}
