package memory

import (
	"context"
	"time"

	"leadhub/internal/domain/entity"

	"github.com/google/uuid"
)

type contactQueryRepository struct {
	store  *Store
	access access
}

func (repo *contactQueryRepository) Create(_ context.Context, query *entity.ContactQuery) error {
	return repo.access(true, func(st *state) error {
		if query.ID == uuid.Nil {
			id, err := newID()
			if err != nil {
				return err
			}
			query.ID = id
		}
		query.CreatedAt = repo.store.now()
		st.queries[query.ID] = *query

		return nil
	})
}

func (repo *contactQueryRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.ContactQuery, error) {
	var found *entity.ContactQuery
	err := repo.access(false, func(st *state) error {
		query, ok := st.queries[id]
		if !ok {
			return notFound("contact query")
		}
		found = &query

		return nil
	})

	return found, err
}

func (repo *contactQueryRepository) List(_ context.Context) ([]*entity.ContactQuery, error) {
	var queries []*entity.ContactQuery
	err := repo.access(false, func(st *state) error {
		for _, query := range st.queries {
			queries = append(queries, &query)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return newestFirst(queries,
		func(q *entity.ContactQuery) time.Time { return q.CreatedAt },
		func(q *entity.ContactQuery) uuid.UUID { return q.ID },
	), nil
}

func (repo *contactQueryRepository) Update(_ context.Context, query *entity.ContactQuery) error {
	return repo.access(true, func(st *state) error {
		current, ok := st.queries[query.ID]
		if !ok {
			return notFound("contact query")
		}
		query.CreatedAt = current.CreatedAt
		st.queries[query.ID] = *query

		return nil
	})
}
