package memory

import (
	"context"

	"leadhub/internal/domain/entity"

	"github.com/google/uuid"
)

type sessionRepository struct {
	store  *Store
	access access
}

func (repo *sessionRepository) Create(_ context.Context, session *entity.Session) error {
	return repo.access(true, func(st *state) error {
		st.sessions[session.ID] = *session

		return nil
	})
}

func (repo *sessionRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Session, error) {
	var found *entity.Session
	err := repo.access(false, func(st *state) error {
		session, ok := st.sessions[id]
		if !ok || session.IsExpired(repo.store.now()) {
			return notFound("session")
		}
		found = &session

		return nil
	})

	return found, err
}

func (repo *sessionRepository) Delete(_ context.Context, id uuid.UUID) error {
	return repo.access(true, func(st *state) error {
		delete(st.sessions, id)

		return nil
	})
}

func (repo *sessionRepository) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	return repo.access(true, func(st *state) error {
		for id, session := range st.sessions {
			if session.UserID == userID {
				delete(st.sessions, id)
			}
		}

		return nil
	})
}
