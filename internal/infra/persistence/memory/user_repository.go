package memory

import (
	"context"
	"strings"

	"leadhub/internal/domain/entity"
	domainerrors "leadhub/internal/domain/errors"

	"github.com/google/uuid"
)

type userRepository struct {
	store  *Store
	access access
}

func (repo *userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	var found *entity.User
	err := repo.access(false, func(st *state) error {
		user, ok := st.users[id]
		if !ok {
			return notFound("user")
		}
		found = &user

		return nil
	})

	return found, err
}

func (repo *userRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return repo.findOne(func(u *entity.User) bool { return u.Username == username })
}

func (repo *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return repo.findOne(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (repo *userRepository) FindActiveByLogin(_ context.Context, login string) (*entity.User, error) {
	return repo.findOne(func(u *entity.User) bool {
		return u.IsActive && (u.Username == login || strings.EqualFold(u.Email, login))
	})
}

func (repo *userRepository) findOne(match func(*entity.User) bool) (*entity.User, error) {
	var found *entity.User
	err := repo.access(false, func(st *state) error {
		for _, user := range st.users {
			if match(&user) {
				found = &user

				return nil
			}
		}

		return notFound("user")
	})

	return found, err
}

func (repo *userRepository) Create(_ context.Context, user *entity.User) error {
	return repo.access(true, func(st *state) error {
		for _, existing := range st.users {
			if existing.Username == user.Username {
				return domainerrors.ErrDuplicateUsername
			}
			if strings.EqualFold(existing.Email, user.Email) {
				return domainerrors.ErrDuplicateEmail
			}
		}

		if user.ID == uuid.Nil {
			id, err := newID()
			if err != nil {
				return err
			}
			user.ID = id
		}
		now := repo.store.now()
		user.CreatedAt = now
		user.UpdatedAt = now
		st.users[user.ID] = *user

		return nil
	})
}

func (repo *userRepository) Update(_ context.Context, user *entity.User) error {
	return repo.access(true, func(st *state) error {
		current, ok := st.users[user.ID]
		if !ok {
			return notFound("user")
		}
		for id, existing := range st.users {
			if id == user.ID {
				continue
			}
			if existing.Username == user.Username {
				return domainerrors.ErrDuplicateUsername
			}
			if strings.EqualFold(existing.Email, user.Email) {
				return domainerrors.ErrDuplicateEmail
			}
		}

		user.CreatedAt = current.CreatedAt
		user.UpdatedAt = repo.store.now()
		st.users[user.ID] = *user

		return nil
	})
}
