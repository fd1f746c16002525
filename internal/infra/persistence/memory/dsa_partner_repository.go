package memory

import (
	"context"
	"time"

	"leadhub/internal/domain/entity"
	domainerrors "leadhub/internal/domain/errors"

	"github.com/google/uuid"
)

type dsaPartnerRepository struct {
	store  *Store
	access access
}

func (repo *dsaPartnerRepository) Create(_ context.Context, partner *entity.DsaPartner) error {
	return repo.access(true, func(st *state) error {
		if _, ok := st.users[partner.UserID]; !ok {
			return domainerrors.ErrValidationFailed.WithDetails("partner user does not exist")
		}
		for _, existing := range st.partners {
			if existing.UserID == partner.UserID {
				return domainerrors.ErrValidationFailed.WithDetails("user already has a partner profile")
			}
		}

		if partner.ID == uuid.Nil {
			id, err := newID()
			if err != nil {
				return err
			}
			partner.ID = id
		}
		now := repo.store.now()
		partner.CreatedAt = now
		partner.UpdatedAt = now
		st.partners[partner.ID] = *partner

		return nil
	})
}

func (repo *dsaPartnerRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.DsaPartner, error) {
	var found *entity.DsaPartner
	err := repo.access(false, func(st *state) error {
		partner, ok := st.partners[id]
		if !ok {
			return notFound("dsa partner")
		}
		found = &partner

		return nil
	})

	return found, err
}

func (repo *dsaPartnerRepository) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.DsaPartner, error) {
	var found *entity.DsaPartner
	err := repo.access(false, func(st *state) error {
		for _, partner := range st.partners {
			if partner.UserID == userID {
				found = &partner

				return nil
			}
		}

		return notFound("dsa partner")
	})

	return found, err
}

func (repo *dsaPartnerRepository) List(_ context.Context, userID *uuid.UUID) ([]*entity.DsaPartnerDetail, error) {
	var details []*entity.DsaPartnerDetail
	err := repo.access(false, func(st *state) error {
		for _, partner := range st.partners {
			if userID != nil && partner.UserID != *userID {
				continue
			}
			user := st.users[partner.UserID]
			details = append(details, &entity.DsaPartnerDetail{
				DsaPartner:   partner,
				Username:     user.Username,
				Email:        user.Email,
				FullName:     user.FullName,
				MobileNumber: user.MobileNumber,
				City:         user.City,
				IsActive:     user.IsActive,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return newestFirst(details,
		func(d *entity.DsaPartnerDetail) time.Time { return d.CreatedAt },
		func(d *entity.DsaPartnerDetail) uuid.UUID { return d.ID },
	), nil
}

func (repo *dsaPartnerRepository) Update(_ context.Context, partner *entity.DsaPartner) error {
	return repo.access(true, func(st *state) error {
		current, ok := st.partners[partner.ID]
		if !ok {
			return notFound("dsa partner")
		}
		partner.CreatedAt = current.CreatedAt
		partner.UpdatedAt = repo.store.now()
		st.partners[partner.ID] = *partner

		return nil
	})
}
