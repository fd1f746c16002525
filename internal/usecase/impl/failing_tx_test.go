package impl

import (
	"context"

	"leadhub/internal/domain/entity"
	"leadhub/internal/domain/repository"
	"leadhub/internal/errors"

	"github.com/google/uuid"
)

var errInjected = errors.New("injected failure")

// failingTxManager delegates to a real manager but swaps repositories inside
// the transaction so a chosen write fails after earlier writes succeeded.
type failingTxManager struct {
	inner        repository.TransactionManager
	failPartners bool
	failLeads    bool
}

func (m *failingTxManager) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	return m.inner.Execute(ctx, func(repos repository.RepositoryFactory) error {
		return fn(&failingFactory{RepositoryFactory: repos, manager: m})
	})
}

type failingFactory struct {
	repository.RepositoryFactory
	manager *failingTxManager
}

func (f *failingFactory) DsaPartnerRepo() repository.DsaPartnerRepository {
	repo := f.RepositoryFactory.DsaPartnerRepo()
	if f.manager.failPartners {
		return failingPartnerRepo{DsaPartnerRepository: repo}
	}

	return repo
}

func (f *failingFactory) LeadRepo() repository.LeadRepository {
	repo := f.RepositoryFactory.LeadRepo()
	if f.manager.failLeads {
		return failingLeadRepo{LeadRepository: repo}
	}

	return repo
}

type failingPartnerRepo struct {
	repository.DsaPartnerRepository
}

func (failingPartnerRepo) Create(context.Context, *entity.DsaPartner) error {
	return errInjected
}

type failingLeadRepo struct {
	repository.LeadRepository
}

func (failingLeadRepo) Create(context.Context, *entity.Lead) error {
	return errInjected
}

// failingSessionRepo fails bulk session deletion while failDeleteByUser is set.
type failingSessionRepo struct {
	repository.SessionRepository
	failDeleteByUser bool
}

func (r *failingSessionRepo) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if r.failDeleteByUser {
		return errInjected
	}

	return r.SessionRepository.DeleteByUserID(ctx, userID)
}
