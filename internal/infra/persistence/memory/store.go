// Package memory is an in-process implementation of every repository.
// Transactions run against a private copy of the data that replaces the
// shared state only on commit, so a failed transaction leaves nothing behind.
package memory

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"leadhub/internal/domain/entity"
	domainerrors "leadhub/internal/domain/errors"
	"leadhub/internal/domain/repository"
	"leadhub/internal/errors"

	"github.com/google/uuid"
)

type state struct {
	users    map[uuid.UUID]entity.User
	partners map[uuid.UUID]entity.DsaPartner
	apps     map[uuid.UUID]entity.LoanApplication
	leads    map[uuid.UUID]entity.Lead
	queries  map[uuid.UUID]entity.ContactQuery
	sessions map[uuid.UUID]entity.Session
}

func newState() *state {
	return &state{
		users:    map[uuid.UUID]entity.User{},
		partners: map[uuid.UUID]entity.DsaPartner{},
		apps:     map[uuid.UUID]entity.LoanApplication{},
		leads:    map[uuid.UUID]entity.Lead{},
		queries:  map[uuid.UUID]entity.ContactQuery{},
		sessions: map[uuid.UUID]entity.Session{},
	}
}

func (s *state) clone() *state {
	return &state{
		users:    maps.Clone(s.users),
		partners: maps.Clone(s.partners),
		apps:     maps.Clone(s.apps),
		leads:    maps.Clone(s.leads),
		queries:  maps.Clone(s.queries),
		sessions: maps.Clone(s.sessions),
	}
}

// Store holds all records in memory.
type Store struct {
	mu    sync.RWMutex
	state *state
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{state: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// access runs fn against the shared state under the store lock.
type access func(write bool, fn func(st *state) error) error

func (s *Store) direct(write bool, fn func(st *state) error) error {
	if write {
		s.mu.Lock()
		defer s.mu.Unlock()
	} else {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}

	return fn(s.state)
}

// Execute implements repository.TransactionManager. Transactions are serialized
// with every other write; the copy replaces the shared state only when fn succeeds.
func (s *Store) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	bound := func(_ bool, fn func(st *state) error) error {
		return fn(working)
	}

	if err := fn(&factory{store: s, access: bound}); err != nil {
		return err
	}

	s.state = working

	return nil
}

// Repos returns repositories that operate outside any transaction.
func (s *Store) Repos() repository.RepositoryFactory {
	return &factory{store: s, access: s.direct}
}

// Sessions returns the session repository.
func (s *Store) Sessions() repository.SessionRepository {
	return &sessionRepository{store: s, access: s.direct}
}

type factory struct {
	store  *Store
	access access
}

func (f *factory) UserRepo() repository.UserRepository {
	return &userRepository{store: f.store, access: f.access}
}

func (f *factory) DsaPartnerRepo() repository.DsaPartnerRepository {
	return &dsaPartnerRepository{store: f.store, access: f.access}
}

func (f *factory) LoanApplicationRepo() repository.LoanApplicationRepository {
	return &loanApplicationRepository{store: f.store, access: f.access}
}

func (f *factory) LeadRepo() repository.LeadRepository {
	return &leadRepository{store: f.store, access: f.access}
}

func (f *factory) ContactQueryRepo() repository.ContactQueryRepository {
	return &contactQueryRepository{store: f.store, access: f.access}
}

func newID() (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to generate id")
	}

	return id, nil
}

func notFound(what string) error {
	return domainerrors.ErrNotFound.WithDetails(what + " not found")
}

// newestFirst orders records by creation time, breaking ties by id.
func newestFirst[T any](items []T, createdAt func(T) time.Time, id func(T) uuid.UUID) []T {
	slices.SortFunc(items, func(a, b T) int {
		if c := createdAt(b).Compare(createdAt(a)); c != 0 {
			return c
		}

		idA, idB := id(a), id(b)

		return bytes.Compare(idB[:], idA[:])
	})

	return items
}
