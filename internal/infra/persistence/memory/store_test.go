package memory

import (
	"context"
	"testing"
	"time"

	"leadhub/internal/domain/entity"
	domainerrors "leadhub/internal/domain/errors"
	"leadhub/internal/domain/repository"
	"leadhub/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(username, email string, role entity.Role) *entity.User {
	return &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		FullName:     username,
		MobileNumber: "9000000000",
		IsActive:     true,
	}
}

func TestStore_UserUniqueness(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()

	require.NoError(t, repos.UserRepo().Create(ctx, newUser("ravi", "ravi@example.com", entity.RoleUser)))

	err := repos.UserRepo().Create(ctx, newUser("ravi", "other@example.com", entity.RoleUser))
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateUsername))

	err = repos.UserRepo().Create(ctx, newUser("ravi2", "RAVI@example.com", entity.RoleUser))
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
}

func TestStore_FindActiveByLogin(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()

	active := newUser("asha", "asha@example.com", entity.RoleUser)
	require.NoError(t, repos.UserRepo().Create(ctx, active))
	inactive := newUser("old", "old@example.com", entity.RoleUser)
	inactive.IsActive = false
	require.NoError(t, repos.UserRepo().Create(ctx, inactive))

	byName, err := repos.UserRepo().FindActiveByLogin(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, active.ID, byName.ID)

	byEmail, err := repos.UserRepo().FindActiveByLogin(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, active.ID, byEmail.ID)

	_, err = repos.UserRepo().FindActiveByLogin(ctx, "old")
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestStore_ExecuteRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	boom := errors.New("partner failed")

	err := store.Execute(ctx, func(tx repository.RepositoryFactory) error {
		if err := tx.UserRepo().Create(ctx, newUser("dsa1", "dsa1@example.com", entity.RoleDsa)); err != nil {
			return err
		}

		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.Repos().UserRepo().FindByUsername(ctx, "dsa1")
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestStore_ExecuteCommits(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	var userID uuid.UUID
	err := store.Execute(ctx, func(tx repository.RepositoryFactory) error {
		user := newUser("dsa2", "dsa2@example.com", entity.RoleDsa)
		if err := tx.UserRepo().Create(ctx, user); err != nil {
			return err
		}
		userID = user.ID

		return tx.DsaPartnerRepo().Create(ctx, entity.NewDsaPartner(user.ID, nil, nil))
	})
	require.NoError(t, err)

	details, err := store.Repos().DsaPartnerRepo().List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, userID, details[0].UserID)
	assert.Equal(t, "dsa2", details[0].Username)
	assert.Equal(t, entity.KycPending, details[0].KycStatus)
}

func TestStore_ReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()

	lead := &entity.Lead{Name: "Asha", MobileNumber: "9876543210", LoanType: "personal", Status: entity.LeadNew}
	require.NoError(t, repos.LeadRepo().Create(ctx, lead))

	found, err := repos.LeadRepo().FindByID(ctx, lead.ID)
	require.NoError(t, err)
	found.Status = entity.LeadClosed

	again, err := repos.LeadRepo().FindByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LeadNew, again.Status)
}

func TestStore_LeadFilters(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()
	dsaID := uuid.New()

	for _, mobile := range []string{"9999999999", "99999 99999", "8888888888"} {
		require.NoError(t, repos.LeadRepo().Create(ctx, &entity.Lead{Name: "x", MobileNumber: mobile, LoanType: "home"}))
	}
	require.NoError(t, repos.LeadRepo().Create(ctx, &entity.Lead{Name: "y", MobileNumber: "7777777777", LoanType: "home", AssignedDsaID: &dsaID}))

	mobile := "9999999999"
	strict, err := repos.LeadRepo().List(ctx, repository.LeadFilter{MobileNumber: &mobile})
	require.NoError(t, err)
	assert.Len(t, strict, 1)

	normalized, err := repos.LeadRepo().List(ctx, repository.LeadFilter{MobileNumber: &mobile, NormalizeMobile: true})
	require.NoError(t, err)
	assert.Len(t, normalized, 2)

	assigned, err := repos.LeadRepo().List(ctx, repository.LeadFilter{AssignedDsaID: &dsaID})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "y", assigned[0].Name)

	all, err := repos.LeadRepo().List(ctx, repository.LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(WithClock(func() time.Time {
		clock = clock.Add(time.Minute)

		return clock
	}))

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, store.Repos().ContactQueryRepo().Create(ctx, &entity.ContactQuery{Name: name, Message: "m"}))
	}

	queries, err := store.Repos().ContactQueryRepo().List(ctx)
	require.NoError(t, err)
	require.Len(t, queries, 3)
	assert.Equal(t, "third", queries[0].Name)
	assert.Equal(t, "first", queries[2].Name)
}

func TestStore_Sessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(WithClock(func() time.Time { return now }))
	sessions := store.Sessions()
	userID := uuid.New()

	live := &entity.Session{ID: uuid.New(), UserID: userID, Role: entity.RoleUser, ExpiresAt: now.Add(time.Hour)}
	expired := &entity.Session{ID: uuid.New(), UserID: userID, Role: entity.RoleUser, ExpiresAt: now}
	require.NoError(t, sessions.Create(ctx, live))
	require.NoError(t, sessions.Create(ctx, expired))

	found, err := sessions.FindByID(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, found.UserID)

	_, err = sessions.FindByID(ctx, expired.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

	require.NoError(t, sessions.DeleteByUserID(ctx, userID))
	_, err = sessions.FindByID(ctx, live.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

	assert.NoError(t, sessions.Delete(ctx, uuid.New()))
}
