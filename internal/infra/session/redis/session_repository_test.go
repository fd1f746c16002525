package redis

import (
	"context"
	"testing"
	"time"

	"leadhub/internal/domain/entity"
	domainerrors "leadhub/internal/domain/errors"
	"leadhub/internal/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*sessionRepository, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionRepository(client).(*sessionRepository), server
}

func newSession(userID uuid.UUID, ttl time.Duration) *entity.Session {
	now := time.Now()

	return &entity.Session{
		ID:        uuid.New(),
		UserID:    userID,
		Role:      entity.RoleDsa,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	repo, server := newTestRepository(t)
	ctx := context.Background()
	session := newSession(uuid.New(), time.Hour)

	require.NoError(t, repo.Create(ctx, session))
	assert.True(t, server.Exists("session:"+session.ID.String()))
	assert.InDelta(t, time.Hour.Seconds(), server.TTL("session:"+session.ID.String()).Seconds(), 5)

	found, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, found.UserID)
	assert.Equal(t, entity.RoleDsa, found.Role)
	assert.Equal(t, session.Caller(), found.Caller())

	require.NoError(t, repo.Delete(ctx, session.ID))
	_, err = repo.FindByID(ctx, session.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

	assert.NoError(t, repo.Delete(ctx, session.ID))
}

func TestSessionRepository_Expiry(t *testing.T) {
	repo, server := newTestRepository(t)
	ctx := context.Background()
	session := newSession(uuid.New(), time.Minute)

	require.NoError(t, repo.Create(ctx, session))
	server.FastForward(2 * time.Minute)

	_, err := repo.FindByID(ctx, session.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

	assert.Error(t, repo.Create(ctx, newSession(uuid.New(), -time.Second)))
}

func TestSessionRepository_DeleteByUserID(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	userID := uuid.New()
	first := newSession(userID, time.Hour)
	second := newSession(userID, 2*time.Hour)
	other := newSession(uuid.New(), time.Hour)

	for _, s := range []*entity.Session{first, second, other} {
		require.NoError(t, repo.Create(ctx, s))
	}

	require.NoError(t, repo.DeleteByUserID(ctx, userID))

	for _, s := range []*entity.Session{first, second} {
		_, err := repo.FindByID(ctx, s.ID)
		assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
	}

	_, err := repo.FindByID(ctx, other.ID)
	assert.NoError(t, err)
}
