package redis

import (
	"context"
	"encoding/json"
	"time"

	"leadhub/internal/domain/entity"
	domainerrors "leadhub/internal/domain/errors"
	"leadhub/internal/domain/repository"
	"leadhub/internal/errors"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

type sessionRecord struct {
	UserID    uuid.UUID   `json:"userId"`
	Role      entity.Role `json:"role"`
	ExpiresAt time.Time   `json:"expiresAt"`
	CreatedAt time.Time   `json:"createdAt"`
}

// sessionRepository keeps each session under session:<id> with a TTL and
// indexes the ids per user in a set so they can be ended together.
type sessionRepository struct {
	client *goredis.Client
	now    func() time.Time
}

// NewSessionRepository is the constructor for sessionRepository.
func NewSessionRepository(client *goredis.Client) repository.SessionRepository {
	return &sessionRepository{client: client, now: time.Now}
}

func sessionKey(id uuid.UUID) string {
	return sessionKeyPrefix + id.String()
}

func userSessionsKey(userID uuid.UUID) string {
	return userSessionKeyPrefix + userID.String()
}

func (repo *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	ttl := session.ExpiresAt.Sub(repo.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	data, err := json.Marshal(sessionRecord{
		UserID:    session.UserID,
		Role:      session.Role,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal session")
	}

	indexKey := userSessionsKey(session.UserID)
	_, err = repo.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.ID), data, ttl)
		pipe.SAdd(ctx, indexKey, session.ID.String())
		// Sessions share one TTL, so the newest session always outlives the others.
		pipe.Expire(ctx, indexKey, ttl)

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to store session in redis")
	}

	return nil
}

func (repo *sessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	data, err := repo.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domainerrors.ErrNotFound.WithDetails("session not found")
		}

		return nil, errors.Wrap(err, "failed to load session from redis")
	}

	var record sessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal session")
	}

	session := &entity.Session{
		ID:        id,
		UserID:    record.UserID,
		Role:      record.Role,
		ExpiresAt: record.ExpiresAt,
		CreatedAt: record.CreatedAt,
	}
	if session.IsExpired(repo.now()) {
		return nil, domainerrors.ErrNotFound.WithDetails("session not found")
	}

	return session, nil
}

func (repo *sessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	session, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}

		return err
	}

	_, err = repo.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(id))
		pipe.SRem(ctx, userSessionsKey(session.UserID), id.String())

		return nil
	})

	return errors.Wrap(err, "failed to delete session from redis")
}

func (repo *sessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	indexKey := userSessionsKey(userID)

	ids, err := repo.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return errors.Wrap(err, "failed to list user sessions")
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	keys = append(keys, indexKey)

	if err := repo.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, "failed to delete user sessions")
	}

	return nil
}
