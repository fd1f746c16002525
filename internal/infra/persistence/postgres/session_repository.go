package postgres

import (
	"context"
	"time"

	"leadhub/internal/domain/entity"
	domainerrors "leadhub/internal/domain/errors"
	"leadhub/internal/domain/repository"
	"leadhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sessionRepository stores session bindings in the 'sessions' table.
type sessionRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSessionRepository is the constructor for sessionRepository.
func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepository{db: db, now: time.Now}
}

func (repo *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	sessionM := &model.SessionModel{
		ID:        session.ID,
		UserID:    session.UserID,
		Role:      session.Role.String(),
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	}
	if err := repo.db.WithContext(ctx).Create(sessionM).Error; err != nil {
		return translateWriteError(err, "session")
	}
	session.CreatedAt = sessionM.CreatedAt

	return nil
}

// FindByID ignores expired rows; they are reported exactly like missing ones.
func (repo *sessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	var sessionM model.SessionModel
	err := repo.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, repo.now()).
		First(&sessionM).Error
	if err != nil {
		return nil, notFoundOr(err, "session")
	}

	return &entity.Session{
		ID:        sessionM.ID,
		UserID:    sessionM.UserID,
		Role:      entity.Role(sessionM.Role),
		ExpiresAt: sessionM.ExpiresAt,
		CreatedAt: sessionM.CreatedAt,
	}, nil
}

func (repo *sessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.SessionModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete session")
	}

	return nil
}

func (repo *sessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.SessionModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete user sessions")
	}

	return nil
}
