package postgres

import (
	"context"

	"leadhub/internal/domain/entity"
	domainerrors "leadhub/internal/domain/errors"
	"leadhub/internal/domain/repository"
	"leadhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type contactQueryRepository struct {
	db *gorm.DB
}

// NewContactQueryRepository is the constructor for contactQueryRepository.
func NewContactQueryRepository(db *gorm.DB) repository.ContactQueryRepository {
	return &contactQueryRepository{db: db}
}

func (repo *contactQueryRepository) Create(ctx context.Context, query *entity.ContactQuery) error {
	if query.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate contact query id")
		}
		query.ID = id
	}

	queryM := fromContactQueryDomain(query)
	if err := repo.db.WithContext(ctx).Create(queryM).Error; err != nil {
		return translateWriteError(err, "contact query")
	}
	query.CreatedAt = queryM.CreatedAt

	return nil
}

func (repo *contactQueryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ContactQuery, error) {
	var queryM model.ContactQueryModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&queryM).Error; err != nil {
		return nil, notFoundOr(err, "contact query")
	}

	return toContactQueryDomain(&queryM), nil
}

func (repo *contactQueryRepository) List(ctx context.Context) ([]*entity.ContactQuery, error) {
	var queriesM []model.ContactQueryModel
	if err := repo.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&queriesM).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list contact queries")
	}

	queries := make([]*entity.ContactQuery, 0, len(queriesM))
	for i := range queriesM {
		queries = append(queries, toContactQueryDomain(&queriesM[i]))
	}

	return queries, nil
}

// Update writes the inbox status; the submitted content is immutable.
func (repo *contactQueryRepository) Update(ctx context.Context, query *entity.ContactQuery) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ContactQueryModel{}).
		Where("id = ?", query.ID).
		Update("status", string(query.Status))
	if result.Error != nil {
		return translateWriteError(result.Error, "contact query")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound.WithDetails("contact query not found")
	}

	return nil
}

func toContactQueryDomain(data *model.ContactQueryModel) *entity.ContactQuery {
	return &entity.ContactQuery{
		ID:           data.ID,
		Name:         data.Name,
		MobileNumber: data.MobileNumber,
		Email:        data.Email,
		LoanType:     data.LoanType,
		Message:      data.Message,
		Status:       entity.ContactQueryStatus(data.Status),
		CreatedAt:    data.CreatedAt,
	}
}

func fromContactQueryDomain(data *entity.ContactQuery) *model.ContactQueryModel {
	return &model.ContactQueryModel{
		ID:           data.ID,
		Name:         data.Name,
		MobileNumber: data.MobileNumber,
		Email:        data.Email,
		LoanType:     data.LoanType,
		Message:      data.Message,
		Status:       string(data.Status),
		CreatedAt:    data.CreatedAt,
	}
}
