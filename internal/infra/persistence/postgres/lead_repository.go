package postgres

import (
	"context"
	"time"

	"leadhub/internal/domain/entity"
	domainerrors "leadhub/internal/domain/errors"
	"leadhub/internal/domain/repository"
	"leadhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// normalizedMobileExpr strips the same characters as entity.NormalizeMobile.
const normalizedMobileExpr = `regexp_replace(mobile_number, '[[:space:]().-]', '', 'g')`

type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository is the constructor for leadRepository.
func NewLeadRepository(db *gorm.DB) repository.LeadRepository {
	return &leadRepository{db: db}
}

func (repo *leadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	if lead.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate lead id")
		}
		lead.ID = id
	}

	leadM := fromLeadDomain(lead)
	if err := repo.db.WithContext(ctx).Create(leadM).Error; err != nil {
		return translateWriteError(err, "lead")
	}

	lead.CreatedAt = leadM.CreatedAt
	lead.UpdatedAt = leadM.UpdatedAt

	return nil
}

func (repo *leadRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	return repo.find(repo.db.WithContext(ctx), id)
}

// FindByIDForUpdate takes a row lock (SELECT ... FOR UPDATE). It only holds
// when called on a transaction-bound repository.
func (repo *leadRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	return repo.find(repo.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (repo *leadRepository) find(db *gorm.DB, id uuid.UUID) (*entity.Lead, error) {
	var leadM model.LeadModel
	if err := db.Where("id = ?", id).First(&leadM).Error; err != nil {
		return nil, notFoundOr(err, "lead")
	}

	return toLeadDomain(&leadM), nil
}

func (repo *leadRepository) List(ctx context.Context, filter repository.LeadFilter) ([]*entity.Lead, error) {
	query := repo.db.WithContext(ctx).Model(&model.LeadModel{})
	if filter.AssignedDsaID != nil {
		query = query.Where("assigned_dsa_id = ?", *filter.AssignedDsaID)
	}
	if filter.MobileNumber != nil {
		if filter.NormalizeMobile {
			query = query.Where(normalizedMobileExpr+" = ?", entity.NormalizeMobile(*filter.MobileNumber))
		} else {
			query = query.Where("mobile_number = ?", *filter.MobileNumber)
		}
	}

	var leadsM []model.LeadModel
	if err := query.Order("created_at DESC, id DESC").Find(&leadsM).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list leads")
	}

	leads := make([]*entity.Lead, 0, len(leadsM))
	for i := range leadsM {
		leads = append(leads, toLeadDomain(&leadsM[i]))
	}

	return leads, nil
}

func (repo *leadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	now := time.Now()
	result := repo.db.WithContext(ctx).
		Model(&model.LeadModel{}).
		Where("id = ?", lead.ID).
		Updates(map[string]any{
			"status":          string(lead.Status),
			"remarks":         lead.Remarks,
			"assigned_dsa_id": lead.AssignedDsaID,
			"assigned_at":     lead.AssignedAt,
			"converted_at":    lead.ConvertedAt,
			"updated_at":      now,
		})
	if result.Error != nil {
		return translateWriteError(result.Error, "lead")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound.WithDetails("lead not found")
	}

	lead.UpdatedAt = now

	return nil
}

func toLeadDomain(data *model.LeadModel) *entity.Lead {
	return &entity.Lead{
		ID:            data.ID,
		Name:          data.Name,
		MobileNumber:  data.MobileNumber,
		Email:         data.Email,
		LoanType:      data.LoanType,
		Amount:        data.Amount,
		City:          data.City,
		Source:        data.Source,
		Status:        entity.LeadStatus(data.Status),
		AssignedDsaID: data.AssignedDsaID,
		AssignedAt:    data.AssignedAt,
		ConvertedAt:   data.ConvertedAt,
		Remarks:       data.Remarks,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func fromLeadDomain(data *entity.Lead) *model.LeadModel {
	return &model.LeadModel{
		ID:            data.ID,
		Name:          data.Name,
		MobileNumber:  data.MobileNumber,
		Email:         data.Email,
		LoanType:      data.LoanType,
		Amount:        data.Amount,
		City:          data.City,
		Source:        data.Source,
		Status:        string(data.Status),
		AssignedDsaID: data.AssignedDsaID,
		AssignedAt:    data.AssignedAt,
		ConvertedAt:   data.ConvertedAt,
		Remarks:       data.Remarks,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}
