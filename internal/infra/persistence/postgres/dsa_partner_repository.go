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
)

const partnerDetailColumns = "dsa_partners.*, users.username, users.email, users.full_name, " +
	"users.mobile_number, users.city, users.is_active"

type dsaPartnerRepository struct {
	db *gorm.DB
}

// NewDsaPartnerRepository is the constructor for dsaPartnerRepository.
func NewDsaPartnerRepository(db *gorm.DB) repository.DsaPartnerRepository {
	return &dsaPartnerRepository{db: db}
}

func (repo *dsaPartnerRepository) Create(ctx context.Context, partner *entity.DsaPartner) error {
	if partner.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate partner id")
		}
		partner.ID = id
	}

	partnerM := fromDsaPartnerDomain(partner)
	if err := repo.db.WithContext(ctx).Create(partnerM).Error; err != nil {
		return translateWriteError(err, "dsa partner")
	}

	partner.CreatedAt = partnerM.CreatedAt
	partner.UpdatedAt = partnerM.UpdatedAt

	return nil
}

func (repo *dsaPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.DsaPartner, error) {
	return repo.first(ctx, "id = ?", id)
}

func (repo *dsaPartnerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.DsaPartner, error) {
	return repo.first(ctx, "user_id = ?", userID)
}

func (repo *dsaPartnerRepository) first(ctx context.Context, query string, args ...any) (*entity.DsaPartner, error) {
	var partnerM model.DsaPartnerModel
	if err := repo.db.WithContext(ctx).Where(query, args...).First(&partnerM).Error; err != nil {
		return nil, notFoundOr(err, "dsa partner")
	}

	return toDsaPartnerDomain(&partnerM), nil
}

// List joins partners with their users, newest first. A non-nil userID narrows to that user's profile.
func (repo *dsaPartnerRepository) List(ctx context.Context, userID *uuid.UUID) ([]*entity.DsaPartnerDetail, error) {
	query := repo.db.WithContext(ctx).
		Model(&model.DsaPartnerModel{}).
		Select(partnerDetailColumns).
		Joins("JOIN users ON users.id = dsa_partners.user_id")
	if userID != nil {
		query = query.Where("dsa_partners.user_id = ?", *userID)
	}

	var rows []model.DsaPartnerDetailRow
	if err := query.Order("dsa_partners.created_at DESC, dsa_partners.id DESC").Scan(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list dsa partners")
	}

	details := make([]*entity.DsaPartnerDetail, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		details = append(details, &entity.DsaPartnerDetail{
			DsaPartner:   *toDsaPartnerDomain(&row.DsaPartnerModel),
			Username:     row.Username,
			Email:        row.Email,
			FullName:     row.FullName,
			MobileNumber: row.MobileNumber,
			City:         row.City,
			IsActive:     row.IsActive,
		})
	}

	return details, nil
}

func (repo *dsaPartnerRepository) Update(ctx context.Context, partner *entity.DsaPartner) error {
	now := time.Now()
	result := repo.db.WithContext(ctx).
		Model(&model.DsaPartnerModel{}).
		Where("id = ?", partner.ID).
		Updates(map[string]any{
			"experience":       partner.Experience,
			"background":       partner.Background,
			"profile_picture":  partner.ProfilePicture,
			"commission_rate":  partner.CommissionRate,
			"total_earnings":   partner.TotalEarnings,
			"total_leads":      partner.TotalLeads,
			"successful_leads": partner.SuccessfulLeads,
			"kyc_status":       string(partner.KycStatus),
			"updated_at":       now,
		})
	if result.Error != nil {
		return translateWriteError(result.Error, "dsa partner")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound.WithDetails("dsa partner not found")
	}

	partner.UpdatedAt = now

	return nil
}

func toDsaPartnerDomain(data *model.DsaPartnerModel) *entity.DsaPartner {
	return &entity.DsaPartner{
		ID:              data.ID,
		UserID:          data.UserID,
		Experience:      data.Experience,
		Background:      data.Background,
		ProfilePicture:  data.ProfilePicture,
		CommissionRate:  data.CommissionRate,
		TotalEarnings:   data.TotalEarnings,
		TotalLeads:      data.TotalLeads,
		SuccessfulLeads: data.SuccessfulLeads,
		KycStatus:       entity.KycStatus(data.KycStatus),
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

func fromDsaPartnerDomain(data *entity.DsaPartner) *model.DsaPartnerModel {
	return &model.DsaPartnerModel{
		ID:              data.ID,
		UserID:          data.UserID,
		Experience:      data.Experience,
		Background:      data.Background,
		ProfilePicture:  data.ProfilePicture,
		CommissionRate:  data.CommissionRate,
		TotalEarnings:   data.TotalEarnings,
		TotalLeads:      data.TotalLeads,
		SuccessfulLeads: data.SuccessfulLeads,
		KycStatus:       string(data.KycStatus),
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
