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

type loanApplicationRepository struct {
	db *gorm.DB
}

// NewLoanApplicationRepository is the constructor for loanApplicationRepository.
func NewLoanApplicationRepository(db *gorm.DB) repository.LoanApplicationRepository {
	return &loanApplicationRepository{db: db}
}

func (repo *loanApplicationRepository) Create(ctx context.Context, app *entity.LoanApplication) error {
	if app.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate application id")
		}
		app.ID = id
	}

	appM := fromLoanApplicationDomain(app)
	if err := repo.db.WithContext(ctx).Create(appM).Error; err != nil {
		return translateWriteError(err, "loan application")
	}

	app.CreatedAt = appM.CreatedAt
	app.UpdatedAt = appM.UpdatedAt

	return nil
}

func (repo *loanApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.LoanApplication, error) {
	var appM model.LoanApplicationModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&appM).Error; err != nil {
		return nil, notFoundOr(err, "loan application")
	}

	return toLoanApplicationDomain(&appM), nil
}

func (repo *loanApplicationRepository) List(ctx context.Context, filter repository.ApplicationFilter) ([]*entity.LoanApplication, error) {
	query := repo.db.WithContext(ctx).Model(&model.LoanApplicationModel{})
	if filter.OwnerID != nil {
		query = query.Where("user_id = ?", *filter.OwnerID)
	}
	if filter.AssignedDsaID != nil {
		query = query.Where("assigned_dsa_id = ?", *filter.AssignedDsaID)
	}

	var appsM []model.LoanApplicationModel
	if err := query.Order("created_at DESC, id DESC").Find(&appsM).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list loan applications")
	}

	apps := make([]*entity.LoanApplication, 0, len(appsM))
	for i := range appsM {
		apps = append(apps, toLoanApplicationDomain(&appsM[i]))
	}

	return apps, nil
}

func (repo *loanApplicationRepository) Update(ctx context.Context, app *entity.LoanApplication) error {
	now := time.Now()
	result := repo.db.WithContext(ctx).
		Model(&model.LoanApplicationModel{}).
		Where("id = ?", app.ID).
		Updates(map[string]any{
			"status":          string(app.Status),
			"assigned_dsa_id": app.AssignedDsaID,
			"remarks":         app.Remarks,
			"interest_rate":   app.InterestRate,
			"updated_at":      now,
		})
	if result.Error != nil {
		return translateWriteError(result.Error, "loan application")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound.WithDetails("loan application not found")
	}

	app.UpdatedAt = now

	return nil
}

func toLoanApplicationDomain(data *model.LoanApplicationModel) *entity.LoanApplication {
	return &entity.LoanApplication{
		ID:             data.ID,
		UserID:         data.UserID,
		LoanType:       data.LoanType,
		Amount:         data.Amount,
		Tenure:         data.Tenure,
		MonthlyIncome:  data.MonthlyIncome,
		EmploymentType: data.EmploymentType,
		Purpose:        data.Purpose,
		Documents:      data.Documents,
		InterestRate:   data.InterestRate,
		Status:         entity.ApplicationStatus(data.Status),
		AssignedDsaID:  data.AssignedDsaID,
		Remarks:        data.Remarks,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

func fromLoanApplicationDomain(data *entity.LoanApplication) *model.LoanApplicationModel {
	return &model.LoanApplicationModel{
		ID:             data.ID,
		UserID:         data.UserID,
		LoanType:       data.LoanType,
		Amount:         data.Amount,
		Tenure:         data.Tenure,
		MonthlyIncome:  data.MonthlyIncome,
		EmploymentType: data.EmploymentType,
		Purpose:        data.Purpose,
		Documents:      data.Documents,
		InterestRate:   data.InterestRate,
		Status:         string(data.Status),
		AssignedDsaID:  data.AssignedDsaID,
		Remarks:        data.Remarks,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
