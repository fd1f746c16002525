package impl

import (
	"context"
	"log/slog"
	"slices"

	deliverycontext "leadhub/internal/delivery/context"
	"leadhub/internal/domain/entity"
	"leadhub/internal/domain/event"
	"leadhub/internal/domain/policy"
	"leadhub/internal/domain/repository"
	"leadhub/internal/usecase"
	"leadhub/internal/validation"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// loanApplicationService implements the LoanApplicationUsecase interface.
type loanApplicationService struct {
	txManager  repository.TransactionManager
	appRepo    repository.LoanApplicationRepository
	leadRepo   repository.LeadRepository
	dispatcher *event.Dispatcher
	logger     *slog.Logger
}

// LoanApplicationServiceParams holds dependencies for LoanApplicationService, injected by Fx.
type LoanApplicationServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	AppRepo    repository.LoanApplicationRepository
	LeadRepo   repository.LeadRepository
	Dispatcher *event.Dispatcher
	Logger     *slog.Logger
}

// NewLoanApplicationService is the constructor for loanApplicationService.
func NewLoanApplicationService(params LoanApplicationServiceParams) usecase.LoanApplicationUsecase {
	return &loanApplicationService{
		txManager:  params.TxManager,
		appRepo:    params.AppRepo,
		leadRepo:   params.LeadRepo,
		dispatcher: params.Dispatcher,
		logger:     params.Logger,
	}
}

func (srv *loanApplicationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create stores an application owned by the caller and raises ApplicationCreated
// inside the same transaction, so the companion lead commits or rolls back with it.
func (srv *loanApplicationService) Create(ctx context.Context, caller entity.Caller, input usecase.CreateApplicationInput) (*entity.LoanApplication, error) {
	if _, err := authorize(caller, policy.OpCreateApplication); err != nil {
		return nil, err
	}
	if err := validateApplicationNumbers(input.Amount, input.MonthlyIncome); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	ownerID := caller.UserID
	app := &entity.LoanApplication{
		UserID:         &ownerID,
		LoanType:       input.LoanType,
		Amount:         input.Amount,
		Tenure:         input.Tenure,
		MonthlyIncome:  input.MonthlyIncome,
		EmploymentType: input.EmploymentType,
		Purpose:        input.Purpose,
		Documents:      slices.Clone(input.Documents),
		InterestRate:   entity.DefaultInterestRate,
		Status:         entity.ApplicationPending,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.LoanApplicationRepo().Create(ctx, app); err != nil {
			return errors.Wrap(err, "failed to create loan application")
		}

		return srv.dispatcher.DispatchApplicationCreated(ctx, repoFactory, event.ApplicationCreated{
			Application: app,
			Caller:      caller,
		})
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create loan application", slog.Any("userID", caller.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute application transaction")
	}

	srv.log(ctx).Info("Loan application created", slog.Any("applicationID", app.ID), slog.Any("userID", caller.UserID))

	return app, nil
}

// CreateDirect records an anonymous application as a lead. The lead id doubles as the tracking number.
func (srv *loanApplicationService) CreateDirect(ctx context.Context, caller entity.Caller, input usecase.DirectApplicationInput) (*usecase.DirectApplicationOutput, error) {
	if _, err := authorize(caller, policy.OpCreateDirectApplication); err != nil {
		return nil, err
	}
	if err := validateApplicationNumbers(input.Amount, input.MonthlyIncome); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	email := input.ApplicantInfo.Email
	lead := &entity.Lead{
		Name:         input.ApplicantInfo.FullName,
		MobileNumber: input.ApplicantInfo.MobileNumber,
		Email:        &email,
		LoanType:     input.LoanType,
		Amount:       input.Amount,
		City:         input.ApplicantInfo.City,
		Source:       entity.LeadSourceDirectApplication,
		Status:       entity.LeadNew,
	}
	if err := srv.leadRepo.Create(ctx, lead); err != nil {
		return nil, errors.Wrap(err, "failed to create direct application lead")
	}

	srv.log(ctx).Info("Direct application received", slog.Any("leadID", lead.ID))

	return &usecase.DirectApplicationOutput{
		ApplicationID:  lead.ID,
		TrackingNumber: lead.ID,
		Lead:           lead,
	}, nil
}

// List returns the applications visible to the caller.
func (srv *loanApplicationService) List(ctx context.Context, caller entity.Caller) ([]*entity.LoanApplication, error) {
	decision, err := authorize(caller, policy.OpListApplications)
	if err != nil {
		return nil, err
	}

	var filter repository.ApplicationFilter
	switch decision.Filter.Kind {
	case policy.FilterOwner:
		filter.OwnerID = &decision.Filter.UserID
	case policy.FilterAssignedDsa:
		filter.AssignedDsaID = &decision.Filter.UserID
	}

	apps, err := srv.appRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list loan applications")
	}

	return apps, nil
}

// Update applies the fields of patch the caller's role may write.
func (srv *loanApplicationService) Update(ctx context.Context, caller entity.Caller, id uuid.UUID, patch usecase.ApplicationPatch) (*entity.LoanApplication, error) {
	decision, err := authorize(caller, policy.OpUpdateApplication)
	if err != nil {
		return nil, err
	}

	fields := policy.PatchableFields(caller.Role, policy.KindLoanApplication)
	if err := validateApplicationPatch(patch, fields); err != nil {
		return nil, err
	}

	var app *entity.LoanApplication
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		apps := repoFactory.LoanApplicationRepo()

		var findErr error
		app, findErr = apps.FindByID(ctx, id)
		if findErr != nil {
			return errors.Wrap(findErr, "failed to load loan application")
		}
		if !decision.PermitsApplication(app) {
			return notVisible("loan application")
		}

		changed, applyErr := applyApplicationPatch(ctx, repoFactory.UserRepo(), app, patch, fields)
		if applyErr != nil || !changed {
			return applyErr
		}

		return errors.Wrap(apps.Update(ctx, app), "failed to update loan application")
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute application update transaction")
	}

	srv.log(ctx).Debug("Loan application updated", slog.Any("applicationID", id), slog.Any("by", caller.UserID))

	return app, nil
}

func validateApplicationNumbers(amount, monthlyIncome *decimal.Decimal) error {
	if err := requireNonNegative("amount", amount); err != nil {
		return err
	}

	return requireNonNegative("monthlyIncome", monthlyIncome)
}

func validateApplicationPatch(patch usecase.ApplicationPatch, fields policy.FieldSet) error {
	if fields.Has(policy.FieldStatus) && patch.Status != nil && !patch.Status.IsValid() {
		return validation.Fail("status: must be one of [pending under-review approved rejected]")
	}
	if fields.Has(policy.FieldInterestRate) {
		return requireNonNegative("interestRate", patch.InterestRate)
	}

	return nil
}

func applyApplicationPatch(
	ctx context.Context,
	users repository.UserRepository,
	app *entity.LoanApplication,
	patch usecase.ApplicationPatch,
	fields policy.FieldSet,
) (bool, error) {
	changed := false

	if fields.Has(policy.FieldStatus) && patch.Status != nil {
		app.Status = *patch.Status
		changed = true
	}
	if fields.Has(policy.FieldAssignedDsaID) && patch.AssignedDsaID != nil {
		if err := ensureDsaUser(ctx, users, *patch.AssignedDsaID); err != nil {
			return false, err
		}
		dsaID := *patch.AssignedDsaID
		app.AssignedDsaID = &dsaID
		changed = true
	}
	if fields.Has(policy.FieldRemarks) && patch.Remarks != nil {
		remarks := *patch.Remarks
		app.Remarks = &remarks
		changed = true
	}
	if fields.Has(policy.FieldInterestRate) && patch.InterestRate != nil {
		app.InterestRate = *patch.InterestRate
		changed = true
	}

	return changed, nil
}
