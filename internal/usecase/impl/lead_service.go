package impl

import (
	"context"
	"log/slog"
	"time"

	"leadhub/config"
	deliverycontext "leadhub/internal/delivery/context"
	"leadhub/internal/domain/entity"
	"leadhub/internal/domain/policy"
	"leadhub/internal/domain/repository"
	"leadhub/internal/usecase"
	"leadhub/internal/validation"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// leadService implements the LeadUsecase interface.
type leadService struct {
	txManager       repository.TransactionManager
	leadRepo        repository.LeadRepository
	normalizeMobile bool
	now             func() time.Time
	logger          *slog.Logger
}

// LeadServiceParams holds dependencies for LeadService, injected by Fx.
type LeadServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	LeadRepo  repository.LeadRepository
	Config    *config.Config
	Logger    *slog.Logger
}

// NewLeadService is the constructor for leadService.
func NewLeadService(params LeadServiceParams) usecase.LeadUsecase {
	return &leadService{
		txManager:       params.TxManager,
		leadRepo:        params.LeadRepo,
		normalizeMobile: params.Config.Tracking.NormalizeMobile,
		now:             time.Now,
		logger:          params.Logger,
	}
}

func (srv *leadService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create records a new lead in status new.
func (srv *leadService) Create(ctx context.Context, caller entity.Caller, input usecase.CreateLeadInput) (*entity.Lead, error) {
	if _, err := authorize(caller, policy.OpCreateLead); err != nil {
		return nil, err
	}
	if err := requireNonNegative("amount", input.Amount); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	source := input.Source
	if source == "" {
		source = entity.LeadSourceWebsite
	}

	lead := &entity.Lead{
		Name:         input.Name,
		MobileNumber: input.MobileNumber,
		Email:        input.Email,
		LoanType:     input.LoanType,
		Amount:       input.Amount,
		City:         input.City,
		Source:       source,
		Status:       entity.LeadNew,
		Remarks:      input.Remarks,
	}
	if err := srv.leadRepo.Create(ctx, lead); err != nil {
		return nil, errors.Wrap(err, "failed to create lead")
	}

	srv.log(ctx).Info("Lead created", slog.Any("leadID", lead.ID), slog.String("source", source))

	return lead, nil
}

// List returns the leads visible to the caller.
func (srv *leadService) List(ctx context.Context, caller entity.Caller) ([]*entity.Lead, error) {
	decision, err := authorize(caller, policy.OpListLeads)
	if err != nil {
		return nil, err
	}

	var filter repository.LeadFilter
	if decision.Filter.Kind == policy.FilterAssignedDsa {
		filter.AssignedDsaID = &decision.Filter.UserID
	}

	leads, err := srv.leadRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list leads")
	}

	return leads, nil
}

// Update applies the fields of patch the caller's role may write. A dsa may
// only touch leads assigned to them; other leads look missing.
func (srv *leadService) Update(ctx context.Context, caller entity.Caller, id uuid.UUID, patch usecase.LeadPatch) (*entity.Lead, error) {
	decision, err := authorize(caller, policy.OpUpdateLead)
	if err != nil {
		return nil, err
	}

	fields := policy.PatchableFields(caller.Role, policy.KindLead)
	if fields.Has(policy.FieldStatus) && patch.Status != nil && !patch.Status.IsValid() {
		return nil, validation.Fail("status: must be one of [new contacted qualified converted closed]")
	}

	var lead *entity.Lead
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		leads := repoFactory.LeadRepo()

		var findErr error
		lead, findErr = leads.FindByIDForUpdate(ctx, id)
		if findErr != nil {
			return errors.Wrap(findErr, "failed to load lead")
		}
		if !decision.PermitsLead(lead) {
			return notVisible("lead")
		}

		changed, applyErr := srv.applyLeadPatch(ctx, repoFactory.UserRepo(), lead, patch, fields)
		if applyErr != nil || !changed {
			return applyErr
		}

		return errors.Wrap(leads.Update(ctx, lead), "failed to update lead")
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute lead update transaction")
	}

	srv.log(ctx).Debug("Lead updated", slog.Any("leadID", id), slog.Any("by", caller.UserID))

	return lead, nil
}

func (srv *leadService) applyLeadPatch(
	ctx context.Context,
	users repository.UserRepository,
	lead *entity.Lead,
	patch usecase.LeadPatch,
	fields policy.FieldSet,
) (bool, error) {
	now := srv.now()
	changed := false

	if fields.Has(policy.FieldStatus) && patch.Status != nil {
		status := *patch.Status
		if status != lead.Status || (status == entity.LeadConverted && lead.ConvertedAt == nil) {
			lead.SetStatus(status, now)
			changed = true
		}
	}
	if fields.Has(policy.FieldRemarks) && patch.Remarks != nil {
		remarks := *patch.Remarks
		lead.Remarks = &remarks
		changed = true
	}
	if fields.Has(policy.FieldAssignedDsaID) && patch.AssignedDsaID != nil {
		if err := ensureDsaUser(ctx, users, *patch.AssignedDsaID); err != nil {
			return false, err
		}
		if lead.Assign(*patch.AssignedDsaID, now) {
			changed = true
		}
	}

	return changed, nil
}

// AssignToDsa points a lead at a dsa user. Re-assigning to the current dsa changes nothing.
func (srv *leadService) AssignToDsa(ctx context.Context, caller entity.Caller, leadID, dsaID uuid.UUID) (*entity.Lead, error) {
	if _, err := authorize(caller, policy.OpAssignLead); err != nil {
		return nil, err
	}

	var lead *entity.Lead
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		leads := repoFactory.LeadRepo()

		var findErr error
		lead, findErr = leads.FindByIDForUpdate(ctx, leadID)
		if findErr != nil {
			return errors.Wrap(findErr, "failed to load lead")
		}
		if err := ensureDsaUser(ctx, repoFactory.UserRepo(), dsaID); err != nil {
			return err
		}

		if !lead.Assign(dsaID, srv.now()) {
			return nil
		}

		return errors.Wrap(leads.Update(ctx, lead), "failed to assign lead")
	})
	if err != nil {
		srv.log(ctx).Warn("Lead assignment failed", slog.Any("leadID", leadID), slog.Any("dsaID", dsaID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute lead assignment transaction")
	}

	srv.log(ctx).Info("Lead assigned", slog.Any("leadID", leadID), slog.Any("dsaID", dsaID))

	return lead, nil
}

// TrackByMobile lists the leads recorded for a mobile number.
func (srv *leadService) TrackByMobile(ctx context.Context, caller entity.Caller, mobileNumber string) ([]*entity.Lead, error) {
	if _, err := authorize(caller, policy.OpTrackByMobile); err != nil {
		return nil, err
	}
	if mobileNumber == "" {
		return nil, validation.Fail("mobileNumber: is required")
	}

	leads, err := srv.leadRepo.List(ctx, repository.LeadFilter{
		MobileNumber:    &mobileNumber,
		NormalizeMobile: srv.normalizeMobile,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to track leads by mobile")
	}

	return leads, nil
}
