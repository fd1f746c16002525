package impl

import (
	"context"
	"log/slog"

	deliverycontext "leadhub/internal/delivery/context"
	"leadhub/internal/domain/entity"
	"leadhub/internal/domain/event"
	"leadhub/internal/domain/repository"

	"github.com/pkg/errors"
)

// companionLeadHandler records a lead for every new application so the
// applicant shows up in the admin lead pipeline.
type companionLeadHandler struct {
	logger *slog.Logger
}

// NewCompanionLeadHandler returns the ApplicationCreated handler that creates companion leads.
func NewCompanionLeadHandler(logger *slog.Logger) event.ApplicationCreatedHandler {
	return &companionLeadHandler{logger: logger}
}

// NewApplicationEventDispatcher wires the ApplicationCreated handlers.
func NewApplicationEventDispatcher(handler event.ApplicationCreatedHandler) *event.Dispatcher {
	return event.NewDispatcher(handler)
}

// HandleApplicationCreated copies the owner's contact snapshot into a new lead.
// A missing owner skips the lead; any other failure aborts the transaction.
func (h *companionLeadHandler) HandleApplicationCreated(ctx context.Context, repos repository.RepositoryFactory, evt event.ApplicationCreated) error {
	app := evt.Application
	if app.UserID == nil {
		return nil
	}

	owner, err := repos.UserRepo().FindByID(ctx, *app.UserID)
	if err != nil {
		if isNotFound(err) {
			deliverycontext.GetLoggerOrDefault(ctx, h.logger).Warn("Skipping companion lead, owner not found",
				slog.Any("applicationID", app.ID), slog.Any("userID", *app.UserID))

			return nil
		}

		return errors.Wrap(err, "failed to load application owner")
	}

	email := owner.Email
	lead := &entity.Lead{
		Name:         owner.FullName,
		MobileNumber: owner.MobileNumber,
		Email:        &email,
		LoanType:     app.LoanType,
		Amount:       app.Amount,
		City:         owner.City,
		Source:       entity.LeadSourceApplication,
		Status:       entity.LeadNew,
	}
	if err := repos.LeadRepo().Create(ctx, lead); err != nil {
		return errors.Wrap(err, "failed to create companion lead")
	}

	return nil
}
