package impl

import (
	"context"
	"log/slog"

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

// contactQueryService implements the ContactQueryUsecase interface.
type contactQueryService struct {
	txManager repository.TransactionManager
	queryRepo repository.ContactQueryRepository
	logger    *slog.Logger
}

// ContactQueryServiceParams holds dependencies for ContactQueryService, injected by Fx.
type ContactQueryServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	QueryRepo repository.ContactQueryRepository
	Logger    *slog.Logger
}

// NewContactQueryService is the constructor for contactQueryService.
func NewContactQueryService(params ContactQueryServiceParams) usecase.ContactQueryUsecase {
	return &contactQueryService{
		txManager: params.TxManager,
		queryRepo: params.QueryRepo,
		logger:    params.Logger,
	}
}

func (srv *contactQueryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *contactQueryService) Create(ctx context.Context, caller entity.Caller, input usecase.CreateContactQueryInput) (*entity.ContactQuery, error) {
	if _, err := authorize(caller, policy.OpCreateContactQuery); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	query := &entity.ContactQuery{
		Name:         input.Name,
		MobileNumber: input.MobileNumber,
		Email:        input.Email,
		LoanType:     input.LoanType,
		Message:      input.Message,
		Status:       entity.ContactQueryNew,
	}
	if err := srv.queryRepo.Create(ctx, query); err != nil {
		return nil, errors.Wrap(err, "failed to create contact query")
	}

	srv.log(ctx).Info("Contact query received", slog.Any("queryID", query.ID))

	return query, nil
}

func (srv *contactQueryService) List(ctx context.Context, caller entity.Caller) ([]*entity.ContactQuery, error) {
	if _, err := authorize(caller, policy.OpListContactQueries); err != nil {
		return nil, err
	}

	queries, err := srv.queryRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list contact queries")
	}

	return queries, nil
}

func (srv *contactQueryService) UpdateStatus(ctx context.Context, caller entity.Caller, id uuid.UUID, input usecase.UpdateContactQueryInput) (*entity.ContactQuery, error) {
	if _, err := authorize(caller, policy.OpUpdateContactQuery); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var query *entity.ContactQuery
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		queries := repoFactory.ContactQueryRepo()

		var findErr error
		query, findErr = queries.FindByID(ctx, id)
		if findErr != nil {
			return errors.Wrap(findErr, "failed to load contact query")
		}
		query.Status = input.Status

		return errors.Wrap(queries.Update(ctx, query), "failed to update contact query")
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute contact query update transaction")
	}

	return query, nil
}
