package main

import (
	"context"
	"log/slog"
	"os"

	"leadhub/config"
	"leadhub/internal/delivery"
	"leadhub/internal/delivery/http"
	"leadhub/internal/delivery/http/middleware"
	"leadhub/internal/delivery/http/router/handler"
	"leadhub/internal/domain/repository"
	"leadhub/internal/infra/auth"
	logs "leadhub/internal/infra/log"
	"leadhub/internal/infra/metrics"
	"leadhub/internal/infra/persistence/memory"
	"leadhub/internal/infra/persistence/postgres"
	"leadhub/internal/infra/session/redis"
	"leadhub/internal/usecase"
	"leadhub/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	fx.New(
		fx.Supply(cfg),
		injectInfra(),
		injectRepo(cfg),
		injectSessionStore(cfg),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			seedAdmin,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		logs.New,
		metrics.NewRegistry,
		context.Background,
	)
}

// injectRepo selects the record store. Both backends expose the same repository contracts.
func injectRepo(cfg *config.Config) fx.Option {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		return fx.Provide(
			newMemoryStore,
			func(store *memory.Store) repository.TransactionManager { return store },
			func(store *memory.Store) repository.UserRepository { return store.Repos().UserRepo() },
			func(store *memory.Store) repository.DsaPartnerRepository { return store.Repos().DsaPartnerRepo() },
			func(store *memory.Store) repository.LoanApplicationRepository {
				return store.Repos().LoanApplicationRepo()
			},
			func(store *memory.Store) repository.LeadRepository { return store.Repos().LeadRepo() },
			func(store *memory.Store) repository.ContactQueryRepository { return store.Repos().ContactQueryRepo() },
		)
	}

	return fx.Provide(
		postgres.New,
		postgres.NewTransactionManager,
		postgres.NewUserRepository,
		postgres.NewDsaPartnerRepository,
		postgres.NewLoanApplicationRepository,
		postgres.NewLeadRepository,
		postgres.NewContactQueryRepository,
	)
}

func newMemoryStore(logger *slog.Logger) *memory.Store {
	logger.Warn("Using the in-memory store; records are lost on restart")

	return memory.NewStore()
}

func injectSessionStore(cfg *config.Config) fx.Option {
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		return fx.Provide(
			redis.New,
			redis.NewSessionRepository,
		)
	case config.SessionStoreMemory:
		if cfg.Storage.Driver == config.StorageDriverMemory {
			return fx.Provide(func(store *memory.Store) repository.SessionRepository { return store.Sessions() })
		}

		return fx.Provide(func() repository.SessionRepository { return memory.NewStore().Sessions() })
	default:
		return fx.Provide(postgres.NewSessionRepository)
	}
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			impl.NewCompanionLeadHandler,
			impl.NewApplicationEventDispatcher,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewIdentityService,
			impl.NewLoanApplicationService,
			impl.NewLeadService,
			impl.NewDsaPartnerService,
			impl.NewContactQueryService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewIdentityHandler,
			handler.NewLoanApplicationHandler,
			handler.NewLeadHandler,
			handler.NewDsaPartnerHandler,
			handler.NewContactQueryHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// seedAdmin creates the configured administrator once the stores are up.
func seedAdmin(lc fx.Lifecycle, cfg *config.Config, identity usecase.IdentityUsecase, logger *slog.Logger) {
	seed := cfg.Bootstrap.Admin
	if seed == nil || seed.Username == "" {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var city *string
			if seed.City != "" {
				city = &seed.City
			}

			created, err := identity.EnsureAdmin(ctx, usecase.AdminSeed{
				Username:     seed.Username,
				Email:        seed.Email,
				Password:     seed.Password,
				FullName:     seed.FullName,
				MobileNumber: seed.MobileNumber,
				City:         city,
			})
			if err != nil {
				return err
			}
			if created {
				logger.Info("Administrator account created", slog.String("username", seed.Username))
			}

			return nil
		},
	})
}

// startServer launches every delivery once all start hooks, including the admin seed, have run.
func startServer(ctx context.Context, params startServerParams) {
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for _, delivery := range params.Deliveries {
				go func() {
					if err := delivery.Serve(ctx); err != nil {
						slog.Error("Failed to start server", slog.Any("error", err))
						os.Exit(1)
					}
				}()
			}

			return nil
		},
	})
}
