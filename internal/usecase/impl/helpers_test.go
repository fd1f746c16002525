package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"leadhub/config"
	"leadhub/internal/domain/entity"
	"leadhub/internal/domain/repository"
	"leadhub/internal/infra/auth"
	"leadhub/internal/infra/persistence/memory"
	"leadhub/internal/usecase"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost},
	}
	cfg.SecretKey.Access = "impl-test-secret"
	cfg.Session.TTL = time.Hour

	return cfg
}

// testEnv wires every service against one in-memory store.
type testEnv struct {
	store     *memory.Store
	cfg       *config.Config
	identity  usecase.IdentityUsecase
	apps      usecase.LoanApplicationUsecase
	leads     usecase.LeadUsecase
	partners  usecase.DsaPartnerUsecase
	queries   usecase.ContactQueryUsecase
	txManager repository.TransactionManager
	sessions  repository.SessionRepository
}

type envOption func(*testEnv)

// withTxManager swaps the transaction manager used by every service.
func withTxManager(wrap func(repository.TransactionManager) repository.TransactionManager) envOption {
	return func(env *testEnv) {
		env.txManager = wrap(env.txManager)
	}
}

// withSessionRepo swaps the session store used by every service.
func withSessionRepo(wrap func(repository.SessionRepository) repository.SessionRepository) envOption {
	return func(env *testEnv) {
		env.sessions = wrap(env.sessions)
	}
}

func withConfig(mutate func(*config.Config)) envOption {
	return func(env *testEnv) {
		mutate(env.cfg)
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	store := memory.NewStore()
	env := &testEnv{store: store, cfg: newTestConfig(), txManager: store, sessions: store.Sessions()}
	for _, opt := range opts {
		opt(env)
	}

	logger := newDiscardLogger()
	repos := store.Repos()
	hasher := auth.NewBcryptHasher(env.cfg)
	tokens, err := auth.NewJWTService(env.cfg)
	require.NoError(t, err)

	env.identity = NewIdentityService(IdentityServiceParams{
		TxManager:    env.txManager,
		UserRepo:     repos.UserRepo(),
		PartnerRepo:  repos.DsaPartnerRepo(),
		SessionRepo:  env.sessions,
		Hasher:       hasher,
		TokenService: tokens,
		Config:       env.cfg,
		Logger:       logger,
	})
	env.apps = NewLoanApplicationService(LoanApplicationServiceParams{
		TxManager:  env.txManager,
		AppRepo:    repos.LoanApplicationRepo(),
		LeadRepo:   repos.LeadRepo(),
		Dispatcher: NewApplicationEventDispatcher(NewCompanionLeadHandler(logger)),
		Logger:     logger,
	})
	env.leads = NewLeadService(LeadServiceParams{
		TxManager: env.txManager,
		LeadRepo:  repos.LeadRepo(),
		Config:    env.cfg,
		Logger:    logger,
	})
	env.partners = NewDsaPartnerService(DsaPartnerServiceParams{
		TxManager:   env.txManager,
		PartnerRepo: repos.DsaPartnerRepo(),
		SessionRepo: env.sessions,
		Hasher:      hasher,
		Logger:      logger,
	})
	env.queries = NewContactQueryService(ContactQueryServiceParams{
		TxManager: env.txManager,
		QueryRepo: repos.ContactQueryRepo(),
		Logger:    logger,
	})

	return env
}

func registerInput(username string) usecase.RegisterInput {
	return usecase.RegisterInput{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "secret-" + username,
		FullName:     "Full " + username,
		MobileNumber: "9000000000",
	}
}

func (env *testEnv) registerUser(t *testing.T, username string) entity.Caller {
	t.Helper()

	user, err := env.identity.Register(context.Background(), registerInput(username))
	require.NoError(t, err)

	return user.Caller()
}

func (env *testEnv) registerDsa(t *testing.T, username string) entity.Caller {
	t.Helper()

	out, err := env.partners.Register(context.Background(), entity.AnonymousCaller(), usecase.RegisterDsaPartnerInput{
		UserData: registerInput(username),
	})
	require.NoError(t, err)

	return out.User.Caller()
}

func (env *testEnv) seedAdmin(t *testing.T) entity.Caller {
	t.Helper()

	ctx := context.Background()
	_, err := env.identity.EnsureAdmin(ctx, usecase.AdminSeed{
		Username:     "admin",
		Email:        "admin@example.com",
		Password:     "admin-secret",
		FullName:     "Admin",
		MobileNumber: "9000000001",
	})
	require.NoError(t, err)

	admin, err := env.store.Repos().UserRepo().FindByUsername(ctx, "admin")
	require.NoError(t, err)

	return admin.Caller()
}

func (env *testEnv) createLead(t *testing.T, mobile string) *entity.Lead {
	t.Helper()

	lead, err := env.leads.Create(context.Background(), entity.AnonymousCaller(), usecase.CreateLeadInput{
		Name:         "Lead " + mobile,
		MobileNumber: mobile,
		LoanType:     "personal",
	})
	require.NoError(t, err)

	return lead
}

func ptr[T any](v T) *T {
	return &v
}
