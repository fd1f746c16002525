package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"leadhub/config"
	deliverycontext "leadhub/internal/delivery/context"
	"leadhub/internal/domain/entity"
	domainerrors "leadhub/internal/domain/errors"
	"leadhub/internal/domain/policy"
	"leadhub/internal/domain/repository"
	"leadhub/internal/domain/service"
	"leadhub/internal/usecase"
	"leadhub/internal/validation"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// dummyPassword is hashed once and compared against when a login names no
// active user, so unknown and known logins cost the same bcrypt work.
const dummyPassword = "leadhub-timing-equalizer"

// identityService implements the IdentityUsecase interface.
type identityService struct {
	txManager             repository.TransactionManager
	userRepo              repository.UserRepository
	partnerRepo           repository.DsaPartnerRepository
	sessionRepo           repository.SessionRepository
	hasher                service.PasswordHasher
	tokenService          service.TokenService
	sessionTTL            time.Duration
	requireVerifiedDsaKyc bool
	now                   func() time.Time
	logger                *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// IdentityServiceParams holds dependencies for IdentityService, injected by Fx.
type IdentityServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	PartnerRepo  repository.DsaPartnerRepository
	SessionRepo  repository.SessionRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewIdentityService is the constructor for identityService.
func NewIdentityService(params IdentityServiceParams) usecase.IdentityUsecase {
	srv := &identityService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		partnerRepo:  params.PartnerRepo,
		sessionRepo:  params.SessionRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		sessionTTL:   params.Config.Session.TTL,
		now:          time.Now,
		logger:       params.Logger,
	}
	if params.Config.Auth != nil {
		srv.requireVerifiedDsaKyc = params.Config.Auth.RequireVerifiedDsaKyc
	}
	if srv.sessionTTL <= 0 {
		srv.sessionTTL = 24 * time.Hour
	}

	return srv
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *identityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a user or dsa account. Admin accounts only come from EnsureAdmin.
func (srv *identityService) Register(ctx context.Context, input usecase.RegisterInput) (*entity.User, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = entity.RoleUser
	}
	if role == entity.RoleAdmin {
		return nil, validation.Fail("role: admin accounts cannot be self-registered")
	}

	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username), slog.String("role", role.String()))

	hash, err := hashPassword(srv.hasher, input.Password)
	if err != nil {
		return nil, err
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var createErr error
		user, createErr = createAccount(ctx, repoFactory.UserRepo(), input, role, hash)

		return createErr
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", user.ID))

	return user, nil
}

func (srv *identityService) dummy() string {
	srv.dummyOnce.Do(func() {
		hash, err := srv.hasher.Hash(dummyPassword)
		if err != nil {
			srv.logger.Error("Failed to prepare dummy password hash", slog.Any("error", err))

			return
		}
		srv.dummyHash = hash
	})

	return srv.dummyHash
}

// Authenticate verifies credentials of an active user. Every failure is ErrInvalidCredentials.
func (srv *identityService) Authenticate(ctx context.Context, login, password string) (*entity.User, error) {
	user, err := srv.userRepo.FindActiveByLogin(ctx, login)
	if err != nil {
		if !isNotFound(err) {
			return nil, errors.Wrap(err, "failed to load login user")
		}
		srv.hasher.Check(password, srv.dummy())
		srv.log(ctx).Warn("Login failed", slog.String("reason", "unknown login"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	if !srv.hasher.Check(password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("reason", "password mismatch"), slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	return user, nil
}

// EstablishSession binds a new session to the user and returns its signed token.
func (srv *identityService) EstablishSession(ctx context.Context, user *entity.User) (*usecase.SessionOutput, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session id")
	}

	now := srv.now()
	session := &entity.Session{
		ID:        id,
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(srv.sessionTTL),
	}
	if err := srv.sessionRepo.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to store session")
	}

	token, err := srv.tokenService.Issue(session)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue session token")
	}

	return &usecase.SessionOutput{Token: token, Session: session, User: user}, nil
}

// Login authenticates and, when allowed, opens a session.
func (srv *identityService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.SessionOutput, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	user, err := srv.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	if user.Role == entity.RoleDsa && srv.requireVerifiedDsaKyc {
		if err := srv.checkDsaKyc(ctx, user); err != nil {
			return nil, err
		}
	}

	output, err := srv.EstablishSession(ctx, user)
	if err != nil {
		srv.log(ctx).Error("Failed to establish session", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID), slog.String("role", user.Role.String()))

	return output, nil
}

func (srv *identityService) checkDsaKyc(ctx context.Context, user *entity.User) error {
	partner, err := srv.partnerRepo.FindByUserID(ctx, user.ID)
	if err != nil && !isNotFound(err) {
		return errors.Wrap(err, "failed to load dsa partner")
	}
	if err != nil || partner.KycStatus != entity.KycVerified {
		srv.log(ctx).Warn("DSA login refused pending KYC", slog.Any("userID", user.ID))

		return errors.Wrap(domainerrors.ErrKycVerificationRequired, "login failed")
	}

	return nil
}

// ResolveSession turns a token into the caller bound to its session.
func (srv *identityService) ResolveSession(ctx context.Context, token string) (entity.Caller, error) {
	claims, err := srv.tokenService.Parse(token)
	if err != nil {
		return entity.AnonymousCaller(), err
	}

	session, err := srv.sessionRepo.FindByID(ctx, claims.SessionID)
	if err != nil {
		if isNotFound(err) {
			return entity.AnonymousCaller(), domainerrors.ErrUnauthenticated.WrapMessage("session ended or expired")
		}

		return entity.AnonymousCaller(), errors.Wrap(err, "failed to load session")
	}
	if session.UserID != claims.UserID || session.IsExpired(srv.now()) {
		return entity.AnonymousCaller(), domainerrors.ErrUnauthenticated.WrapMessage("session does not match token")
	}

	// A deactivated account loses its sessions even if purging them failed.
	user, err := srv.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		if isNotFound(err) {
			return entity.AnonymousCaller(), domainerrors.ErrUnauthenticated.WrapMessage("user no longer exists")
		}

		return entity.AnonymousCaller(), errors.Wrap(err, "failed to load session user")
	}
	if !user.IsActive {
		return entity.AnonymousCaller(), domainerrors.ErrUnauthenticated.WrapMessage("user is deactivated")
	}

	return session.Caller(), nil
}

// EndSession deletes the caller's session binding.
func (srv *identityService) EndSession(ctx context.Context, caller entity.Caller) error {
	if caller.IsAnonymous() || caller.SessionID == uuid.Nil {
		return nil
	}

	if err := srv.sessionRepo.Delete(ctx, caller.SessionID); err != nil {
		return errors.Wrap(err, "failed to delete session")
	}
	srv.log(ctx).Debug("Session ended", slog.Any("userID", caller.UserID))

	return nil
}

// CurrentUser returns the account behind the caller.
func (srv *identityService) CurrentUser(ctx context.Context, caller entity.Caller) (*entity.User, error) {
	if _, err := authorize(caller, policy.OpGetCurrentUser); err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindByID(ctx, caller.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, domainerrors.ErrUnauthenticated.WrapMessage("user no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load current user")
	}

	return user, nil
}

// ResetPassword replaces a user's password and ends all of their sessions.
func (srv *identityService) ResetPassword(ctx context.Context, caller entity.Caller, userID uuid.UUID, input usecase.ResetPasswordInput) error {
	if _, err := authorize(caller, policy.OpResetPassword); err != nil {
		return err
	}
	if err := validation.Struct(input); err != nil {
		return err
	}

	hash, err := hashPassword(srv.hasher, input.Password)
	if err != nil {
		return err
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		users := repoFactory.UserRepo()
		user, err := users.FindByID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to load user")
		}
		user.PasswordHash = hash

		return errors.Wrap(users.Update(ctx, user), "failed to update password")
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute password reset transaction")
	}

	// The new password is already stored, so a retry after this failure is safe.
	if err := srv.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		srv.log(ctx).Error("Failed to end sessions after password reset", slog.Any("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to end sessions after password reset")
	}
	srv.log(ctx).Info("Password reset", slog.Any("userID", userID), slog.Any("by", caller.UserID))

	return nil
}

// EnsureAdmin seeds the administrator account once.
func (srv *identityService) EnsureAdmin(ctx context.Context, seed usecase.AdminSeed) (bool, error) {
	if err := validation.Struct(seed); err != nil {
		return false, err
	}

	hash, err := hashPassword(srv.hasher, seed.Password)
	if err != nil {
		return false, err
	}

	created := false
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		users := repoFactory.UserRepo()
		if _, err := users.FindByUsername(ctx, seed.Username); err == nil {
			return nil
		} else if !isNotFound(err) {
			return errors.Wrap(err, "failed to look up admin")
		}

		_, err := createAccount(ctx, users, usecase.RegisterInput{
			Username:     seed.Username,
			Email:        seed.Email,
			FullName:     seed.FullName,
			MobileNumber: seed.MobileNumber,
			City:         seed.City,
		}, entity.RoleAdmin, hash)
		created = err == nil

		return err
	})
	if err != nil {
		return false, errors.Wrap(err, "failed to seed admin")
	}

	return created, nil
}
