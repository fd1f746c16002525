package impl

import (
	"context"
	"log/slog"

	deliverycontext "leadhub/internal/delivery/context"
	"leadhub/internal/domain/entity"
	"leadhub/internal/domain/policy"
	"leadhub/internal/domain/repository"
	"leadhub/internal/domain/service"
	"leadhub/internal/usecase"
	"leadhub/internal/validation"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// dsaPartnerService implements the DsaPartnerUsecase interface.
type dsaPartnerService struct {
	txManager   repository.TransactionManager
	partnerRepo repository.DsaPartnerRepository
	sessionRepo repository.SessionRepository
	hasher      service.PasswordHasher
	logger      *slog.Logger
}

// DsaPartnerServiceParams holds dependencies for DsaPartnerService, injected by Fx.
type DsaPartnerServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	PartnerRepo repository.DsaPartnerRepository
	SessionRepo repository.SessionRepository
	Hasher      service.PasswordHasher
	Logger      *slog.Logger
}

// NewDsaPartnerService is the constructor for dsaPartnerService.
func NewDsaPartnerService(params DsaPartnerServiceParams) usecase.DsaPartnerUsecase {
	return &dsaPartnerService{
		txManager:   params.TxManager,
		partnerRepo: params.PartnerRepo,
		sessionRepo: params.SessionRepo,
		hasher:      params.Hasher,
		logger:      params.Logger,
	}
}

func (srv *dsaPartnerService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates the dsa account and its partner profile in one transaction.
func (srv *dsaPartnerService) Register(ctx context.Context, caller entity.Caller, input usecase.RegisterDsaPartnerInput) (*usecase.DsaPartnerOutput, error) {
	if _, err := authorize(caller, policy.OpRegisterDsaPartner); err != nil {
		return nil, err
	}

	input.UserData.Role = entity.RoleDsa
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	hash, err := hashPassword(srv.hasher, input.UserData.Password)
	if err != nil {
		return nil, err
	}

	output := &usecase.DsaPartnerOutput{}
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := createAccount(ctx, repoFactory.UserRepo(), input.UserData, entity.RoleDsa, hash)
		if err != nil {
			return err
		}

		partner := entity.NewDsaPartner(user.ID, input.PartnerData.Experience, input.PartnerData.Background)
		if err := repoFactory.DsaPartnerRepo().Create(ctx, partner); err != nil {
			return errors.Wrap(err, "failed to create dsa partner")
		}

		output.User = user
		output.Partner = partner

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("DSA partner registration failed", slog.String("username", input.UserData.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute dsa registration transaction")
	}

	srv.log(ctx).Info("DSA partner registered", slog.Any("partnerID", output.Partner.ID), slog.Any("userID", output.User.ID))

	return output, nil
}

// List returns every partner for admins and the caller's own profile for a dsa.
func (srv *dsaPartnerService) List(ctx context.Context, caller entity.Caller) ([]*entity.DsaPartnerDetail, error) {
	decision, err := authorize(caller, policy.OpListDsaPartners)
	if err != nil {
		return nil, err
	}

	var userID *uuid.UUID
	if decision.Filter.Kind == policy.FilterPartnerUser {
		userID = &decision.Filter.UserID
	}

	partners, err := srv.partnerRepo.List(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list dsa partners")
	}

	return partners, nil
}

// Profile returns the partner profile owned by the caller.
func (srv *dsaPartnerService) Profile(ctx context.Context, caller entity.Caller) (*entity.DsaPartnerDetail, error) {
	decision, err := authorize(caller, policy.OpViewDsaProfile)
	if err != nil {
		return nil, err
	}

	partners, err := srv.partnerRepo.List(ctx, &decision.Filter.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dsa profile")
	}
	if len(partners) == 0 {
		return nil, notVisible("dsa partner profile")
	}

	return partners[0], nil
}

// UpdateKyc records a KYC decision.
func (srv *dsaPartnerService) UpdateKyc(ctx context.Context, caller entity.Caller, partnerID uuid.UUID, input usecase.UpdateKycInput) (*entity.DsaPartner, error) {
	if _, err := authorize(caller, policy.OpUpdateDsaKyc); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var partner *entity.DsaPartner
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		partners := repoFactory.DsaPartnerRepo()

		var findErr error
		partner, findErr = partners.FindByID(ctx, partnerID)
		if findErr != nil {
			return errors.Wrap(findErr, "failed to load dsa partner")
		}
		if partner.KycStatus == input.KycStatus {
			return nil
		}
		partner.KycStatus = input.KycStatus

		return errors.Wrap(partners.Update(ctx, partner), "failed to update kyc status")
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute kyc update transaction")
	}

	srv.log(ctx).Info("DSA KYC status updated", slog.Any("partnerID", partnerID), slog.String("kycStatus", string(input.KycStatus)))

	return partner, nil
}

// UpdateProfilePicture sets the picture of the caller's own partner profile.
// Another partner's profile is reported as missing.
func (srv *dsaPartnerService) UpdateProfilePicture(ctx context.Context, caller entity.Caller, partnerID uuid.UUID, input usecase.UpdateProfilePictureInput) (*entity.DsaPartner, error) {
	decision, err := authorize(caller, policy.OpUpdateDsaProfilePicture)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var partner *entity.DsaPartner
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		partners := repoFactory.DsaPartnerRepo()

		var findErr error
		partner, findErr = partners.FindByID(ctx, partnerID)
		if findErr != nil {
			return errors.Wrap(findErr, "failed to load dsa partner")
		}
		if !decision.PermitsPartner(partner) {
			return notVisible("dsa partner")
		}
		partner.ProfilePicture = &input.ProfilePicture

		return errors.Wrap(partners.Update(ctx, partner), "failed to update profile picture")
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute profile picture transaction")
	}

	srv.log(ctx).Info("DSA profile picture updated", slog.Any("partnerID", partnerID))

	return partner, nil
}

// Remove rejects the partner's KYC, deactivates the owning user and ends their sessions.
func (srv *dsaPartnerService) Remove(ctx context.Context, caller entity.Caller, partnerID uuid.UUID) error {
	if _, err := authorize(caller, policy.OpRemoveDsaPartner); err != nil {
		return err
	}

	var userID uuid.UUID
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		partners := repoFactory.DsaPartnerRepo()
		users := repoFactory.UserRepo()

		partner, err := partners.FindByID(ctx, partnerID)
		if err != nil {
			return errors.Wrap(err, "failed to load dsa partner")
		}
		userID = partner.UserID

		partner.KycStatus = entity.KycRejected
		if err := partners.Update(ctx, partner); err != nil {
			return errors.Wrap(err, "failed to reject dsa partner")
		}

		user, err := users.FindByID(ctx, partner.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to load dsa user")
		}
		user.IsActive = false

		return errors.Wrap(users.Update(ctx, user), "failed to deactivate dsa user")
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute dsa removal transaction")
	}

	if err := srv.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		srv.log(ctx).Error("Failed to end sessions of removed dsa", slog.Any("userID", userID), slog.Any("error", err))
	}
	srv.log(ctx).Info("DSA partner removed", slog.Any("partnerID", partnerID), slog.Any("userID", userID))

	return nil
}
