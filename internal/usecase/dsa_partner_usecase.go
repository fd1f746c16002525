package usecase

import (
	"context"

	"leadhub/internal/domain/entity"

	"github.com/google/uuid"
)

// PartnerFields are the partner-specific registration fields.
type PartnerFields struct {
	Experience *string `json:"experience" validate:"omitempty,max=100"`
	Background *string `json:"background" validate:"omitempty,max=2000"`
}

// RegisterDsaPartnerInput bundles the account and the partner profile.
// The account role is always dsa, whatever the payload says.
type RegisterDsaPartnerInput struct {
	UserData    RegisterInput `json:"userData"`
	PartnerData PartnerFields `json:"partnerData"`
}

// DsaPartnerOutput pairs a partner with its owning user.
type DsaPartnerOutput struct {
	User    *entity.User
	Partner *entity.DsaPartner
}

// UpdateKycInput carries a KYC decision.
type UpdateKycInput struct {
	KycStatus entity.KycStatus `json:"kycStatus" validate:"required,oneof=pending verified rejected"`
}

// UpdateProfilePictureInput points a partner profile at an uploaded picture.
type UpdateProfilePictureInput struct {
	ProfilePicture string `json:"profilePicture" validate:"required,url,max=500"`
}

// DsaPartnerUsecase manages DSA partners.
type DsaPartnerUsecase interface {
	// Register creates the dsa user and its partner profile atomically.
	Register(ctx context.Context, caller entity.Caller, input RegisterDsaPartnerInput) (*DsaPartnerOutput, error)
	List(ctx context.Context, caller entity.Caller) ([]*entity.DsaPartnerDetail, error)
	Profile(ctx context.Context, caller entity.Caller) (*entity.DsaPartnerDetail, error)
	UpdateKyc(ctx context.Context, caller entity.Caller, partnerID uuid.UUID, input UpdateKycInput) (*entity.DsaPartner, error)

	// UpdateProfilePicture lets a dsa change the picture of its own profile.
	UpdateProfilePicture(ctx context.Context, caller entity.Caller, partnerID uuid.UUID, input UpdateProfilePictureInput) (*entity.DsaPartner, error)

	// Remove rejects the partner and deactivates its user. Records are never deleted.
	Remove(ctx context.Context, caller entity.Caller, partnerID uuid.UUID) error
}
