package handler

import (
	"net/http"

	deliverycontext "leadhub/internal/delivery/context"
	"leadhub/internal/delivery/http/response"
	"leadhub/internal/errors"
	"leadhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// DsaPartnerHandler exposes DSA partner registration and administration.
type DsaPartnerHandler struct {
	uc usecase.DsaPartnerUsecase
}

// NewDsaPartnerHandler is the constructor for DsaPartnerHandler.
func NewDsaPartnerHandler(uc usecase.DsaPartnerUsecase) *DsaPartnerHandler {
	return &DsaPartnerHandler{uc: uc}
}

// Register creates a dsa account together with its partner profile.
func (h *DsaPartnerHandler) Register(c echo.Context) error {
	var input usecase.RegisterDsaPartnerInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid DSA partner registration input")
	}

	output, err := h.uc.Register(c.Request().Context(), deliverycontext.GetCaller(c), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, DsaRegistrationResponse{
		User:    toUserResponse(output.User),
		Partner: toDsaPartnerResponse(output.Partner),
	})
}

// List returns the partners visible to the caller.
func (h *DsaPartnerHandler) List(c echo.Context) error {
	partners, err := h.uc.List(c.Request().Context(), deliverycontext.GetCaller(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mapSlice(partners, toDsaPartnerDetailResponse))
}

// Profile returns the caller's own partner profile.
func (h *DsaPartnerHandler) Profile(c echo.Context) error {
	partner, err := h.uc.Profile(c.Request().Context(), deliverycontext.GetCaller(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toDsaPartnerDetailResponse(partner))
}

// UpdateKyc records a KYC decision for a partner.
func (h *DsaPartnerHandler) UpdateKyc(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var input usecase.UpdateKycInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid KYC update")
	}

	partner, err := h.uc.UpdateKyc(c.Request().Context(), deliverycontext.GetCaller(c), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toDsaPartnerResponse(partner))
}

// UpdateProfilePicture changes the picture of the caller's own profile.
func (h *DsaPartnerHandler) UpdateProfilePicture(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var input usecase.UpdateProfilePictureInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile picture update")
	}

	partner, err := h.uc.UpdateProfilePicture(c.Request().Context(), deliverycontext.GetCaller(c), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toDsaPartnerResponse(partner))
}

// Remove deactivates a partner. Nothing is deleted.
func (h *DsaPartnerHandler) Remove(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.uc.Remove(c.Request().Context(), deliverycontext.GetCaller(c), id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
