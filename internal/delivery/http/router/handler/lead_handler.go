package handler

import (
	"net/http"

	deliverycontext "leadhub/internal/delivery/context"
	"leadhub/internal/delivery/http/response"
	"leadhub/internal/errors"
	"leadhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// LeadHandler exposes lead operations and the public tracking lookup.
type LeadHandler struct {
	uc usecase.LeadUsecase
}

// NewLeadHandler is the constructor for LeadHandler.
func NewLeadHandler(uc usecase.LeadUsecase) *LeadHandler {
	return &LeadHandler{uc: uc}
}

// Create records a lead from the public form.
func (h *LeadHandler) Create(c echo.Context) error {
	var input usecase.CreateLeadInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid lead input")
	}

	lead, err := h.uc.Create(c.Request().Context(), deliverycontext.GetCaller(c), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toLeadResponse(lead))
}

// List returns the leads visible to the caller.
func (h *LeadHandler) List(c echo.Context) error {
	leads, err := h.uc.List(c.Request().Context(), deliverycontext.GetCaller(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mapSlice(leads, toLeadResponse))
}

// Update applies a partial update limited to the caller's patchable fields.
func (h *LeadHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var patch usecase.LeadPatch
	if err := c.Bind(&patch); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid lead update")
	}

	lead, err := h.uc.Update(c.Request().Context(), deliverycontext.GetCaller(c), id, patch)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toLeadResponse(lead))
}

// Assign points a lead at a DSA user.
func (h *LeadHandler) Assign(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var input usecase.AssignLeadInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid lead assignment")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	lead, err := h.uc.AssignToDsa(c.Request().Context(), deliverycontext.GetCaller(c), id, input.DsaID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toLeadResponse(lead))
}

// Track lists the leads recorded for a mobile number.
func (h *LeadHandler) Track(c echo.Context) error {
	leads, err := h.uc.TrackByMobile(c.Request().Context(), deliverycontext.GetCaller(c), c.Param("mobileNumber"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mapSlice(leads, toLeadResponse))
}
