package handler

import (
	"net/http"

	deliverycontext "leadhub/internal/delivery/context"
	"leadhub/internal/delivery/http/response"
	"leadhub/internal/errors"
	"leadhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// LoanApplicationHandler exposes loan application operations.
type LoanApplicationHandler struct {
	uc usecase.LoanApplicationUsecase
}

// NewLoanApplicationHandler is the constructor for LoanApplicationHandler.
func NewLoanApplicationHandler(uc usecase.LoanApplicationUsecase) *LoanApplicationHandler {
	return &LoanApplicationHandler{uc: uc}
}

// Create submits an application for the logged-in user.
func (h *LoanApplicationHandler) Create(c echo.Context) error {
	var input usecase.CreateApplicationInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid loan application input")
	}

	app, err := h.uc.Create(c.Request().Context(), deliverycontext.GetCaller(c), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toLoanApplicationResponse(app))
}

// CreateDirect accepts an application without an account and records it as a lead.
func (h *LoanApplicationHandler) CreateDirect(c echo.Context) error {
	var input usecase.DirectApplicationInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid direct application input")
	}

	output, err := h.uc.CreateDirect(c.Request().Context(), deliverycontext.GetCaller(c), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, DirectApplicationResponse{
		ApplicationID:  output.ApplicationID,
		TrackingNumber: output.TrackingNumber,
		Lead:           toLeadResponse(output.Lead),
	})
}

// List returns the applications visible to the caller.
func (h *LoanApplicationHandler) List(c echo.Context) error {
	apps, err := h.uc.List(c.Request().Context(), deliverycontext.GetCaller(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mapSlice(apps, toLoanApplicationResponse))
}

// Update applies a partial update.
func (h *LoanApplicationHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var patch usecase.ApplicationPatch
	if err := c.Bind(&patch); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid loan application update")
	}

	app, err := h.uc.Update(c.Request().Context(), deliverycontext.GetCaller(c), id, patch)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toLoanApplicationResponse(app))
}
