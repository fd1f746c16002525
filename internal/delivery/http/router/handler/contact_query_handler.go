package handler

import (
	"net/http"

	deliverycontext "leadhub/internal/delivery/context"
	"leadhub/internal/delivery/http/response"
	"leadhub/internal/errors"
	"leadhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ContactQueryHandler exposes the contact inbox.
type ContactQueryHandler struct {
	uc usecase.ContactQueryUsecase
}

// NewContactQueryHandler is the constructor for ContactQueryHandler.
func NewContactQueryHandler(uc usecase.ContactQueryUsecase) *ContactQueryHandler {
	return &ContactQueryHandler{uc: uc}
}

// Create stores a contact form submission.
func (h *ContactQueryHandler) Create(c echo.Context) error {
	var input usecase.CreateContactQueryInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid contact query input")
	}

	query, err := h.uc.Create(c.Request().Context(), deliverycontext.GetCaller(c), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toContactQueryResponse(query))
}

// List returns the inbox, newest first.
func (h *ContactQueryHandler) List(c echo.Context) error {
	queries, err := h.uc.List(c.Request().Context(), deliverycontext.GetCaller(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mapSlice(queries, toContactQueryResponse))
}

// UpdateStatus moves a query through the inbox states.
func (h *ContactQueryHandler) UpdateStatus(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var input usecase.UpdateContactQueryInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid contact query update")
	}

	query, err := h.uc.UpdateStatus(c.Request().Context(), deliverycontext.GetCaller(c), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toContactQueryResponse(query))
}
