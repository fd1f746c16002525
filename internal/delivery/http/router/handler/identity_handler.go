// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"leadhub/config"
	deliverycontext "leadhub/internal/delivery/context"
	"leadhub/internal/delivery/http/response"
	domainerrors "leadhub/internal/domain/errors"
	"leadhub/internal/errors"
	"leadhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// IdentityHandler holds dependencies for account and session handlers.
type IdentityHandler struct {
	uc  usecase.IdentityUsecase
	cfg *config.Config
}

// NewIdentityHandler is the constructor for IdentityHandler, injected by Fx.
func NewIdentityHandler(uc usecase.IdentityUsecase, cfg *config.Config) *IdentityHandler {
	return &IdentityHandler{
		uc:  uc,
		cfg: cfg,
	}
}

// Register handles the account registration request.
func (h *IdentityHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	user, err := h.uc.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toUserResponse(user))
}

// Login authenticates the credentials and opens a session. The token is
// returned in the body and set as an HTTP-only cookie.
func (h *IdentityHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	output, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(h.sessionCookie(output.Token, int(h.cfg.Session.TTL.Seconds())))

	return response.Success(c, http.StatusOK, LoginResponse{
		Token:     output.Token,
		ExpiresAt: output.Session.ExpiresAt,
		User:      toUserResponse(output.User),
	})
}

// Logout ends the caller's session and clears the cookie.
func (h *IdentityHandler) Logout(c echo.Context) error {
	if err := h.uc.EndSession(c.Request().Context(), deliverycontext.GetCaller(c)); err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(h.sessionCookie("", -1))

	return response.Success(c, http.StatusOK, map[string]bool{"loggedOut": true})
}

// CurrentUser returns the account behind the session.
func (h *IdentityHandler) CurrentUser(c echo.Context) error {
	user, err := h.uc.CurrentUser(c.Request().Context(), deliverycontext.GetCaller(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserResponse(user))
}

// ResetPassword lets an admin replace a user's password.
func (h *IdentityHandler) ResetPassword(c echo.Context) error {
	userID, err := idParam(c)
	if err != nil {
		return err
	}

	var input usecase.ResetPasswordInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password reset input")
	}

	if err := h.uc.ResetPassword(c.Request().Context(), deliverycontext.GetCaller(c), userID, input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]bool{"reset": true})
}

func (h *IdentityHandler) sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cfg.Session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// idParam parses the :id path parameter. An id that cannot exist is reported as not found.
func idParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domainerrors.ErrNotFound.WithDetails("invalid id")
	}

	return id, nil
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}
