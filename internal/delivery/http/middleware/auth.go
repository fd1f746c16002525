package middleware

import (
	"log/slog"
	"strings"

	"leadhub/config"
	deliverycontext "leadhub/internal/delivery/context"
	"leadhub/internal/delivery/http/response"
	"leadhub/internal/domain/entity"
	domainerrors "leadhub/internal/domain/errors"
	"leadhub/internal/errors"
	"leadhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware resolves the session token of a request into a caller.
type AuthMiddleware struct {
	identity   usecase.IdentityUsecase
	cookieName string
	logger     *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(identity usecase.IdentityUsecase, cfg *config.Config, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		identity:   identity,
		cookieName: cfg.Session.CookieName,
		logger:     logger,
	}
}

// Resolve attaches the caller to every request. Requests without a usable
// token continue as the anonymous caller; the use cases decide what that
// caller may do. A session store failure fails the request instead.
func (m *AuthMiddleware) Resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := m.token(c)
		if token == "" {
			deliverycontext.SetCaller(c, entity.AnonymousCaller())

			return next(c)
		}

		ctx := c.Request().Context()
		caller, err := m.identity.ResolveSession(ctx, token)
		if err != nil {
			logger := deliverycontext.GetLoggerOrDefault(ctx, m.logger)
			if !isRejectedToken(err) {
				logger.Error("Failed to resolve session", slog.Any("error", err))

				return errors.Wrap(err, "failed to resolve session")
			}

			logger.Debug("Session token rejected, continuing anonymously", slog.Any("error", err))
			deliverycontext.SetCaller(c, entity.AnonymousCaller())

			return next(c)
		}

		deliverycontext.SetCaller(c, caller)

		reqLogger := deliverycontext.GetLoggerOrDefault(ctx, m.logger).With(slog.String("user_id", caller.UserID.String()))
		c.SetRequest(c.Request().WithContext(deliverycontext.WithLogger(ctx, reqLogger)))

		return next(c)
	}
}

// RequireAuthenticated rejects anonymous callers. It must be used after Resolve.
func (m *AuthMiddleware) RequireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if deliverycontext.GetCaller(c).IsAnonymous() {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
		}

		return next(c)
	}
}

// isRejectedToken reports whether err means the token names no live session.
func isRejectedToken(err error) bool {
	return errors.Is(err, domainerrors.ErrUnauthenticated) || errors.Is(err, domainerrors.ErrNotFound)
}

// token prefers the Authorization header over the session cookie.
func (m *AuthMiddleware) token(c echo.Context) string {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		if strings.HasPrefix(header, bearerPrefix) {
			return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		}

		return ""
	}

	cookie, err := c.Cookie(m.cookieName)
	if err != nil || cookie == nil {
		return ""
	}

	return cookie.Value
}
