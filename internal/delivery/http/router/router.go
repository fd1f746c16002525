// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"leadhub/internal/delivery/http/middleware"
	"leadhub/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	IdentityHandler        *handler.IdentityHandler
	LoanApplicationHandler *handler.LoanApplicationHandler
	LeadHandler            *handler.LeadHandler
	DsaPartnerHandler      *handler.DsaPartnerHandler
	ContactQueryHandler    *handler.ContactQueryHandler
	AuthMiddleware         *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	identityHandler        *handler.IdentityHandler
	loanApplicationHandler *handler.LoanApplicationHandler
	leadHandler            *handler.LeadHandler
	dsaPartnerHandler      *handler.DsaPartnerHandler
	contactQueryHandler    *handler.ContactQueryHandler
	authMiddleware         *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		identityHandler:        params.IdentityHandler,
		loanApplicationHandler: params.LoanApplicationHandler,
		leadHandler:            params.LeadHandler,
		dsaPartnerHandler:      params.DsaPartnerHandler,
		contactQueryHandler:    params.ContactQueryHandler,
		authMiddleware:         params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
// Public routes still resolve the caller; role checks live in the use cases.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")
	api.Use(r.authMiddleware.Resolve)

	requireAuth := r.authMiddleware.RequireAuthenticated

	usersGroup := api.Group("/users")
	{
		usersGroup.POST("/register", r.identityHandler.Register)
		usersGroup.PATCH("/:id/password", r.identityHandler.ResetPassword, requireAuth)
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", r.identityHandler.Login)
		authGroup.POST("/logout", r.identityHandler.Logout)
		authGroup.GET("/user", r.identityHandler.CurrentUser, requireAuth)
	}

	applicationsGroup := api.Group("/loan-applications")
	{
		applicationsGroup.POST("/direct", r.loanApplicationHandler.CreateDirect)
		applicationsGroup.POST("", r.loanApplicationHandler.Create, requireAuth)
		applicationsGroup.GET("", r.loanApplicationHandler.List, requireAuth)
		applicationsGroup.PATCH("/:id", r.loanApplicationHandler.Update, requireAuth)
	}

	// Public tracking by mobile number
	api.GET("/applications/track/:mobileNumber", r.leadHandler.Track)

	leadsGroup := api.Group("/leads")
	{
		leadsGroup.POST("", r.leadHandler.Create)
		leadsGroup.GET("", r.leadHandler.List, requireAuth)
		leadsGroup.PATCH("/:id", r.leadHandler.Update, requireAuth)
		leadsGroup.PATCH("/:id/assign", r.leadHandler.Assign, requireAuth)
	}

	partnersGroup := api.Group("/dsa-partners")
	{
		partnersGroup.POST("", r.dsaPartnerHandler.Register)
		partnersGroup.GET("", r.dsaPartnerHandler.List, requireAuth)
		partnersGroup.GET("/profile", r.dsaPartnerHandler.Profile, requireAuth)
		partnersGroup.PATCH("/:id/kyc", r.dsaPartnerHandler.UpdateKyc, requireAuth)
		partnersGroup.PATCH("/:id/profile-picture", r.dsaPartnerHandler.UpdateProfilePicture, requireAuth)
		partnersGroup.DELETE("/:id", r.dsaPartnerHandler.Remove, requireAuth)
	}

	queriesGroup := api.Group("/contact-queries")
	{
		queriesGroup.POST("", r.contactQueryHandler.Create)
		queriesGroup.GET("", r.contactQueryHandler.List, requireAuth)
		queriesGroup.PATCH("/:id", r.contactQueryHandler.UpdateStatus, requireAuth)
	}
}
