// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"vkladovke/internal/delivery/http/middleware"
	"vkladovke/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// RouterParams holds the handlers and middleware injected by Fx.
type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	CatalogHandler    *handler.CatalogHandler
	OrderHandler      *handler.OrderHandler
	InvitationHandler *handler.InvitationHandler
	AuthMiddleware    *middleware.AuthMiddleware
	MetricsMiddleware *middleware.MetricsMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.params.MetricsMiddleware.Handle)

	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Public authentication routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.params.AuthHandler.SignUp)
		authGroup.POST("/login", r.params.AuthHandler.Login)
		authGroup.POST("/google", r.params.AuthHandler.GoogleSignIn)
		authGroup.POST("/refresh", r.params.AuthHandler.RefreshToken)
		authGroup.POST("/logout", r.params.AuthHandler.Logout)
		authGroup.POST("/verify-email", r.params.AuthHandler.ConfirmEmail)
		authGroup.POST("/password-reset", r.params.AuthHandler.RequestPasswordReset)
		authGroup.POST("/password-reset/confirm", r.params.AuthHandler.ConfirmPasswordReset)
	}

	authenticate := r.params.AuthMiddleware.Authenticate

	// Profile and session routes
	userGroup := e.Group("/user", authenticate)
	{
		userGroup.GET("/profile", r.params.UserHandler.GetProfile)
		userGroup.PUT("/profile/display-name", r.params.UserHandler.UpdateDisplayName)
		userGroup.PUT("/profile/fcm-token", r.params.UserHandler.UpdateFCMToken)
		userGroup.GET("/sessions", r.params.UserHandler.GetActiveSessions)
		userGroup.DELETE("/sessions/:id", r.params.UserHandler.RevokeSession)
		userGroup.POST("/logout-all", r.params.UserHandler.LogoutAllDevices)
		userGroup.POST("/verify-email/send", r.params.UserHandler.SendVerificationMail)
	}

	// Catalog and reference data routes
	catalogGroup := e.Group("/catalog", authenticate)
	{
		catalogGroup.GET("/settings", r.params.CatalogHandler.GetSettings)
		catalogGroup.GET("/products", r.params.CatalogHandler.GetProducts)
		catalogGroup.POST("/products", r.params.CatalogHandler.AddProduct)
		catalogGroup.PUT("/products/:id", r.params.CatalogHandler.UpdateProduct)
		catalogGroup.DELETE("/products/:id", r.params.CatalogHandler.DeleteProduct)
	}

	// Shopping list routes
	orderGroup := e.Group("/orders", authenticate)
	{
		orderGroup.GET("", r.params.OrderHandler.ListOrders)
		orderGroup.POST("", r.params.OrderHandler.CreateOrder)
		orderGroup.GET("/:id", r.params.OrderHandler.GetOrder)
		orderGroup.PUT("/:id", r.params.OrderHandler.UpdateOrder)
		orderGroup.DELETE("/:id", r.params.OrderHandler.DeleteOrder)
		orderGroup.POST("/:id/complete", r.params.OrderHandler.CompleteOrder)
		orderGroup.POST("/:id/reopen", r.params.OrderHandler.ReopenOrder)
		orderGroup.POST("/:id/items", r.params.OrderHandler.AddItem)
		orderGroup.PUT("/:id/items/:productId", r.params.OrderHandler.UpdateItem)
		orderGroup.DELETE("/:id/items/:productId", r.params.OrderHandler.RemoveItem)
		orderGroup.POST("/:id/items/:productId/complete", r.params.OrderHandler.CompleteItem)
		orderGroup.POST("/:id/items/:productId/reopen", r.params.OrderHandler.ReopenItem)
	}

	// Group invitation routes
	invitationGroup := e.Group("/invitations", authenticate)
	{
		invitationGroup.POST("", r.params.InvitationHandler.Invite)
		invitationGroup.GET("/pending", r.params.InvitationHandler.GetPendingInvitation)
		invitationGroup.POST("/apply", r.params.InvitationHandler.ApplyInvitation)
		invitationGroup.POST("/decline", r.params.InvitationHandler.DeclineInvitation)
		invitationGroup.GET("/qr", r.params.InvitationHandler.InvitationQR)
	}
}
