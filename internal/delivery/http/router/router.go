// Package router wires the public HTTP API: route registration,
// middleware order, and the echo server setup.
package router

import (
	"farmradar/internal/delivery/http/middleware"
	"farmradar/internal/delivery/http/router/handler"
	"farmradar/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler         *handler.UserHandler
	PositionHandler     *handler.PositionHandler
	PreferenceHandler   *handler.PreferenceHandler
	NotificationHandler *handler.NotificationHandler
	VendorHandler       *handler.VendorHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler         *handler.UserHandler
	positionHandler     *handler.PositionHandler
	preferenceHandler   *handler.PreferenceHandler
	notificationHandler *handler.NotificationHandler
	vendorHandler       *handler.VendorHandler
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:         params.UserHandler,
		positionHandler:     params.PositionHandler,
		preferenceHandler:   params.PreferenceHandler,
		notificationHandler: params.NotificationHandler,
		vendorHandler:       params.VendorHandler,
		authMiddleware:      params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
	}

	// API v1 routes
	apiV1 := e.Group("/api/v1")
	apiV1.Use(r.authMiddleware.Authenticate) // All API v1 routes require authentication

	// Position ingest routes
	positionsGroup := apiV1.Group("/positions")
	{
		vendorPosGroup := positionsGroup.Group("/vendor")
		vendorPosGroup.Use(r.authMiddleware.RequireRole(entity.RoleVendor))
		{
			vendorPosGroup.POST("", r.positionHandler.ReportVendorPosition)
		}

		consumerPosGroup := positionsGroup.Group("/consumer")
		consumerPosGroup.Use(r.authMiddleware.RequireRole(entity.RoleConsumer))
		{
			consumerPosGroup.POST("", r.positionHandler.ReportConsumerPosition)
		}

		positionsGroup.DELETE("", r.positionHandler.RemovePosition)
	}

	// Consumer preference and device routes
	preferencesGroup := apiV1.Group("/preferences")
	preferencesGroup.Use(r.authMiddleware.RequireRole(entity.RoleConsumer))
	{
		preferencesGroup.GET("", r.preferenceHandler.GetPreferences)
		preferencesGroup.PATCH("", r.preferenceHandler.UpdatePreferences)
	}

	devicesGroup := apiV1.Group("/devices")
	devicesGroup.Use(r.authMiddleware.RequireRole(entity.RoleConsumer))
	{
		devicesGroup.POST("", r.preferenceHandler.RegisterDevice)
		devicesGroup.DELETE("/:id", r.preferenceHandler.UnregisterDevice)
	}

	// Notification routes (consumer side of the pipeline)
	notificationsGroup := apiV1.Group("/notifications")
	notificationsGroup.Use(r.authMiddleware.RequireRole(entity.RoleConsumer))
	{
		notificationsGroup.GET("", r.notificationHandler.GetHistory)
		notificationsGroup.POST("/:id/ack", r.notificationHandler.Acknowledge)
	}

	// Vendor profile routes
	vendorsGroup := apiV1.Group("/vendors")
	{
		vendorsGroup.GET("/nearby", r.notificationHandler.GetNearbyVendors, r.authMiddleware.RequireRole(entity.RoleConsumer))
		vendorsGroup.GET("/:id", r.vendorHandler.GetVendor)
		vendorsGroup.POST("", r.vendorHandler.CreateVendor, r.authMiddleware.RequireRole(entity.RoleVendor))
		vendorsGroup.GET("/:id/qr", r.vendorHandler.GetFollowQR, r.authMiddleware.RequireRole(entity.RoleVendor))
		vendorsGroup.POST("/follow/qr", r.vendorHandler.ResolveFollowQR, r.authMiddleware.RequireRole(entity.RoleConsumer))
	}
}
