package main

import (
	"github.com/gin-gonic/gin"
	"github.com/mfreitas/chatterline/internal/config"
	"github.com/mfreitas/chatterline/internal/handlers"
	"github.com/mfreitas/chatterline/internal/middleware"
	"github.com/mfreitas/chatterline/internal/models"
	"github.com/mfreitas/chatterline/internal/ws"
	"github.com/mfreitas/chatterline/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, cfg *config.Config, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Rate limiter for credential endpoints
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	healthHandler := handlers.NewHealthHandler(svc.hub, svc.presence)
	r.GET("/health", healthHandler.CheckHealth)

	// Realtime relay
	wsHandler := ws.NewHandler(svc.hub, cfg)
	r.GET("/ws", wsHandler.Serve)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		authHandler := handlers.NewAuthHandler(models.GetDB())
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.GET("/refresh", authHandler.Refresh)
			auth.GET("/login/persist", authHandler.PersistentLogin)
			auth.POST("/logout", authHandler.Logout)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Users
			userHandler := handlers.NewUserHandler(models.GetDB())
			protected.GET("/users", userHandler.List)
			protected.PUT("/users/:userId", userHandler.Update)

			// Messages
			messageHandler := handlers.NewMessageHandler(models.GetDB())
			protected.GET("/messages", messageHandler.List)
			protected.POST("/messages/new", messageHandler.Create)
			protected.PUT("/messages/:id", messageHandler.Update)
			protected.DELETE("/messages/:id", messageHandler.Delete)

			// Conversations
			conversationHandler := handlers.NewConversationHandler(models.GetDB())
			protected.POST("/conversations/new", conversationHandler.Create)
			protected.GET("/conversations/:userId", conversationHandler.List)
			protected.PUT("/conversations/:conversationId/read", conversationHandler.MarkRead)

			// Audit trail
			auditHandler := handlers.NewAuditLogHandler(models.GetDB())
			protected.GET("/audit-logs", auditHandler.List)
		}
	}
}
