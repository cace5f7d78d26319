package main

import (
	"github.com/billerops/ticketbridge/internal/middleware"
	"github.com/billerops/ticketbridge/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware. Request IDs are assigned first so the access log and
	// response headers carry them even when a later handler panics.
	r.Use(middleware.RequestID())
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS(svc.cfg.CORS.AllowedOrigins))

	// Rate limiter for the webhook route
	webhookLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	r.GET("/health", svc.healthHandler.CheckHealth)

	// Jira issue webhook (root-level path, as registered in Jira's webhook admin)
	r.POST("/jira-webhook", webhookLimiter.Middleware(), svc.webhookHandler.HandleJiraWebhook)

	// API routes
	api := r.Group("/api/v1")
	{
		api.GET("/mappings", svc.mappingHandler.List)
		api.GET("/mappings/:ticketKey", svc.mappingHandler.GetByTicketKey)
	}
}
