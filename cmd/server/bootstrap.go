package main

import (
	"github.com/billerops/ticketbridge/internal/config"
	"github.com/billerops/ticketbridge/internal/handlers"
	"github.com/billerops/ticketbridge/internal/models"
	"github.com/billerops/ticketbridge/pkg/logger"
)

// appServices holds all initialized handlers needed by the application.
type appServices struct {
	cfg            *config.Config
	webhookHandler *handlers.WebhookHandler
	mappingHandler *handlers.MappingHandler
	healthHandler  *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, schema, handlers.
func bootstrap(cfg *config.Config) *appServices {
	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	return &appServices{
		cfg:            cfg,
		webhookHandler: handlers.NewWebhookHandler(db, &cfg.Jira),
		mappingHandler: handlers.NewMappingHandler(db),
		healthHandler:  handlers.NewHealthHandler(),
	}
}
