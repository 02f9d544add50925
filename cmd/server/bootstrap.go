package main

import (
	"time"

	"github.com/mfreitas/chatterline/internal/config"
	"github.com/mfreitas/chatterline/internal/models"
	"github.com/mfreitas/chatterline/internal/services"
	"github.com/mfreitas/chatterline/internal/utils"
	"github.com/mfreitas/chatterline/internal/ws"
	"github.com/mfreitas/chatterline/pkg/logger"
)

// appServices holds all initialized services needed by the application.
type appServices struct {
	presence    *services.PresenceRegistry
	hub         *ws.Hub
	maintenance *services.MaintenanceScheduler
}

// bootstrap initializes all application dependencies: tokens, database,
// presence, realtime hub, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetSecrets(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret)
	utils.SetTokenTTLs(
		time.Duration(cfg.JWT.AccessTokenTTLMs)*time.Millisecond,
		time.Duration(cfg.JWT.RefreshTokenTTLDays)*24*time.Hour,
	)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	services.InitAuditLogger(models.GetDB())

	maintenance := services.NewMaintenanceScheduler(models.GetDB())
	maintenance.Start()

	// One presence registry, one hub, owned here and passed by reference.
	presence := services.NewPresenceRegistry()
	hub := ws.NewHub(presence)

	return &appServices{
		presence:    presence,
		hub:         hub,
		maintenance: maintenance,
	}
}

// shutdown gracefully stops background services.
func (s *appServices) shutdown() {
	s.maintenance.Stop()
	logger.Info().Msg("schedulers stopped")
}
