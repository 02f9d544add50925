package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mfreitas/chatterline/internal/models"
	"github.com/mfreitas/chatterline/internal/services"
	"github.com/mfreitas/chatterline/internal/ws"
)

// HealthHandler reports the state of the store and the realtime layer.
type HealthHandler struct {
	hub      *ws.Hub
	presence *services.PresenceRegistry
}

func NewHealthHandler(hub *ws.Hub, presence *services.PresenceRegistry) *HealthHandler {
	return &HealthHandler{hub: hub, presence: presence}
}

// CheckHealth returns the health status of all subsystems.
// GET /health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "chatterline",
		"components": gin.H{
			"database":     dbStatus,
			"ws_clients":   h.hub.ClientCount(),
			"online_users": h.presence.Count(),
		},
	})
}
