package handlers

import (
	"github.com/gin-gonic/gin"
)

const (
	// ServiceName identifies this service in health responses.
	ServiceName = "ticketbridge"
	// ServiceVersion is reported by the health endpoint.
	ServiceVersion = "1.0.0"
)

// HealthHandler serves the liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth reports service liveness. It deliberately touches no
// dependencies: a healthy process answers even when the database is down,
// so orchestrators restart the service only when the process itself hangs.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "healthy",
		"service": ServiceName,
		"version": ServiceVersion,
	})
}
