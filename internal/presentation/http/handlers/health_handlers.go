package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gensai-lab/sonae-go/internal/infrastructure/backend"
)

// HealthHandlers contains the service health endpoints.
type HealthHandlers struct {
	backend *backend.Client
}

// NewHealthHandlers creates health handlers with injected dependencies.
func NewHealthHandlers(backendClient *backend.Client) *HealthHandlers {
	return &HealthHandlers{backend: backendClient}
}

// Health reports the service's own liveness.
func (h *HealthHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// BackendHealth probes the remote estimator service.
func (h *HealthHandlers) BackendHealth(c *gin.Context) {
	if err := h.backend.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unreachable", "backend": h.backend.BaseURL()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": h.backend.BaseURL()})
}
