// Package handlers provides the HTTP handlers for the orchestrator API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gensai-lab/sonae-go/internal/application/services"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/identity"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/progress"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/scenario"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/backend"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/media"
)

// respondError maps domain and infrastructure errors onto HTTP statuses:
// unknown resources to 404, rejected input to 400, unmet preconditions
// and busy gates to 409, remote failures to 502.
func respondError(c *gin.Context, err error) {
	var remoteErr *backend.RemoteError

	switch {
	case errors.Is(err, identity.ErrNotFound), errors.Is(err, scenario.ErrUnknownNode):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, assessment.ErrInvalidInput),
		errors.Is(err, scenario.ErrEmptyGraph),
		errors.Is(err, media.ErrNotImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, progress.ErrMissingGroup),
		errors.Is(err, progress.ErrScoreRequired),
		errors.Is(err, services.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &remoteErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
