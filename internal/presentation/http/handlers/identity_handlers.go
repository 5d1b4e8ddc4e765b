package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gensai-lab/sonae-go/internal/application/services"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/performance"
	"github.com/gensai-lab/sonae-go/internal/presentation/http/middleware"
)

// RegisterIdentityRequest is the body for registering a new identity.
type RegisterIdentityRequest struct {
	Name string `json:"name" binding:"required"`
}

// ActivateIdentityRequest is the body for switching the active identity.
type ActivateIdentityRequest struct {
	ID string `json:"id" binding:"required"`
}

// IdentityHandlers contains all identity-related HTTP handlers.
type IdentityHandlers struct {
	identityService *services.IdentityService
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewIdentityHandlers creates identity handlers with injected dependencies.
func NewIdentityHandlers(identityService *services.IdentityService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *IdentityHandlers {
	return &IdentityHandlers{
		identityService: identityService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// List returns the roster and the active identity id.
func (h *IdentityHandlers) List(c *gin.Context) {
	roster, activeID, err := h.identityService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"identities": roster,
		"activeId":   activeID,
	})
}

// Register creates a new identity and makes it active.
func (h *IdentityHandlers) Register(c *gin.Context) {
	var req RegisterIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ident, err := h.identityService.Register(req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	sess, ok := middleware.GetSession(c)
	if ok {
		sess.BindIdentity(ident.ID, ident.DisplayName)
	}

	c.JSON(http.StatusCreated, ident)
}

// Activate switches the active identity and restores its last snapshot.
func (h *IdentityHandlers) Activate(c *gin.Context) {
	var req ActivateIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not found"})
		return
	}

	ident, restored, err := h.identityService.Activate(c.Request.Context(), sess, req.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"identity": ident,
		"restored": restored,
	})
}

// Reset wipes the roster. Development helper.
func (h *IdentityHandlers) Reset(c *gin.Context) {
	if err := h.identityService.ResetAll(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
