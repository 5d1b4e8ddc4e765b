package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gensai-lab/sonae-go/internal/application/services"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/backend"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
)

// AdminLoginRequest carries the shared admin token.
type AdminLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// AdminHandlers contains the admin login and backend inspection handlers.
type AdminHandlers struct {
	authService *services.AuthService
	backend     *backend.Client
	logger      *logging.ChanneledLogger
}

// NewAdminHandlers creates admin handlers with injected dependencies.
func NewAdminHandlers(authService *services.AuthService, backendClient *backend.Client, logger *logging.ChanneledLogger) *AdminHandlers {
	return &AdminHandlers{
		authService: authService,
		backend:     backendClient,
		logger:      logger,
	}
}

// Login exchanges the admin token for a short-lived JWT.
func (h *AdminHandlers) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.authService.AuthenticateAdmin(req.Token)
	if !result.Success {
		c.JSON(http.StatusUnauthorized, gin.H{"error": result.Error})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Ping verifies admin access against the remote estimator.
func (h *AdminHandlers) Ping(c *gin.Context) {
	if err := h.backend.AdminPing(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Users proxies the remote user listing.
func (h *AdminHandlers) Users(c *gin.Context) {
	raw, err := h.backend.AdminUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// Responses proxies the remote response history for a user.
func (h *AdminHandlers) Responses(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		userID = c.Query("user_id")
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	raw, err := h.backend.AdminResponses(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}
