package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gensai-lab/sonae-go/internal/application/services"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/progress"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/performance"
	"github.com/gensai-lab/sonae-go/internal/presentation/http/middleware"
)

// CreateGroupRequest names a new group.
type CreateGroupRequest struct {
	Name string `json:"name"`
}

// JoinGroupRequest identifies the group to join.
type JoinGroupRequest struct {
	GroupID string `json:"groupId" binding:"required"`
}

// ProgressHandlers contains the group and progress-sharing HTTP handlers.
type ProgressHandlers struct {
	progressService *services.ProgressService
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewProgressHandlers creates progress handlers with injected dependencies.
func NewProgressHandlers(progressService *services.ProgressService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ProgressHandlers {
	return &ProgressHandlers{
		progressService: progressService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// CreateGroup creates a new sharing group and joins the session to it.
func (h *ProgressHandlers) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not found"})
		return
	}

	group, err := h.progressService.CreateGroup(c.Request.Context(), sess, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// JoinGroup joins the session's identity into an existing group.
func (h *ProgressHandlers) JoinGroup(c *gin.Context) {
	var req JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not found"})
		return
	}

	if err := h.progressService.JoinGroup(c.Request.Context(), sess, req.GroupID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "joined", "groupId": req.GroupID})
}

// Publish shares the session's draft progress with its group.
func (h *ProgressHandlers) Publish(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not found"})
		return
	}

	if err := h.progressService.Publish(c.Request.Context(), sess); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "published"})
}

// GroupProgress returns the current member roster for a group.
func (h *ProgressHandlers) GroupProgress(c *gin.Context) {
	groupID := c.Param("groupId")
	if groupID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group id is required"})
		return
	}

	members, err := h.progressService.GroupProgress(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	if members == nil {
		members = []progress.Member{}
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}
