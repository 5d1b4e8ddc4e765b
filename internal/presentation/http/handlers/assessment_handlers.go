package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gensai-lab/sonae-go/internal/application/services"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/performance"
	"github.com/gensai-lab/sonae-go/internal/presentation/http/middleware"
)

// CommitAdviceRequest records the user's chosen action and plan notes.
type CommitAdviceRequest struct {
	Selected string `json:"selected" binding:"required"`
	PlanText string `json:"planText"`
}

// AssessmentHandlers contains the score and advice HTTP handlers.
type AssessmentHandlers struct {
	assessmentService *services.AssessmentService
	logger            *logging.ChanneledLogger
	perfTracker       *performance.Tracker
}

// NewAssessmentHandlers creates assessment handlers with injected dependencies.
func NewAssessmentHandlers(assessmentService *services.AssessmentService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AssessmentHandlers {
	return &AssessmentHandlers{
		assessmentService: assessmentService,
		logger:            logger,
		perfTracker:       perfTracker,
	}
}

// Score computes the preparedness score for the current session.
func (h *AssessmentHandlers) Score(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not found"})
		return
	}

	result, err := h.assessmentService.ComputeScore(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Advice fetches recommended actions for the current session.
func (h *AssessmentHandlers) Advice(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not found"})
		return
	}

	actions, err := h.assessmentService.FetchAdvice(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions})
}

// CommitAdvice records the selected advice entry and plan text.
func (h *AssessmentHandlers) CommitAdvice(c *gin.Context) {
	var req CommitAdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not found"})
		return
	}

	if err := h.assessmentService.CommitAdvice(sess, req.Selected, req.PlanText); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "committed"})
}
