package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/backend"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/presentation/http/middleware"
)

// AnswerRequest is the body for recording one checklist response.
type AnswerRequest struct {
	ID    string `json:"id" binding:"required"`
	Value string `json:"value"`
}

// ChecklistHandlers serves the self-check questions and records answers.
type ChecklistHandlers struct {
	backendClient *backend.Client
	logger        *logging.ChanneledLogger
}

// NewChecklistHandlers creates checklist handlers with injected dependencies.
func NewChecklistHandlers(backendClient *backend.Client, logger *logging.ChanneledLogger) *ChecklistHandlers {
	return &ChecklistHandlers{
		backendClient: backendClient,
		logger:        logger,
	}
}

// List returns the checklist questions ordered by display number, plus
// the session's current answers.
func (h *ChecklistHandlers) List(c *gin.Context) {
	items, err := h.backendClient.Checklist(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"items": items}
	if sess, ok := middleware.GetSession(c); ok {
		response["answers"] = sess.AnsweredList()
	}
	c.JSON(http.StatusOK, response)
}

// Answer records one checklist response on the session. An empty value
// clears the answer.
func (h *ChecklistHandlers) Answer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not found"})
		return
	}

	if err := sess.Answer(req.ID, assessment.AnswerValue(req.Value)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answers": sess.AnsweredList()})
}
