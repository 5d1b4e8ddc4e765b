package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gensai-lab/sonae-go/internal/application/services"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/performance"
	"github.com/gensai-lab/sonae-go/internal/presentation/http/middleware"
)

// ChooseRequest is the body for advancing the scenario traversal.
type ChooseRequest struct {
	Label string `json:"label"`
	Next  string `json:"next" binding:"required"`
}

// ScenarioHandlers contains all scenario-related HTTP handlers.
type ScenarioHandlers struct {
	scenarioService *services.ScenarioService
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewScenarioHandlers creates scenario handlers with injected dependencies.
func NewScenarioHandlers(scenarioService *services.ScenarioService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ScenarioHandlers {
	return &ScenarioHandlers{
		scenarioService: scenarioService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// Load fetches and installs a scenario graph for the session. Query
// params: audience (general|expert), place, index.
func (h *ScenarioHandlers) Load(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not found"})
		return
	}

	index := 0
	if raw := c.Query("index"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			index = parsed
		}
	}

	view, err := h.scenarioService.Load(c.Request.Context(), sess, c.Query("audience"), c.Query("place"), index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Choose advances the traversal along a choice edge.
func (h *ScenarioHandlers) Choose(c *gin.Context) {
	var req ChooseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not found"})
		return
	}

	view, err := h.scenarioService.Choose(sess, req.Label, req.Next)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Reset restarts the traversal at the first node.
func (h *ScenarioHandlers) Reset(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not found"})
		return
	}

	view, err := h.scenarioService.Reset(sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// State returns the current traversal snapshot.
func (h *ScenarioHandlers) State(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not found"})
		return
	}

	view, err := h.scenarioService.State(sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
