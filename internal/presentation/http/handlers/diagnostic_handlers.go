package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gensai-lab/sonae-go/internal/application/services"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/performance"
	"github.com/gensai-lab/sonae-go/internal/presentation/http/middleware"
)

// maxPhotoUploadBytes bounds the accepted photo payload.
const maxPhotoUploadBytes = 20 << 20

// ManualDiagnosticRequest is the body for a manual inventory diagnostic.
type ManualDiagnosticRequest struct {
	Persons        int     `json:"persons"`
	Bottles500     int     `json:"bottles500"`
	Bottles2L      int     `json:"bottles2l"`
	LitersOverride float64 `json:"litersOverride"`
	UseOverride    bool    `json:"useOverride"`
}

// DiagnosticHandlers contains the stockpile diagnostic HTTP handlers.
type DiagnosticHandlers struct {
	diagnosticService *services.DiagnosticService
	logger            *logging.ChanneledLogger
	perfTracker       *performance.Tracker
}

// NewDiagnosticHandlers creates diagnostic handlers with injected dependencies.
func NewDiagnosticHandlers(diagnosticService *services.DiagnosticService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *DiagnosticHandlers {
	return &DiagnosticHandlers{
		diagnosticService: diagnosticService,
		logger:            logger,
		perfTracker:       perfTracker,
	}
}

// Manual runs the manual inventory diagnostic.
func (h *DiagnosticHandlers) Manual(c *gin.Context) {
	var req ManualDiagnosticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not found"})
		return
	}

	result, err := h.diagnosticService.AnalyzeManual(c.Request.Context(), sess, assessment.InventoryInput{
		Persons:        req.Persons,
		Bottles500:     req.Bottles500,
		Bottles2L:      req.Bottles2L,
		LitersOverride: req.LitersOverride,
		UseOverride:    req.UseOverride,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Photo runs the photo diagnostic. Multipart form: image, persons.
func (h *DiagnosticHandlers) Photo(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not found"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > maxPhotoUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	persons := 1
	if raw := c.PostForm("persons"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			persons = parsed
		}
	}

	result, err := h.diagnosticService.AnalyzePhoto(c.Request.Context(), sess, data, fileHeader.Filename, persons)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
