package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/gensai-lab/sonae-go/internal/application/services"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/identity"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/progress"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/scenario"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/backend"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/media"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"identity not found", identity.ErrNotFound, http.StatusNotFound},
		{"unknown node", scenario.ErrUnknownNode, http.StatusNotFound},
		{"invalid input", assessment.ErrInvalidInput, http.StatusBadRequest},
		{"empty graph", scenario.ErrEmptyGraph, http.StatusBadRequest},
		{"not an image", media.ErrNotImage, http.StatusBadRequest},
		{"missing group", progress.ErrMissingGroup, http.StatusConflict},
		{"score required", progress.ErrScoreRequired, http.StatusConflict},
		{"busy", services.ErrBusy, http.StatusConflict},
		{"wrapped invalid input", errors.Join(errors.New("ctx"), assessment.ErrInvalidInput), http.StatusBadRequest},
		{"remote failure", &backend.RemoteError{Endpoint: "/levels/score", Status: 500, Err: errors.New("boom")}, http.StatusBadGateway},
		{"unknown", errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
