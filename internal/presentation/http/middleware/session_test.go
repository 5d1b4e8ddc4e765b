package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gensai-lab/sonae-go/internal/application/services"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/caching/stores"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
)

func newTestRouter(t *testing.T) (*gin.Engine, *services.SessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: true,
		DefaultLevel:    slog.LevelError,
	})
	require.NoError(t, err)

	store := stores.NewSessionsStore(time.Hour, 100, logger)
	t.Cleanup(store.Stop)
	sessions := services.NewSessionService(store, logger)

	r := gin.New()
	r.Use(SessionMiddleware(sessions))
	r.GET("/probe", func(c *gin.Context) {
		sess, ok := GetSession(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": sess.ID})
	})
	return r, sessions
}

func TestSessionMiddlewareMintsIDForNewClient(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(SessionHeader))
}

func TestSessionMiddlewareEchoesExistingID(t *testing.T) {
	r, _ := newTestRouter(t)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/probe", nil))
	id := first.Header().Get(SessionHeader)
	require.NotEmpty(t, id)

	second := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(SessionHeader, id)
	r.ServeHTTP(second, req)

	assert.Equal(t, id, second.Header().Get(SessionHeader))
}
