package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/gensai-lab/sonae-go/internal/infrastructure/messaging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
)

var watchUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WatchHandlers contains the live group-watch websocket handler.
type WatchHandlers struct {
	broadcaster *messaging.GroupWatchBroadcaster
	logger      *logging.ChanneledLogger
}

// NewWatchHandlers creates watch handlers with injected dependencies.
func NewWatchHandlers(broadcaster *messaging.GroupWatchBroadcaster, logger *logging.ChanneledLogger) *WatchHandlers {
	return &WatchHandlers{
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Watch upgrades the connection and streams group ledger snapshots until
// the client disconnects.
func (h *WatchHandlers) Watch(c *gin.Context) {
	groupID := c.Param("groupId")
	if groupID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group id is required"})
		return
	}

	conn, err := watchUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Progress().Warn("Websocket upgrade failed", "groupId", groupID, "error", err.Error())
		return
	}

	client := &messaging.GroupClient{
		Conn:    conn,
		GroupID: groupID,
		Send:    make(chan []byte, 8),
	}
	h.broadcaster.Register(client)

	go h.broadcaster.WritePump(client)

	// Reads are discarded; the socket is push only. The loop exits when
	// the client closes the connection.
	go func() {
		defer h.broadcaster.Unregister(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
