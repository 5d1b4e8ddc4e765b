// Package messaging provides the websocket broadcaster that pushes live
// group progress snapshots to watching clients.
package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/progress"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
)

// GroupClient represents a single connected group-watch client.
type GroupClient struct {
	Conn    *websocket.Conn
	GroupID string
	Send    chan []byte
}

// ProgressFetcher loads the current member ledger of a group.
type ProgressFetcher func(ctx context.Context, groupID string) ([]progress.Member, error)

// groupSnapshot is the wire message pushed to watchers.
type groupSnapshot struct {
	GroupID string            `json:"group_id"`
	Members []progress.Member `json:"members"`
}

// GroupWatchBroadcaster manages all connected watch clients and pushes
// fresh ledgers on a timer and after each publish.
type GroupWatchBroadcaster struct {
	groupClients map[string]map[*GroupClient]bool
	register     chan *GroupClient
	unregister   chan *GroupClient
	refresh      chan string
	fetch        ProgressFetcher
	logger       *logging.ChanneledLogger
	mu           sync.RWMutex
	stop         chan struct{}
	stopOnce     sync.Once
}

// NewGroupWatchBroadcaster creates a new broadcaster instance.
func NewGroupWatchBroadcaster(fetch ProgressFetcher, logger *logging.ChanneledLogger) *GroupWatchBroadcaster {
	return &GroupWatchBroadcaster{
		groupClients: make(map[string]map[*GroupClient]bool),
		register:     make(chan *GroupClient),
		unregister:   make(chan *GroupClient),
		refresh:      make(chan string, 16),
		fetch:        fetch,
		logger:       logger,
		stop:         make(chan struct{}),
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *GroupWatchBroadcaster) Run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			if _, ok := b.groupClients[client.GroupID]; !ok {
				b.groupClients[client.GroupID] = make(map[*GroupClient]bool)
			}
			b.groupClients[client.GroupID][client] = true
			b.mu.Unlock()
			b.logger.Progress().Debug("Watch client registered", "groupId", client.GroupID)
			b.broadcastGroup(client.GroupID)

		case client := <-b.unregister:
			b.mu.Lock()
			if clients, ok := b.groupClients[client.GroupID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(b.groupClients, client.GroupID)
					}
				}
			}
			b.mu.Unlock()
			b.logger.Progress().Debug("Watch client unregistered", "groupId", client.GroupID)

		case groupID := <-b.refresh:
			b.broadcastGroup(groupID)

		case <-ticker.C:
			b.broadcastAll()

		case <-b.stop:
			return
		}
	}
}

// Register queues a client for registration.
func (b *GroupWatchBroadcaster) Register(client *GroupClient) {
	b.register <- client
}

// Unregister queues a client for unregistration.
func (b *GroupWatchBroadcaster) Unregister(client *GroupClient) {
	b.unregister <- client
}

// NotifyGroup requests an immediate push for a group, typically right
// after a member published. Never blocks.
func (b *GroupWatchBroadcaster) NotifyGroup(groupID string) {
	select {
	case b.refresh <- groupID:
	default:
	}
}

// Stop terminates the main loop.
func (b *GroupWatchBroadcaster) Stop() {
	b.stopOnce.Do(func() { close(b.stop) })
}

func (b *GroupWatchBroadcaster) watchedGroups() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	groups := make([]string, 0, len(b.groupClients))
	for groupID := range b.groupClients {
		groups = append(groups, groupID)
	}
	return groups
}

func (b *GroupWatchBroadcaster) broadcastAll() {
	for _, groupID := range b.watchedGroups() {
		b.broadcastGroup(groupID)
	}
}

func (b *GroupWatchBroadcaster) broadcastGroup(groupID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	members, err := b.fetch(ctx, groupID)
	if err != nil {
		b.logger.Progress().Warn("Group snapshot fetch failed", "groupId", groupID, "error", err.Error())
		return
	}
	if members == nil {
		members = []progress.Member{}
	}

	payload, err := json.Marshal(groupSnapshot{GroupID: groupID, Members: members})
	if err != nil {
		b.logger.Progress().Error("Group snapshot marshal failed", "groupId", groupID, "error", err.Error())
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.groupClients[groupID] {
		select {
		case client.Send <- payload:
		default:
			// Slow consumer, drop this frame.
		}
	}
}

// WritePump drains a client's send channel onto its connection. It
// returns when the channel closes or a write fails.
func (b *GroupWatchBroadcaster) WritePump(client *GroupClient) {
	defer client.Conn.Close()
	for payload := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
