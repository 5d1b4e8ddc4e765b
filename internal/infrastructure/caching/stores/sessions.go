// Package stores provides the in-memory store for live session aggregates.
package stores

import (
	"sync"
	"time"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/session"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
)

// SessionsStore holds the live session aggregates keyed by session id.
// Idle sessions are evicted after the configured TTL.
type SessionsStore struct {
	sessions map[string]*session.Session
	mu       sync.RWMutex

	ttl         time.Duration
	maxSessions int
	logger      *logging.ChanneledLogger

	stopOnce sync.Once
	stop     chan struct{}
}

// NewSessionsStore creates a new sessions store.
func NewSessionsStore(ttl time.Duration, maxSessions int, logger *logging.ChanneledLogger) *SessionsStore {
	if logger != nil {
		logger.Session().Info("Initializing sessions store", "ttl", ttl, "maxSessions", maxSessions)
	}
	return &SessionsStore{
		sessions:    make(map[string]*session.Session),
		ttl:         ttl,
		maxSessions: maxSessions,
		logger:      logger,
		stop:        make(chan struct{}),
	}
}

// Get returns the session for an id, touching its activity timestamp.
func (ss *SessionsStore) Get(id string) (*session.Session, bool) {
	ss.mu.RLock()
	sess, exists := ss.sessions[id]
	ss.mu.RUnlock()

	if exists {
		sess.Touch()
	}
	return sess, exists
}

// GetOrCreate returns the session for an id, creating it when absent.
// created reports whether a new aggregate was made.
func (ss *SessionsStore) GetOrCreate(id string) (sess *session.Session, created bool) {
	if sess, ok := ss.Get(id); ok {
		return sess, false
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()

	if sess, ok := ss.sessions[id]; ok {
		return sess, false
	}

	if ss.maxSessions > 0 && len(ss.sessions) >= ss.maxSessions {
		ss.evictOldestLocked()
	}

	sess = session.New(id)
	ss.sessions[id] = sess
	if ss.logger != nil {
		ss.logger.Session().Info("Session created", "sessionId", id, "total", len(ss.sessions))
	}
	return sess, true
}

// Delete removes a session.
func (ss *SessionsStore) Delete(id string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, id)
}

// Count returns the number of live sessions.
func (ss *SessionsStore) Count() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// Cleanup drops every session idle past the TTL and returns how many
// were removed.
func (ss *SessionsStore) Cleanup() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	removed := 0
	for id, sess := range ss.sessions {
		if sess.IsExpired(ss.ttl) {
			delete(ss.sessions, id)
			removed++
		}
	}

	if removed > 0 && ss.logger != nil {
		ss.logger.Session().Info("Expired sessions evicted", "removed", removed, "remaining", len(ss.sessions))
	}
	return removed
}

// StartEvictionLoop runs Cleanup on an interval until Stop is called.
func (ss *SessionsStore) StartEvictionLoop(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ss.Cleanup()
			case <-ss.stop:
				return
			}
		}
	}()
}

// Stop terminates the eviction loop.
func (ss *SessionsStore) Stop() {
	ss.stopOnce.Do(func() { close(ss.stop) })
}

// evictOldestLocked removes the least recently active session to make
// room for a new one. Caller holds the write lock.
func (ss *SessionsStore) evictOldestLocked() {
	var oldestID string
	var oldestTime time.Time
	for id, sess := range ss.sessions {
		last := sess.LastActive()
		if oldestID == "" || last.Before(oldestTime) {
			oldestID = id
			oldestTime = last
		}
	}
	if oldestID != "" {
		delete(ss.sessions, oldestID)
		if ss.logger != nil {
			ss.logger.Session().Warn("Session capacity reached, evicted oldest", "sessionId", oldestID)
		}
	}
}
