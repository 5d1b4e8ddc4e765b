package performance

import (
	"fmt"
	"sync"
	"time"
)

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	markers map[string]*Marker
	mu      sync.RWMutex
	started time.Time
	config  *TrackerConfig
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers int           `json:"maxMarkers"` // Maximum number of markers to retain
	MaxAge     time.Duration `json:"maxAge"`     // Age after which completed markers are pruned
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers: 10000,
		MaxAge:     time.Hour,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}

	return &Tracker{
		markers: make(map[string]*Marker),
		started: time.Now(),
		config:  config,
	}
}

// StartOperation creates and tracks a new performance marker for an operation
func (t *Tracker) StartOperation(operation, sessionID string) *Marker {
	marker := &Marker{
		Operation: operation,
		SessionID: sessionID,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true, // Assume success until proven otherwise
	}

	markerID := fmt.Sprintf("%s_%s_%d", sessionID, operation, time.Now().UnixNano())

	t.mu.Lock()
	if len(t.markers) >= t.config.MaxMarkers {
		t.pruneLocked()
	}
	t.markers[markerID] = marker
	t.mu.Unlock()

	return marker
}

// GetStats returns aggregate statistics for the tracked operations
func (t *Tracker) GetStats() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var completed, failed int
	var totalDuration time.Duration
	for _, m := range t.markers {
		if !m.Completed {
			continue
		}
		completed++
		totalDuration += m.Duration
		if !m.Success {
			failed++
		}
	}

	stats := map[string]any{
		"trackedMarkers": len(t.markers),
		"completed":      completed,
		"failed":         failed,
		"uptime":         time.Since(t.started).String(),
	}
	if completed > 0 {
		stats["avgDuration"] = (totalDuration / time.Duration(completed)).String()
	}
	return stats
}

// pruneLocked drops old completed markers; caller must hold t.mu
func (t *Tracker) pruneLocked() {
	cutoff := time.Now().Add(-t.config.MaxAge)
	for id, m := range t.markers {
		if m.Completed && m.EndTime.Before(cutoff) {
			delete(t.markers, id)
		}
	}
}
