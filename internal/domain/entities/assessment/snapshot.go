package assessment

import "github.com/gensai-lab/sonae-go/internal/domain/entities/scenario"

// Snapshot is the full serializable state of one assessment cycle, sent
// to (and restored from) the response history store.
type Snapshot struct {
	UserID        string          `json:"user_id"`
	UserName      string          `json:"user_name"`
	Answers       []Answer        `json:"answers"`
	ScenarioPath  []scenario.Step `json:"scenario_path"`
	InventoryDays float64         `json:"inventory_days"`
	Score         *ScoreResult    `json:"score"`
	Advice        []string        `json:"advice"`
	GroupID       string          `json:"group_id,omitempty"`
}
