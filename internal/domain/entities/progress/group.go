package progress

import "github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"

// Group is one shared preparedness group.
type Group struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
}

// Member is one published entry in a group ledger.
type Member struct {
	UserID         string                  `json:"user_id"`
	UserName       string                  `json:"user_name"`
	Score          float64                 `json:"score"`
	Rank           string                  `json:"rank"`
	Advice         []assessment.AdviceItem `json:"advice"`
	SelectedAdvice string                  `json:"selected_advice,omitempty"`
	PlanText       string                  `json:"plan_text,omitempty"`
}

// PublishRecord is the body sent to the group store when a session
// publishes its draft.
type PublishRecord struct {
	GroupID        string                  `json:"group_id"`
	UserID         string                  `json:"user_id"`
	UserName       string                  `json:"user_name"`
	Score          float64                 `json:"score"`
	Rank           string                  `json:"rank"`
	AnswersCount   int                     `json:"answers_count"`
	Advice         []assessment.AdviceItem `json:"advice"`
	SelectedAdvice string                  `json:"selected_advice,omitempty"`
	PlanText       string                  `json:"plan_text,omitempty"`
}
