package backend

import (
	"context"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/scenario"
)

// EvaluationRequest is the shared request body of the scoring and advice
// services.
type EvaluationRequest struct {
	Answers       []assessment.Answer `json:"answers"`
	InventoryDays float64             `json:"inventory_days"`
	FloodDepthM   float64             `json:"flood_depth_m"`
	ScenarioPath  []scenario.Step     `json:"scenario_path"`
}

// Score submits the assessment inputs to the scoring service.
func (c *Client) Score(ctx context.Context, req EvaluationRequest) (assessment.ScoreResult, error) {
	if req.Answers == nil {
		req.Answers = []assessment.Answer{}
	}
	if req.ScenarioPath == nil {
		req.ScenarioPath = []scenario.Step{}
	}

	var result assessment.ScoreResult
	if err := c.postJSON(ctx, "/levels/score", req, &result); err != nil {
		return assessment.ScoreResult{}, err
	}
	return result, nil
}

// Advice asks the advice service for recommended actions.
func (c *Client) Advice(ctx context.Context, req EvaluationRequest) ([]string, error) {
	if req.Answers == nil {
		req.Answers = []assessment.Answer{}
	}
	if req.ScenarioPath == nil {
		req.ScenarioPath = []scenario.Step{}
	}

	var envelope struct {
		Actions []string `json:"actions"`
	}
	if err := c.postJSON(ctx, "/advice", req, &envelope); err != nil {
		return nil, err
	}
	return envelope.Actions, nil
}
