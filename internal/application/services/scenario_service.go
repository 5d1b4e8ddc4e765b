package services

import (
	"context"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/scenario"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/session"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/performance"
)

// ScenarioSource fetches raw scenario records for a place.
type ScenarioSource interface {
	Scenarios(ctx context.Context, place string) ([]scenario.RawRecord, error)
}

// ScenarioSummary is the listing entry for one loadable scenario.
type ScenarioSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	SourceNote string `json:"source_note,omitempty"`
}

// ScenarioView is the full load result: the selection list plus the
// freshly reset traversal of the active scenario.
type ScenarioView struct {
	Scenarios   []ScenarioSummary  `json:"scenarios"`
	ActiveIndex int                `json:"activeIndex"`
	Node        *scenario.Node     `json:"node"`
	Traversal   scenario.Traversal `json:"traversal"`
	IsTerminal  bool               `json:"isTerminal"`
}

// ScenarioService loads scenario graphs and drives their traversal.
type ScenarioService struct {
	source       ScenarioSource
	defaultPlace string
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewScenarioService creates a new scenario service.
func NewScenarioService(source ScenarioSource, defaultPlace string, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ScenarioService {
	return &ScenarioService{
		source:       source,
		defaultPlace: defaultPlace,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// Load fetches the records for a place, filters by audience tier, picks
// the scenario at index, and installs its graph on the session with a
// reset traversal. An out-of-range index falls back to the first entry.
func (s *ScenarioService) Load(ctx context.Context, sess *session.Session, audience, place string, index int) (*ScenarioView, error) {
	if place == "" {
		place = s.defaultPlace
	}
	if audience != scenario.AudienceExpert {
		audience = scenario.AudienceGeneral
	}

	marker := s.perfTracker.StartOperation("scenario_load", sess.ID)
	defer marker.Complete()

	records, err := s.source.Scenarios(ctx, place)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	filtered := scenario.FilterByAudience(records, audience)
	if len(filtered) == 0 {
		marker.SetError(scenario.ErrEmptyGraph)
		return nil, scenario.ErrEmptyGraph
	}
	if index < 0 || index >= len(filtered) {
		index = 0
	}

	graph := scenario.BuildGraph(filtered[index])
	if err := sess.SetScenario(graph); err != nil {
		marker.SetError(err)
		return nil, err
	}

	summaries := make([]ScenarioSummary, 0, len(filtered))
	for _, rec := range filtered {
		summaries = append(summaries, ScenarioSummary{
			ID:         rec.ID,
			Title:      rec.Title,
			Summary:    rec.Summary,
			SourceNote: rec.SourceNote,
		})
	}

	node, traversal, terminal, err := sess.ScenarioState()
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	s.logger.Scenario().Info("Scenario loaded",
		"sessionId", sess.ID, "place", place, "audience", audience, "scenarioId", graph.ScenarioID, "nodes", len(graph.Nodes))
	marker.SetSuccess(true)

	return &ScenarioView{
		Scenarios:   summaries,
		ActiveIndex: index,
		Node:        node,
		Traversal:   traversal,
		IsTerminal:  terminal,
	}, nil
}

// StateView is the traversal snapshot returned by Choose, Reset, and State.
type StateView struct {
	Node       *scenario.Node     `json:"node"`
	Traversal  scenario.Traversal `json:"traversal"`
	IsTerminal bool               `json:"isTerminal"`
}

// Choose advances the session's traversal along a choice edge.
func (s *ScenarioService) Choose(sess *session.Session, choiceLabel, targetNodeID string) (*StateView, error) {
	if err := sess.Choose(choiceLabel, targetNodeID); err != nil {
		s.logger.Scenario().Warn("Choice rejected",
			"sessionId", sess.ID, "target", targetNodeID, "error", err.Error())
		return nil, err
	}
	return s.State(sess)
}

// Reset restarts the session's traversal at the graph's first node.
func (s *ScenarioService) Reset(sess *session.Session) (*StateView, error) {
	if err := sess.ResetScenario(); err != nil {
		return nil, err
	}
	return s.State(sess)
}

// State returns the session's current traversal snapshot.
func (s *ScenarioService) State(sess *session.Session) (*StateView, error) {
	node, traversal, terminal, err := sess.ScenarioState()
	if err != nil {
		return nil, err
	}
	return &StateView{Node: node, Traversal: traversal, IsTerminal: terminal}, nil
}
