// Package session defines the per-client aggregate that carries one
// user's live assessment state between requests.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/progress"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/scenario"
)

// Session is the live state of one client, keyed by session id. All
// exported methods take the session's own lock; callers never hold it
// across remote calls, so mutations land only after a call succeeds.
type Session struct {
	ID           string
	CreatedAt    time.Time
	LastActivity time.Time

	mu sync.Mutex

	identityID  string
	displayName string

	answers   assessment.AnswerSet
	inventory assessment.InventoryInput

	diagnostic *assessment.DiagnosticResult
	photo      *assessment.PhotoDetection

	graph     *scenario.Graph
	traversal *scenario.Traversal

	score          *assessment.ScoreResult
	advice         assessment.AdviceSet
	selectedAdvice string
	planText       string

	draft progress.Draft

	diagnosticBusy bool
	generalBusy    bool
	diagSeq        uint64
}

// New creates an empty session.
func New(id string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		CreatedAt:    now,
		LastActivity: now,
		answers:      make(assessment.AnswerSet),
	}
}

// Touch refreshes the activity timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActivity = time.Now()
}

// LastActive returns the last activity timestamp.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastActivity
}

// IsExpired reports whether the session has been idle past ttl.
func (s *Session) IsExpired(ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.LastActivity) > ttl
}

// Identity returns the bound identity, empty if none.
func (s *Session) Identity() (id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identityID, s.displayName
}

// BindIdentity switches the session to a new identity. Everything the
// previous identity accumulated is cleared, including the draft's
// volatile parts; the group attachment stays with the device.
func (s *Session) BindIdentity(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identityID == id {
		s.displayName = name
		return
	}
	s.identityID = id
	s.displayName = name
	s.clearAssessmentLocked()
	s.draft.ClearVolatile()
}

// RestoreSnapshot reapplies a previously persisted assessment snapshot
// after a login, overwriting nothing that is not present in it.
func (s *Session) RestoreSnapshot(snap *assessment.Snapshot) {
	if snap == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers.Restore(snap.Answers)
	if snap.Score != nil {
		sc := *snap.Score
		s.score = &sc
	}
	if snap.InventoryDays > 0 {
		s.diagnostic = &assessment.DiagnosticResult{EstimatedDays: snap.InventoryDays}
	}
	if len(snap.Advice) > 0 {
		s.advice = append(assessment.AdviceSet(nil), snap.Advice...)
	}
	if snap.GroupID != "" {
		s.draft.GroupID = snap.GroupID
	}
}

// ResetAssessment wipes the current run so the user can start over.
// The draft keeps what was already shared.
func (s *Session) ResetAssessment() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearAssessmentLocked()
}

func (s *Session) clearAssessmentLocked() {
	s.answers = make(assessment.AnswerSet)
	s.inventory = assessment.InventoryInput{}
	s.diagnostic = nil
	s.photo = nil
	s.graph = nil
	s.traversal = nil
	s.score = nil
	s.advice = nil
	s.selectedAdvice = ""
	s.planText = ""
}

// Answer records one checklist response.
func (s *Session) Answer(questionID string, value assessment.AnswerValue) error {
	if !assessment.ValidAnswer(value) && value != assessment.AnswerUnanswered {
		return fmt.Errorf("%w: answer value %q", assessment.ErrInvalidInput, value)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == assessment.AnswerUnanswered {
		delete(s.answers, questionID)
		return nil
	}
	s.answers[questionID] = value
	return nil
}

// AnsweredList returns the answered entries in wire order.
func (s *Session) AnsweredList() []assessment.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Answered()
}

// SetScenario installs a loaded graph and resets the traversal to its
// first node.
func (s *Session) SetScenario(g *scenario.Graph) error {
	t, err := scenario.ResetTraversal(g)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = g
	s.traversal = t
	return nil
}

// ResetScenario restarts the installed graph from its first node.
func (s *Session) ResetScenario() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.graph == nil {
		return scenario.ErrEmptyGraph
	}
	t, err := scenario.ResetTraversal(s.graph)
	if err != nil {
		return err
	}
	s.traversal = t
	return nil
}

// Choose advances the traversal along a choice.
func (s *Session) Choose(choiceLabel, targetNodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.graph == nil || s.traversal == nil {
		return scenario.ErrEmptyGraph
	}
	return s.traversal.Choose(s.graph, choiceLabel, targetNodeID)
}

// ScenarioState returns the current node, traversal copy, and terminal
// flag, or ErrEmptyGraph when no scenario is loaded.
func (s *Session) ScenarioState() (*scenario.Node, scenario.Traversal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.graph == nil || s.traversal == nil {
		return nil, scenario.Traversal{}, false, scenario.ErrEmptyGraph
	}
	node, ok := s.graph.Node(s.traversal.CurrentNodeID)
	if !ok {
		return nil, scenario.Traversal{}, false, scenario.ErrUnknownNode
	}
	t := *s.traversal
	t.VisitedIDs = append([]string(nil), s.traversal.VisitedIDs...)
	t.Path = append([]scenario.Step(nil), s.traversal.Path...)
	return node, t, s.traversal.IsTerminal(s.graph), nil
}

// BeginDiagnostic claims the diagnostic busy gate and issues a request
// sequence number. It reports false when a diagnostic is already in
// flight.
func (s *Session) BeginDiagnostic() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.diagnosticBusy {
		return 0, false
	}
	s.diagnosticBusy = true
	s.diagSeq++
	return s.diagSeq, true
}

// AbortDiagnostic releases the busy gate after a failed remote call,
// leaving session state untouched.
func (s *Session) AbortDiagnostic(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == s.diagSeq {
		s.diagnosticBusy = false
	}
}

// ApplyManualDiagnostic lands a manual estimate. The result is dropped
// if a newer diagnostic request was issued in the meantime.
func (s *Session) ApplyManualDiagnostic(seq uint64, in assessment.InventoryInput, res assessment.DiagnosticResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.diagSeq {
		return false
	}
	s.diagnosticBusy = false
	s.inventory = in
	s.diagnostic = &res
	s.photo = nil
	return true
}

// ApplyPhotoDiagnostic lands a photo analysis. Detected bottle counts
// overwrite the manual ones; an explicit day estimate, when present,
// becomes the diagnostic result. Stale results are dropped.
func (s *Session) ApplyPhotoDiagnostic(seq uint64, det assessment.PhotoDetection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.diagSeq {
		return false
	}
	s.diagnosticBusy = false
	s.photo = &det
	s.inventory.Bottles500 = det.Bottles500
	s.inventory.Bottles2L = det.Bottles2L
	s.inventory.UseOverride = false
	if det.TotalLiters != nil {
		s.inventory.LitersOverride = *det.TotalLiters
		s.inventory.UseOverride = true
	}
	if det.EstimatedDays != nil {
		s.diagnostic = &assessment.DiagnosticResult{EstimatedDays: *det.EstimatedDays}
	}
	return true
}

// Inventory returns the current stockpile form state.
func (s *Session) Inventory() assessment.InventoryInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventory
}

// Diagnostic returns the latest day estimate, nil if none ran.
func (s *Session) Diagnostic() *assessment.DiagnosticResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.diagnostic == nil {
		return nil
	}
	d := *s.diagnostic
	return &d
}

// TryBeginGeneral claims the shared busy gate used by the score and
// advice calls.
func (s *Session) TryBeginGeneral() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generalBusy {
		return false
	}
	s.generalBusy = true
	return true
}

// EndGeneral releases the shared busy gate.
func (s *Session) EndGeneral() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generalBusy = false
}

// SetScore lands a score result and folds it into the draft.
func (s *Session) SetScore(res assessment.ScoreResult, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := res
	s.score = &sc
	s.draft.RecordScore(res, len(s.answers.Answered()), now)
}

// Score returns the latest score result, nil if none.
func (s *Session) Score() *assessment.ScoreResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.score == nil {
		return nil
	}
	sc := *s.score
	return &sc
}

// SetAdvice lands a fresh advice list. Any previous advice selection
// and plan notes belong to the old list and are dropped.
func (s *Session) SetAdvice(advice []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advice = append(assessment.AdviceSet(nil), advice...)
	s.selectedAdvice = ""
	s.planText = ""
	s.draft.RecordAdvice(advice)
}

// Advice returns the current advice list.
func (s *Session) Advice() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.advice...)
}

// CommitAdvice records the single selected advice entry and the user's
// plan notes. The selection must come from the current advice list.
func (s *Session) CommitAdvice(selected, planText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for _, msg := range s.advice {
		if msg == selected {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: advice not in current list", assessment.ErrInvalidInput)
	}
	s.selectedAdvice = selected
	s.planText = planText
	return nil
}

// Commitment returns the selected advice and plan notes.
func (s *Session) Commitment() (selected, planText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedAdvice, s.planText
}

// SetGroup attaches the session to a group.
func (s *Session) SetGroup(groupID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.GroupID = groupID
}

// GroupID returns the attached group id, empty if none.
func (s *Session) GroupID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.GroupID
}

// Draft returns a copy of the progress draft.
func (s *Session) Draft() progress.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft
	d.Advice = append([]string(nil), s.draft.Advice...)
	return d
}

// ClearDraftScore drops the drafted figures after a successful publish
// so the next publish needs a fresh score.
func (s *Session) ClearDraftScore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	group := s.draft.GroupID
	s.draft.ClearVolatile()
	s.draft.GroupID = group
}

// Snapshot captures the serializable assessment state for the history
// store.
func (s *Session) Snapshot() *assessment.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := &assessment.Snapshot{
		UserID:   s.identityID,
		UserName: s.displayName,
		Answers:  s.answers.Answered(),
		GroupID:  s.draft.GroupID,
	}
	if s.traversal != nil {
		snap.ScenarioPath = append([]scenario.Step(nil), s.traversal.Path...)
	}
	if s.diagnostic != nil {
		snap.InventoryDays = s.diagnostic.EstimatedDays
	}
	if s.score != nil {
		sc := *s.score
		snap.Score = &sc
	}
	snap.Advice = append([]string(nil), s.advice...)
	return snap
}

// PublishRecord assembles the body for a group publish, preferring
// drafted figures over live ones. It fails when no group is attached or
// no score exists anywhere.
func (s *Session) PublishRecord() (progress.PublishRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft.GroupID == "" {
		return progress.PublishRecord{}, progress.ErrMissingGroup
	}
	total, rank, ok := s.draft.ResolveScore(s.score)
	if !ok {
		return progress.PublishRecord{}, progress.ErrScoreRequired
	}
	advice := s.draft.ResolveAdvice(s.advice)
	answersCount := s.draft.AnswersCount
	if answersCount == 0 {
		answersCount = len(s.answers.Answered())
	}
	return progress.PublishRecord{
		GroupID:        s.draft.GroupID,
		UserID:         s.identityID,
		UserName:       s.displayName,
		Score:          total,
		Rank:           rank,
		AnswersCount:   answersCount,
		Advice:         assessment.AdviceSet(advice).Items(),
		SelectedAdvice: s.selectedAdvice,
		PlanText:       s.planText,
	}, nil
}
