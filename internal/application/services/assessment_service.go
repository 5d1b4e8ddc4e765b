package services

import (
	"context"
	"time"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/session"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/backend"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/performance"
)

// Evaluator is the remote scoring and advice surface.
type Evaluator interface {
	Score(ctx context.Context, req backend.EvaluationRequest) (assessment.ScoreResult, error)
	Advice(ctx context.Context, req backend.EvaluationRequest) ([]string, error)
}

// HistoryWriter persists assessment snapshots.
type HistoryWriter interface {
	SaveResponse(ctx context.Context, snap *assessment.Snapshot) error
}

// AssessmentService orchestrates scoring and advice: it assembles the
// evaluation inputs from the session, calls the remote services, folds
// the results into the progress draft, and persists a snapshot in the
// background.
type AssessmentService struct {
	evaluator   Evaluator
	history     HistoryWriter
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAssessmentService creates a new assessment service.
func NewAssessmentService(
	evaluator Evaluator,
	history HistoryWriter,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *AssessmentService {
	return &AssessmentService{
		evaluator:   evaluator,
		history:     history,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

func evaluationRequest(sess *session.Session) backend.EvaluationRequest {
	req := backend.EvaluationRequest{
		Answers:     sess.AnsweredList(),
		FloodDepthM: 0,
	}
	if diag := sess.Diagnostic(); diag != nil {
		req.InventoryDays = diag.EstimatedDays
	}
	if _, traversal, _, err := sess.ScenarioState(); err == nil {
		req.ScenarioPath = traversal.Path
	}
	return req
}

// ComputeScore submits the session's answers for scoring. On success the
// result lands on the session, the draft captures it, and the snapshot
// is persisted in the background.
func (s *AssessmentService) ComputeScore(ctx context.Context, sess *session.Session) (assessment.ScoreResult, error) {
	if !sess.TryBeginGeneral() {
		return assessment.ScoreResult{}, ErrBusy
	}
	defer sess.EndGeneral()

	marker := s.perfTracker.StartOperation("assessment_score", sess.ID)
	defer marker.Complete()

	result, err := s.evaluator.Score(ctx, evaluationRequest(sess))
	if err != nil {
		marker.SetError(err)
		return assessment.ScoreResult{}, err
	}

	sess.SetScore(result, time.Now())
	s.logger.Assessment().Info("Score computed",
		"sessionId", sess.ID, "scoreTotal", result.ScoreTotal, "rank", result.Rank)
	marker.SetSuccess(true)

	s.persistSnapshot(sess)
	return result, nil
}

// FetchAdvice asks for recommended actions. A fresh advice list replaces
// the previous one and voids any prior commitment.
func (s *AssessmentService) FetchAdvice(ctx context.Context, sess *session.Session) ([]string, error) {
	if !sess.TryBeginGeneral() {
		return nil, ErrBusy
	}
	defer sess.EndGeneral()

	marker := s.perfTracker.StartOperation("assessment_advice", sess.ID)
	defer marker.Complete()

	actions, err := s.evaluator.Advice(ctx, evaluationRequest(sess))
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	sess.SetAdvice(actions)
	s.logger.Assessment().Info("Advice fetched", "sessionId", sess.ID, "actions", len(actions))
	marker.SetSuccess(true)

	s.persistSnapshot(sess)
	return actions, nil
}

// CommitAdvice records the user's selected advice entry and plan notes.
func (s *AssessmentService) CommitAdvice(sess *session.Session, selected, planText string) error {
	if err := sess.CommitAdvice(selected, planText); err != nil {
		return err
	}
	s.logger.Assessment().Info("Advice committed", "sessionId", sess.ID)
	return nil
}

// persistSnapshot saves the current snapshot in a goroutine. Failures
// are logged and never surfaced; history persistence is best effort.
func (s *AssessmentService) persistSnapshot(sess *session.Session) {
	snap := sess.Snapshot()
	if snap.UserID == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.history.SaveResponse(ctx, snap); err != nil {
			s.logger.Assessment().Warn("Snapshot persistence failed",
				"sessionId", sess.ID, "userId", snap.UserID, "error", err.Error())
		}
	}()
}
