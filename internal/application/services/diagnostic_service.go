package services

import (
	"context"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/session"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/media"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/performance"
)

// Estimator is the remote diagnostic surface: the manual estimator and
// the photo analyzer.
type Estimator interface {
	AnalyzeInventory(ctx context.Context, waterLiters float64, persons int) (assessment.DiagnosticResult, error)
	AnalyzePhoto(ctx context.Context, image []byte, filename string, persons int, confThresh float64) (assessment.PhotoDetection, error)
}

// DiagnosticService runs the water stockpile diagnostics. Each session
// allows one diagnostic in flight at a time, and a result only lands if
// no newer request superseded it.
type DiagnosticService struct {
	estimator   Estimator
	photos      *media.PhotoProcessor
	confThresh  float64
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewDiagnosticService creates a new diagnostic service.
func NewDiagnosticService(
	estimator Estimator,
	photos *media.PhotoProcessor,
	confThresh float64,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *DiagnosticService {
	return &DiagnosticService{
		estimator:   estimator,
		photos:      photos,
		confThresh:  confThresh,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// AnalyzeManual validates the inventory form, asks the estimator for a
// day estimate, and lands both on the session. Session state is only
// mutated after the remote call succeeds.
func (s *DiagnosticService) AnalyzeManual(ctx context.Context, sess *session.Session, in assessment.InventoryInput) (assessment.DiagnosticResult, error) {
	if err := in.Validate(); err != nil {
		return assessment.DiagnosticResult{}, err
	}

	seq, ok := sess.BeginDiagnostic()
	if !ok {
		return assessment.DiagnosticResult{}, ErrBusy
	}

	marker := s.perfTracker.StartOperation("diagnostic_manual", sess.ID)
	defer marker.Complete()

	result, err := s.estimator.AnalyzeInventory(ctx, in.TotalLiters(), in.Persons)
	if err != nil {
		sess.AbortDiagnostic(seq)
		marker.SetError(err)
		return assessment.DiagnosticResult{}, err
	}

	if !sess.ApplyManualDiagnostic(seq, in, result) {
		s.logger.Diagnostic().Info("Stale manual diagnostic dropped", "sessionId", sess.ID, "seq", seq)
	}

	s.logger.Diagnostic().Info("Manual diagnostic completed",
		"sessionId", sess.ID, "liters", in.TotalLiters(), "persons", in.Persons, "estimatedDays", result.EstimatedDays)
	marker.SetSuccess(true)
	return result, nil
}

// PhotoResult is the outcome of a photo diagnostic: the detection plus
// the inventory form state it produced.
type PhotoResult struct {
	Detection assessment.PhotoDetection    `json:"detection"`
	Inventory assessment.InventoryInput    `json:"inventory"`
	Result    *assessment.DiagnosticResult `json:"result,omitempty"`
}

// AnalyzePhoto validates and normalizes an uploaded photo locally, sends
// it to the analyzer, and lands the detected counts on the session.
// Non-image payloads are rejected before any network call.
func (s *DiagnosticService) AnalyzePhoto(ctx context.Context, sess *session.Session, data []byte, filename string, persons int) (*PhotoResult, error) {
	if persons < 1 {
		persons = 1
	}

	normalized, name, err := s.photos.Normalize(data, filename)
	if err != nil {
		return nil, err
	}

	seq, ok := sess.BeginDiagnostic()
	if !ok {
		return nil, ErrBusy
	}

	marker := s.perfTracker.StartOperation("diagnostic_photo", sess.ID)
	defer marker.Complete()

	detection, err := s.estimator.AnalyzePhoto(ctx, normalized, name, persons, s.confThresh)
	if err != nil {
		sess.AbortDiagnostic(seq)
		marker.SetError(err)
		return nil, err
	}

	if !sess.ApplyPhotoDiagnostic(seq, detection) {
		s.logger.Diagnostic().Info("Stale photo diagnostic dropped", "sessionId", sess.ID, "seq", seq)
	}

	s.logger.Diagnostic().Info("Photo diagnostic completed",
		"sessionId", sess.ID, "bottles500", detection.Bottles500, "bottles2l", detection.Bottles2L)
	marker.SetSuccess(true)

	inv := sess.Inventory()
	return &PhotoResult{
		Detection: detection,
		Inventory: inv,
		Result:    sess.Diagnostic(),
	}, nil
}
