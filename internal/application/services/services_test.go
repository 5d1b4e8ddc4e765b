package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/identity"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/progress"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/backend"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/performance"
)

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: true,
		DefaultLevel:    slog.LevelError,
	})
	require.NoError(t, err)
	return logger
}

func testTracker() *performance.Tracker {
	return performance.NewTracker(nil)
}

// fakeRoster is an in-memory IdentityRepository.
type fakeRoster struct {
	entries identity.Roster
}

func (f *fakeRoster) List() (identity.Roster, error) {
	return append(identity.Roster(nil), f.entries...), nil
}

func (f *fakeRoster) Store(ident identity.Identity) error {
	f.entries = append(f.entries, ident)
	return nil
}

func (f *fakeRoster) Find(id string) (*identity.Identity, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			return &f.entries[i], nil
		}
	}
	return nil, identity.ErrNotFound
}

func (f *fakeRoster) DeleteAll() error {
	f.entries = nil
	return nil
}

// fakeAppState is an in-memory AppStateRepository.
type fakeAppState struct {
	values map[string]string
}

func newFakeAppState() *fakeAppState {
	return &fakeAppState{values: make(map[string]string)}
}

func (f *fakeAppState) Get(key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeAppState) Set(key, value string) error {
	f.values[key] = value
	return nil
}

func (f *fakeAppState) Delete(key string) error {
	delete(f.values, key)
	return nil
}

// fakeHistory is a controllable HistoryReader and HistoryWriter.
type fakeHistory struct {
	last  *assessment.Snapshot
	err   error
	saved []*assessment.Snapshot
}

func (f *fakeHistory) LastResponse(ctx context.Context, userID string) (*assessment.Snapshot, error) {
	return f.last, f.err
}

func (f *fakeHistory) SaveResponse(ctx context.Context, snap *assessment.Snapshot) error {
	f.saved = append(f.saved, snap)
	return f.err
}

// fakeEstimator is a controllable Estimator.
type fakeEstimator struct {
	result    assessment.DiagnosticResult
	detection assessment.PhotoDetection
	err       error
	calls     int
}

func (f *fakeEstimator) AnalyzeInventory(ctx context.Context, waterLiters float64, persons int) (assessment.DiagnosticResult, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeEstimator) AnalyzePhoto(ctx context.Context, image []byte, filename string, persons int, confThresh float64) (assessment.PhotoDetection, error) {
	f.calls++
	return f.detection, f.err
}

// fakeEvaluator is a controllable Evaluator.
type fakeEvaluator struct {
	score   assessment.ScoreResult
	actions []string
	err     error
}

func (f *fakeEvaluator) Score(ctx context.Context, req backend.EvaluationRequest) (assessment.ScoreResult, error) {
	return f.score, f.err
}

func (f *fakeEvaluator) Advice(ctx context.Context, req backend.EvaluationRequest) ([]string, error) {
	return f.actions, f.err
}

// fakeGroupAPI is a controllable GroupAPI.
type fakeGroupAPI struct {
	group      progress.Group
	members    []progress.Member
	err        error
	published  []progress.PublishRecord
	lastJoined string
}

func (f *fakeGroupAPI) CreateGroup(ctx context.Context, name string) (progress.Group, error) {
	return f.group, f.err
}

func (f *fakeGroupAPI) JoinGroup(ctx context.Context, userID, userName, groupID string) error {
	f.lastJoined = groupID
	return f.err
}

func (f *fakeGroupAPI) GroupProgress(ctx context.Context, groupID string) ([]progress.Member, error) {
	return f.members, f.err
}

func (f *fakeGroupAPI) PublishProgress(ctx context.Context, rec progress.PublishRecord, createdAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, rec)
	return nil
}

// fakeNotifier records group refresh requests.
type fakeNotifier struct {
	notified []string
}

func (f *fakeNotifier) NotifyGroup(groupID string) {
	f.notified = append(f.notified, groupID)
}
