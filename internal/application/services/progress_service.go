package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/progress"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/session"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/performance"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/persistence/state"
)

// GroupAPI is the remote group service surface.
type GroupAPI interface {
	CreateGroup(ctx context.Context, name string) (progress.Group, error)
	JoinGroup(ctx context.Context, userID, userName, groupID string) error
	GroupProgress(ctx context.Context, groupID string) ([]progress.Member, error)
	PublishProgress(ctx context.Context, rec progress.PublishRecord, createdAt time.Time) error
}

// GroupNotifier pushes a refresh to clients watching a group.
type GroupNotifier interface {
	NotifyGroup(groupID string)
}

// ProgressService handles group membership and draft publication.
type ProgressService struct {
	groups      GroupAPI
	appState    AppStateRepository
	notifier    GroupNotifier
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewProgressService creates a new progress service.
func NewProgressService(
	groups GroupAPI,
	appState AppStateRepository,
	notifier GroupNotifier,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *ProgressService {
	return &ProgressService{
		groups:      groups,
		appState:    appState,
		notifier:    notifier,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// CreateGroup registers a new group, attaches the session to it, and
// remembers the id locally so later logins rejoin it.
func (s *ProgressService) CreateGroup(ctx context.Context, sess *session.Session, name string) (progress.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "My Group"
	}

	marker := s.perfTracker.StartOperation("group_create", sess.ID)
	defer marker.Complete()

	group, err := s.groups.CreateGroup(ctx, name)
	if err != nil {
		marker.SetError(err)
		return progress.Group{}, err
	}

	sess.SetGroup(group.GroupID)
	if err := s.appState.Set(state.KeyGroupID, group.GroupID); err != nil {
		s.logger.Progress().Warn("Group id persistence failed", "groupId", group.GroupID, "error", err.Error())
	}

	s.logger.Progress().Info("Group created", "sessionId", sess.ID, "groupId", group.GroupID)
	marker.SetSuccess(true)
	return group, nil
}

// JoinGroup adds the session's identity to an existing group.
func (s *ProgressService) JoinGroup(ctx context.Context, sess *session.Session, groupID string) error {
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return fmt.Errorf("%w: group id is required", assessment.ErrInvalidInput)
	}

	userID, userName := sess.Identity()
	if userID == "" {
		return fmt.Errorf("%w: no active identity", assessment.ErrInvalidInput)
	}

	marker := s.perfTracker.StartOperation("group_join", sess.ID)
	defer marker.Complete()

	if err := s.groups.JoinGroup(ctx, userID, userName, groupID); err != nil {
		marker.SetError(err)
		return err
	}

	sess.SetGroup(groupID)
	if err := s.appState.Set(state.KeyGroupID, groupID); err != nil {
		s.logger.Progress().Warn("Group id persistence failed", "groupId", groupID, "error", err.Error())
	}

	s.logger.Progress().Info("Group joined", "sessionId", sess.ID, "groupId", groupID)
	marker.SetSuccess(true)
	return nil
}

// Publish sends the session's drafted figures to the group service. The
// draft is cleared only after the remote call succeeds; on failure it
// stays intact for a retry.
func (s *ProgressService) Publish(ctx context.Context, sess *session.Session) error {
	rec, err := sess.PublishRecord()
	if err != nil {
		return err
	}

	marker := s.perfTracker.StartOperation("progress_publish", sess.ID)
	defer marker.Complete()

	createdAt := time.Now()
	if draft := sess.Draft(); draft.CreatedAt != nil {
		createdAt = *draft.CreatedAt
	}

	if err := s.groups.PublishProgress(ctx, rec, createdAt); err != nil {
		marker.SetError(err)
		return err
	}

	sess.ClearDraftScore()
	s.notifier.NotifyGroup(rec.GroupID)

	s.logger.Progress().Info("Progress published",
		"sessionId", sess.ID, "groupId", rec.GroupID, "score", rec.Score, "rank", rec.Rank)
	marker.SetSuccess(true)
	return nil
}

// GroupProgress fetches a group's published member ledger.
func (s *ProgressService) GroupProgress(ctx context.Context, groupID string) ([]progress.Member, error) {
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, fmt.Errorf("%w: group id is required", assessment.ErrInvalidInput)
	}
	return s.groups.GroupProgress(ctx, groupID)
}
