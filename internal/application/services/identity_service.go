package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/identity"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/session"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/performance"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/persistence/state"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/security"
)

// IdentityRepository is the persisted roster surface the service needs.
type IdentityRepository interface {
	List() (identity.Roster, error)
	Store(identity.Identity) error
	Find(id string) (*identity.Identity, error)
	DeleteAll() error
}

// AppStateRepository is the persisted key-value surface.
type AppStateRepository interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// HistoryReader loads the most recent persisted snapshot for a user.
type HistoryReader interface {
	LastResponse(ctx context.Context, userID string) (*assessment.Snapshot, error)
}

// IdentityService handles the device-local identity roster: listing,
// registration, activation, the legacy single-user migration, and the
// restore-on-login flow.
type IdentityService struct {
	roster      IdentityRepository
	appState    AppStateRepository
	history     HistoryReader
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewIdentityService creates a new identity service.
func NewIdentityService(
	roster IdentityRepository,
	appState AppStateRepository,
	history HistoryReader,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *IdentityService {
	return &IdentityService{
		roster:      roster,
		appState:    appState,
		history:     history,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// List returns the roster and the id of the active identity, if any.
func (s *IdentityService) List() (identity.Roster, string, error) {
	roster, err := s.roster.List()
	if err != nil {
		return nil, "", err
	}

	activeID, _, err := s.appState.Get(state.KeyActiveIdentityID)
	if err != nil {
		return nil, "", err
	}
	if activeID != "" && !roster.Contains(activeID) {
		activeID = ""
	}
	return roster, activeID, nil
}

// Register creates a new identity, adds it to the roster, and makes it
// active. The generated id is retried until it does not collide with an
// existing roster entry.
func (s *IdentityService) Register(displayName string) (identity.Identity, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return identity.Identity{}, fmt.Errorf("%w: display name is required", assessment.ErrInvalidInput)
	}

	marker := s.perfTracker.StartOperation("identity_register", "")
	defer marker.Complete()

	roster, err := s.roster.List()
	if err != nil {
		marker.SetError(err)
		return identity.Identity{}, err
	}

	var id string
	for {
		id, err = security.GenerateIdentityID()
		if err != nil {
			marker.SetError(err)
			return identity.Identity{}, err
		}
		if !roster.Contains(id) {
			break
		}
	}

	ident := identity.Identity{ID: id, DisplayName: displayName}
	if err := s.roster.Store(ident); err != nil {
		marker.SetError(err)
		return identity.Identity{}, err
	}
	if err := s.appState.Set(state.KeyActiveIdentityID, id); err != nil {
		marker.SetError(err)
		return identity.Identity{}, err
	}

	s.logger.Session().Info("Identity registered", "identityId", id)
	marker.SetSuccess(true)
	return ident, nil
}

// Activate switches the active identity. The session is rebound, which
// clears the previous identity's state, and the last persisted snapshot
// is restored best-effort. restored reports whether history was found.
func (s *IdentityService) Activate(ctx context.Context, sess *session.Session, id string) (*identity.Identity, bool, error) {
	ident, err := s.roster.Find(id)
	if err != nil {
		return nil, false, err
	}

	marker := s.perfTracker.StartOperation("identity_activate", sess.ID)
	defer marker.Complete()

	if err := s.appState.Set(state.KeyActiveIdentityID, id); err != nil {
		marker.SetError(err)
		return nil, false, err
	}

	sess.BindIdentity(ident.ID, ident.DisplayName)

	if groupID, ok, err := s.appState.Get(state.KeyGroupID); err == nil && ok {
		sess.SetGroup(groupID)
	}

	restored := false
	snap, err := s.history.LastResponse(ctx, id)
	if err != nil {
		s.logger.Session().Warn("History restore failed", "identityId", id, "error", err.Error())
	} else if snap != nil {
		sess.RestoreSnapshot(snap)
		restored = true
		if snap.GroupID != "" {
			sess.SetGroup(snap.GroupID)
			if err := s.appState.Set(state.KeyGroupID, snap.GroupID); err != nil {
				s.logger.Session().Warn("Group id persistence failed",
					"identityId", id, "error", err.Error())
			}
		}
		s.logger.Session().Info("Last response restored", "identityId", id)
	}

	marker.SetSuccess(true)
	return ident, restored, nil
}

// ResetAll wipes the roster, the active pointer, the remembered group,
// and any leftover legacy fields. Development helper mirroring a full
// local storage clear.
func (s *IdentityService) ResetAll() error {
	if err := s.roster.DeleteAll(); err != nil {
		return err
	}
	keys := []string{
		state.KeyActiveIdentityID,
		state.KeyGroupID,
		state.KeyLegacyUserID,
		state.KeyLegacyUserName,
	}
	for _, key := range keys {
		if err := s.appState.Delete(key); err != nil {
			return err
		}
	}
	s.logger.Session().Warn("Identity roster reset")
	return nil
}

// MigrateLegacyIfPresent promotes the pre-roster single-user fields into
// a roster entry. Runs once at startup; the legacy identity is inserted
// unless an entry with the same id already exists, becomes the active
// identity either way, and the legacy keys are removed so the migration
// never repeats.
func (s *IdentityService) MigrateLegacyIfPresent() error {
	legacyID, hasID, err := s.appState.Get(state.KeyLegacyUserID)
	if err != nil {
		return err
	}
	legacyName, hasName, err := s.appState.Get(state.KeyLegacyUserName)
	if err != nil {
		return err
	}
	if !hasID && !hasName {
		return nil
	}

	if hasID && legacyID != "" {
		roster, err := s.roster.List()
		if err != nil {
			return err
		}
		if !roster.Contains(legacyID) {
			name := legacyName
			if name == "" {
				name = legacyID
			}
			if err := s.roster.Store(identity.Identity{ID: legacyID, DisplayName: name}); err != nil {
				return err
			}
		}
		if err := s.appState.Set(state.KeyActiveIdentityID, legacyID); err != nil {
			return err
		}
		s.logger.Startup().Info("Legacy identity migrated", "identityId", legacyID)
	}

	if err := s.appState.Delete(state.KeyLegacyUserID); err != nil {
		return err
	}
	return s.appState.Delete(state.KeyLegacyUserName)
}
