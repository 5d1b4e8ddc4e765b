package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gensai-lab/sonae-go/internal/domain/entities/assessment"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/identity"
	"github.com/gensai-lab/sonae-go/internal/domain/entities/session"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/persistence/state"
)

func newIdentityService(t *testing.T, roster *fakeRoster, appState *fakeAppState, history *fakeHistory) *IdentityService {
	t.Helper()
	return NewIdentityService(roster, appState, history, testLogger(t), testTracker())
}

func TestRegisterCreatesActiveIdentity(t *testing.T) {
	roster := &fakeRoster{}
	appState := newFakeAppState()
	svc := newIdentityService(t, roster, appState, &fakeHistory{})

	ident, err := svc.Register("  Aoi  ")
	require.NoError(t, err)
	assert.Equal(t, "Aoi", ident.DisplayName)
	assert.True(t, strings.HasPrefix(ident.ID, "u"))
	assert.Len(t, ident.ID, 9)

	listed, activeID, err := svc.List()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, ident.ID, activeID)
}

func TestRegisterRejectsEmptyName(t *testing.T) {
	svc := newIdentityService(t, &fakeRoster{}, newFakeAppState(), &fakeHistory{})

	_, err := svc.Register("   ")
	assert.ErrorIs(t, err, assessment.ErrInvalidInput)
}

func TestActivateUnknownIdentity(t *testing.T) {
	svc := newIdentityService(t, &fakeRoster{}, newFakeAppState(), &fakeHistory{})
	sess := session.New("sess-1")

	_, _, err := svc.Activate(context.Background(), sess, "u00000000")
	assert.ErrorIs(t, err, identity.ErrNotFound)
}

func TestActivateRestoresHistoryAndGroup(t *testing.T) {
	roster := &fakeRoster{entries: identity.Roster{{ID: "u1a2b3c4d", DisplayName: "Aoi"}}}
	appState := newFakeAppState()
	require.NoError(t, appState.Set(state.KeyGroupID, "g-7"))

	history := &fakeHistory{last: &assessment.Snapshot{
		UserID:        "u1a2b3c4d",
		Answers:       []assessment.Answer{{ID: "q1", Value: assessment.AnswerYes}},
		InventoryDays: 2.5,
		Score:         &assessment.ScoreResult{ScoreTotal: 66, Rank: "Intermediate"},
		GroupID:       "g-9",
	}}

	svc := newIdentityService(t, roster, appState, history)
	sess := session.New("sess-1")

	ident, restored, err := svc.Activate(context.Background(), sess, "u1a2b3c4d")
	require.NoError(t, err)
	assert.Equal(t, "Aoi", ident.DisplayName)
	assert.True(t, restored)
	assert.Len(t, sess.AnsweredList(), 1)
	require.NotNil(t, sess.Score())
	assert.Equal(t, 66.0, sess.Score().ScoreTotal)

	require.NotNil(t, sess.Diagnostic(), "saved day estimate is restored")
	assert.Equal(t, 2.5, sess.Diagnostic().EstimatedDays)

	// The snapshot's group wins over the locally remembered one and is
	// persisted for the next login.
	assert.Equal(t, "g-9", sess.GroupID())
	stored, ok, err := appState.Get(state.KeyGroupID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "g-9", stored)
}

func TestActivateSurvivesHistoryFailure(t *testing.T) {
	roster := &fakeRoster{entries: identity.Roster{{ID: "u1a2b3c4d", DisplayName: "Aoi"}}}
	history := &fakeHistory{err: errors.New("backend down")}
	svc := newIdentityService(t, roster, newFakeAppState(), history)
	sess := session.New("sess-1")

	_, restored, err := svc.Activate(context.Background(), sess, "u1a2b3c4d")
	require.NoError(t, err, "history restore is best effort")
	assert.False(t, restored)
}

func TestMigrateLegacyPromotesSingleUser(t *testing.T) {
	roster := &fakeRoster{}
	appState := newFakeAppState()
	require.NoError(t, appState.Set(state.KeyLegacyUserID, "u-old-1"))
	require.NoError(t, appState.Set(state.KeyLegacyUserName, "Old User"))

	svc := newIdentityService(t, roster, appState, &fakeHistory{})
	require.NoError(t, svc.MigrateLegacyIfPresent())

	listed, activeID, err := svc.List()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "u-old-1", listed[0].ID)
	assert.Equal(t, "Old User", listed[0].DisplayName)
	assert.Equal(t, "u-old-1", activeID)

	_, ok, _ := appState.Get(state.KeyLegacyUserID)
	assert.False(t, ok, "legacy keys are consumed")

	// Second run is a no-op.
	require.NoError(t, svc.MigrateLegacyIfPresent())
	listed, _, _ = svc.List()
	assert.Len(t, listed, 1)
}

func TestMigrateLegacyInsertsAlongsideExistingRoster(t *testing.T) {
	roster := &fakeRoster{entries: identity.Roster{{ID: "u1a2b3c4d", DisplayName: "Aoi"}}}
	appState := newFakeAppState()
	require.NoError(t, appState.Set(state.KeyLegacyUserID, "u-old-1"))
	require.NoError(t, appState.Set(state.KeyLegacyUserName, "Old User"))

	svc := newIdentityService(t, roster, appState, &fakeHistory{})
	require.NoError(t, svc.MigrateLegacyIfPresent())

	listed, activeID, err := svc.List()
	require.NoError(t, err)
	require.Len(t, listed, 2, "legacy identity joins the existing roster")
	assert.True(t, listed.Contains("u-old-1"))
	assert.Equal(t, "u-old-1", activeID, "legacy identity becomes active")

	_, ok, _ := appState.Get(state.KeyLegacyUserID)
	assert.False(t, ok, "legacy keys are consumed")
}

func TestMigrateLegacyDoesNotDuplicateKnownID(t *testing.T) {
	roster := &fakeRoster{entries: identity.Roster{{ID: "u-old-1", DisplayName: "Old User"}}}
	appState := newFakeAppState()
	require.NoError(t, appState.Set(state.KeyLegacyUserID, "u-old-1"))
	require.NoError(t, appState.Set(state.KeyLegacyUserName, "Old User"))

	svc := newIdentityService(t, roster, appState, &fakeHistory{})
	require.NoError(t, svc.MigrateLegacyIfPresent())

	listed, activeID, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, listed, 1, "already migrated id is not inserted twice")
	assert.Equal(t, "u-old-1", activeID, "active pointer is still re-set")
}

func TestResetAllClearsRosterAndPointer(t *testing.T) {
	roster := &fakeRoster{entries: identity.Roster{{ID: "u1a2b3c4d", DisplayName: "Aoi"}}}
	appState := newFakeAppState()
	require.NoError(t, appState.Set(state.KeyActiveIdentityID, "u1a2b3c4d"))
	require.NoError(t, appState.Set(state.KeyGroupID, "g-7"))
	require.NoError(t, appState.Set(state.KeyLegacyUserID, "u-old-1"))
	require.NoError(t, appState.Set(state.KeyLegacyUserName, "Old User"))

	svc := newIdentityService(t, roster, appState, &fakeHistory{})
	require.NoError(t, svc.ResetAll())

	listed, activeID, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, listed)
	assert.Empty(t, activeID)

	for _, key := range []string{state.KeyGroupID, state.KeyLegacyUserID, state.KeyLegacyUserName} {
		_, ok, err := appState.Get(key)
		require.NoError(t, err)
		assert.False(t, ok, "key %s survives reset", key)
	}

	require.NoError(t, svc.MigrateLegacyIfPresent())
	listed, _, _ = svc.List()
	assert.Empty(t, listed, "reset leaves nothing for migration to revive")
}
