package services

import (
	"github.com/gensai-lab/sonae-go/internal/domain/entities/session"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/caching/stores"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/security"
)

// SessionService manages session aggregate lifecycle.
type SessionService struct {
	store  *stores.SessionsStore
	logger *logging.ChanneledLogger
}

// NewSessionService creates a new session service.
func NewSessionService(store *stores.SessionsStore, logger *logging.ChanneledLogger) *SessionService {
	return &SessionService{
		store:  store,
		logger: logger,
	}
}

// Ensure resolves a session from a client-presented id, minting a new id
// when none was sent. The returned id is echoed back to the client.
func (s *SessionService) Ensure(id string) (*session.Session, string) {
	if id == "" {
		id = security.GenerateULID()
	}
	sess, created := s.store.GetOrCreate(id)
	if created {
		s.logger.Session().Debug("New session aggregate", "sessionId", id)
	}
	return sess, id
}

// Reset wipes a session's current assessment run, keeping its identity
// binding and draft group attachment.
func (s *SessionService) Reset(sess *session.Session) {
	sess.ResetAssessment()
	s.logger.Session().Info("Session assessment reset", "sessionId", sess.ID)
}

// Drop removes a session aggregate entirely.
func (s *SessionService) Drop(id string) {
	s.store.Delete(id)
}
