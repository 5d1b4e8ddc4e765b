// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/gensai-lab/sonae-go/internal/application/services"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/backend"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/caching/stores"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/media"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/messaging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/performance"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/persistence/database"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/persistence/state"
	"github.com/gensai-lab/sonae-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services
	SessionService    *services.SessionService
	IdentityService   *services.IdentityService
	ScenarioService   *services.ScenarioService
	DiagnosticService *services.DiagnosticService
	AssessmentService *services.AssessmentService
	ProgressService   *services.ProgressService
	AuthService       *services.AuthService

	// Infrastructure
	DB            *database.DB
	Backend       *backend.Client
	SessionsStore *stores.SessionsStore
	Broadcaster   *messaging.GroupWatchBroadcaster
	Logger        *logging.ChanneledLogger
	PerfTracker   *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *Container {
	backendClient := backend.NewClient(config.BackendBaseURL, config.BackendTimeout, config.BackendAdminToken, logger)

	identityRepo := state.NewSQLIdentityRepository(db, logger)
	appStateRepo := state.NewSQLAppStateRepository(db, logger)

	photoProcessor := media.NewPhotoProcessor(config.PhotoMaxDimension, logger)
	sessionsStore := stores.NewSessionsStore(config.SessionTTL, config.MaxSessions, logger)
	broadcaster := messaging.NewGroupWatchBroadcaster(backendClient.GroupProgress, logger)

	return &Container{
		SessionService:    services.NewSessionService(sessionsStore, logger),
		IdentityService:   services.NewIdentityService(identityRepo, appStateRepo, backendClient, logger, perfTracker),
		ScenarioService:   services.NewScenarioService(backendClient, config.DefaultPlace, logger, perfTracker),
		DiagnosticService: services.NewDiagnosticService(backendClient, photoProcessor, config.PhotoConfThreshold, logger, perfTracker),
		AssessmentService: services.NewAssessmentService(backendClient, backendClient, logger, perfTracker),
		ProgressService:   services.NewProgressService(backendClient, appStateRepo, broadcaster, logger, perfTracker),
		AuthService:       services.NewAuthService(logger),

		DB:            db,
		Backend:       backendClient,
		SessionsStore: sessionsStore,
		Broadcaster:   broadcaster,
		Logger:        logger,
		PerfTracker:   perfTracker,
	}
}
