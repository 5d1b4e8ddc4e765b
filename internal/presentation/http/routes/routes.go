// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gensai-lab/sonae-go/internal/application/container"
	"github.com/gensai-lab/sonae-go/internal/presentation/http/handlers"
	"github.com/gensai-lab/sonae-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	healthHandlers := handlers.NewHealthHandlers(container.Backend)
	sessionHandlers := handlers.NewSessionHandlers(container.SessionService, container.Logger)
	identityHandlers := handlers.NewIdentityHandlers(container.IdentityService, container.Logger, container.PerfTracker)
	scenarioHandlers := handlers.NewScenarioHandlers(container.ScenarioService, container.Logger, container.PerfTracker)
	checklistHandlers := handlers.NewChecklistHandlers(container.Backend, container.Logger)
	diagnosticHandlers := handlers.NewDiagnosticHandlers(container.DiagnosticService, container.Logger, container.PerfTracker)
	assessmentHandlers := handlers.NewAssessmentHandlers(container.AssessmentService, container.Logger, container.PerfTracker)
	progressHandlers := handlers.NewProgressHandlers(container.ProgressService, container.Logger, container.PerfTracker)
	watchHandlers := handlers.NewWatchHandlers(container.Broadcaster, container.Logger)
	adminHandlers := handlers.NewAdminHandlers(container.AuthService, container.Backend, container.Logger)

	r.GET("/health", healthHandlers.Health)

	api := r.Group("/api/v1")
	api.Use(middleware.SessionMiddleware(container.SessionService))
	{
		api.GET("/health", healthHandlers.BackendHealth)
		api.POST("/session/reset", sessionHandlers.Reset)

		api.GET("/identities", identityHandlers.List)
		api.POST("/identities", identityHandlers.Register)
		api.POST("/identities/activate", identityHandlers.Activate)
		api.POST("/identities/reset", identityHandlers.Reset)

		api.GET("/scenarios", scenarioHandlers.Load)
		api.POST("/scenarios/choose", scenarioHandlers.Choose)
		api.POST("/scenarios/reset", scenarioHandlers.Reset)
		api.GET("/scenarios/state", scenarioHandlers.State)

		api.GET("/checklist", checklistHandlers.List)
		api.POST("/checklist/answer", checklistHandlers.Answer)

		api.POST("/diagnostic/manual", diagnosticHandlers.Manual)
		api.POST("/diagnostic/photo", diagnosticHandlers.Photo)

		api.POST("/assessment/score", assessmentHandlers.Score)
		api.POST("/assessment/advice", assessmentHandlers.Advice)
		api.POST("/assessment/advice/commit", assessmentHandlers.CommitAdvice)

		api.POST("/groups", progressHandlers.CreateGroup)
		api.POST("/groups/join", progressHandlers.JoinGroup)
		api.GET("/groups/:groupId/progress", progressHandlers.GroupProgress)
		api.GET("/groups/:groupId/watch", watchHandlers.Watch)
		api.POST("/progress/publish", progressHandlers.Publish)
	}

	adminAPI := r.Group("/api/v1/admin")
	{
		adminAPI.POST("/login", adminHandlers.Login)

		adminAPI.Use(middleware.AdminAuthMiddleware(container.AuthService))
		{
			adminAPI.GET("/ping", adminHandlers.Ping)
			adminAPI.GET("/users", adminHandlers.Users)
			adminAPI.GET("/responses", adminHandlers.Responses)
		}
	}

	return r
}
