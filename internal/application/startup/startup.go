// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gensai-lab/sonae-go/internal/application/container"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/performance"
	"github.com/gensai-lab/sonae-go/internal/infrastructure/persistence/database"
	"github.com/gensai-lab/sonae-go/internal/presentation/http/server"
	"github.com/gensai-lab/sonae-go/pkg/config"
)

// groupWatchInterval is the periodic push cadence for group watchers.
const groupWatchInterval = 15 * time.Second

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	log.Println("Starting sonae-go session assessment orchestrator...")

	// Step 1: Channeled logging and performance tracking
	logger, err := logging.NewChanneledLogger(nil)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	perfTracker := performance.NewTracker(nil)
	logger.Startup().Info("Channeled logging initialized")

	// Step 2: Local state database
	logger.Startup().Info("Connecting to state database",
		"driver", config.DBDriver, "path", config.DBPath)
	db, err := database.NewConnectionWithLogger(config.DBDriver, config.DBPath, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to state database: %w", err)
	}

	tableCreator := database.NewTableCreator()
	if err := tableCreator.CreateSchema(db.DB); err != nil {
		return fmt.Errorf("failed to create database schema: %w", err)
	}
	logger.Startup().Info("State database ready")

	// Step 3: Dependency injection container
	appContainer := container.NewContainer(db, logger, perfTracker)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 4: One-time legacy identity migration
	if err := appContainer.IdentityService.MigrateLegacyIfPresent(); err != nil {
		logger.Startup().Warn("Legacy identity migration failed", "error", err.Error())
	}

	// Step 5: Background workers
	appContainer.SessionsStore.StartEvictionLoop(config.SessionCleanupInterval)
	go appContainer.Broadcaster.Run(groupWatchInterval)
	logger.Startup().Info("Background workers started",
		"sessionCleanup", config.SessionCleanupInterval.String(),
		"groupWatch", groupWatchInterval.String())

	// Step 6: Remote estimator reachability probe, informational only
	probeCtx, cancelProbe := context.WithTimeout(context.Background(), 5*time.Second)
	if err := appContainer.Backend.Health(probeCtx); err != nil {
		logger.Startup().Warn("Remote estimator unreachable at startup",
			"backend", appContainer.Backend.BaseURL(), "error", err.Error())
	} else {
		logger.Startup().Info("Remote estimator reachable", "backend", appContainer.Backend.BaseURL())
	}
	cancelProbe()

	// Step 7: HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	appContainer.Broadcaster.Stop()
	appContainer.SessionsStore.Stop()

	logger.Shutdown().Info("Closing state database...")
	if err := db.Close(); err != nil {
		logger.Shutdown().Error("Error closing state database", "error", err.Error())
	} else {
		logger.Shutdown().Info("State database closed successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
