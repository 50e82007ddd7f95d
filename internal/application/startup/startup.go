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

	"github.com/ChapterDesk/chapterdesk-go/internal/application/container"
	"github.com/ChapterDesk/chapterdesk-go/internal/application/services"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/persistence/snapshot"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/polling"
	"github.com/ChapterDesk/chapterdesk-go/internal/presentation/http/server"
	"github.com/ChapterDesk/chapterdesk-go/pkg/config"
)

// Initialize performs the complete startup sequence and blocks until shutdown.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	// Step 1: Structured logging
	logger, err := logging.NewChanneledLogger(nil)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()

	logger.Startup().Info("Starting ChapterDesk state daemon")

	if config.RemoteToken == "" {
		logger.Startup().Warn("CHAPTER_API_TOKEN is not set; authorized API calls will fail")
	}

	// Step 2: Dependency injection container
	appContainer := container.NewContainer(logger)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 3: Snapshot restore, when enabled
	var snapshotStore *snapshot.Store
	if config.SnapshotEnabled {
		snapshotStore, err = snapshot.Open(config.SnapshotPath, logger)
		if err != nil {
			return fmt.Errorf("failed to open snapshot store: %w", err)
		}
		defer snapshotStore.Close()

		appContainer.SnapshotService = services.NewSnapshotService(appContainer.CacheManager, snapshotStore, logger)
		if err := appContainer.SnapshotService.Restore(); err != nil {
			logger.Startup().Warn("Snapshot restore failed, starting cold", "error", err.Error())
		}
		go appContainer.SnapshotService.Run(ctx, config.SnapshotInterval)
	} else {
		logger.Startup().Info("Snapshots disabled, starting from empty state")
	}

	// Step 4: Initial sync pass, best effort; read handlers refresh lazily
	// so a failure here only delays first data
	warmCaches(ctx, appContainer.SyncService, logger)

	// Step 5: Background vote poller
	pollWorker := polling.NewWorker(
		appContainer.CacheManager,
		appContainer.RemoteClient,
		appContainer.Broadcaster,
		polling.NewConfig(),
		logger,
	)
	go pollWorker.Start(ctx)

	// Step 6: HTTP server
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
		"port", config.Port,
		"staleThreshold", config.StaleThreshold,
		"votePollInterval", config.VotePollInterval)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	// Cancel background tasks; the snapshot worker writes its final snapshot
	// on the way out
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	if appContainer.SnapshotService != nil {
		if err := appContainer.SnapshotService.Save(); err != nil {
			logger.Shutdown().Error("Final snapshot failed", "error", err.Error())
		}
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// warmCaches primes the shared caches before the server accepts traffic.
// Per-user resources stay lazy; only the chapter-wide lists are fetched.
func warmCaches(ctx context.Context, sync *services.SyncService, logger *logging.ChanneledLogger) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	warmups := []struct {
		resource string
		run      func(context.Context, bool) error
	}{
		{"events", sync.SyncEvents},
		{"directory", sync.SyncDirectory},
		{"candidates", sync.SyncCandidates},
		{"sessions", sync.SyncSessions},
	}
	for _, w := range warmups {
		if err := w.run(ctx, false); err != nil && logger != nil {
			logger.Startup().Warn("Initial sync failed, deferring to lazy refresh",
				"resource", w.resource, "error", err.Error())
		}
	}
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}
