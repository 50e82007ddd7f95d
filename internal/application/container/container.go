// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/ChapterDesk/chapterdesk-go/internal/application/services"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/caching/manager"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/messaging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/performance"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/remote"
	"github.com/ChapterDesk/chapterdesk-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services (stateless singletons over shared state)
	SyncService     *services.SyncService
	StateService    *services.StateService
	RecordsService  *services.RecordsService
	EventService    *services.EventService
	VotingService   *services.VotingService
	SnapshotService *services.SnapshotService

	// Infrastructure dependencies
	CacheManager *manager.Manager
	RemoteClient *remote.Client
	Broadcaster  *messaging.Broadcaster
	Logger       *logging.ChanneledLogger
	PerfTracker  *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(logger *logging.ChanneledLogger) *Container {
	cacheManager := manager.NewManager(config.StaleThreshold, logger)
	broadcaster := messaging.NewBroadcaster(config.SSEClientBuffer, logger)

	remoteClient := remote.NewClient(
		config.RemoteBaseURL,
		config.RemoteToken,
		config.RequestTimeout,
		logger,
		remote.WithUnauthorizedHook(func() {
			logger.Remote().Error("Chapter API rejected credentials; a new token is required")
		}),
	)

	return &Container{
		SyncService:     services.NewSyncService(cacheManager, remoteClient, logger),
		StateService:    services.NewStateService(cacheManager),
		RecordsService:  services.NewRecordsService(cacheManager, remoteClient, broadcaster, logger),
		EventService:    services.NewEventService(cacheManager, remoteClient, broadcaster, logger),
		VotingService:   services.NewVotingService(cacheManager, remoteClient, broadcaster, logger),
		SnapshotService: nil, // wired at startup if snapshots are enabled

		CacheManager: cacheManager,
		RemoteClient: remoteClient,
		Broadcaster:  broadcaster,
		Logger:       logger,
		PerfTracker:  performance.NewTracker(0),
	}
}
