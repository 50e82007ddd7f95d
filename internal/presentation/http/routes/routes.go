// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ChapterDesk/chapterdesk-go/internal/application/container"
	"github.com/ChapterDesk/chapterdesk-go/internal/presentation/http/handlers"
	"github.com/ChapterDesk/chapterdesk-go/internal/presentation/http/middleware"
	"github.com/ChapterDesk/chapterdesk-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	stateHandlers := handlers.NewStateHandlers(container.StateService, container.SyncService, container.Logger, container.PerfTracker)
	recordsHandlers := handlers.NewRecordsHandlers(container.RecordsService, container.Logger, container.PerfTracker)
	eventHandlers := handlers.NewEventHandlers(container.EventService, container.Logger, container.PerfTracker)
	votingHandlers := handlers.NewVotingHandlers(container.VotingService, container.Logger, container.PerfTracker)
	streamHandlers := handlers.NewStreamHandlers(container.Broadcaster,
		time.Duration(config.SSEHeartbeatIntervalSeconds)*time.Second, container.Logger)
	healthHandlers := handlers.NewHealthHandlers(container.CacheManager, container.Broadcaster, container.PerfTracker)

	r.GET("/health", healthHandlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		state := api.Group("/state")
		{
			state.GET("/directory", stateHandlers.GetDirectory)
			state.GET("/members/:email", stateHandlers.GetMemberView)
			state.GET("/events", stateHandlers.GetEventSections)
			state.GET("/events/:id", stateHandlers.GetEventDetail)
			state.GET("/voting", stateHandlers.GetVotingView)
			state.GET("/tally/:sessionId/:candidateId", stateHandlers.GetTally)
		}

		api.POST("/attendance/check-in", recordsHandlers.CheckIn)
		api.POST("/excuses", recordsHandlers.RequestExcuse)
		api.POST("/excuses/:id/review", recordsHandlers.ReviewExcuse)

		api.POST("/events", eventHandlers.Create)
		api.PUT("/events/:id", eventHandlers.Update)
		api.DELETE("/events/:id", eventHandlers.Delete)

		voting := api.Group("/voting")
		{
			voting.POST("/votes", votingHandlers.CastVote)
			voting.POST("/ballots", votingHandlers.CastMultiBallot)
			voting.POST("/sessions/:id/start", votingHandlers.StartSession)
			voting.POST("/sessions/:id/stop", votingHandlers.StopSession)
			voting.POST("/sessions/:id/advance", votingHandlers.AdvanceSession)
		}

		api.GET("/stream", streamHandlers.Stream)
		api.GET("/performance", healthHandlers.Performance)
	}

	return r
}
