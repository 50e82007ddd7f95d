package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/caching/interfaces"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/messaging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/performance"
)

// HealthHandlers serves liveness and internal status endpoints.
type HealthHandlers struct {
	cache       interfaces.Cache
	broadcaster *messaging.Broadcaster
	perfTracker *performance.Tracker
	started     time.Time
}

// NewHealthHandlers creates health handlers with injected dependencies.
func NewHealthHandlers(cache interfaces.Cache, broadcaster *messaging.Broadcaster, perfTracker *performance.Tracker) *HealthHandlers {
	return &HealthHandlers{
		cache:       cache,
		broadcaster: broadcaster,
		perfTracker: perfTracker,
		started:     time.Now().UTC(),
	}
}

// Health handles GET /health
func (h *HealthHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"uptime":     time.Since(h.started).String(),
		"state":      h.cache.Stats(),
		"sseClients": h.broadcaster.ClientCount(),
	})
}

// Performance handles GET /api/v1/performance
func (h *HealthHandlers) Performance(c *gin.Context) {
	c.JSON(http.StatusOK, h.perfTracker.Aggregates())
}
