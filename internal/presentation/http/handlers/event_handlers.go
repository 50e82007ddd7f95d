package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChapterDesk/chapterdesk-go/internal/application/services"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/performance"
)

// EventHandlers contains the event management handlers.
type EventHandlers struct {
	eventService *services.EventService
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewEventHandlers creates event handlers with injected dependencies.
func NewEventHandlers(eventService *services.EventService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *EventHandlers {
	return &EventHandlers{
		eventService: eventService,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// Create handles POST /api/v1/events
func (h *EventHandlers) Create(c *gin.Context) {
	marker := h.perfTracker.StartOperation("create_event")
	defer marker.Complete()

	var event chapter.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.eventService.Create(c.Request.Context(), event)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/v1/events/:id
func (h *EventHandlers) Update(c *gin.Context) {
	marker := h.perfTracker.StartOperation("update_event")
	defer marker.Complete()

	var event chapter.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	event.ID = c.Param("id")

	updated, err := h.eventService.Update(c.Request.Context(), event)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/events/:id
func (h *EventHandlers) Delete(c *gin.Context) {
	marker := h.perfTracker.StartOperation("delete_event")
	defer marker.Complete()

	if err := h.eventService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
