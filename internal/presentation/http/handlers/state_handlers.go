package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ChapterDesk/chapterdesk-go/internal/application/services"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/performance"
)

// StateHandlers serves read views over cached chapter state. Reads go through
// the sync service first so stale state refreshes transparently; a failed
// refresh still serves whatever is cached.
type StateHandlers struct {
	stateService *services.StateService
	syncService  *services.SyncService
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewStateHandlers creates state handlers with injected dependencies.
func NewStateHandlers(stateService *services.StateService, syncService *services.SyncService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *StateHandlers {
	return &StateHandlers{
		stateService: stateService,
		syncService:  syncService,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// refresh logs a failed background refresh; cached state still serves.
func (h *StateHandlers) refresh(resource string, err error) {
	if err != nil {
		h.logger.Sync().Warn("Refresh failed, serving cached state", "resource", resource, "error", err.Error())
	}
}

// GetMemberView handles GET /api/v1/state/members/:email
func (h *StateHandlers) GetMemberView(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_member_view")
	defer marker.Complete()

	email := c.Param("email")
	force := c.Query("refresh") == "true"
	ctx := c.Request.Context()

	h.refresh("user", h.syncService.SyncUser(ctx, email, force))
	h.refresh("events", h.syncService.SyncEvents(ctx, force))
	h.refresh("userRecords", h.syncService.SyncUserRecords(ctx, email, force))
	h.refresh("points", h.syncService.SyncPoints(ctx, email, force))

	view, ok := h.stateService.MemberView(email, time.Now().UTC())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetDirectory handles GET /api/v1/state/directory
func (h *StateHandlers) GetDirectory(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_directory")
	defer marker.Complete()

	h.refresh("directory", h.syncService.SyncDirectory(c.Request.Context(), c.Query("refresh") == "true"))
	c.JSON(http.StatusOK, h.stateService.Directory())
}

// GetEventSections handles GET /api/v1/state/events
func (h *StateHandlers) GetEventSections(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_event_sections")
	defer marker.Complete()

	h.refresh("events", h.syncService.SyncEvents(c.Request.Context(), c.Query("refresh") == "true"))
	upcomingOnly := c.DefaultQuery("upcoming", "false") == "true"
	c.JSON(http.StatusOK, h.stateService.EventSections(upcomingOnly, time.Now().UTC()))
}

// GetEventDetail handles GET /api/v1/state/events/:id
func (h *StateHandlers) GetEventDetail(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_event_detail")
	defer marker.Complete()

	eventID := c.Param("id")
	force := c.Query("refresh") == "true"
	ctx := c.Request.Context()

	h.refresh("events", h.syncService.SyncEvents(ctx, force))
	h.refresh("directory", h.syncService.SyncDirectory(ctx, force))
	h.refresh("eventRecords", h.syncService.SyncEventRecords(ctx, eventID, force))

	detail, ok := h.stateService.EventDetail(eventID, time.Now().UTC())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetVotingView handles GET /api/v1/state/voting
func (h *StateHandlers) GetVotingView(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_voting_view")
	defer marker.Complete()

	force := c.Query("refresh") == "true"
	ctx := c.Request.Context()

	h.refresh("sessions", h.syncService.SyncSessions(ctx, force))
	h.refresh("candidates", h.syncService.SyncCandidates(ctx, force))

	view, ok := h.stateService.VotingView(c.Query("viewer"))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": true, "view": view})
}

// GetTally handles GET /api/v1/state/tally/:sessionId/:candidateId
func (h *StateHandlers) GetTally(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_tally")
	defer marker.Complete()

	sessionID := c.Param("sessionId")
	candidateID := c.Param("candidateId")
	h.refresh("votes", h.syncService.SyncVotes(c.Request.Context(), sessionID, candidateID, c.Query("refresh") == "true"))

	c.JSON(http.StatusOK, h.stateService.CandidateTally(sessionID, candidateID))
}
