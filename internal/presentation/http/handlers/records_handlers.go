package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChapterDesk/chapterdesk-go/internal/application/services"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/performance"
)

// RecordsHandlers contains the attendance and excuse action handlers.
type RecordsHandlers struct {
	recordsService *services.RecordsService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewRecordsHandlers creates records handlers with injected dependencies.
func NewRecordsHandlers(recordsService *services.RecordsService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *RecordsHandlers {
	return &RecordsHandlers{
		recordsService: recordsService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

type checkInRequest struct {
	EventID string `json:"eventId" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Code    string `json:"code" binding:"required"`
}

// CheckIn handles POST /api/v1/attendance/check-in
func (h *RecordsHandlers) CheckIn(c *gin.Context) {
	marker := h.perfTracker.StartOperation("check_in")
	defer marker.Complete()

	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.recordsService.CheckIn(c.Request.Context(), req.EventID, req.Email, req.Code)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

type excuseRequest struct {
	EventID string `json:"eventId" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
}

// RequestExcuse handles POST /api/v1/excuses
func (h *RecordsHandlers) RequestExcuse(c *gin.Context) {
	marker := h.perfTracker.StartOperation("request_excuse")
	defer marker.Complete()

	var req excuseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	excuse, err := h.recordsService.RequestExcuse(c.Request.Context(), req.EventID, req.Email, req.Reason)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, excuse)
}

type reviewRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// ReviewExcuse handles POST /api/v1/excuses/:id/review
func (h *RecordsHandlers) ReviewExcuse(c *gin.Context) {
	marker := h.perfTracker.StartOperation("review_excuse")
	defer marker.Complete()

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	excuse, err := h.recordsService.ReviewExcuse(c.Request.Context(), c.Param("id"), *req.Approved)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, excuse)
}
