// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/ballot"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/remote"
)

// respondError maps service errors onto HTTP responses. Upstream API errors
// keep their code and message; ballot validation failures are client errors;
// anything else is a 500.
func respondError(c *gin.Context, err error) {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}

	switch {
	case errors.Is(err, ballot.ErrSessionNotActive),
		errors.Is(err, ballot.ErrWrongSessionType),
		errors.Is(err, ballot.ErrNotCurrentCandidate),
		errors.Is(err, ballot.ErrReasonRequired),
		errors.Is(err, ballot.ErrTooManySelections),
		errors.Is(err, ballot.ErrEmptySelection),
		errors.Is(err, ballot.ErrUnknownCandidate),
		errors.Is(err, ballot.ErrDuplicateSelection):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
