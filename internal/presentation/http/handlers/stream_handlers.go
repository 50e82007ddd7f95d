package handlers

import (
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/messaging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
)

// StreamHandlers serves the live event stream.
type StreamHandlers struct {
	broadcaster       *messaging.Broadcaster
	heartbeatInterval time.Duration
	logger            *logging.ChanneledLogger
}

// NewStreamHandlers creates stream handlers with injected dependencies.
func NewStreamHandlers(broadcaster *messaging.Broadcaster, heartbeatInterval time.Duration, logger *logging.ChanneledLogger) *StreamHandlers {
	return &StreamHandlers{
		broadcaster:       broadcaster,
		heartbeatInterval: heartbeatInterval,
		logger:            logger,
	}
}

// Stream handles GET /api/v1/stream, the SSE connection carrying state-change
// notifications. Heartbeat comments keep idle proxies from dropping it.
func (h *StreamHandlers) Stream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	client := h.broadcaster.AddClient()
	defer h.broadcaster.RemoveClient(client)

	heartbeat := time.NewTicker(h.heartbeatInterval)
	defer heartbeat.Stop()

	fmt.Fprintf(c.Writer, ": connection established\n\n")
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case message, ok := <-client:
			if !ok {
				return false
			}
			fmt.Fprint(w, message)
			return true
		case <-heartbeat.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
