// Package messaging provides the concrete implementation of the SSE broadcaster.
package messaging

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/metrics"
)

// Topics pushed over the event stream.
const (
	TopicVotesUpdated   = "votes_updated"
	TopicSessionChanged = "session_changed"
	TopicRecordsChanged = "records_changed"
	TopicEventsChanged  = "events_changed"
)

// Broadcaster fans chapter state changes out to connected SSE clients.
// Clients that cannot keep up have messages dropped rather than blocking
// the broadcast path.
type Broadcaster struct {
	clients map[chan string]struct{}
	buffer  int
	mu      sync.Mutex
	logger  *logging.ChanneledLogger
}

// NewBroadcaster creates a Broadcaster whose per-client channels hold up to
// buffer pending messages.
func NewBroadcaster(buffer int, logger *logging.ChanneledLogger) *Broadcaster {
	if buffer <= 0 {
		buffer = 10
	}
	return &Broadcaster{
		clients: make(map[chan string]struct{}),
		buffer:  buffer,
		logger:  logger,
	}
}

// AddClient registers a new SSE client and returns its message channel.
func (b *Broadcaster) AddClient() chan string {
	ch := make(chan string, b.buffer)

	b.mu.Lock()
	b.clients[ch] = struct{}{}
	total := len(b.clients)
	b.mu.Unlock()

	metrics.SSEClients.Set(float64(total))
	if b.logger != nil {
		b.logger.SSE().Debug("SSE client registered", "clients", total)
	}
	return ch
}

// RemoveClient unregisters an SSE client and closes its channel.
func (b *Broadcaster) RemoveClient(ch chan string) {
	b.mu.Lock()
	if _, ok := b.clients[ch]; ok {
		delete(b.clients, ch)
		close(ch)
	}
	total := len(b.clients)
	b.mu.Unlock()

	metrics.SSEClients.Set(float64(total))
	if b.logger != nil {
		b.logger.SSE().Debug("SSE client unregistered", "clients", total)
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Broadcast sends one topic event with a JSON payload to every client.
func (b *Broadcaster) Broadcast(topic string, payload any) {
	defer func() {
		if r := recover(); r != nil && b.logger != nil {
			b.logger.SSE().Error("Panic recovered in Broadcast", "error", r, "topic", topic)
		}
	}()

	data, err := json.Marshal(payload)
	if err != nil {
		if b.logger != nil {
			b.logger.SSE().Error("Failed to encode broadcast payload", "topic", topic, "error", err.Error())
		}
		return
	}
	message := fmt.Sprintf("event: %s\ndata: %s\n\n", topic, data)

	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.clients {
		select {
		case ch <- message:
		default:
			if b.logger != nil {
				b.logger.SSE().Warn("SSE channel full, message dropped", "topic", topic)
			}
		}
	}
	metrics.SSEEventsSent.WithLabelValues(topic).Inc()
}
