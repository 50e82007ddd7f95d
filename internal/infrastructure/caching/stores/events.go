package stores

import (
	"sync"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/merge"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
)

// EventStore holds chapter events keyed by ID.
type EventStore struct {
	mu     sync.RWMutex
	events map[string]chapter.Event
	logger *logging.ChanneledLogger
}

// NewEventStore creates an empty event store.
func NewEventStore(logger *logging.ChanneledLogger) *EventStore {
	return &EventStore{
		events: make(map[string]chapter.Event),
		logger: logger,
	}
}

// MergeEvents merges fetched events into the store. A fetch returning fewer
// events than before never drops state; RemoveEvent is the only way out.
func (es *EventStore) MergeEvents(events []chapter.Event) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.events = merge.ByKey(es.events, events, func(e chapter.Event) string { return e.ID })
	if es.logger != nil {
		es.logger.Cache().Debug("Events merged", "incoming", len(events), "total", len(es.events))
	}
}

// GetEvent retrieves one event by ID.
func (es *EventStore) GetEvent(id string) (chapter.Event, bool) {
	es.mu.RLock()
	defer es.mu.RUnlock()
	e, ok := es.events[id]
	return e, ok
}

// AllEvents returns the current event mapping as a stable snapshot.
func (es *EventStore) AllEvents() map[string]chapter.Event {
	es.mu.RLock()
	defer es.mu.RUnlock()
	return es.events
}

// RemoveEvent drops one event after a confirmed server-side delete.
func (es *EventStore) RemoveEvent(id string) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.events = merge.Remove(es.events, id)
	if es.logger != nil {
		es.logger.Cache().Debug("Event removed", "eventId", id)
	}
}
