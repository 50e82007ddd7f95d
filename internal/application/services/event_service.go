package services

import (
	"context"
	"fmt"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/caching/interfaces"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/messaging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
)

// EventWriter is the write slice of the chapter API for event management.
type EventWriter interface {
	CreateEvent(ctx context.Context, event chapter.Event) (chapter.Event, error)
	UpdateEvent(ctx context.Context, event chapter.Event) (chapter.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// EventService handles event management actions. Deletion is the one place
// state leaves the cache outside a removal broadcast: a delete acknowledged
// by the server removes the event locally too.
type EventService struct {
	cache       interfaces.Cache
	api         EventWriter
	broadcaster *messaging.Broadcaster
	logger      *logging.ChanneledLogger
}

// NewEventService creates a new event application service.
func NewEventService(cache interfaces.Cache, api EventWriter, broadcaster *messaging.Broadcaster, logger *logging.ChanneledLogger) *EventService {
	return &EventService{
		cache:       cache,
		api:         api,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Create creates a new event.
func (s *EventService) Create(ctx context.Context, event chapter.Event) (chapter.Event, error) {
	if event.Title == "" {
		return chapter.Event{}, fmt.Errorf("event title cannot be empty")
	}
	created, err := s.api.CreateEvent(ctx, event)
	if err != nil {
		return chapter.Event{}, err
	}
	s.cache.MergeEvents([]chapter.Event{created})
	s.notify(created.ID)
	return created, nil
}

// Update replaces an existing event.
func (s *EventService) Update(ctx context.Context, event chapter.Event) (chapter.Event, error) {
	if event.ID == "" {
		return chapter.Event{}, fmt.Errorf("event ID cannot be empty")
	}
	updated, err := s.api.UpdateEvent(ctx, event)
	if err != nil {
		return chapter.Event{}, err
	}
	s.cache.MergeEvents([]chapter.Event{updated})
	s.notify(updated.ID)
	return updated, nil
}

// Delete removes an event server-side, then locally.
func (s *EventService) Delete(ctx context.Context, eventID string) error {
	if eventID == "" {
		return fmt.Errorf("event ID cannot be empty")
	}
	if err := s.api.DeleteEvent(ctx, eventID); err != nil {
		return err
	}
	s.cache.RemoveEvent(eventID)
	s.notify(eventID)
	return nil
}

func (s *EventService) notify(eventID string) {
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(messaging.TopicEventsChanged, map[string]string{"eventId": eventID})
	}
}
