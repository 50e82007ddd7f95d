package services

import (
	"context"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/caching/interfaces"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/messaging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
)

// RecordsWriter is the write slice of the chapter API for attendance and
// excuse actions.
type RecordsWriter interface {
	CheckIn(ctx context.Context, eventID, email, code string) (chapter.AttendanceRecord, error)
	SubmitExcuse(ctx context.Context, eventID, email, reason string) (chapter.ExcuseRecord, error)
	ReviewExcuse(ctx context.Context, excuseID string, approved bool) (chapter.ExcuseRecord, error)
}

// RecordsService dispatches attendance and excuse actions to the server and
// folds the authoritative result back into local state.
type RecordsService struct {
	cache       interfaces.Cache
	api         RecordsWriter
	broadcaster *messaging.Broadcaster
	logger      *logging.ChanneledLogger
}

// NewRecordsService creates a new records application service.
func NewRecordsService(cache interfaces.Cache, api RecordsWriter, broadcaster *messaging.Broadcaster, logger *logging.ChanneledLogger) *RecordsService {
	return &RecordsService{
		cache:       cache,
		api:         api,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// CheckIn records attendance for an event via its check-in code. The server
// validates the code; its record is what lands in the cache.
func (s *RecordsService) CheckIn(ctx context.Context, eventID, email, code string) (chapter.AttendanceRecord, error) {
	record, err := s.api.CheckIn(ctx, eventID, email, code)
	if err != nil {
		return chapter.AttendanceRecord{}, err
	}
	s.cache.MergeAttendance([]chapter.AttendanceRecord{record})
	s.notify(email, eventID)
	return record, nil
}

// RequestExcuse files an excuse for an event. The record comes back pending.
func (s *RecordsService) RequestExcuse(ctx context.Context, eventID, email, reason string) (chapter.ExcuseRecord, error) {
	excuse, err := s.api.SubmitExcuse(ctx, eventID, email, reason)
	if err != nil {
		return chapter.ExcuseRecord{}, err
	}
	s.cache.MergeExcuses([]chapter.ExcuseRecord{excuse})
	s.notify(email, eventID)
	return excuse, nil
}

// ReviewExcuse approves or denies a pending excuse.
func (s *RecordsService) ReviewExcuse(ctx context.Context, excuseID string, approved bool) (chapter.ExcuseRecord, error) {
	excuse, err := s.api.ReviewExcuse(ctx, excuseID, approved)
	if err != nil {
		return chapter.ExcuseRecord{}, err
	}
	s.cache.MergeExcuses([]chapter.ExcuseRecord{excuse})
	s.notify(excuse.Email, excuse.EventID)
	return excuse, nil
}

func (s *RecordsService) notify(email, eventID string) {
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(messaging.TopicRecordsChanged, map[string]string{
			"email":   email,
			"eventId": eventID,
		})
	}
}
