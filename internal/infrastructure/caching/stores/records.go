package stores

import (
	"sync"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/merge"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
)

// RecordsStore holds the attendance/excuse aggregate. Fetches arrive either
// by user or by event, so one incoming list may span several members; merges
// are grouped per email before the nested merge lands.
type RecordsStore struct {
	mu       sync.RWMutex
	attended map[string]map[string]chapter.AttendanceRecord
	excused  map[string]map[string]chapter.ExcuseRecord
	logger   *logging.ChanneledLogger
}

// NewRecordsStore creates an empty records store.
func NewRecordsStore(logger *logging.ChanneledLogger) *RecordsStore {
	return &RecordsStore{
		attended: make(map[string]map[string]chapter.AttendanceRecord),
		excused:  make(map[string]map[string]chapter.ExcuseRecord),
		logger:   logger,
	}
}

// MergeAttendance merges fetched attendance records.
func (rs *RecordsStore) MergeAttendance(records []chapter.AttendanceRecord) {
	byEmail := make(map[string][]chapter.AttendanceRecord)
	for _, rec := range records {
		byEmail[rec.Email] = append(byEmail[rec.Email], rec)
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	for email, group := range byEmail {
		rs.attended = merge.Nested(rs.attended, email, group,
			func(r chapter.AttendanceRecord) string { return r.EventID })
	}
	if rs.logger != nil {
		rs.logger.Cache().Debug("Attendance merged", "incoming", len(records))
	}
}

// MergeExcuses merges fetched excuse records.
func (rs *RecordsStore) MergeExcuses(records []chapter.ExcuseRecord) {
	byEmail := make(map[string][]chapter.ExcuseRecord)
	for _, rec := range records {
		byEmail[rec.Email] = append(byEmail[rec.Email], rec)
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	for email, group := range byEmail {
		rs.excused = merge.Nested(rs.excused, email, group,
			func(r chapter.ExcuseRecord) string { return r.EventID })
	}
	if rs.logger != nil {
		rs.logger.Cache().Debug("Excuses merged", "incoming", len(records))
	}
}

// RemoveAttendance drops one attendance record after a confirmed delete.
func (rs *RecordsStore) RemoveAttendance(email, eventID string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.attended = merge.RemoveNested(rs.attended, email, eventID)
}

// RemoveExcuse drops one excuse record after a confirmed delete.
func (rs *RecordsStore) RemoveExcuse(email, eventID string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.excused = merge.RemoveNested(rs.excused, email, eventID)
}

// Snapshot returns the current aggregate. Both levels are copy-on-write, so
// the snapshot stays consistent while later merges land.
func (rs *RecordsStore) Snapshot() chapter.Records {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return chapter.Records{Attended: rs.attended, Excused: rs.excused}
}

// UserRecords returns one member's inner record maps; either may be nil.
func (rs *RecordsStore) UserRecords(email string) (map[string]chapter.AttendanceRecord, map[string]chapter.ExcuseRecord) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.attended[email], rs.excused[email]
}
