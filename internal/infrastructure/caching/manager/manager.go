// Package manager provides the centralized state facade by delegating to the
// specialized stores.
package manager

import (
	"time"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/ballot"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/voting"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/staleness"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/caching/interfaces"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/caching/stores"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
)

// Interface assertion to ensure Manager implements the combined contract.
var _ interfaces.Cache = (*Manager)(nil)

// Manager provides centralized state operations by delegating to the
// specialized stores.
type Manager struct {
	directoryStore *stores.DirectoryStore
	eventStore     *stores.EventStore
	recordsStore   *stores.RecordsStore
	pointsStore    *stores.PointsStore
	votingStore    *stores.VotingStore
	historyStore   *stores.HistoryStore
	logger         *logging.ChanneledLogger
}

// NewManager wires all stores with a shared staleness threshold.
func NewManager(staleThreshold time.Duration, logger *logging.ChanneledLogger) *Manager {
	if logger != nil {
		logger.Cache().Info("Initializing state manager",
			"stores", []string{"directory", "events", "records", "points", "voting", "history"},
			"staleThreshold", staleThreshold)
	}

	return &Manager{
		directoryStore: stores.NewDirectoryStore(logger),
		eventStore:     stores.NewEventStore(logger),
		recordsStore:   stores.NewRecordsStore(logger),
		pointsStore:    stores.NewPointsStore(logger),
		votingStore:    stores.NewVotingStore(logger),
		historyStore:   stores.NewHistoryStore(staleThreshold, logger),
		logger:         logger,
	}
}

// Directory operations

func (m *Manager) MergeUsers(users []chapter.User)      { m.directoryStore.MergeUsers(users) }
func (m *Manager) GetUser(email string) (chapter.User, bool) { return m.directoryStore.GetUser(email) }
func (m *Manager) AllUsers() map[string]chapter.User    { return m.directoryStore.AllUsers() }
func (m *Manager) RemoveUser(email string)              { m.directoryStore.RemoveUser(email) }

// Event operations

func (m *Manager) MergeEvents(events []chapter.Event)      { m.eventStore.MergeEvents(events) }
func (m *Manager) GetEvent(id string) (chapter.Event, bool) { return m.eventStore.GetEvent(id) }
func (m *Manager) AllEvents() map[string]chapter.Event     { return m.eventStore.AllEvents() }
func (m *Manager) RemoveEvent(id string)                   { m.eventStore.RemoveEvent(id) }

// Records operations

func (m *Manager) MergeAttendance(records []chapter.AttendanceRecord) {
	m.recordsStore.MergeAttendance(records)
}

func (m *Manager) MergeExcuses(records []chapter.ExcuseRecord) {
	m.recordsStore.MergeExcuses(records)
}

func (m *Manager) RemoveAttendance(email, eventID string) {
	m.recordsStore.RemoveAttendance(email, eventID)
}

func (m *Manager) RemoveExcuse(email, eventID string) {
	m.recordsStore.RemoveExcuse(email, eventID)
}

func (m *Manager) Records() chapter.Records { return m.recordsStore.Snapshot() }

func (m *Manager) UserRecords(email string) (map[string]chapter.AttendanceRecord, map[string]chapter.ExcuseRecord) {
	return m.recordsStore.UserRecords(email)
}

// Points operations

func (m *Manager) SetLedger(email string, ledger chapter.PointLedger) {
	m.pointsStore.SetLedger(email, ledger)
}

func (m *Manager) GetLedger(email string) (chapter.PointLedger, bool) {
	return m.pointsStore.GetLedger(email)
}

func (m *Manager) AllLedgers() map[string]chapter.PointLedger { return m.pointsStore.AllLedgers() }

// Voting operations

func (m *Manager) MergeCandidates(candidates []voting.Candidate) {
	m.votingStore.MergeCandidates(candidates)
}

func (m *Manager) MergeSessions(sessions []voting.Session) { m.votingStore.MergeSessions(sessions) }
func (m *Manager) MergeVotes(votes []voting.Vote)          { m.votingStore.MergeVotes(votes) }

func (m *Manager) GetCandidate(id string) (voting.Candidate, bool) {
	return m.votingStore.GetCandidate(id)
}

func (m *Manager) AllCandidates() map[string]voting.Candidate { return m.votingStore.AllCandidates() }
func (m *Manager) GetSession(id string) (voting.Session, bool) { return m.votingStore.GetSession(id) }
func (m *Manager) AllSessions() map[string]voting.Session      { return m.votingStore.AllSessions() }
func (m *Manager) Votes() ballot.VoteSet                       { return m.votingStore.Votes() }
func (m *Manager) RemoveCandidate(id string)                   { m.votingStore.RemoveCandidate(id) }
func (m *Manager) RemoveSession(id string)                     { m.votingStore.RemoveSession(id) }

// History operations

func (m *Manager) ShouldLoad(key string) bool        { return m.historyStore.ShouldLoad(key) }
func (m *Manager) RecordSuccess(key string)          { m.historyStore.RecordSuccess(key) }
func (m *Manager) LoadHistory() staleness.History    { return m.historyStore.Snapshot() }
func (m *Manager) StaleThreshold() time.Duration     { return m.historyStore.Threshold() }

// Stats summarizes store sizes for the health endpoint.
func (m *Manager) Stats() interfaces.CacheStats {
	return interfaces.CacheStats{
		Users:      len(m.directoryStore.AllUsers()),
		Events:     len(m.eventStore.AllEvents()),
		Candidates: len(m.votingStore.AllCandidates()),
		Sessions:   len(m.votingStore.AllSessions()),
		Ledgers:    len(m.pointsStore.AllLedgers()),
		LoadKeys:   len(m.historyStore.Snapshot()),
	}
}
