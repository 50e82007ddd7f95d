// Package interfaces defines the cache operation contracts for the chapter
// state model.
package interfaces

import (
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/ballot"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/voting"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/staleness"
)

// DirectoryCache defines operations for member directory state
type DirectoryCache interface {
	MergeUsers(users []chapter.User)
	GetUser(email string) (chapter.User, bool)
	AllUsers() map[string]chapter.User
	RemoveUser(email string)
}

// EventCache defines operations for event state
type EventCache interface {
	MergeEvents(events []chapter.Event)
	GetEvent(id string) (chapter.Event, bool)
	AllEvents() map[string]chapter.Event
	RemoveEvent(id string)
}

// RecordsCache defines operations for the attendance/excuse aggregate
type RecordsCache interface {
	MergeAttendance(records []chapter.AttendanceRecord)
	MergeExcuses(records []chapter.ExcuseRecord)
	RemoveAttendance(email, eventID string)
	RemoveExcuse(email, eventID string)
	Records() chapter.Records
	UserRecords(email string) (map[string]chapter.AttendanceRecord, map[string]chapter.ExcuseRecord)
}

// PointsCache defines operations for point ledgers
type PointsCache interface {
	SetLedger(email string, ledger chapter.PointLedger)
	GetLedger(email string) (chapter.PointLedger, bool)
	AllLedgers() map[string]chapter.PointLedger
}

// VotingCache defines operations for candidate voting state
type VotingCache interface {
	MergeCandidates(candidates []voting.Candidate)
	MergeSessions(sessions []voting.Session)
	MergeVotes(votes []voting.Vote)
	GetCandidate(id string) (voting.Candidate, bool)
	AllCandidates() map[string]voting.Candidate
	GetSession(id string) (voting.Session, bool)
	AllSessions() map[string]voting.Session
	Votes() ballot.VoteSet
	RemoveCandidate(id string)
	RemoveSession(id string)
}

// HistoryCache defines operations for the load-history staleness gate
type HistoryCache interface {
	ShouldLoad(key string) bool
	RecordSuccess(key string)
	LoadHistory() staleness.History
}

// Cache is the main interface that combines all state operations
type Cache interface {
	DirectoryCache
	EventCache
	RecordsCache
	PointsCache
	VotingCache
	HistoryCache
	Stats() CacheStats
}

// CacheStats summarizes store sizes for health reporting.
type CacheStats struct {
	Users      int `json:"users"`
	Events     int `json:"events"`
	Candidates int `json:"candidates"`
	Sessions   int `json:"sessions"`
	Ledgers    int `json:"ledgers"`
	LoadKeys   int `json:"loadKeys"`
}
