package services

import (
	"context"
	"time"

	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/caching/interfaces"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/persistence/snapshot"
)

// SnapshotService bridges the in-memory caches and the on-disk snapshot
// store. Restore runs once at startup; Save runs on a timer and at shutdown.
// Load history never round-trips: restored state is always considered stale.
type SnapshotService struct {
	cache  interfaces.Cache
	store  *snapshot.Store
	logger *logging.ChanneledLogger
}

// NewSnapshotService creates a new snapshot service.
func NewSnapshotService(cache interfaces.Cache, store *snapshot.Store, logger *logging.ChanneledLogger) *SnapshotService {
	return &SnapshotService{cache: cache, store: store, logger: logger}
}

// Restore merges the persisted snapshot into the caches.
func (s *SnapshotService) Restore() error {
	state, err := s.store.Load()
	if err != nil {
		return err
	}

	s.cache.MergeUsers(state.Users)
	s.cache.MergeEvents(state.Events)
	s.cache.MergeAttendance(state.Attendance)
	s.cache.MergeExcuses(state.Excuses)
	for email, ledger := range state.Points {
		s.cache.SetLedger(email, ledger)
	}
	s.cache.MergeCandidates(state.Candidates)
	s.cache.MergeSessions(state.Sessions)
	s.cache.MergeVotes(state.Votes)

	if s.logger != nil {
		s.logger.Cache().Info("Snapshot restored",
			"users", len(state.Users), "events", len(state.Events), "votes", len(state.Votes))
	}
	return nil
}

// Save writes the current cache contents to disk.
func (s *SnapshotService) Save() error {
	return s.store.Save(s.collect())
}

// Run persists snapshots on the given interval until ctx is cancelled, then
// takes one final snapshot on the way out.
func (s *SnapshotService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if s.logger != nil {
		s.logger.Cache().Info("Snapshot worker started", "interval", interval)
	}

	for {
		select {
		case <-ctx.Done():
			if err := s.Save(); err == nil && s.logger != nil {
				s.logger.Cache().Info("Final snapshot written")
			}
			return
		case <-ticker.C:
			s.Save()
		}
	}
}

func (s *SnapshotService) collect() snapshot.State {
	state := snapshot.State{Points: s.cache.AllLedgers()}

	for _, user := range s.cache.AllUsers() {
		state.Users = append(state.Users, user)
	}
	for _, event := range s.cache.AllEvents() {
		state.Events = append(state.Events, event)
	}

	records := s.cache.Records()
	for _, byEvent := range records.Attended {
		for _, record := range byEvent {
			state.Attendance = append(state.Attendance, record)
		}
	}
	for _, byEvent := range records.Excused {
		for _, record := range byEvent {
			state.Excuses = append(state.Excuses, record)
		}
	}

	for _, candidate := range s.cache.AllCandidates() {
		state.Candidates = append(state.Candidates, candidate)
	}
	for _, session := range s.cache.AllSessions() {
		state.Sessions = append(state.Sessions, session)
	}
	for _, byCandidate := range s.cache.Votes() {
		for _, byVoter := range byCandidate {
			for _, vote := range byVoter {
				state.Votes = append(state.Votes, vote)
			}
		}
	}

	return state
}
