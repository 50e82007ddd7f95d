// Package services provides application-level services that orchestrate
// between the chapter API, the state caches, and the event stream.
package services

import (
	"context"
	"sync"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/voting"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/staleness"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/caching/interfaces"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/metrics"
)

// ChapterReader is the read slice of the chapter API the sync service uses.
type ChapterReader interface {
	GetEvents(ctx context.Context) ([]chapter.Event, error)
	GetDirectory(ctx context.Context) ([]chapter.User, error)
	GetUser(ctx context.Context, email string) (chapter.User, error)
	GetAttendanceByUser(ctx context.Context, email string) ([]chapter.AttendanceRecord, error)
	GetAttendanceByEvent(ctx context.Context, eventID string) ([]chapter.AttendanceRecord, error)
	GetExcusesByUser(ctx context.Context, email string) ([]chapter.ExcuseRecord, error)
	GetExcusesByEvent(ctx context.Context, eventID string) ([]chapter.ExcuseRecord, error)
	GetPoints(ctx context.Context, email string) (chapter.PointLedger, error)
	GetCandidates(ctx context.Context) ([]voting.Candidate, error)
	GetSessions(ctx context.Context) ([]voting.Session, error)
	GetVotes(ctx context.Context, sessionID, candidateID string) ([]voting.Vote, error)
}

type flight struct {
	done chan struct{}
	err  error
}

// SyncService coordinates staleness-gated loads from the chapter API into the
// caches. Concurrent loads for the same key collapse into one fetch, and a
// per-key sequence guard drops results that a newer fetch has already
// superseded so an old response can never clobber newer state.
type SyncService struct {
	cache  interfaces.Cache
	api    ChapterReader
	logger *logging.ChanneledLogger

	mu       sync.Mutex
	inflight map[string]*flight
	issued   map[string]uint64
	applied  map[string]uint64
	applyMu  map[string]*sync.Mutex
}

// NewSyncService creates a new sync coordinator.
func NewSyncService(cache interfaces.Cache, api ChapterReader, logger *logging.ChanneledLogger) *SyncService {
	return &SyncService{
		cache:    cache,
		api:      api,
		logger:   logger,
		inflight: make(map[string]*flight),
		issued:   make(map[string]uint64),
		applied:  make(map[string]uint64),
		applyMu:  make(map[string]*sync.Mutex),
	}
}

// applyLock returns the per-key lock that serializes the supersession check
// with the merge it guards.
func (s *SyncService) applyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.applyMu[key]
	if !ok {
		l = &sync.Mutex{}
		s.applyMu[key] = l
	}
	return l
}

// load runs one gated fetch for key. fetch returns an apply closure that
// merges the result into the caches; apply runs only if this fetch is still
// the newest one for the key.
func (s *SyncService) load(ctx context.Context, key string, force bool, fetch func(context.Context) (func(), error)) error {
	if !force && !s.cache.ShouldLoad(key) {
		metrics.FetchesSkipped.WithLabelValues(key).Inc()
		return nil
	}

	s.mu.Lock()
	if f, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		select {
		case <-f.done:
			return f.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f := &flight{done: make(chan struct{})}
	s.inflight[key] = f
	s.issued[key]++
	ticket := s.issued[key]
	s.mu.Unlock()

	apply, err := fetch(ctx)

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()

	if err == nil {
		// Check and merge are one atomic step per key: without the lock a
		// fetch could pass the check, lose the CPU while a newer fetch
		// applies, then merge its stale result on top.
		lock := s.applyLock(key)
		lock.Lock()
		s.mu.Lock()
		current := ticket > s.applied[key]
		if current {
			s.applied[key] = ticket
		}
		s.mu.Unlock()
		if current {
			apply()
			s.cache.RecordSuccess(key)
			metrics.RemoteFetches.WithLabelValues(key, metrics.OutcomeSuccess).Inc()
		} else {
			metrics.StaleFetchesDropped.Inc()
			if s.logger != nil {
				s.logger.Sync().Warn("Dropped superseded fetch result", "key", key)
			}
		}
		lock.Unlock()
	} else {
		metrics.RemoteFetches.WithLabelValues(key, metrics.OutcomeError).Inc()
		if s.logger != nil {
			s.logger.Sync().Warn("Fetch failed", "key", key, "error", err.Error())
		}
	}

	f.err = err
	close(f.done)
	return err
}

// SyncEvents refreshes the event list if stale, or unconditionally when force
// is set.
func (s *SyncService) SyncEvents(ctx context.Context, force bool) error {
	return s.load(ctx, staleness.KeyEvents, force, func(ctx context.Context) (func(), error) {
		events, err := s.api.GetEvents(ctx)
		if err != nil {
			return nil, err
		}
		return func() { s.cache.MergeEvents(events) }, nil
	})
}

// SyncDirectory refreshes the member directory.
func (s *SyncService) SyncDirectory(ctx context.Context, force bool) error {
	return s.load(ctx, staleness.KeyDirectory, force, func(ctx context.Context) (func(), error) {
		users, err := s.api.GetDirectory(ctx)
		if err != nil {
			return nil, err
		}
		return func() { s.cache.MergeUsers(users) }, nil
	})
}

// SyncUser refreshes one member's profile.
func (s *SyncService) SyncUser(ctx context.Context, email string, force bool) error {
	return s.load(ctx, staleness.UserKey(email), force, func(ctx context.Context) (func(), error) {
		user, err := s.api.GetUser(ctx, email)
		if err != nil {
			return nil, err
		}
		return func() { s.cache.MergeUsers([]chapter.User{user}) }, nil
	})
}

// SyncUserRecords refreshes one member's attendance and excuse records.
func (s *SyncService) SyncUserRecords(ctx context.Context, email string, force bool) error {
	return s.load(ctx, staleness.AttendanceKey(email), force, func(ctx context.Context) (func(), error) {
		attendance, err := s.api.GetAttendanceByUser(ctx, email)
		if err != nil {
			return nil, err
		}
		excuses, err := s.api.GetExcusesByUser(ctx, email)
		if err != nil {
			return nil, err
		}
		return func() {
			s.cache.MergeAttendance(attendance)
			s.cache.MergeExcuses(excuses)
		}, nil
	})
}

// SyncEventRecords refreshes the attendance and excuse records for one event,
// across all members.
func (s *SyncService) SyncEventRecords(ctx context.Context, eventID string, force bool) error {
	return s.load(ctx, staleness.EventKey(eventID), force, func(ctx context.Context) (func(), error) {
		attendance, err := s.api.GetAttendanceByEvent(ctx, eventID)
		if err != nil {
			return nil, err
		}
		excuses, err := s.api.GetExcusesByEvent(ctx, eventID)
		if err != nil {
			return nil, err
		}
		return func() {
			s.cache.MergeAttendance(attendance)
			s.cache.MergeExcuses(excuses)
		}, nil
	})
}

// SyncPoints refreshes one member's point ledger. Ledgers replace rather than
// merge: the server total is authoritative.
func (s *SyncService) SyncPoints(ctx context.Context, email string, force bool) error {
	return s.load(ctx, staleness.PointsKey(email), force, func(ctx context.Context) (func(), error) {
		ledger, err := s.api.GetPoints(ctx, email)
		if err != nil {
			return nil, err
		}
		return func() { s.cache.SetLedger(email, ledger) }, nil
	})
}

// SyncCandidates refreshes the candidate slate.
func (s *SyncService) SyncCandidates(ctx context.Context, force bool) error {
	return s.load(ctx, staleness.KeyCandidates, force, func(ctx context.Context) (func(), error) {
		candidates, err := s.api.GetCandidates(ctx)
		if err != nil {
			return nil, err
		}
		return func() { s.cache.MergeCandidates(candidates) }, nil
	})
}

// SyncSessions refreshes the voting session list.
func (s *SyncService) SyncSessions(ctx context.Context, force bool) error {
	return s.load(ctx, staleness.KeySessions, force, func(ctx context.Context) (func(), error) {
		sessions, err := s.api.GetSessions(ctx)
		if err != nil {
			return nil, err
		}
		return func() { s.cache.MergeSessions(sessions) }, nil
	})
}

// SyncVotes refreshes the votes for one session/candidate pair.
func (s *SyncService) SyncVotes(ctx context.Context, sessionID, candidateID string, force bool) error {
	return s.load(ctx, staleness.VotesKey(sessionID, candidateID), force, func(ctx context.Context) (func(), error) {
		votes, err := s.api.GetVotes(ctx, sessionID, candidateID)
		if err != nil {
			return nil, err
		}
		return func() { s.cache.MergeVotes(votes) }, nil
	})
}
