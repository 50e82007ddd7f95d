package stores

import (
	"sync"
	"time"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/staleness"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
)

// HistoryStore guards the load history. The staleness decisions themselves are
// the pure functions in the staleness package; this store only owns the
// current History value and the clock.
type HistoryStore struct {
	mu        sync.RWMutex
	history   staleness.History
	threshold time.Duration
	logger    *logging.ChanneledLogger
}

// NewHistoryStore creates an empty history store with the given staleness
// threshold.
func NewHistoryStore(threshold time.Duration, logger *logging.ChanneledLogger) *HistoryStore {
	return &HistoryStore{
		history:   make(staleness.History),
		threshold: threshold,
		logger:    logger,
	}
}

// ShouldLoad reports whether key is due for a refetch right now.
func (hs *HistoryStore) ShouldLoad(key string) bool {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return staleness.ShouldLoad(hs.history, key, time.Now().UTC(), hs.threshold)
}

// RecordSuccess stamps key with the current time.
func (hs *HistoryStore) RecordSuccess(key string) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.history = staleness.RecordSuccess(hs.history, key, time.Now().UTC())
	if hs.logger != nil {
		hs.logger.Cache().Debug("Load recorded", "key", key)
	}
}

// Snapshot returns the current history as a stable snapshot.
func (hs *HistoryStore) Snapshot() staleness.History {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return hs.history
}

// Threshold returns the configured staleness threshold.
func (hs *HistoryStore) Threshold() time.Duration {
	return hs.threshold
}
