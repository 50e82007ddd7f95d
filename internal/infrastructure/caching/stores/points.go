package stores

import (
	"sync"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/merge"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
)

// PointsStore holds per-member point ledgers keyed by email. The remote API
// returns a whole ledger per fetch, so merging is ledger-replacement at the
// email key, never per-category patching.
type PointsStore struct {
	mu      sync.RWMutex
	ledgers map[string]chapter.PointLedger
	logger  *logging.ChanneledLogger
}

// NewPointsStore creates an empty points store.
func NewPointsStore(logger *logging.ChanneledLogger) *PointsStore {
	return &PointsStore{
		ledgers: make(map[string]chapter.PointLedger),
		logger:  logger,
	}
}

// SetLedger stores one member's fetched ledger.
func (ps *PointsStore) SetLedger(email string, ledger chapter.PointLedger) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	next := make(map[string]chapter.PointLedger, len(ps.ledgers)+1)
	for k, v := range ps.ledgers {
		next[k] = v
	}
	next[email] = ledger
	ps.ledgers = next
	if ps.logger != nil {
		ps.logger.Cache().Debug("Points ledger stored", "email", email, "categories", len(ledger))
	}
}

// GetLedger retrieves one member's ledger. Absent ledgers read as nil, and
// nil ledgers read every category as zero.
func (ps *PointsStore) GetLedger(email string) (chapter.PointLedger, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	ledger, ok := ps.ledgers[email]
	return ledger, ok
}

// AllLedgers returns the current ledger mapping as a stable snapshot.
func (ps *PointsStore) AllLedgers() map[string]chapter.PointLedger {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.ledgers
}

// RemoveLedger drops one member's ledger.
func (ps *PointsStore) RemoveLedger(email string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.ledgers = merge.Remove(ps.ledgers, email)
}
