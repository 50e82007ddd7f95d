package stores

import (
	"sync"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/ballot"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/voting"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/merge"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
)

// VotingStore holds candidates, sessions, and the three-level vote set. The
// innermost vote level is keyed by voter email, which is what turns a
// resubmitted vote into an update instead of a duplicate.
type VotingStore struct {
	mu         sync.RWMutex
	candidates map[string]voting.Candidate
	sessions   map[string]voting.Session
	votes      ballot.VoteSet
	logger     *logging.ChanneledLogger
}

// NewVotingStore creates an empty voting store.
func NewVotingStore(logger *logging.ChanneledLogger) *VotingStore {
	return &VotingStore{
		candidates: make(map[string]voting.Candidate),
		sessions:   make(map[string]voting.Session),
		votes:      make(ballot.VoteSet),
		logger:     logger,
	}
}

// MergeCandidates merges fetched candidates, keyed by ID.
func (vs *VotingStore) MergeCandidates(candidates []voting.Candidate) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.candidates = merge.ByKey(vs.candidates, candidates, func(c voting.Candidate) string { return c.ID })
	if vs.logger != nil {
		vs.logger.Cache().Debug("Candidates merged", "incoming", len(candidates), "total", len(vs.candidates))
	}
}

// MergeSessions merges fetched sessions, keyed by ID.
func (vs *VotingStore) MergeSessions(sessions []voting.Session) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.sessions = merge.ByKey(vs.sessions, sessions, func(s voting.Session) string { return s.ID })
	if vs.logger != nil {
		vs.logger.Cache().Debug("Sessions merged", "incoming", len(sessions), "total", len(vs.sessions))
	}
}

// MergeVotes merges fetched votes into the three-level vote set. Every level
// touched is rebuilt copy-on-write; untouched branches are shared.
func (vs *VotingStore) MergeVotes(votes []voting.Vote) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	next := make(ballot.VoteSet, len(vs.votes)+1)
	for k, v := range vs.votes {
		next[k] = v
	}
	for _, vote := range votes {
		byCandidate := make(map[string]map[string]voting.Vote, len(next[vote.SessionID])+1)
		for k, v := range next[vote.SessionID] {
			byCandidate[k] = v
		}
		byVoter := make(map[string]voting.Vote, len(byCandidate[vote.CandidateID])+1)
		for k, v := range byCandidate[vote.CandidateID] {
			byVoter[k] = v
		}
		byVoter[vote.UserEmail] = vote
		byCandidate[vote.CandidateID] = byVoter
		next[vote.SessionID] = byCandidate
	}
	vs.votes = next

	if vs.logger != nil {
		vs.logger.Cache().Debug("Votes merged", "incoming", len(votes))
	}
}

// GetCandidate retrieves one candidate by ID.
func (vs *VotingStore) GetCandidate(id string) (voting.Candidate, bool) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	c, ok := vs.candidates[id]
	return c, ok
}

// AllCandidates returns the current candidate mapping as a stable snapshot.
func (vs *VotingStore) AllCandidates() map[string]voting.Candidate {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return vs.candidates
}

// GetSession retrieves one session by ID.
func (vs *VotingStore) GetSession(id string) (voting.Session, bool) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	s, ok := vs.sessions[id]
	return s, ok
}

// AllSessions returns the current session mapping as a stable snapshot.
func (vs *VotingStore) AllSessions() map[string]voting.Session {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return vs.sessions
}

// Votes returns the current vote set as a stable snapshot.
func (vs *VotingStore) Votes() ballot.VoteSet {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return vs.votes
}

// RemoveCandidate drops one candidate after a confirmed server-side delete.
func (vs *VotingStore) RemoveCandidate(id string) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.candidates = merge.Remove(vs.candidates, id)
}

// RemoveSession drops one session after a confirmed server-side delete.
func (vs *VotingStore) RemoveSession(id string) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.sessions = merge.Remove(vs.sessions, id)
}
