// Package ballot interprets voting-session state and enforces the client-side
// ballot rules. Session transitions themselves are server-authoritative; this
// package derives phases, the current candidate, and whether a ballot is legal
// to dispatch.
package ballot

import (
	"errors"
	"fmt"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/voting"
)

// Phase is a session's derived lifecycle position.
type Phase string

const (
	PhaseDraft   Phase = "draft"   // created, never started
	PhaseActive  Phase = "active"  // currently running
	PhaseStopped Phase = "stopped" // ran and was ended; retains order and votes
)

var (
	ErrSessionNotActive   = errors.New("session is not active")
	ErrWrongSessionType   = errors.New("operation does not match session type")
	ErrNotCurrentCandidate = errors.New("candidate is not up for vote")
	ErrReasonRequired     = errors.New("rejection requires a reason")
	ErrTooManySelections  = errors.New("selection exceeds the session vote limit")
	ErrEmptySelection     = errors.New("selection is empty")
	ErrUnknownCandidate   = errors.New("selection includes a candidate outside the session")
	ErrDuplicateSelection = errors.New("selection lists a candidate twice")
)

// SessionPhase derives a session's phase. The server stamps StartDate when a
// session starts, so a never-started draft carries a zero StartDate.
func SessionPhase(s voting.Session) Phase {
	if s.Active {
		return PhaseActive
	}
	if s.StartDate.IsZero() {
		return PhaseDraft
	}
	return PhaseStopped
}

// ActiveSession scans the session set for the one active session. The at-most-
// one-active invariant is server-enforced; if it is ever violated the session
// with the latest StartDate wins, deterministically.
func ActiveSession(sessions map[string]voting.Session) (voting.Session, bool) {
	var best voting.Session
	found := false
	for _, s := range sessions {
		if !s.Active {
			continue
		}
		if !found || s.StartDate.After(best.StartDate) ||
			(s.StartDate.Equal(best.StartDate) && s.ID > best.ID) {
			best = s
			found = true
		}
	}
	return best, found
}

// inOrder reports whether id appears in the session's candidate order.
func inOrder(s voting.Session, id string) bool {
	for _, candidateID := range s.CandidateOrder {
		if candidateID == id {
			return true
		}
	}
	return false
}

// CurrentCandidate resolves the session's current candidate against the
// candidate map. Returns false when the session is not active, the queue is
// exhausted, or the candidate is not loaded yet.
func CurrentCandidate(s voting.Session, candidates map[string]voting.Candidate) (voting.Candidate, bool) {
	if !s.Active || s.CurrentCandidateID == "" {
		return voting.Candidate{}, false
	}
	candidate, ok := candidates[s.CurrentCandidateID]
	return candidate, ok
}

// NextCandidateID returns the candidate after the current one in the queue,
// or false when the current candidate is last (or unset, or not in the order).
func NextCandidateID(s voting.Session) (string, bool) {
	if s.CurrentCandidateID == "" {
		return "", false
	}
	for i, id := range s.CandidateOrder {
		if id == s.CurrentCandidateID {
			if i+1 < len(s.CandidateOrder) {
				return s.CandidateOrder[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// ValidateRegularBallot checks a single up/down vote against a REGULAR
// session: the session must be active, the candidate must be the one up for
// vote, and a rejection must carry a non-empty reason.
func ValidateRegularBallot(s voting.Session, candidateID string, verdict bool, reason string) error {
	if s.Type != voting.SessionTypeRegular {
		return fmt.Errorf("%w: session %s is %s", ErrWrongSessionType, s.ID, s.Type)
	}
	if !s.Active {
		return ErrSessionNotActive
	}
	if candidateID == "" || candidateID != s.CurrentCandidateID {
		return ErrNotCurrentCandidate
	}
	if !verdict && reason == "" {
		return ErrReasonRequired
	}
	return nil
}

// ValidateMultiBallot checks a batch selection against a MULTI session. The
// selection must be a non-empty duplicate-free subset of the candidate order
// with cardinality at most MaxVotes (0 meaning unlimited).
func ValidateMultiBallot(s voting.Session, selection []string) error {
	if s.Type != voting.SessionTypeMulti {
		return fmt.Errorf("%w: session %s is %s", ErrWrongSessionType, s.ID, s.Type)
	}
	if !s.Active {
		return ErrSessionNotActive
	}
	if len(selection) == 0 {
		return ErrEmptySelection
	}
	if s.MaxVotes > 0 && len(selection) > s.MaxVotes {
		return fmt.Errorf("%w: %d selected, limit %d", ErrTooManySelections, len(selection), s.MaxVotes)
	}
	seen := make(map[string]bool, len(selection))
	for _, id := range selection {
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateSelection, id)
		}
		seen[id] = true
		if !inOrder(s, id) {
			return fmt.Errorf("%w: %s", ErrUnknownCandidate, id)
		}
	}
	return nil
}
