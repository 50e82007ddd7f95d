package ballot

import (
	"sort"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/voting"
)

// VoteSet is the normalized vote state: session -> candidate -> voter email
// -> vote. Keying the innermost level by voter email is what makes a
// resubmission an update instead of an append.
type VoteSet map[string]map[string]map[string]voting.Vote

// VotesBySession returns every candidate's vote list for one session, each
// list ordered by voter email for deterministic output.
func VotesBySession(votes VoteSet, sessionID string) map[string][]voting.Vote {
	byCandidate, ok := votes[sessionID]
	if !ok {
		return map[string][]voting.Vote{}
	}
	out := make(map[string][]voting.Vote, len(byCandidate))
	for candidateID := range byCandidate {
		out[candidateID] = VotesFor(votes, sessionID, candidateID, nil)
	}
	return out
}

// VotesFor returns the vote list for one candidate in one session, ordered by
// voter email, or fallback when no votes are present.
func VotesFor(votes VoteSet, sessionID, candidateID string, fallback []voting.Vote) []voting.Vote {
	byVoter, ok := votes[sessionID][candidateID]
	if !ok || len(byVoter) == 0 {
		return fallback
	}
	out := make([]voting.Vote, 0, len(byVoter))
	for _, v := range byVoter {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserEmail < out[j].UserEmail })
	return out
}

// VoterBallot finds one voter's own vote in a list. Linear scan; vote lists
// are single digits to low tens of entries.
func VoterBallot(votes []voting.Vote, email string) (voting.Vote, bool) {
	for _, v := range votes {
		if v.UserEmail == email {
			return v, true
		}
	}
	return voting.Vote{}, false
}

// TallyResult is one candidate's aggregate verdict counts.
type TallyResult struct {
	Approve int `json:"approve"`
	Reject  int `json:"reject"`
}

// Tally counts verdicts in a vote list. Presentation decides what to do with
// the numbers; this is retrieval plus counting, nothing more.
func Tally(votes []voting.Vote) TallyResult {
	var result TallyResult
	for _, v := range votes {
		if v.Verdict {
			result.Approve++
		} else {
			result.Reject++
		}
	}
	return result
}

// HasVotedOnCurrent reports whether the voter already has a vote recorded for
// the session's current candidate.
func HasVotedOnCurrent(s voting.Session, votes VoteSet, email string) bool {
	if s.CurrentCandidateID == "" {
		return false
	}
	_, ok := votes[s.ID][s.CurrentCandidateID][email]
	return ok
}

// HasSubmittedBatch reports whether the voter already submitted a MULTI-mode
// selection for the session; any recorded vote counts, since the batch is
// dispatched as one action.
func HasSubmittedBatch(s voting.Session, votes VoteSet, email string) bool {
	for _, byVoter := range votes[s.ID] {
		if _, ok := byVoter[email]; ok {
			return true
		}
	}
	return false
}
