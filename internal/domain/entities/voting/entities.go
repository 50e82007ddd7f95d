// Package voting defines the candidate-voting domain entities.
package voting

import "time"

// Session ballot types.
const (
	SessionTypeRegular = "REGULAR" // one up/down vote per candidate, in order
	SessionTypeMulti   = "MULTI"   // one batch multi-select ballot across the pool
)

// Candidate is a membership candidate. Email is the natural key; ID is the
// server-assigned handle sessions and votes refer to.
type Candidate struct {
	ID        string   `json:"_id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Year      string   `json:"year,omitempty"`
	Major     string   `json:"major,omitempty"`
	Approved  bool     `json:"approved"`
	Events    []string `json:"events,omitempty"` // attended event IDs, denormalized
}

// Session is one voting session. CandidateOrder is the traversal queue;
// CurrentCandidateID is its head, or empty once the queue is exhausted.
type Session struct {
	ID                 string    `json:"_id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	MaxVotes           int       `json:"maxVotes,omitempty"` // MULTI only; 0 = unlimited
	StartDate          time.Time `json:"startDate"`
	CandidateOrder     []string  `json:"candidateOrder"`
	CurrentCandidateID string    `json:"currentCandidateId,omitempty"`
	Active             bool      `json:"active"`
	OperatorEmail      string    `json:"operatorEmail"`
	GMEventID          string    `json:"gmEventId,omitempty"`
}

// Vote is one voter's verdict on one candidate in one session. The triple
// (SessionID, CandidateID, UserEmail) is unique; a resubmission replaces the
// prior vote rather than appending.
type Vote struct {
	ID          string `json:"_id"`
	SessionID   string `json:"sessionId"`
	CandidateID string `json:"candidateId"`
	UserEmail   string `json:"userEmail"`
	Verdict     bool   `json:"verdict"`
	Reason      string `json:"reason,omitempty"`
}

// Key returns the uniqueness key for merge purposes.
func (v Vote) Key() string {
	return v.SessionID + "|" + v.CandidateID + "|" + v.UserEmail
}
