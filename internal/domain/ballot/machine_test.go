package ballot

import (
	"errors"
	"testing"
	"time"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/voting"
)

func regularSession() voting.Session {
	return voting.Session{
		ID:                 "s1",
		Name:               "Spring Candidates",
		Type:               voting.SessionTypeRegular,
		StartDate:          time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC),
		CandidateOrder:     []string{"c1", "c2", "c3"},
		CurrentCandidateID: "c1",
		Active:             true,
		OperatorEmail:      "vp@chapter.org",
	}
}

func multiSession(maxVotes int) voting.Session {
	return voting.Session{
		ID:             "s2",
		Name:           "Exec Board",
		Type:           voting.SessionTypeMulti,
		MaxVotes:       maxVotes,
		StartDate:      time.Date(2026, 3, 11, 19, 0, 0, 0, time.UTC),
		CandidateOrder: []string{"c1", "c2", "c3", "c4", "c5"},
		Active:         true,
		OperatorEmail:  "vp@chapter.org",
	}
}

func TestSessionPhase(t *testing.T) {
	tests := []struct {
		name    string
		session voting.Session
		want    Phase
	}{
		{"active session", regularSession(), PhaseActive},
		{"never started draft", voting.Session{ID: "s9"}, PhaseDraft},
		{
			"started then ended",
			voting.Session{ID: "s8", StartDate: time.Now().Add(-time.Hour)},
			PhaseStopped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SessionPhase(tt.session); got != tt.want {
				t.Errorf("SessionPhase = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActiveSession(t *testing.T) {
	s1 := regularSession()
	draft := voting.Session{ID: "s9"}

	sessions := map[string]voting.Session{"s1": s1, "s9": draft}
	got, ok := ActiveSession(sessions)
	if !ok || got.ID != "s1" {
		t.Errorf("ActiveSession = (%v, %v), want s1", got.ID, ok)
	}

	if _, ok := ActiveSession(map[string]voting.Session{"s9": draft}); ok {
		t.Error("no session is active, ActiveSession should report false")
	}

	// Broken invariant: two active sessions. Latest StartDate wins,
	// deterministically.
	s2 := multiSession(0)
	sessions["s2"] = s2
	got, ok = ActiveSession(sessions)
	if !ok || got.ID != "s2" {
		t.Errorf("ActiveSession with two active = %v, want s2", got.ID)
	}
}

func TestCurrentCandidate(t *testing.T) {
	candidates := map[string]voting.Candidate{
		"c1": {ID: "c1", Email: "cand1@x.edu", FirstName: "Pat"},
	}

	s := regularSession()
	if got, ok := CurrentCandidate(s, candidates); !ok || got.ID != "c1" {
		t.Errorf("CurrentCandidate = (%v, %v)", got.ID, ok)
	}

	s.CurrentCandidateID = ""
	if _, ok := CurrentCandidate(s, candidates); ok {
		t.Error("exhausted queue should yield no current candidate")
	}

	s = regularSession()
	s.Active = false
	if _, ok := CurrentCandidate(s, candidates); ok {
		t.Error("inactive session should yield no current candidate")
	}

	s = regularSession()
	s.CurrentCandidateID = "c2" // in order, but not in the candidate map yet
	if _, ok := CurrentCandidate(s, candidates); ok {
		t.Error("unloaded candidate should yield false")
	}
}

func TestNextCandidateID(t *testing.T) {
	s := regularSession()

	if next, ok := NextCandidateID(s); !ok || next != "c2" {
		t.Errorf("NextCandidateID = (%q, %v), want c2", next, ok)
	}

	s.CurrentCandidateID = "c3"
	if _, ok := NextCandidateID(s); ok {
		t.Error("last candidate has no successor")
	}

	s.CurrentCandidateID = ""
	if _, ok := NextCandidateID(s); ok {
		t.Error("unset current candidate has no successor")
	}

	s.CurrentCandidateID = "zz" // violates the order invariant
	if _, ok := NextCandidateID(s); ok {
		t.Error("candidate outside the order has no successor")
	}
}

func TestValidateRegularBallot(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*voting.Session)
		candidateID string
		verdict     bool
		reason      string
		wantErr     error
	}{
		{"approve needs no reason", nil, "c1", true, "", nil},
		{"reject with reason", nil, "c1", false, "concerns raised", nil},
		{"reject without reason", nil, "c1", false, "", ErrReasonRequired},
		{"not the current candidate", nil, "c2", true, "", ErrNotCurrentCandidate},
		{"empty candidate", nil, "", true, "", ErrNotCurrentCandidate},
		{
			"inactive session",
			func(s *voting.Session) { s.Active = false },
			"c1", true, "", ErrSessionNotActive,
		},
		{
			"multi session rejects regular ballots",
			func(s *voting.Session) { s.Type = voting.SessionTypeMulti },
			"c1", true, "", ErrWrongSessionType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := regularSession()
			if tt.mutate != nil {
				tt.mutate(&s)
			}
			err := ValidateRegularBallot(s, tt.candidateID, tt.verdict, tt.reason)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRegularBallot() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMultiBallot(t *testing.T) {
	tests := []struct {
		name      string
		session   voting.Session
		selection []string
		wantErr   error
	}{
		{"within limit", multiSession(2), []string{"c1", "c3"}, nil},
		{"at limit", multiSession(2), []string{"c1", "c2"}, nil},
		{"over limit rejected before dispatch", multiSession(2), []string{"c1", "c2", "c3"}, ErrTooManySelections},
		{"zero means unlimited", multiSession(0), []string{"c1", "c2", "c3", "c4", "c5"}, nil},
		{"empty selection", multiSession(2), nil, ErrEmptySelection},
		{"candidate outside the pool", multiSession(3), []string{"c1", "zz"}, ErrUnknownCandidate},
		{"duplicate candidate", multiSession(3), []string{"c1", "c1"}, ErrDuplicateSelection},
		{"regular session rejects batch ballots", regularSession(), []string{"c1"}, ErrWrongSessionType},
		{
			"inactive session",
			func() voting.Session { s := multiSession(2); s.Active = false; return s }(),
			[]string{"c1"},
			ErrSessionNotActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMultiBallot(tt.session, tt.selection)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateMultiBallot() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
