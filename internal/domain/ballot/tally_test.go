package ballot

import (
	"testing"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/voting"
)

func testVoteSet() VoteSet {
	return VoteSet{
		"s1": {
			"c1": {
				"alice@chapter.org": {ID: "v1", SessionID: "s1", CandidateID: "c1", UserEmail: "alice@chapter.org", Verdict: true},
				"bob@chapter.org":   {ID: "v2", SessionID: "s1", CandidateID: "c1", UserEmail: "bob@chapter.org", Verdict: false, Reason: "attendance"},
			},
			"c2": {
				"alice@chapter.org": {ID: "v3", SessionID: "s1", CandidateID: "c2", UserEmail: "alice@chapter.org", Verdict: true},
			},
		},
	}
}

func TestVotesBySession(t *testing.T) {
	votes := testVoteSet()

	bySession := VotesBySession(votes, "s1")
	if len(bySession) != 2 {
		t.Fatalf("got %d candidates, want 2", len(bySession))
	}
	if len(bySession["c1"]) != 2 || len(bySession["c2"]) != 1 {
		t.Errorf("vote list sizes wrong: c1=%d c2=%d", len(bySession["c1"]), len(bySession["c2"]))
	}

	if got := VotesBySession(votes, "missing"); len(got) != 0 {
		t.Errorf("unknown session should yield empty map, got %v", got)
	}
}

func TestVotesFor(t *testing.T) {
	votes := testVoteSet()

	list := VotesFor(votes, "s1", "c1", nil)
	if len(list) != 2 {
		t.Fatalf("got %d votes, want 2", len(list))
	}
	// Ordered by voter email.
	if list[0].UserEmail != "alice@chapter.org" || list[1].UserEmail != "bob@chapter.org" {
		t.Errorf("votes out of order: %s, %s", list[0].UserEmail, list[1].UserEmail)
	}

	fallback := []voting.Vote{{ID: "sentinel"}}
	got := VotesFor(votes, "s1", "c9", fallback)
	if len(got) != 1 || got[0].ID != "sentinel" {
		t.Errorf("expected fallback for absent candidate, got %v", got)
	}
}

func TestVoterBallot(t *testing.T) {
	list := VotesFor(testVoteSet(), "s1", "c1", nil)

	vote, ok := VoterBallot(list, "bob@chapter.org")
	if !ok || vote.Verdict {
		t.Errorf("VoterBallot(bob) = (%+v, %v)", vote, ok)
	}
	if _, ok := VoterBallot(list, "nobody@chapter.org"); ok {
		t.Error("VoterBallot should miss for a voter with no ballot")
	}
}

func TestTally(t *testing.T) {
	list := VotesFor(testVoteSet(), "s1", "c1", nil)

	result := Tally(list)
	if result.Approve != 1 || result.Reject != 1 {
		t.Errorf("Tally = %+v, want 1/1", result)
	}

	if got := Tally(nil); got != (TallyResult{}) {
		t.Errorf("Tally(nil) = %+v, want zero", got)
	}
}

func TestHasVotedOnCurrent(t *testing.T) {
	votes := testVoteSet()
	s := regularSession() // current candidate c1

	if !HasVotedOnCurrent(s, votes, "alice@chapter.org") {
		t.Error("alice voted on c1")
	}
	if HasVotedOnCurrent(s, votes, "carol@chapter.org") {
		t.Error("carol has not voted on c1")
	}

	s.CurrentCandidateID = ""
	if HasVotedOnCurrent(s, votes, "alice@chapter.org") {
		t.Error("exhausted queue means nobody is voting")
	}
}

func TestHasSubmittedBatch(t *testing.T) {
	votes := testVoteSet()
	s := multiSession(2)
	s.ID = "s1"

	if !HasSubmittedBatch(s, votes, "alice@chapter.org") {
		t.Error("alice has votes in the session")
	}
	if HasSubmittedBatch(s, votes, "carol@chapter.org") {
		t.Error("carol has no votes in the session")
	}
}
