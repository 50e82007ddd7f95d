package stores

import (
	"testing"
	"time"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/voting"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/staleness"
)

func TestEventStoreMergeIsAdditive(t *testing.T) {
	es := NewEventStore(nil)

	es.MergeEvents([]chapter.Event{
		{ID: "e1", Title: "GM 1"},
		{ID: "e2", Title: "Social"},
	})

	// A later, shorter fetch must not drop e2.
	es.MergeEvents([]chapter.Event{{ID: "e1", Title: "GM 1 (rescheduled)"}})

	if got, _ := es.GetEvent("e1"); got.Title != "GM 1 (rescheduled)" {
		t.Errorf("e1 title = %q, want overwrite", got.Title)
	}
	if _, ok := es.GetEvent("e2"); !ok {
		t.Error("e2 was dropped by a shorter fetch")
	}

	// Only an explicit delete removes an entry.
	es.RemoveEvent("e2")
	if _, ok := es.GetEvent("e2"); ok {
		t.Error("e2 survived explicit removal")
	}
}

func TestEventStoreSnapshotsAreStable(t *testing.T) {
	es := NewEventStore(nil)
	es.MergeEvents([]chapter.Event{{ID: "e1", Title: "GM"}})

	snapshot := es.AllEvents()
	es.MergeEvents([]chapter.Event{{ID: "e1", Title: "Changed"}, {ID: "e2"}})

	if snapshot["e1"].Title != "GM" {
		t.Error("snapshot changed under a later merge")
	}
	if len(snapshot) != 1 {
		t.Error("snapshot gained keys from a later merge")
	}
}

func TestDirectoryStore(t *testing.T) {
	ds := NewDirectoryStore(nil)

	ds.MergeUsers([]chapter.User{
		{Email: "alice@chapter.org", FirstName: "Alice", Role: "member"},
	})
	ds.MergeUsers([]chapter.User{
		{Email: "alice@chapter.org", FirstName: "Alice", Role: "officer"},
		{Email: "bob@chapter.org", FirstName: "Bob"},
	})

	if u, _ := ds.GetUser("alice@chapter.org"); u.Role != "officer" {
		t.Errorf("alice role = %q, want officer", u.Role)
	}
	if ds.Len() != 2 {
		t.Errorf("directory size = %d, want 2", ds.Len())
	}

	ds.RemoveUser("bob@chapter.org")
	if _, ok := ds.GetUser("bob@chapter.org"); ok {
		t.Error("bob survived removal")
	}
}

func TestRecordsStoreTwoLevelMerge(t *testing.T) {
	rs := NewRecordsStore(nil)

	rs.MergeAttendance([]chapter.AttendanceRecord{
		{ID: "a1", EventID: "e1", Email: "alice@chapter.org"},
		{ID: "a2", EventID: "e1", Email: "bob@chapter.org"},
	})
	rs.MergeAttendance([]chapter.AttendanceRecord{
		{ID: "a3", EventID: "e2", Email: "alice@chapter.org"},
	})

	rec := rs.Snapshot()
	if len(rec.Attended["alice@chapter.org"]) != 2 {
		t.Errorf("alice has %d attendance records, want 2", len(rec.Attended["alice@chapter.org"]))
	}
	if len(rec.Attended["bob@chapter.org"]) != 1 {
		t.Error("bob's record was lost by a later merge for alice")
	}

	rs.MergeExcuses([]chapter.ExcuseRecord{
		{ID: "x1", EventID: "e3", Email: "alice@chapter.org"},
	})
	attended, excused := rs.UserRecords("alice@chapter.org")
	if len(attended) != 2 || len(excused) != 1 {
		t.Errorf("UserRecords = %d attended, %d excused", len(attended), len(excused))
	}

	rs.RemoveExcuse("alice@chapter.org", "e3")
	if _, excused := rs.UserRecords("alice@chapter.org"); len(excused) != 0 {
		t.Error("excuse survived removal")
	}
}

func TestRecordsSnapshotStable(t *testing.T) {
	rs := NewRecordsStore(nil)
	rs.MergeAttendance([]chapter.AttendanceRecord{{ID: "a1", EventID: "e1", Email: "alice@chapter.org"}})

	snapshot := rs.Snapshot()
	rs.MergeAttendance([]chapter.AttendanceRecord{{ID: "a2", EventID: "e2", Email: "alice@chapter.org"}})

	if len(snapshot.Attended["alice@chapter.org"]) != 1 {
		t.Error("snapshot inner map changed under a later merge")
	}
}

func TestPointsStore(t *testing.T) {
	ps := NewPointsStore(nil)

	ps.SetLedger("alice@chapter.org", chapter.PointLedger{"prof": 10})
	ps.SetLedger("alice@chapter.org", chapter.PointLedger{"prof": 12, "phil": 3})

	ledger, ok := ps.GetLedger("alice@chapter.org")
	if !ok || ledger["prof"] != 12 || ledger["phil"] != 3 {
		t.Errorf("ledger = %v", ledger)
	}

	if _, ok := ps.GetLedger("bob@chapter.org"); ok {
		t.Error("unexpected ledger for bob")
	}
}

func TestVotingStoreVoteUniqueness(t *testing.T) {
	vs := NewVotingStore(nil)

	// A voter rejects, then approves the same candidate. Exactly one vote
	// remains and it carries the later verdict with the reason cleared.
	vs.MergeVotes([]voting.Vote{
		{ID: "v1", SessionID: "s1", CandidateID: "c1", UserEmail: "alice@chapter.org", Verdict: false, Reason: "concerns raised"},
	})
	vs.MergeVotes([]voting.Vote{
		{ID: "v1", SessionID: "s1", CandidateID: "c1", UserEmail: "alice@chapter.org", Verdict: true},
	})

	byVoter := vs.Votes()["s1"]["c1"]
	if len(byVoter) != 1 {
		t.Fatalf("got %d votes for (s1, c1), want 1", len(byVoter))
	}
	vote := byVoter["alice@chapter.org"]
	if !vote.Verdict || vote.Reason != "" {
		t.Errorf("vote = %+v, want approve with reason cleared", vote)
	}
}

func TestVotingStoreMergeIdempotence(t *testing.T) {
	vs := NewVotingStore(nil)
	batch := []voting.Vote{
		{ID: "v1", SessionID: "s1", CandidateID: "c1", UserEmail: "alice@chapter.org", Verdict: true},
		{ID: "v2", SessionID: "s1", CandidateID: "c1", UserEmail: "bob@chapter.org", Verdict: false, Reason: "gpa"},
	}

	// The vote poller feeds the same data every tick; merging must tolerate it.
	vs.MergeVotes(batch)
	once := vs.Votes()
	vs.MergeVotes(batch)
	twice := vs.Votes()

	if len(once["s1"]["c1"]) != 2 || len(twice["s1"]["c1"]) != 2 {
		t.Errorf("vote counts changed across identical merges: %d then %d",
			len(once["s1"]["c1"]), len(twice["s1"]["c1"]))
	}
}

func TestVotingStoreSessionsAndCandidates(t *testing.T) {
	vs := NewVotingStore(nil)

	vs.MergeSessions([]voting.Session{{ID: "s1", Name: "Spring", Active: true}})
	vs.MergeCandidates([]voting.Candidate{{ID: "c1", Email: "cand@x.edu"}})

	if s, ok := vs.GetSession("s1"); !ok || !s.Active {
		t.Error("session s1 missing or inactive")
	}
	if _, ok := vs.GetCandidate("c1"); !ok {
		t.Error("candidate c1 missing")
	}

	vs.RemoveSession("s1")
	if _, ok := vs.GetSession("s1"); ok {
		t.Error("session survived removal")
	}
	vs.RemoveCandidate("c1")
	if _, ok := vs.GetCandidate("c1"); ok {
		t.Error("candidate survived removal")
	}
}

func TestHistoryStore(t *testing.T) {
	hs := NewHistoryStore(5*time.Minute, nil)

	if !hs.ShouldLoad(staleness.KeyEvents) {
		t.Error("unseen key should load")
	}

	hs.RecordSuccess(staleness.KeyEvents)
	if hs.ShouldLoad(staleness.KeyEvents) {
		t.Error("key should be fresh immediately after success")
	}

	if len(hs.Snapshot()) != 1 {
		t.Errorf("history size = %d, want 1", len(hs.Snapshot()))
	}
	if hs.Threshold() != 5*time.Minute {
		t.Errorf("threshold = %v", hs.Threshold())
	}
}
