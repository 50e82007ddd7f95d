package views

import (
	"sort"
	"testing"
	"time"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func boolPtr(b bool) *bool { return &b }

func testRecords() chapter.Records {
	rec := chapter.NewRecords()
	rec.Attended["alice@chapter.org"] = map[string]chapter.AttendanceRecord{
		"e1": {ID: "a1", EventID: "e1", Email: "alice@chapter.org"},
	}
	rec.Excused["bob@chapter.org"] = map[string]chapter.ExcuseRecord{
		"e1": {ID: "x1", EventID: "e1", Email: "bob@chapter.org", Approved: boolPtr(true)},
	}
	rec.Excused["carol@chapter.org"] = map[string]chapter.ExcuseRecord{
		"e1": {ID: "x2", EventID: "e1", Email: "carol@chapter.org"}, // pending
	}
	return rec
}

func TestHasValidCheckIn(t *testing.T) {
	rec := testRecords()

	tests := []struct {
		name           string
		email          string
		includeExcused bool
		want           bool
	}{
		{"attendance record counts", "alice@chapter.org", false, true},
		{"approved excuse ignored without flag", "bob@chapter.org", false, false},
		{"approved excuse counts with flag", "bob@chapter.org", true, true},
		{"pending excuse counts with flag", "carol@chapter.org", true, true},
		{"no records at all", "dave@chapter.org", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasValidCheckIn(rec, tt.email, "e1", tt.includeExcused); got != tt.want {
				t.Errorf("HasValidCheckIn(%q, includeExcused=%v) = %v, want %v",
					tt.email, tt.includeExcused, got, tt.want)
			}
		})
	}
}

func TestGetAttendanceAndExcuse(t *testing.T) {
	rec := testRecords()

	if _, ok := GetAttendance(rec, "alice@chapter.org", "e1"); !ok {
		t.Error("expected alice's attendance record")
	}
	if _, ok := GetAttendance(rec, "alice@chapter.org", "e2"); ok {
		t.Error("unexpected attendance record for e2")
	}
	if excuse, ok := GetExcuse(rec, "carol@chapter.org", "e1"); !ok || !excuse.Pending() {
		t.Error("expected carol's pending excuse")
	}
}

func TestEventRecordCounts(t *testing.T) {
	rec := testRecords()

	counts := EventRecordCounts(rec, "e1")
	want := RecordCounts{Attended: 1, Excused: 1, Pending: 1}
	if counts != want {
		t.Errorf("EventRecordCounts = %+v, want %+v", counts, want)
	}

	if counts := EventRecordCounts(rec, "unknown"); counts != (RecordCounts{}) {
		t.Errorf("EventRecordCounts(unknown) = %+v, want zero", counts)
	}
}

func TestTypeCountsForUser(t *testing.T) {
	events := map[string]chapter.Event{
		"g1": {ID: "g1", EventType: "gm", Start: now.Add(-48 * time.Hour)},
		"g2": {ID: "g2", EventType: "gm", Start: now.Add(-24 * time.Hour)},
		"g3": {ID: "g3", EventType: "gm", Start: now.Add(24 * time.Hour)},
		"s1": {ID: "s1", EventType: "social", Start: now.Add(-24 * time.Hour)},
	}
	attended := map[string]chapter.AttendanceRecord{
		"g1": {ID: "a1", EventID: "g1", Email: "alice@chapter.org"},
	}
	excused := map[string]chapter.ExcuseRecord{
		"g2": {ID: "x1", EventID: "g2", Email: "alice@chapter.org"}, // pending
	}

	counts := TypeCountsForUser(events, attended, excused, "gm")
	want := TypeCounts{Total: 3, Attended: 1, Excused: 0, Pending: 1}
	if counts != want {
		t.Errorf("TypeCountsForUser = %+v, want %+v", counts, want)
	}

	// Nil record maps are fine.
	counts = TypeCountsForUser(events, nil, nil, "social")
	if counts.Total != 1 || counts.Attended != 0 {
		t.Errorf("TypeCountsForUser(nil maps) = %+v", counts)
	}
}

func TestMissedMandatoryByEvent(t *testing.T) {
	directory := map[string]chapter.User{
		"alice@chapter.org": {Email: "alice@chapter.org"},
		"bob@chapter.org":   {Email: "bob@chapter.org"},
		"carol@chapter.org": {Email: "carol@chapter.org"},
		"dave@chapter.org":  {Email: "dave@chapter.org"},
	}
	rec := testRecords()
	mandatory := chapter.Event{ID: "e1", Mandatory: true, Start: now.Add(-24 * time.Hour)}

	missed := MissedMandatoryByEvent(directory, rec, mandatory, now)
	sort.Strings(missed)

	// Alice attended, bob has an approved excuse. Carol's excuse is only
	// pending, so she still counts as a miss, as does dave with no records.
	want := []string{"carol@chapter.org", "dave@chapter.org"}
	if len(missed) != len(want) {
		t.Fatalf("missed = %v, want %v", missed, want)
	}
	for i := range want {
		if missed[i] != want[i] {
			t.Fatalf("missed = %v, want %v", missed, want)
		}
	}

	// Approving carol's excuse removes her on the next recompute.
	rec.Excused["carol@chapter.org"] = map[string]chapter.ExcuseRecord{
		"e1": {ID: "x2", EventID: "e1", Email: "carol@chapter.org", Approved: boolPtr(true)},
	}
	missed = MissedMandatoryByEvent(directory, rec, mandatory, now)
	if len(missed) != 1 || missed[0] != "dave@chapter.org" {
		t.Errorf("after approval missed = %v, want only dave", missed)
	}

	// Future or optional events produce no misses.
	if got := MissedMandatoryByEvent(directory, rec, chapter.Event{ID: "e2", Mandatory: true, Start: now.Add(time.Hour)}, now); got != nil {
		t.Errorf("future event produced misses: %v", got)
	}
	if got := MissedMandatoryByEvent(directory, rec, chapter.Event{ID: "e3", Start: now.Add(-time.Hour)}, now); got != nil {
		t.Errorf("optional event produced misses: %v", got)
	}
}

func TestMissedMandatoryByUser(t *testing.T) {
	events := map[string]chapter.Event{
		"e1": {ID: "e1", Mandatory: true, Start: now.Add(-24 * time.Hour)},
		"e2": {ID: "e2", Mandatory: true, Start: now.Add(24 * time.Hour)},
		"e3": {ID: "e3", Mandatory: false, Start: now.Add(-24 * time.Hour)},
	}
	rec := testRecords()

	if got := MissedMandatoryByUser(events, rec, "alice@chapter.org", now); got != nil {
		t.Errorf("alice attended e1, got misses %v", got)
	}
	got := MissedMandatoryByUser(events, rec, "dave@chapter.org", now)
	if len(got) != 1 || got[0] != "e1" {
		t.Errorf("dave misses = %v, want [e1]", got)
	}
}
