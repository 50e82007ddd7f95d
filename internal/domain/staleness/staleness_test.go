package staleness

import (
	"testing"
	"time"
)

func TestShouldLoad(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	threshold := 5 * time.Minute

	tests := []struct {
		name    string
		history History
		key     string
		want    bool
	}{
		{
			name:    "no entry means load",
			history: History{},
			key:     KeyEvents,
			want:    true,
		},
		{
			name:    "fresh entry means skip",
			history: History{KeyEvents: now.Add(-time.Minute)},
			key:     KeyEvents,
			want:    false,
		},
		{
			name:    "entry exactly at threshold means skip",
			history: History{KeyEvents: now.Add(-threshold)},
			key:     KeyEvents,
			want:    false,
		},
		{
			name:    "entry past threshold means load",
			history: History{KeyEvents: now.Add(-threshold - time.Second)},
			key:     KeyEvents,
			want:    true,
		},
		{
			name:    "other keys do not count",
			history: History{KeyDirectory: now},
			key:     KeyEvents,
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldLoad(tt.history, tt.key, now, threshold); got != tt.want {
				t.Errorf("ShouldLoad(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestRecordSuccessMonotonicity(t *testing.T) {
	threshold := 5 * time.Minute
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	history := RecordSuccess(History{}, KeyEvents, start)

	if ShouldLoad(history, KeyEvents, start, threshold) {
		t.Error("key should be fresh immediately after RecordSuccess")
	}
	if ShouldLoad(history, KeyEvents, start.Add(threshold), threshold) {
		t.Error("key should stay fresh until the threshold elapses")
	}
	if !ShouldLoad(history, KeyEvents, start.Add(threshold+time.Second), threshold) {
		t.Error("key should be stale once the threshold has elapsed")
	}
}

func TestRecordSuccessDoesNotMutate(t *testing.T) {
	t0 := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	original := History{KeyEvents: t0}

	updated := RecordSuccess(original, KeyEvents, t0.Add(time.Hour))

	if !original[KeyEvents].Equal(t0) {
		t.Error("RecordSuccess mutated its input")
	}
	if !updated[KeyEvents].Equal(t0.Add(time.Hour)) {
		t.Error("RecordSuccess did not overwrite the entry in the result")
	}
}

func TestResourceKeys(t *testing.T) {
	if got := UserKey("a@x.org"); got != "user-a@x.org" {
		t.Errorf("UserKey = %q", got)
	}
	if got := PointsKey("a@x.org"); got != "points-a@x.org" {
		t.Errorf("PointsKey = %q", got)
	}
	if got := VotesKey("s1", "c1"); got != "votes-s1-c1" {
		t.Errorf("VotesKey = %q", got)
	}
}
