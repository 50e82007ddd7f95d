// Package staleness decides when cached resources are due for a refetch.
//
// History maps a resource key to the time of its last successful fetch. The
// package is pure: RecordSuccess returns a new History, and ShouldLoad takes
// the clock as an argument. In-flight deduplication is deliberately out of
// scope here; the sync coordinator owns that.
package staleness

import "time"

// History maps resource keys to last-successful-fetch timestamps. Entries are
// created on first success, overwritten on every later success, and never
// deleted for the life of the process.
type History map[string]time.Time

// Well-known resource key builders. Keys name what was fetched, scoped by the
// identifier the fetch was issued for.
const (
	KeyEvents     = "events"
	KeyDirectory  = "directory"
	KeyCandidates = "candidates"
	KeySessions   = "sessions"
)

// UserKey is the key for one user's profile fetch.
func UserKey(email string) string { return "user-" + email }

// EventKey is the key for one event's detail fetch.
func EventKey(eventID string) string { return "event-" + eventID }

// PointsKey is the key for one user's point totals.
func PointsKey(email string) string { return "points-" + email }

// AttendanceKey is the key for one user's attendance/excuse records.
func AttendanceKey(email string) string { return "attendance-" + email }

// VotesKey is the key for one session/candidate vote list.
func VotesKey(sessionID, candidateID string) string {
	return "votes-" + sessionID + "-" + candidateID
}

// ShouldLoad reports whether key has never been fetched, or its last success
// is older than threshold at time now.
func ShouldLoad(history History, key string, now time.Time, threshold time.Duration) bool {
	last, ok := history[key]
	if !ok {
		return true
	}
	return now.Sub(last) > threshold
}

// RecordSuccess returns a new History with key stamped at ts. The input is
// never mutated.
func RecordSuccess(history History, key string, ts time.Time) History {
	next := make(History, len(history)+1)
	for k, v := range history {
		next[k] = v
	}
	next[key] = ts
	return next
}
