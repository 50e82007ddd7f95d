// Package views derives read-only projections from the normalized chapter
// state. Every function here is pure; inputs are never mutated.
package views

import (
	"time"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
)

// GetAttendance looks up one user's attendance record for one event.
func GetAttendance(records chapter.Records, email, eventID string) (chapter.AttendanceRecord, bool) {
	rec, ok := records.Attended[email][eventID]
	return rec, ok
}

// GetExcuse looks up one user's excuse record for one event.
func GetExcuse(records chapter.Records, email, eventID string) (chapter.ExcuseRecord, bool) {
	rec, ok := records.Excused[email][eventID]
	return rec, ok
}

// HasValidCheckIn reports whether the user already has an attendance record
// for the event, or, when includeExcused is set, an excuse record in any
// approval state. Screens use this to filter events still open for check-in
// or excuse requests.
func HasValidCheckIn(records chapter.Records, email, eventID string, includeExcused bool) bool {
	if _, ok := records.Attended[email][eventID]; ok {
		return true
	}
	if !includeExcused {
		return false
	}
	_, ok := records.Excused[email][eventID]
	return ok
}

// RecordCounts tallies one event's records across the whole directory.
type RecordCounts struct {
	Attended int `json:"attended"`
	Excused  int `json:"excused"` // approved excuses only
	Pending  int `json:"pending"` // excuses awaiting review
}

// EventRecordCounts scans all users' records for one event. Linear in
// directory size, which is fine at chapter scale.
func EventRecordCounts(records chapter.Records, eventID string) RecordCounts {
	var counts RecordCounts
	for _, byEvent := range records.Attended {
		if _, ok := byEvent[eventID]; ok {
			counts.Attended++
		}
	}
	for _, byEvent := range records.Excused {
		excuse, ok := byEvent[eventID]
		if !ok {
			continue
		}
		if excuse.IsApproved() {
			counts.Excused++
		} else if excuse.Pending() {
			counts.Pending++
		}
	}
	return counts
}

// TypeCounts is one user's standing against one event category.
type TypeCounts struct {
	Total    int `json:"total"`
	Attended int `json:"attended"`
	Excused  int `json:"excused"`
	Pending  int `json:"pending"`
}

// TypeCountsForUser restricts record counting to one event category for one
// user. attended and excused are the user's inner record maps; either may be
// nil. Feeds segment bars and point-requirement tracking.
func TypeCountsForUser(events map[string]chapter.Event, attended map[string]chapter.AttendanceRecord, excused map[string]chapter.ExcuseRecord, eventType string) TypeCounts {
	var counts TypeCounts
	for id, event := range events {
		if event.EventType != eventType {
			continue
		}
		counts.Total++
		if _, ok := attended[id]; ok {
			counts.Attended++
			continue
		}
		if excuse, ok := excused[id]; ok {
			if excuse.IsApproved() {
				counts.Excused++
			} else if excuse.Pending() {
				counts.Pending++
			}
		}
	}
	return counts
}

// missed reports whether one (user, event) pair counts as a mandatory miss at
// time now: the event is mandatory and already started, the user has no
// attendance record, and no approved excuse. A pending excuse does not
// suppress the miss until it is approved.
func missed(records chapter.Records, email string, event chapter.Event, now time.Time) bool {
	if !event.Mandatory || !event.Start.Before(now) {
		return false
	}
	if _, ok := records.Attended[email][event.ID]; ok {
		return false
	}
	if excuse, ok := records.Excused[email][event.ID]; ok && excuse.IsApproved() {
		return false
	}
	return true
}

// MissedMandatoryByEvent returns the emails of directory members who missed
// one mandatory past event. Returns nil for non-mandatory or future events.
func MissedMandatoryByEvent(directory map[string]chapter.User, records chapter.Records, event chapter.Event, now time.Time) []string {
	if !event.Mandatory || !event.Start.Before(now) {
		return nil
	}
	var emails []string
	for email := range directory {
		if missed(records, email, event, now) {
			emails = append(emails, email)
		}
	}
	return emails
}

// MissedMandatoryByUser returns the IDs of mandatory past events one user has
// missed.
func MissedMandatoryByUser(events map[string]chapter.Event, records chapter.Records, email string, now time.Time) []string {
	var ids []string
	for id, event := range events {
		if missed(records, email, event, now) {
			ids = append(ids, id)
		}
	}
	return ids
}
