// Package chapter defines the application's core chapter domain entities.
package chapter

import "time"

// User is a chapter member, keyed by email across the whole model.
type User struct {
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Role       string `json:"role"`
	Privileged bool   `json:"privileged"`
	FirstYear  int    `json:"firstYear"`
	GradYear   int    `json:"gradYear"`
}

// FullName returns the user's display name.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Event is a chapter event, keyed by its server-assigned ID. Points awards are
// sparse per category; a missing category reads as zero.
type Event struct {
	ID          string         `json:"_id"`
	Title       string         `json:"title"`
	EventType   string         `json:"eventType"`
	Mandatory   bool           `json:"mandatory"`
	Excusable   bool           `json:"excusable"`
	Start       time.Time      `json:"start"`
	Duration    int            `json:"duration"` // minutes
	Points      map[string]int `json:"points,omitempty"`
	Description string         `json:"description,omitempty"`
	Location    string         `json:"location,omitempty"`
	CheckInCode string         `json:"checkInCode,omitempty"`
	Link        string         `json:"link,omitempty"`
}

// End returns the event's end time.
func (e Event) End() time.Time {
	return e.Start.Add(time.Duration(e.Duration) * time.Minute)
}

// AttendanceRecord states that a user attended an event. Existence is the
// signal; there is no absent record.
type AttendanceRecord struct {
	ID      string `json:"_id"`
	EventID string `json:"eventId"`
	Email   string `json:"email"`
}

// ExcuseRecord is a user's excuse for an event. Approved is tri-state: nil
// means the excuse is still pending review.
type ExcuseRecord struct {
	ID       string `json:"_id"`
	EventID  string `json:"eventId"`
	Email    string `json:"email"`
	Reason   string `json:"reason,omitempty"`
	Approved *bool  `json:"approved,omitempty"`
	Late     bool   `json:"late"`
}

// Pending reports whether the excuse has not yet been reviewed.
func (x ExcuseRecord) Pending() bool {
	return x.Approved == nil
}

// IsApproved reports whether the excuse was reviewed and approved.
func (x ExcuseRecord) IsApproved() bool {
	return x.Approved != nil && *x.Approved
}

// PointLedger is one user's sparse per-category point totals.
type PointLedger map[string]int

// Records is the two-level attendance/excuse aggregate, outer-keyed by email
// and inner-keyed by event ID. For a given (email, eventID) at most one
// attendance and at most one excuse are present; both may coexist transiently
// until the caller reconciles them.
type Records struct {
	Attended map[string]map[string]AttendanceRecord `json:"attended"`
	Excused  map[string]map[string]ExcuseRecord     `json:"excused"`
}

// NewRecords returns an empty aggregate with both levels allocated.
func NewRecords() Records {
	return Records{
		Attended: make(map[string]map[string]AttendanceRecord),
		Excused:  make(map[string]map[string]ExcuseRecord),
	}
}
