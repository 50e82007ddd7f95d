// Package performance provides lightweight operation timing for request
// handlers and background workers.
package performance

import (
	"sync"
	"time"
)

// Marker represents a single performance measurement for an operation.
type Marker struct {
	Operation string        `json:"operation"` // e.g. "get_member_view", "cast_vote"
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Completed bool          `json:"completed"`

	tracker *Tracker
}

// Complete marks the operation as finished and records its duration.
func (m *Marker) Complete() {
	if m.Completed {
		return
	}
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true
	if m.tracker != nil {
		m.tracker.record(m)
	}
}

// SetError sets an error message and marks the operation as failed.
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

// Stats aggregates completed markers per operation.
type Stats struct {
	Count         int           `json:"count"`
	Failures      int           `json:"failures"`
	TotalDuration time.Duration `json:"totalDuration"`
	MaxDuration   time.Duration `json:"maxDuration"`
}

// Tracker records operation timings. Retention is bounded; old markers are
// folded into the per-operation aggregates and discarded.
type Tracker struct {
	mu         sync.Mutex
	recent     []*Marker
	maxRecent  int
	aggregates map[string]*Stats
}

// NewTracker creates a tracker retaining up to maxRecent completed markers.
func NewTracker(maxRecent int) *Tracker {
	if maxRecent <= 0 {
		maxRecent = 1000
	}
	return &Tracker{
		maxRecent:  maxRecent,
		aggregates: make(map[string]*Stats),
	}
}

// StartOperation begins timing one operation.
func (t *Tracker) StartOperation(operation string) *Marker {
	return &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Success:   true,
		tracker:   t,
	}
}

func (t *Tracker) record(m *Marker) {
	t.mu.Lock()
	defer t.mu.Unlock()

	agg, ok := t.aggregates[m.Operation]
	if !ok {
		agg = &Stats{}
		t.aggregates[m.Operation] = agg
	}
	agg.Count++
	if !m.Success {
		agg.Failures++
	}
	agg.TotalDuration += m.Duration
	if m.Duration > agg.MaxDuration {
		agg.MaxDuration = m.Duration
	}

	t.recent = append(t.recent, m)
	if len(t.recent) > t.maxRecent {
		t.recent = t.recent[len(t.recent)-t.maxRecent:]
	}
}

// Aggregates returns a copy of the per-operation stats.
func (t *Tracker) Aggregates() map[string]Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]Stats, len(t.aggregates))
	for op, agg := range t.aggregates {
		out[op] = *agg
	}
	return out
}
