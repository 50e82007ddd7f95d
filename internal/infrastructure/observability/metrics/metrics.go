// Package metrics registers the process-wide Prometheus collectors. The
// /metrics endpoint serves the default registry via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RemoteFetches counts chapter API fetches by resource and outcome.
	RemoteFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chapterdesk_remote_fetches_total",
		Help: "Chapter API fetches by resource and outcome.",
	}, []string{"resource", "outcome"})

	// FetchesSkipped counts loads suppressed by the staleness gate.
	FetchesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chapterdesk_fetches_skipped_total",
		Help: "Loads skipped because cached state was still fresh.",
	}, []string{"resource"})

	// StaleFetchesDropped counts fetch results discarded because a newer
	// fetch for the same key already landed.
	StaleFetchesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chapterdesk_stale_fetches_dropped_total",
		Help: "Fetch results discarded by the sequence guard.",
	})

	// VotePollTicks counts vote poller iterations by outcome.
	VotePollTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chapterdesk_vote_poll_ticks_total",
		Help: "Vote poller iterations by outcome.",
	}, []string{"outcome"})

	// SSEClients tracks currently connected event stream clients.
	SSEClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chapterdesk_sse_clients",
		Help: "Currently connected SSE clients.",
	})

	// SSEEventsSent counts broadcast events by topic.
	SSEEventsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chapterdesk_sse_events_sent_total",
		Help: "SSE events delivered by topic.",
	}, []string{"topic"})

	// SnapshotWrites counts snapshot persistence attempts by outcome.
	SnapshotWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chapterdesk_snapshot_writes_total",
		Help: "Snapshot store writes by outcome.",
	}, []string{"outcome"})
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)
