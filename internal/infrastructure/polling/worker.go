// Package polling provides the background worker that keeps live vote state
// current while a session is running.
package polling

import (
	"context"
	"time"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/voting"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/caching/interfaces"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/messaging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/metrics"
)

// VoteSource is the slice of the chapter API the poller needs.
type VoteSource interface {
	GetActiveSession(ctx context.Context) (*voting.Session, error)
	GetVotes(ctx context.Context, sessionID, candidateID string) ([]voting.Vote, error)
}

// Worker polls live votes for the active session on a fixed interval. It is
// merge-only: overlapping or out-of-order poll results can never lose votes
// because the cache merge is additive.
type Worker struct {
	cache       interfaces.VotingCache
	source      VoteSource
	broadcaster *messaging.Broadcaster
	config      *Config
	logger      *logging.ChanneledLogger
}

// NewWorker creates a new vote poller with injected configuration.
func NewWorker(cache interfaces.VotingCache, source VoteSource, broadcaster *messaging.Broadcaster, config *Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		cache:       cache,
		source:      source,
		broadcaster: broadcaster,
		config:      config,
		logger:      logger,
	}
}

// Start begins the poll loop, using the configured interval. It returns when
// ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	if w.logger != nil {
		w.logger.Voting().Info("Vote poller started", "interval", w.config.Interval, "verbose", w.config.VerboseReporting)
	}

	for {
		select {
		case <-ctx.Done():
			if w.logger != nil {
				w.logger.Voting().Info("Vote poller stopping")
			}
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll runs one iteration: find the active session, fetch votes for the
// candidates in play, merge them, and broadcast if anything was in play.
func (w *Worker) poll(ctx context.Context) {
	start := time.Now()

	session, err := w.source.GetActiveSession(ctx)
	if err != nil {
		metrics.VotePollTicks.WithLabelValues(metrics.OutcomeError).Inc()
		if w.logger != nil {
			w.logger.Voting().Warn("Vote poll failed to resolve active session", "error", err.Error())
		}
		return
	}
	if session == nil {
		metrics.VotePollTicks.WithLabelValues(metrics.OutcomeSuccess).Inc()
		return
	}

	w.cache.MergeSessions([]voting.Session{*session})

	candidateIDs := w.candidatesInPlay(session)
	for _, candidateID := range candidateIDs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		votes, err := w.source.GetVotes(ctx, session.ID, candidateID)
		if err != nil {
			metrics.VotePollTicks.WithLabelValues(metrics.OutcomeError).Inc()
			if w.logger != nil {
				w.logger.Voting().Warn("Vote poll fetch failed", "sessionId", session.ID, "candidateId", candidateID, "error", err.Error())
			}
			return
		}
		w.cache.MergeVotes(votes)
	}

	if len(candidateIDs) > 0 && w.broadcaster != nil {
		w.broadcaster.Broadcast(messaging.TopicVotesUpdated, map[string]string{
			"sessionId":   session.ID,
			"candidateId": session.CurrentCandidateID,
		})
	}

	metrics.VotePollTicks.WithLabelValues(metrics.OutcomeSuccess).Inc()
	if w.config.VerboseReporting && w.logger != nil {
		w.logger.Voting().Debug("Vote poll completed",
			"sessionId", session.ID, "candidates", len(candidateIDs), "duration", time.Since(start))
	}
}

// candidatesInPlay returns the candidate ids whose votes this tick should
// refresh. REGULAR sessions only move one candidate at a time; MULTI sessions
// accept ballots against the whole slate.
func (w *Worker) candidatesInPlay(session *voting.Session) []string {
	if session.Type == voting.SessionTypeMulti {
		return session.CandidateOrder
	}
	if session.CurrentCandidateID != "" {
		return []string{session.CurrentCandidateID}
	}
	return nil
}
