package services

import (
	"context"
	"fmt"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/ballot"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/voting"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/caching/interfaces"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/messaging"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
)

// VotingWriter is the write slice of the chapter API for voting actions.
type VotingWriter interface {
	SubmitVote(ctx context.Context, vote voting.Vote) (voting.Vote, error)
	SubmitMultiBallot(ctx context.Context, sessionID, email string, candidateIDs []string) ([]voting.Vote, error)
	StartSession(ctx context.Context, sessionID, operatorEmail string) (voting.Session, error)
	StopSession(ctx context.Context, sessionID string) (voting.Session, error)
	AdvanceSession(ctx context.Context, sessionID, candidateID string) (voting.Session, error)
}

// VotingService validates ballots against cached session state before
// dispatching them, then folds the server's authoritative records back in.
// Local validation is a fast path only; the server remains the arbiter.
type VotingService struct {
	cache       interfaces.Cache
	api         VotingWriter
	broadcaster *messaging.Broadcaster
	logger      *logging.ChanneledLogger
}

// NewVotingService creates a new voting application service.
func NewVotingService(cache interfaces.Cache, api VotingWriter, broadcaster *messaging.Broadcaster, logger *logging.ChanneledLogger) *VotingService {
	return &VotingService{
		cache:       cache,
		api:         api,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (s *VotingService) session(sessionID string) (voting.Session, error) {
	session, ok := s.cache.GetSession(sessionID)
	if !ok {
		return voting.Session{}, fmt.Errorf("unknown session %s", sessionID)
	}
	return session, nil
}

// CastVote submits one up/down verdict on the current candidate of a REGULAR
// session.
func (s *VotingService) CastVote(ctx context.Context, sessionID, candidateID, email string, verdict bool, reason string) (voting.Vote, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return voting.Vote{}, err
	}
	if err := ballot.ValidateRegularBallot(session, candidateID, verdict, reason); err != nil {
		return voting.Vote{}, err
	}

	vote, err := s.api.SubmitVote(ctx, voting.Vote{
		SessionID:   sessionID,
		CandidateID: candidateID,
		UserEmail:   email,
		Verdict:     verdict,
		Reason:      reason,
	})
	if err != nil {
		return voting.Vote{}, err
	}
	s.cache.MergeVotes([]voting.Vote{vote})
	s.notifyVotes(sessionID, candidateID)
	return vote, nil
}

// CastMultiBallot submits one member's whole selection for a MULTI session.
func (s *VotingService) CastMultiBallot(ctx context.Context, sessionID, email string, candidateIDs []string) ([]voting.Vote, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := ballot.ValidateMultiBallot(session, candidateIDs); err != nil {
		return nil, err
	}

	votes, err := s.api.SubmitMultiBallot(ctx, sessionID, email, candidateIDs)
	if err != nil {
		return nil, err
	}
	s.cache.MergeVotes(votes)
	s.notifyVotes(sessionID, "")
	return votes, nil
}

// StartSession activates a session and records the operator running it.
func (s *VotingService) StartSession(ctx context.Context, sessionID, operatorEmail string) (voting.Session, error) {
	session, err := s.api.StartSession(ctx, sessionID, operatorEmail)
	if err != nil {
		return voting.Session{}, err
	}
	s.cache.MergeSessions([]voting.Session{session})
	s.notifySession(session)
	return session, nil
}

// StopSession ends a session. Its votes and candidate order survive in state.
func (s *VotingService) StopSession(ctx context.Context, sessionID string) (voting.Session, error) {
	session, err := s.api.StopSession(ctx, sessionID)
	if err != nil {
		return voting.Session{}, err
	}
	s.cache.MergeSessions([]voting.Session{session})
	s.notifySession(session)
	return session, nil
}

// AdvanceSession moves a REGULAR session to the next candidate in its order.
func (s *VotingService) AdvanceSession(ctx context.Context, sessionID string) (voting.Session, error) {
	current, err := s.session(sessionID)
	if err != nil {
		return voting.Session{}, err
	}
	if current.Type != voting.SessionTypeRegular {
		return voting.Session{}, ballot.ErrWrongSessionType
	}
	nextID, ok := ballot.NextCandidateID(current)
	if !ok {
		return voting.Session{}, fmt.Errorf("session %s has no next candidate", sessionID)
	}

	session, err := s.api.AdvanceSession(ctx, sessionID, nextID)
	if err != nil {
		return voting.Session{}, err
	}
	s.cache.MergeSessions([]voting.Session{session})
	s.notifySession(session)
	return session, nil
}

func (s *VotingService) notifyVotes(sessionID, candidateID string) {
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(messaging.TopicVotesUpdated, map[string]string{
			"sessionId":   sessionID,
			"candidateId": candidateID,
		})
	}
}

func (s *VotingService) notifySession(session voting.Session) {
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(messaging.TopicSessionChanged, map[string]string{
			"sessionId": session.ID,
			"phase":     string(ballot.SessionPhase(session)),
		})
	}
}
