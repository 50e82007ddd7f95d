package services

import (
	"sort"
	"time"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/ballot"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/voting"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/views"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/caching/interfaces"
)

// StateService assembles composite read views over cached state. Everything
// here is a pure read; nothing touches the server.
type StateService struct {
	cache interfaces.Cache
}

// NewStateService creates a new state read service.
func NewStateService(cache interfaces.Cache) *StateService {
	return &StateService{cache: cache}
}

// MemberView is the per-member dashboard aggregate.
type MemberView struct {
	User            chapter.User                        `json:"user"`
	Attended        map[string]chapter.AttendanceRecord `json:"attended"`
	Excused         map[string]chapter.ExcuseRecord     `json:"excused"`
	Points          chapter.PointLedger                 `json:"points"`
	PointsTotal     int                                 `json:"pointsTotal"`
	MissedMandatory []string                            `json:"missedMandatory"`
}

// MemberView builds the dashboard aggregate for one member from whatever is
// currently cached.
func (s *StateService) MemberView(email string, now time.Time) (MemberView, bool) {
	user, ok := s.cache.GetUser(email)
	if !ok {
		return MemberView{}, false
	}
	attended, excused := s.cache.UserRecords(email)
	ledger, _ := s.cache.GetLedger(email)
	return MemberView{
		User:            user,
		Attended:        attended,
		Excused:         excused,
		Points:          ledger,
		PointsTotal:     views.PointsTotal(ledger),
		MissedMandatory: views.MissedMandatoryByUser(s.cache.AllEvents(), s.cache.Records(), email, now),
	}, true
}

// Directory returns every cached member, sorted by email for stable output.
func (s *StateService) Directory() []chapter.User {
	users := s.cache.AllUsers()
	out := make([]chapter.User, 0, len(users))
	for _, user := range users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

// EventSections returns the calendar-day grouping of cached events.
func (s *StateService) EventSections(upcomingOnly bool, now time.Time) []views.EventSection {
	return views.BuildSections(s.cache.AllEvents(), upcomingOnly, now)
}

// EventDetail is the per-event aggregate for operators.
type EventDetail struct {
	Event           chapter.Event      `json:"event"`
	Counts          views.RecordCounts `json:"counts"`
	MissedMandatory []string           `json:"missedMandatory"`
}

// EventDetail builds the operator view of one event.
func (s *StateService) EventDetail(eventID string, now time.Time) (EventDetail, bool) {
	event, ok := s.cache.GetEvent(eventID)
	if !ok {
		return EventDetail{}, false
	}
	records := s.cache.Records()
	return EventDetail{
		Event:           event,
		Counts:          views.EventRecordCounts(records, eventID),
		MissedMandatory: views.MissedMandatoryByEvent(s.cache.AllUsers(), records, event, now),
	}, true
}

// VotingView is the live voting aggregate pushed to ballot screens.
type VotingView struct {
	Session          voting.Session    `json:"session"`
	Phase            ballot.Phase      `json:"phase"`
	CurrentCandidate *voting.Candidate `json:"currentCandidate,omitempty"`
	Tally            ballot.TallyResult `json:"tally"`
	HasVoted         bool              `json:"hasVoted"`
}

// VotingView builds the live view of the active session for one viewer.
// Returns false when no session is active.
func (s *StateService) VotingView(viewerEmail string) (VotingView, bool) {
	session, ok := ballot.ActiveSession(s.cache.AllSessions())
	if !ok {
		return VotingView{}, false
	}

	voteSet := s.cache.Votes()
	view := VotingView{
		Session: session,
		Phase:   ballot.SessionPhase(session),
	}

	if session.Type == voting.SessionTypeMulti {
		view.HasVoted = ballot.HasSubmittedBatch(session, voteSet, viewerEmail)
	} else {
		view.HasVoted = ballot.HasVotedOnCurrent(session, voteSet, viewerEmail)
		if candidate, found := ballot.CurrentCandidate(session, s.cache.AllCandidates()); found {
			view.CurrentCandidate = &candidate
			view.Tally = ballot.Tally(ballot.VotesFor(voteSet, session.ID, candidate.ID, nil))
		}
	}
	return view, true
}

// CandidateTally returns the tally for one candidate in one session, active
// or not.
func (s *StateService) CandidateTally(sessionID, candidateID string) ballot.TallyResult {
	return ballot.Tally(ballot.VotesFor(s.cache.Votes(), sessionID, candidateID, nil))
}
