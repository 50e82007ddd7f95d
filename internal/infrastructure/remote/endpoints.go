package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/voting"
)

// GetEvents fetches every chapter event.
func (c *Client) GetEvents(ctx context.Context) ([]chapter.Event, error) {
	var out struct {
		Events []chapter.Event `json:"events"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/events", nil, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

// GetDirectory fetches the full member directory.
func (c *Client) GetDirectory(ctx context.Context) ([]chapter.User, error) {
	var out struct {
		Users []chapter.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/users", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// GetUser fetches a single member by email.
func (c *Client) GetUser(ctx context.Context, email string) (chapter.User, error) {
	var out struct {
		User chapter.User `json:"user"`
	}
	path := "/api/v1/users/" + url.PathEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return chapter.User{}, err
	}
	return out.User, nil
}

// GetAttendanceByUser fetches one member's attendance records.
func (c *Client) GetAttendanceByUser(ctx context.Context, email string) ([]chapter.AttendanceRecord, error) {
	var out struct {
		Attendance []chapter.AttendanceRecord `json:"attendance"`
	}
	path := "/api/v1/attendance/user/" + url.PathEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Attendance, nil
}

// GetAttendanceByEvent fetches every attendance record for one event.
func (c *Client) GetAttendanceByEvent(ctx context.Context, eventID string) ([]chapter.AttendanceRecord, error) {
	var out struct {
		Attendance []chapter.AttendanceRecord `json:"attendance"`
	}
	path := "/api/v1/attendance/event/" + url.PathEscape(eventID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Attendance, nil
}

// GetExcusesByUser fetches one member's excuse records.
func (c *Client) GetExcusesByUser(ctx context.Context, email string) ([]chapter.ExcuseRecord, error) {
	var out struct {
		Excuses []chapter.ExcuseRecord `json:"excuses"`
	}
	path := "/api/v1/excuses/user/" + url.PathEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Excuses, nil
}

// GetExcusesByEvent fetches every excuse filed against one event.
func (c *Client) GetExcusesByEvent(ctx context.Context, eventID string) ([]chapter.ExcuseRecord, error) {
	var out struct {
		Excuses []chapter.ExcuseRecord `json:"excuses"`
	}
	path := "/api/v1/excuses/event/" + url.PathEscape(eventID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Excuses, nil
}

// GetPoints fetches one member's point ledger.
func (c *Client) GetPoints(ctx context.Context, email string) (chapter.PointLedger, error) {
	var out struct {
		Points chapter.PointLedger `json:"points"`
	}
	path := "/api/v1/points/" + url.PathEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Points, nil
}

// CheckIn records attendance for an event using its check-in code.
func (c *Client) CheckIn(ctx context.Context, eventID, email, code string) (chapter.AttendanceRecord, error) {
	body := map[string]string{"eventId": eventID, "email": email, "code": code}
	var out struct {
		Record chapter.AttendanceRecord `json:"record"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/attendance/check-in", body, &out); err != nil {
		return chapter.AttendanceRecord{}, err
	}
	return out.Record, nil
}

// SubmitExcuse files an excuse request for an event.
func (c *Client) SubmitExcuse(ctx context.Context, eventID, email, reason string) (chapter.ExcuseRecord, error) {
	body := map[string]string{"eventId": eventID, "email": email, "reason": reason}
	var out struct {
		Excuse chapter.ExcuseRecord `json:"excuse"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/excuses", body, &out); err != nil {
		return chapter.ExcuseRecord{}, err
	}
	return out.Excuse, nil
}

// ReviewExcuse approves or denies a pending excuse.
func (c *Client) ReviewExcuse(ctx context.Context, excuseID string, approved bool) (chapter.ExcuseRecord, error) {
	body := map[string]any{"approved": approved}
	var out struct {
		Excuse chapter.ExcuseRecord `json:"excuse"`
	}
	path := "/api/v1/excuses/" + url.PathEscape(excuseID) + "/review"
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return chapter.ExcuseRecord{}, err
	}
	return out.Excuse, nil
}

// CreateEvent creates a chapter event and returns the stored version.
func (c *Client) CreateEvent(ctx context.Context, event chapter.Event) (chapter.Event, error) {
	var out struct {
		Event chapter.Event `json:"event"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/events", event, &out); err != nil {
		return chapter.Event{}, err
	}
	return out.Event, nil
}

// UpdateEvent replaces an existing event.
func (c *Client) UpdateEvent(ctx context.Context, event chapter.Event) (chapter.Event, error) {
	var out struct {
		Event chapter.Event `json:"event"`
	}
	path := "/api/v1/events/" + url.PathEscape(event.ID)
	if err := c.do(ctx, http.MethodPut, path, event, &out); err != nil {
		return chapter.Event{}, err
	}
	return out.Event, nil
}

// DeleteEvent removes an event server-side.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	path := "/api/v1/events/" + url.PathEscape(eventID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// GetCandidates fetches every voting candidate.
func (c *Client) GetCandidates(ctx context.Context) ([]voting.Candidate, error) {
	var out struct {
		Candidates []voting.Candidate `json:"candidates"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/voting/candidates", nil, &out); err != nil {
		return nil, err
	}
	return out.Candidates, nil
}

// GetSessions fetches every voting session.
func (c *Client) GetSessions(ctx context.Context) ([]voting.Session, error) {
	var out struct {
		Sessions []voting.Session `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/voting/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// GetVotes fetches the votes cast for one candidate in one session.
func (c *Client) GetVotes(ctx context.Context, sessionID, candidateID string) ([]voting.Vote, error) {
	var out struct {
		Votes []voting.Vote `json:"votes"`
	}
	path := fmt.Sprintf("/api/v1/voting/sessions/%s/candidates/%s/votes",
		url.PathEscape(sessionID), url.PathEscape(candidateID))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Votes, nil
}

// GetActiveSession fetches the currently running session, if any. A nil
// session with a nil error means nothing is active.
func (c *Client) GetActiveSession(ctx context.Context) (*voting.Session, error) {
	var out struct {
		Session *voting.Session `json:"session"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/voting/sessions/active", nil, &out); err != nil {
		return nil, err
	}
	return out.Session, nil
}

// SubmitVote casts a regular verdict vote on the current candidate.
func (c *Client) SubmitVote(ctx context.Context, vote voting.Vote) (voting.Vote, error) {
	var out struct {
		Vote voting.Vote `json:"vote"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/voting/votes", vote, &out); err != nil {
		return voting.Vote{}, err
	}
	return out.Vote, nil
}

// SubmitMultiBallot casts one member's selections for a MULTI session.
func (c *Client) SubmitMultiBallot(ctx context.Context, sessionID, email string, candidateIDs []string) ([]voting.Vote, error) {
	body := map[string]any{"sessionId": sessionID, "email": email, "candidateIds": candidateIDs}
	var out struct {
		Votes []voting.Vote `json:"votes"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/voting/ballots", body, &out); err != nil {
		return nil, err
	}
	return out.Votes, nil
}

// StartSession activates a voting session.
func (c *Client) StartSession(ctx context.Context, sessionID, operatorEmail string) (voting.Session, error) {
	body := map[string]string{"operatorEmail": operatorEmail}
	var out struct {
		Session voting.Session `json:"session"`
	}
	path := "/api/v1/voting/sessions/" + url.PathEscape(sessionID) + "/start"
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return voting.Session{}, err
	}
	return out.Session, nil
}

// StopSession ends a voting session.
func (c *Client) StopSession(ctx context.Context, sessionID string) (voting.Session, error) {
	var out struct {
		Session voting.Session `json:"session"`
	}
	path := "/api/v1/voting/sessions/" + url.PathEscape(sessionID) + "/stop"
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return voting.Session{}, err
	}
	return out.Session, nil
}

// AdvanceSession moves a REGULAR session to its next candidate.
func (c *Client) AdvanceSession(ctx context.Context, sessionID, candidateID string) (voting.Session, error) {
	body := map[string]string{"candidateId": candidateID}
	var out struct {
		Session voting.Session `json:"session"`
	}
	path := "/api/v1/voting/sessions/" + url.PathEscape(sessionID) + "/advance"
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return voting.Session{}, err
	}
	return out.Session, nil
}
