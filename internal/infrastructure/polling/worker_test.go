package polling

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/voting"
	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/caching/stores"
)

type fakeSource struct {
	mu      sync.Mutex
	session *voting.Session
	votes   map[string][]voting.Vote
	calls   int
}

func (f *fakeSource) GetActiveSession(ctx context.Context) (*voting.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.session, nil
}

func (f *fakeSource) GetVotes(ctx context.Context, sessionID, candidateID string) ([]voting.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.votes[candidateID], nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestPollMergesCurrentCandidateVotes(t *testing.T) {
	cache := stores.NewVotingStore(nil)
	source := &fakeSource{
		session: &voting.Session{
			ID:                 "s1",
			Type:               voting.SessionTypeRegular,
			Active:             true,
			StartDate:          time.Now().UTC(),
			CandidateOrder:     []string{"c1", "c2"},
			CurrentCandidateID: "c1",
		},
		votes: map[string][]voting.Vote{
			"c1": {
				{ID: "v1", SessionID: "s1", CandidateID: "c1", UserEmail: "a@x.edu", Verdict: true},
				{ID: "v2", SessionID: "s1", CandidateID: "c1", UserEmail: "b@x.edu", Verdict: false, Reason: "too new"},
			},
		},
	}

	w := NewWorker(cache, source, nil, &Config{Interval: time.Millisecond}, nil)
	w.poll(context.Background())

	votes := cache.Votes()
	if got := len(votes["s1"]["c1"]); got != 2 {
		t.Fatalf("merged votes = %d, want 2", got)
	}
	if _, ok := cache.GetSession("s1"); !ok {
		t.Error("active session not merged into cache")
	}
}

func TestPollMultiSessionCoversWholeSlate(t *testing.T) {
	cache := stores.NewVotingStore(nil)
	source := &fakeSource{
		session: &voting.Session{
			ID:             "s2",
			Type:           voting.SessionTypeMulti,
			Active:         true,
			StartDate:      time.Now().UTC(),
			CandidateOrder: []string{"c1", "c2"},
		},
		votes: map[string][]voting.Vote{
			"c1": {{ID: "v1", SessionID: "s2", CandidateID: "c1", UserEmail: "a@x.edu", Verdict: true}},
			"c2": {{ID: "v2", SessionID: "s2", CandidateID: "c2", UserEmail: "a@x.edu", Verdict: true}},
		},
	}

	w := NewWorker(cache, source, nil, &Config{Interval: time.Millisecond}, nil)
	w.poll(context.Background())

	votes := cache.Votes()
	if len(votes["s2"]["c1"]) != 1 || len(votes["s2"]["c2"]) != 1 {
		t.Fatalf("expected votes for both candidates, got %+v", votes["s2"])
	}
}

func TestPollNoActiveSessionIsQuiet(t *testing.T) {
	cache := stores.NewVotingStore(nil)
	source := &fakeSource{}

	w := NewWorker(cache, source, nil, &Config{Interval: time.Millisecond}, nil)
	w.poll(context.Background())

	if got := len(cache.AllSessions()); got != 0 {
		t.Errorf("sessions cached = %d, want 0", got)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	cache := stores.NewVotingStore(nil)
	source := &fakeSource{}
	w := NewWorker(cache, source, nil, &Config{Interval: 5 * time.Millisecond}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	settled := source.callCount()
	time.Sleep(20 * time.Millisecond)
	if source.callCount() != settled {
		t.Error("worker kept polling after cancel")
	}
}
