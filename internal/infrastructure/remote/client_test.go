package remote

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "test-token", 5*time.Second, nil, opts...)
	return client, server
}

func TestGetEventsSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/events" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		fmt.Fprint(w, `{"success":true,"data":{"events":[{"_id":"e1","title":"Chapter Meeting"},{"_id":"e2"}]}}`)
	})

	events, err := client.GetEvents(context.Background())
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if len(events) != 2 || events[0].ID != "e1" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestDomainErrorPassesMessageVerbatim(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"success":false,"error":{"message":"Already checked in to this event","code":409}}`)
	})

	_, err := client.CheckIn(context.Background(), "e1", "a@x.edu", "1234")
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Code != 409 || apiErr.Message != "Already checked in to this event" {
		t.Errorf("got %+v, want server message verbatim", apiErr)
	}
}

func TestUnauthorizedTriggersHook(t *testing.T) {
	var hookCalls int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"success":false,"error":{"message":"token invalid","code":401}}`)
	}, WithUnauthorizedHook(func() { hookCalls++ }))

	_, err := client.GetDirectory(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if hookCalls != 1 {
		t.Errorf("hook called %d times, want 1", hookCalls)
	}
}

func TestConnectivityFailureIsGeneric(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // force a dial failure
	client := NewClient(server.URL, "tok", time.Second, nil)

	_, err := client.GetEvents(context.Background())
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Code != http.StatusInternalServerError || apiErr.Message != connectivityMessage {
		t.Errorf("got %+v, want generic connectivity error", apiErr)
	}
}

// buildJWT assembles an unsigned-but-parseable token with the given expiry.
func buildJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	claims, err := json.Marshal(map[string]any{"exp": exp.Unix()})
	if err != nil {
		t.Fatal(err)
	}
	payload := base64.RawURLEncoding.EncodeToString(claims)
	signature := base64.RawURLEncoding.EncodeToString([]byte("sig"))
	return header + "." + payload + "." + signature
}

func TestExpiredTokenFailsFast(t *testing.T) {
	var requests int
	var hookCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	token := buildJWT(t, time.Now().Add(-time.Hour))
	client := NewClient(server.URL, token, time.Second, nil,
		WithUnauthorizedHook(func() { hookCalls++ }))

	_, err := client.GetEvents(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if requests != 0 {
		t.Errorf("server saw %d requests, want 0", requests)
	}
	if hookCalls != 1 {
		t.Errorf("hook called %d times, want 1", hookCalls)
	}
}

func TestValidTokenIsSent(t *testing.T) {
	token := buildJWT(t, time.Now().Add(time.Hour))
	var seen string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"success":true,"data":{"events":[]}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, token, time.Second, nil)
	if _, err := client.GetEvents(context.Background()); err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if seen != "Bearer "+token {
		t.Errorf("Authorization = %q", seen)
	}
}

func TestActiveSessionAbsent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":{"session":null}}`)
	})

	session, err := client.GetActiveSession(context.Background())
	if err != nil {
		t.Fatalf("GetActiveSession: %v", err)
	}
	if session != nil {
		t.Errorf("expected nil session, got %+v", session)
	}
}
