package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestHTTPClientListSessions verifies the client asks for the full history
// and parses the session array.
func TestHTTPClientListSessions(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("period"); got != "all" {
				t.Errorf("period=%q, want all", got)
			}
			writeTestJSON(t, w, []models.WorkoutSession{
				{ID: "s1", Date: time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC), DayType: models.Day2, Exercises: []models.ExerciseProgress{}},
			})
		},
	})
	defer ts.Close()

	sessions, err := NewHTTPClient(ts.URL + "/").ListSessions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].ID != "s1" || sessions[0].DayType != models.Day2 {
		t.Errorf("sessions = %+v", sessions)
	}
}

// TestHTTPClientGetSettings verifies missing fields keep their defaults.
func TestHTTPClientGetSettings(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/settings": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"bodyWeight":181}`))
		},
	})
	defer ts.Close()

	settings, err := NewHTTPClient(ts.URL).GetSettings(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if settings.BodyWeight != 181 || !settings.WeekStartsWithDay1 {
		t.Errorf("settings = %+v", settings)
	}
}

// TestHTTPClientErrorStatus verifies non-200 responses become errors.
func TestHTTPClientErrorStatus(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"/api/v1/settings": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		},
	})
	defer ts.Close()

	c := NewHTTPClient(ts.URL)
	if _, err := c.ListSessions(context.Background()); err == nil {
		t.Error("expected error for 500 response")
	}
	if _, err := c.GetSettings(context.Background()); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
