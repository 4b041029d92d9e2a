package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	sessions []models.WorkoutSession
	settings models.UserSettings
	err      error
}

func (f *fakeSource) ListSessions(context.Context) ([]models.WorkoutSession, error) {
	return f.sessions, f.err
}

func (f *fakeSource) GetSettings(context.Context) (models.UserSettings, error) {
	return f.settings, f.err
}

func newTestHandlers(ds DataSource) *handlers {
	return &handlers{
		ds:  ds,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: func() time.Time { return testNow },
	}
}

func sampleSessions() []models.WorkoutSession {
	d1, d2 := 50, 45
	return []models.WorkoutSession{
		{
			ID: "recent", Date: testNow.AddDate(0, 0, -2), DayType: models.Day1, Completed: true, Duration: &d1,
			Exercises: []models.ExerciseProgress{
				{ExerciseID: "hip-thrusts", CompletedSets: []models.CompletedSet{
					{Weight: 135, Reps: 30, Completed: true},
					{Weight: 155, Reps: 25, Completed: true},
				}},
			},
		},
		{
			ID: "old", Date: testNow.AddDate(0, 0, -20), DayType: models.Day2, Completed: true, Duration: &d2,
			Exercises: []models.ExerciseProgress{
				{ExerciseID: "lat-pulldown", CompletedSets: []models.CompletedSet{{Weight: 90, Reps: 15, Completed: true}}},
			},
		},
	}
}

func callTool(t *testing.T, fn func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := fn(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("content[0] is %T, want text", res.Content[0])
	return ""
}

func decodeResult[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	var v T
	if err := json.Unmarshal([]byte(resultText(t, res)), &v); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return v
}

// TestGetSessions verifies period filtering, the since bound and name resolution.
func TestGetSessions(t *testing.T) {
	h := newTestHandlers(&fakeSource{sessions: sampleSessions()})

	got := decodeResult[[]sessionSummary](t, callTool(t, h.getSessions, nil))
	if len(got) != 1 || got[0].ID != "recent" {
		t.Fatalf("default period sessions = %+v", got)
	}
	ex := got[0].Exercises[0]
	if ex.Name != "Barbell Hip Thrusts" || ex.TargetSets != 4 || len(ex.Sets) != 2 {
		t.Errorf("exercise summary = %+v", ex)
	}

	got = decodeResult[[]sessionSummary](t, callTool(t, h.getSessions, map[string]any{"period": "all"}))
	if len(got) != 2 {
		t.Errorf("all sessions = %d, want 2", len(got))
	}

	got = decodeResult[[]sessionSummary](t, callTool(t, h.getSessions, map[string]any{"period": "all", "since": "2026-06-01"}))
	if len(got) != 1 {
		t.Errorf("since-filtered sessions = %d, want 1", len(got))
	}

	for _, args := range []map[string]any{{"period": "year"}, {"since": "last tuesday"}} {
		if res := callTool(t, h.getSessions, args); !res.IsError {
			t.Errorf("args %v: expected tool error", args)
		}
	}
}

// TestGetStats verifies aggregation over the requested period.
func TestGetStats(t *testing.T) {
	h := newTestHandlers(&fakeSource{sessions: sampleSessions()})

	got := decodeResult[map[string]any](t, callTool(t, h.getStats, map[string]any{"period": "month"}))
	stats := got["stats"].(map[string]any)
	if stats["totalWorkouts"].(float64) != 2 || stats["totalTimeMinutes"].(float64) != 95 {
		t.Errorf("stats = %v", stats)
	}
	if got["total_time"] != "1h 35m" || got["this_week_count"].(float64) != 1 {
		t.Errorf("result = %v", got)
	}
}

// TestGetLastSet verifies the last set lookup and the no-history message.
func TestGetLastSet(t *testing.T) {
	h := newTestHandlers(&fakeSource{sessions: sampleSessions()})

	got := decodeResult[map[string]any](t, callTool(t, h.getLastSet, map[string]any{"exercise": "hip-thrusts"}))
	if got["weight"].(float64) != 155 || got["reps"].(float64) != 25 {
		t.Errorf("last set = %v", got)
	}

	res := callTool(t, h.getLastSet, map[string]any{"exercise": "chest-fly"})
	if res.IsError || !strings.Contains(resultText(t, res), "No sets logged") {
		t.Errorf("missing history result = %q", resultText(t, res))
	}

	if res := callTool(t, h.getLastSet, nil); !res.IsError {
		t.Error("expected error without exercise")
	}
}

// TestGetNextWorkoutDay verifies the suggestion follows the stored settings.
func TestGetNextWorkoutDay(t *testing.T) {
	last := testNow.AddDate(0, 0, -1)
	h := newTestHandlers(&fakeSource{settings: models.UserSettings{
		BodyWeight: 150, WeekStartsWithDay1: true, LastWorkoutDate: &last, LastWorkoutType: models.Day1,
	}})

	got := decodeResult[map[string]any](t, callTool(t, h.getNextWorkoutDay, nil))
	if got["day_type"] != "Day2" || got["last_workout_type"] != "Day1" {
		t.Errorf("next day = %v", got)
	}

	h = newTestHandlers(&fakeSource{settings: models.DefaultSettings()})
	got = decodeResult[map[string]any](t, callTool(t, h.getNextWorkoutDay, nil))
	if got["day_type"] != "Day1" {
		t.Errorf("first workout = %v, want Day1", got["day_type"])
	}
	if _, ok := got["last_workout_date"]; ok {
		t.Error("last_workout_date present without history")
	}
}

// TestGetWeeklyCount verifies only the trailing seven days are counted.
func TestGetWeeklyCount(t *testing.T) {
	h := newTestHandlers(&fakeSource{sessions: sampleSessions()})
	got := decodeResult[map[string]int](t, callTool(t, h.getWeeklyCount, nil))
	if got["count"] != 1 {
		t.Errorf("count = %d, want 1", got["count"])
	}
}

// TestGetPlan verifies the plan tool for one day, both days and a bad day.
func TestGetPlan(t *testing.T) {
	h := newTestHandlers(&fakeSource{})

	both := decodeResult[[]planDay](t, callTool(t, h.getPlan, nil))
	if len(both) != 2 || len(both[0].Exercises) != 8 || len(both[1].Exercises) != 7 {
		t.Errorf("plan = %+v", both)
	}

	one := decodeResult[[]planDay](t, callTool(t, h.getPlan, map[string]any{"day": "Day2"}))
	if len(one) != 1 || one[0].Title != "Back, Shoulders, Biceps, Abs" {
		t.Errorf("Day2 plan = %+v", one)
	}

	if res := callTool(t, h.getPlan, map[string]any{"day": "Day3"}); !res.IsError {
		t.Error("expected error for unknown day")
	}
}

// TestToolSourceError verifies data source failures become tool errors.
func TestToolSourceError(t *testing.T) {
	h := newTestHandlers(&fakeSource{err: errors.New("connection refused")})
	tools := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"get_sessions":         h.getSessions,
		"get_stats":            h.getStats,
		"get_next_workout_day": h.getNextWorkoutDay,
		"get_weekly_count":     h.getWeeklyCount,
	}
	for name, fn := range tools {
		if res := callTool(t, fn, nil); !res.IsError {
			t.Errorf("%s: expected tool error", name)
		}
	}
}

// TestResources verifies both resources return JSON for the requested URI.
func TestResources(t *testing.T) {
	h := newTestHandlers(&fakeSource{sessions: sampleSessions()})

	var req mcp.ReadResourceRequest
	req.Params.URI = "liftlog://recent_sessions"
	contents, err := h.recentSessions(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents)
	if text.URI != req.Params.URI || text.MIMEType != "application/json" {
		t.Errorf("contents = %+v", text)
	}
	var recent struct {
		Sessions []sessionSummary `json:"sessions"`
	}
	if err := json.Unmarshal([]byte(text.Text), &recent); err != nil {
		t.Fatal(err)
	}
	if len(recent.Sessions) != 1 || recent.Sessions[0].ID != "recent" {
		t.Errorf("recent sessions = %+v", recent.Sessions)
	}

	req.Params.URI = "liftlog://plan"
	contents, err = h.planResource(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(contents[0].(mcp.TextResourceContents).Text, "lat-pulldown") {
		t.Error("plan resource missing Day2 exercises")
	}
}

// TestLocalSource verifies the repository adapter never reports errors.
func TestLocalSource(t *testing.T) {
	src := Local{Repo: staticRepo{sessions: sampleSessions()}}
	sessions, err := src.ListSessions(context.Background())
	if err != nil || len(sessions) != 2 {
		t.Errorf("ListSessions = %d, %v", len(sessions), err)
	}
	settings, err := src.GetSettings(context.Background())
	if err != nil || settings.BodyWeight != models.DefaultBodyWeight {
		t.Errorf("GetSettings = %+v, %v", settings, err)
	}
}

type staticRepo struct{ sessions []models.WorkoutSession }

func (r staticRepo) ListSessions(context.Context) []models.WorkoutSession { return r.sessions }
func (r staticRepo) GetSettings(context.Context) models.UserSettings      { return models.DefaultSettings() }
