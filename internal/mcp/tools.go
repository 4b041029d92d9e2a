package mcp

import (
	"context"
	"time"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/plan"
	"github.com/mark3labs/mcp-go/mcp"
)

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// setSummary and sessionSummary are the tool-facing view of a session, with
// exercise names resolved from the plan.
type setSummary struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

type exerciseSummary struct {
	ExerciseID string       `json:"exercise_id"`
	Name       string       `json:"name"`
	TargetSets int          `json:"target_sets"`
	Sets       []setSummary `json:"sets"`
}

type sessionSummary struct {
	ID              string            `json:"id"`
	Date            string            `json:"date"`
	DayType         models.DayType    `json:"day_type"`
	Title           string            `json:"title"`
	Completed       bool              `json:"completed"`
	DurationMinutes int               `json:"duration_minutes"`
	BodyWeight      *float64          `json:"body_weight,omitempty"`
	Exercises       []exerciseSummary `json:"exercises"`
}

func summarize(s models.WorkoutSession) sessionSummary {
	out := sessionSummary{
		ID:              s.ID,
		Date:            s.Date.Format(time.RFC3339),
		DayType:         s.DayType,
		Title:           s.DayType.Title(),
		Completed:       s.Completed,
		DurationMinutes: s.DurationMinutes(),
		BodyWeight:      s.BodyWeight,
		Exercises:       make([]exerciseSummary, 0, len(s.Exercises)),
	}
	for _, e := range s.Exercises {
		es := exerciseSummary{ExerciseID: e.ExerciseID, Name: e.ExerciseID, Sets: make([]setSummary, 0, len(e.CompletedSets))}
		if def, ok := plan.Lookup(s.DayType, e.ExerciseID); ok {
			es.Name = def.Name
			es.TargetSets = def.TargetSets
		}
		for _, set := range e.CompletedSets {
			es.Sets = append(es.Sets, setSummary{Weight: set.Weight, Reps: set.Reps})
		}
		out.Exercises = append(out.Exercises, es)
	}
	return out
}

func summarizeAll(sessions []models.WorkoutSession) []sessionSummary {
	out := make([]sessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, summarize(s))
	}
	return out
}

// --- Tool definitions ---

var toolGetSessions = mcp.NewTool("get_sessions",
	mcp.WithDescription("List workout sessions, newest first. Each session includes day type, duration, completion and the weight/reps of every logged set."),
	mcp.WithString("period", mcp.Description("Time window. Defaults to 'week'."), mcp.Enum("week", "month", "all")),
	mcp.WithString("since", mcp.Description("Only sessions on or after this date (ISO 8601 or YYYY-MM-DD). Narrows the period further.")),
)

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("Aggregate statistics over completed sessions: total workouts, total and average minutes, and counts per day type."),
	mcp.WithString("period", mcp.Description("Time window. Defaults to 'week'."), mcp.Enum("week", "month", "all")),
)

var toolGetLastSet = mcp.NewTool("get_last_set",
	mcp.WithDescription("Weight and reps of the final set from the most recent session that logged the exercise."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise id from the plan (e.g. hip-thrusts, lat-pulldown)")),
)

var toolGetNextWorkoutDay = mcp.NewTool("get_next_workout_day",
	mcp.WithDescription("Suggested day type for the next workout, based on the last finished workout and the week-start preference."),
)

var toolGetWeeklyCount = mcp.NewTool("get_weekly_count",
	mcp.WithDescription("Number of sessions logged in the last seven days."),
)

var toolGetPlan = mcp.NewTool("get_plan",
	mcp.WithDescription("Exercises of the training plan with target sets, target reps and superset pairings."),
	mcp.WithString("day", mcp.Description("Day type. Omit for both days."), mcp.Enum(string(models.Day1), string(models.Day2))),
)

// --- Tool handlers ---

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	win, err := history.ParseWindow(req.GetString("period", string(history.WindowWeek)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var since time.Time
	if s := req.GetString("since", ""); s != "" {
		since, err = parseFlexTime(s)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
	}

	all, err := h.ds.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp get_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	sessions := history.SessionsWithin(all, win, h.now())
	if !since.IsZero() {
		kept := sessions[:0]
		for _, s := range sessions {
			if !s.Date.Before(since) {
				kept = append(kept, s)
			}
		}
		sessions = kept
	}

	result, err := mcp.NewToolResultJSON(summarizeAll(sessions))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	win, err := history.ParseWindow(req.GetString("period", string(history.WindowWeek)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	all, err := h.ds.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp get_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	now := h.now()
	st := history.AggregateStats(history.SessionsWithin(all, win, now))
	result, err := mcp.NewToolResultJSON(map[string]any{
		"period":          win,
		"stats":           st,
		"total_time":      history.FormatMinutes(st.TotalTimeMinutes),
		"avg_time":        history.FormatMinutes(int(st.AvgTimeMinutes)),
		"this_week_count": history.WeeklyCompletedCount(all, now),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLastSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	all, err := h.ds.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp get_last_set", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	last, ok := history.LastSetFor(all, id)
	if !ok {
		return mcp.NewToolResultText("No sets logged for " + id + " yet."), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"exercise_id": id,
		"weight":      last.Weight,
		"reps":        last.Reps,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getNextWorkoutDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	settings, err := h.ds.GetSettings(ctx)
	if err != nil {
		h.log.Error("mcp get_next_workout_day", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	day := history.NextSuggestedDay(settings.LastWorkoutDate, settings.LastWorkoutType, settings.WeekStartsWithDay1, h.now())
	out := map[string]any{
		"day_type": day,
		"title":    day.Title(),
	}
	if settings.LastWorkoutDate != nil {
		out["last_workout_date"] = settings.LastWorkoutDate.Format(time.RFC3339)
		out["last_workout_type"] = settings.LastWorkoutType
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWeeklyCount(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all, err := h.ds.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp get_weekly_count", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]int{"count": history.WeeklyCompletedCount(all, h.now())})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

type planDay struct {
	DayType   models.DayType              `json:"day_type"`
	Title     string                      `json:"title"`
	Exercises []models.ExerciseDefinition `json:"exercises"`
}

func planDays(only models.DayType) []planDay {
	var out []planDay
	for _, d := range plan.Days() {
		if only != "" && d != only {
			continue
		}
		defs, _ := plan.Exercises(d)
		out = append(out, planDay{DayType: d, Title: d.Title(), Exercises: defs})
	}
	return out
}

func (h *handlers) getPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day := models.DayType(req.GetString("day", ""))
	if day != "" && !day.Valid() {
		return mcp.NewToolResultError("unknown day type: " + string(day)), nil
	}

	result, err := mcp.NewToolResultJSON(planDays(day))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
