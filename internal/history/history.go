// Package history answers questions about past workout sessions: the last
// set logged for an exercise, sessions inside a time window, the suggested
// next day and aggregate totals.
//
// Every function takes the current time explicitly so results are
// reproducible in tests.
package history

import (
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// Window selects how far back a query looks.
type Window string

const (
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowAll   Window = "all"
)

// newWeekAfterDays is the gap after which the next workout restarts the week.
const newWeekAfterDays = 3

// ParseWindow maps a query parameter to a Window. The empty string means WindowAll.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case "", WindowAll:
		return WindowAll, nil
	case WindowWeek, WindowMonth:
		return Window(s), nil
	}
	return "", fmt.Errorf("unknown period %q (want week, month or all)", s)
}

// Cutoff returns the earliest date included by w, and false for WindowAll.
func (w Window) Cutoff(now time.Time) (time.Time, bool) {
	switch w {
	case WindowWeek:
		return now.AddDate(0, 0, -7), true
	case WindowMonth:
		return now.AddDate(0, -1, 0), true
	}
	return time.Time{}, false
}

// LastSetFor returns the final set of the most recent session, by date, that
// has completed sets for exerciseID.
func LastSetFor(sessions []models.WorkoutSession, exerciseID string) (models.SetRecord, bool) {
	var (
		best  models.SetRecord
		when  time.Time
		found bool
	)
	for i := range sessions {
		s := &sessions[i]
		idx := s.Exercise(exerciseID)
		if idx < 0 {
			continue
		}
		sets := s.Exercises[idx].CompletedSets
		if len(sets) == 0 {
			continue
		}
		if found && !s.Date.After(when) {
			continue
		}
		last := sets[len(sets)-1]
		best = models.SetRecord{Weight: last.Weight, Reps: last.Reps}
		when = s.Date
		found = true
	}
	return best, found
}

// SessionsWithin keeps sessions dated at or after the window cutoff, in their
// original order.
func SessionsWithin(sessions []models.WorkoutSession, w Window, now time.Time) []models.WorkoutSession {
	cutoff, bounded := w.Cutoff(now)
	out := make([]models.WorkoutSession, 0, len(sessions))
	for _, s := range sessions {
		if bounded && s.Date.Before(cutoff) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// WeeklyCompletedCount counts sessions in the trailing seven days, finished
// or not.
func WeeklyCompletedCount(sessions []models.WorkoutSession, now time.Time) int {
	return len(SessionsWithin(sessions, WindowWeek, now))
}

// NextSuggestedDay picks the day to train next. Without a previous workout,
// or after a gap of more than three whole days, it restarts the week;
// otherwise it alternates.
func NextSuggestedDay(lastDate *time.Time, lastType models.DayType, weekStartsWithDay1 bool, now time.Time) models.DayType {
	weekStart := models.Day2
	if weekStartsWithDay1 {
		weekStart = models.Day1
	}
	if lastDate == nil || !lastType.Valid() {
		return weekStart
	}
	days := int(now.Sub(*lastDate) / (24 * time.Hour))
	if days > newWeekAfterDays {
		return weekStart
	}
	return lastType.Other()
}

// Stats are totals over completed sessions.
type Stats struct {
	TotalWorkouts    int                    `json:"totalWorkouts"`
	TotalTimeMinutes int                    `json:"totalTimeMinutes"`
	AvgTimeMinutes   float64                `json:"avgTimeMinutes"`
	CountByDayType   map[models.DayType]int `json:"countByDayType"`
}

// AggregateStats sums completed sessions. A missing duration counts as zero.
func AggregateStats(sessions []models.WorkoutSession) Stats {
	st := Stats{CountByDayType: map[models.DayType]int{models.Day1: 0, models.Day2: 0}}
	for _, s := range sessions {
		if !s.Completed {
			continue
		}
		st.TotalWorkouts++
		st.TotalTimeMinutes += s.DurationMinutes()
		st.CountByDayType[s.DayType]++
	}
	if st.TotalWorkouts > 0 {
		st.AvgTimeMinutes = float64(st.TotalTimeMinutes) / float64(st.TotalWorkouts)
	}
	return st
}

// Progress is the percentage of logged sets in s marked completed.
func Progress(s models.WorkoutSession) float64 {
	var total, done int
	for _, e := range s.Exercises {
		total += len(e.CompletedSets)
		done += e.CompletedCount()
	}
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}

// FormatMinutes renders a duration in minutes as "1h 5m" or "45m".
func FormatMinutes(minutes int) string {
	if h := minutes / 60; h > 0 {
		return fmt.Sprintf("%dh %dm", h, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatElapsed renders seconds as "1:02:03", or "2:03" under an hour.
func FormatElapsed(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatDate renders t as "Mon, Jan 2, 2006".
func FormatDate(t time.Time) string {
	return t.Format("Mon, Jan 2, 2006")
}
