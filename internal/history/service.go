package history

import (
	"context"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// Source supplies stored sessions and settings.
type Source interface {
	ListSessions(ctx context.Context) []models.WorkoutSession
	GetSettings(ctx context.Context) models.UserSettings
}

// Service runs history queries against a Source using a clock.
type Service struct {
	src Source
	now func() time.Time
}

// NewService creates a Service. A nil now uses time.Now.
func NewService(src Source, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{src: src, now: now}
}

// LastSetFor returns the most recent set logged for exerciseID.
func (s *Service) LastSetFor(ctx context.Context, exerciseID string) (models.SetRecord, bool) {
	return LastSetFor(s.src.ListSessions(ctx), exerciseID)
}

// Sessions returns stored sessions inside w, newest first.
func (s *Service) Sessions(ctx context.Context, w Window) []models.WorkoutSession {
	return SessionsWithin(s.src.ListSessions(ctx), w, s.now())
}

// Stats aggregates completed sessions inside w.
func (s *Service) Stats(ctx context.Context, w Window) Stats {
	return AggregateStats(s.Sessions(ctx, w))
}

// WeeklyCount counts sessions from the trailing seven days.
func (s *Service) WeeklyCount(ctx context.Context) int {
	return WeeklyCompletedCount(s.src.ListSessions(ctx), s.now())
}

// NextDay suggests the next day to train from the stored settings.
func (s *Service) NextDay(ctx context.Context) models.DayType {
	st := s.src.GetSettings(ctx)
	return NextSuggestedDay(st.LastWorkoutDate, st.LastWorkoutType, st.WeekStartsWithDay1, s.now())
}
