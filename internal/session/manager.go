// Package session owns the workout in progress: it creates sessions from the
// plan, records and removes sets, auto-saves after every change, and
// finishes or cancels the workout.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/metrics"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/plan"
	"github.com/google/uuid"
)

var (
	ErrInvalidDayType     = errors.New("invalid day type")
	ErrSessionInProgress  = errors.New("a session is already in progress")
	ErrNoActiveSession    = errors.New("no session in progress")
	ErrUnknownExercise    = errors.New("exercise not in current session")
	ErrSetIndexOutOfRange = errors.New("set index out of range")
)

// State is the lifecycle position of the Manager.
type State string

const (
	NotStarted State = "not_started"
	InProgress State = "in_progress"
	Finished   State = "finished"
)

// Repository persists sessions and settings. Implementations never fail
// visibly; see repository.Repository.
type Repository interface {
	ListSessions(ctx context.Context) []models.WorkoutSession
	UpsertSession(ctx context.Context, s models.WorkoutSession)
	GetSettings(ctx context.Context) models.UserSettings
	SaveSettings(ctx context.Context, s models.UserSettings)
	ClearAll(ctx context.Context)
}

// Ticker drives the elapsed-time display while a session is in progress.
type Ticker interface {
	Start(fn func()) error
	Stop()
}

// Status is a point-in-time copy of the Manager state.
type Status struct {
	State              State                       `json:"state"`
	Session            *models.WorkoutSession      `json:"session,omitempty"`
	Hints              map[string]models.SetRecord `json:"hints,omitempty"`
	ElapsedSeconds     int                         `json:"elapsedSeconds"`
	Elapsed            string                      `json:"elapsed"`
	CompletedExercises int                         `json:"completedExercises"`
	TotalExercises     int                         `json:"totalExercises"`
}

// Manager holds at most one current session. All methods are safe for
// concurrent use.
type Manager struct {
	repo    Repository
	ticker  Ticker
	metrics *metrics.Manager
	log     *slog.Logger
	now     func() time.Time
	newID   func() string

	mu        sync.Mutex
	state     State
	current   *models.WorkoutSession
	startedAt time.Time
	hints     map[string]models.SetRecord

	// elapsed is written by the ticker callback without holding mu, so that
	// Ticker.Stop can wait for the callback while mu is held.
	elapsed atomic.Int64
}

// NewManager creates a Manager in the NotStarted state.
func NewManager(repo Repository, tk Ticker, m *metrics.Manager, log *slog.Logger) *Manager {
	return &Manager{
		repo:    repo,
		ticker:  tk,
		metrics: m,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
		state:   NotStarted,
	}
}

// Start begins a session for day with one empty entry per plan exercise.
func (m *Manager) Start(ctx context.Context, day models.DayType) (Status, error) {
	defs, ok := plan.Exercises(day)
	if !ok {
		return Status{}, fmt.Errorf("%w: %q", ErrInvalidDayType, day)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == InProgress {
		return Status{}, ErrSessionInProgress
	}

	past := m.repo.ListSessions(ctx)
	settings := m.repo.GetSettings(ctx)

	start := m.now()
	s := &models.WorkoutSession{
		ID:        m.newID(),
		Date:      start,
		DayType:   day,
		Exercises: make([]models.ExerciseProgress, 0, len(defs)),
	}
	if settings.BodyWeight > 0 {
		bw := settings.BodyWeight
		s.BodyWeight = &bw
	}
	hints := make(map[string]models.SetRecord, len(defs))
	for _, d := range defs {
		s.Exercises = append(s.Exercises, models.ExerciseProgress{
			ExerciseID:    d.ID,
			CompletedSets: []models.CompletedSet{},
		})
		if last, ok := history.LastSetFor(past, d.ID); ok {
			hints[d.ID] = last
		}
	}

	m.current = s
	m.startedAt = start
	m.hints = hints
	m.state = InProgress
	m.elapsed.Store(0)

	if err := m.ticker.Start(func() {
		m.elapsed.Store(int64(m.now().Sub(start) / time.Second))
	}); err != nil {
		m.log.Warn("elapsed ticker not started", "session_id", s.ID, "error", err)
	}

	m.log.Info("session started", "session_id", s.ID, "day", day, "exercises", len(defs))
	return m.statusLocked(), nil
}

// RecordSet stores a completed set at setIndex for exerciseID. An index equal
// to the number of logged sets appends; a smaller index overwrites. The
// session is saved afterwards. weight and reps are stored as given.
func (m *Manager) RecordSet(ctx context.Context, exerciseID string, setIndex int, weight float64, reps int) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordLocked(ctx, exerciseID, func(int) int { return setIndex }, weight, reps)
}

// AppendSet records a set after the last one logged for exerciseID.
func (m *Manager) AppendSet(ctx context.Context, exerciseID string, weight float64, reps int) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordLocked(ctx, exerciseID, func(n int) int { return n }, weight, reps)
}

// recordLocked resolves the target index from the current set count.
func (m *Manager) recordLocked(ctx context.Context, exerciseID string, index func(n int) int, weight float64, reps int) (Status, error) {
	if m.state != InProgress {
		return Status{}, ErrNoActiveSession
	}
	idx := m.current.Exercise(exerciseID)
	if idx < 0 {
		return Status{}, fmt.Errorf("%w: %q", ErrUnknownExercise, exerciseID)
	}

	ex := &m.current.Exercises[idx]
	setIndex := index(len(ex.CompletedSets))
	if setIndex < 0 || setIndex > len(ex.CompletedSets) {
		return Status{}, fmt.Errorf("%w: %d (have %d sets)", ErrSetIndexOutOfRange, setIndex, len(ex.CompletedSets))
	}

	set := models.CompletedSet{Weight: weight, Reps: reps, Completed: true, Timestamp: m.now()}
	if setIndex == len(ex.CompletedSets) {
		ex.CompletedSets = append(ex.CompletedSets, set)
	} else {
		ex.CompletedSets[setIndex] = set
	}

	m.metrics.CounterSetsRecorded.Inc()
	m.saveLocked(ctx)
	return m.statusLocked(), nil
}

// RemoveSet deletes the set at setIndex; later sets move down one position.
// The session is saved afterwards.
func (m *Manager) RemoveSet(ctx context.Context, exerciseID string, setIndex int) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != InProgress {
		return Status{}, ErrNoActiveSession
	}
	idx := m.current.Exercise(exerciseID)
	if idx < 0 {
		return Status{}, fmt.Errorf("%w: %q", ErrUnknownExercise, exerciseID)
	}

	ex := &m.current.Exercises[idx]
	if setIndex < 0 || setIndex >= len(ex.CompletedSets) {
		return Status{}, fmt.Errorf("%w: %d (have %d sets)", ErrSetIndexOutOfRange, setIndex, len(ex.CompletedSets))
	}
	ex.CompletedSets = append(ex.CompletedSets[:setIndex], ex.CompletedSets[setIndex+1:]...)

	m.saveLocked(ctx)
	return m.statusLocked(), nil
}

// Finish marks the session completed, saves it, and records it as the last
// workout in the settings.
func (m *Manager) Finish(ctx context.Context) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != InProgress {
		return Status{}, ErrNoActiveSession
	}

	m.ticker.Stop()
	m.current.Completed = true
	m.saveLocked(ctx)

	settings := m.repo.GetSettings(ctx)
	date := m.current.Date
	settings.LastWorkoutDate = &date
	settings.LastWorkoutType = m.current.DayType
	m.repo.SaveSettings(ctx, settings)

	m.state = Finished
	m.log.Info("session finished",
		"session_id", m.current.ID,
		"day", m.current.DayType,
		"duration_min", m.current.DurationMinutes(),
	)
	return m.statusLocked(), nil
}

// Cancel discards the current session without saving. Sets already
// auto-saved stay in storage as an incomplete session.
func (m *Manager) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != InProgress {
		return ErrNoActiveSession
	}

	m.ticker.Stop()
	m.log.Info("session cancelled", "session_id", m.current.ID)
	m.current = nil
	m.hints = nil
	m.state = NotStarted
	m.elapsed.Store(0)
	return nil
}

// UpdateSettings applies fn to the stored settings and saves the result. It
// runs under the manager lock so it cannot interleave with Finish.
func (m *Manager) UpdateSettings(ctx context.Context, fn func(*models.UserSettings)) models.UserSettings {
	m.mu.Lock()
	defer m.mu.Unlock()

	settings := m.repo.GetSettings(ctx)
	fn(&settings)
	m.repo.SaveSettings(ctx, settings)
	return settings
}

// ClearData deletes every stored session and resets the settings. It is
// refused while a session is in progress.
func (m *Manager) ClearData(ctx context.Context) (models.UserSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == InProgress {
		return models.UserSettings{}, ErrSessionInProgress
	}
	m.repo.ClearAll(ctx)
	if m.state == Finished {
		m.current = nil
		m.hints = nil
		m.state = NotStarted
	}
	m.log.Info("all data cleared")
	return m.repo.GetSettings(ctx), nil
}

// Status returns a copy of the current state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

func (m *Manager) saveLocked(ctx context.Context) {
	d := int(m.now().Sub(m.startedAt) / time.Minute)
	m.current.Duration = &d
	m.repo.UpsertSession(ctx, m.current.Clone())
}

func (m *Manager) statusLocked() Status {
	st := Status{State: m.state}
	if m.current == nil {
		st.Elapsed = history.FormatElapsed(0)
		return st
	}

	s := m.current.Clone()
	st.Session = &s
	st.Hints = make(map[string]models.SetRecord, len(m.hints))
	for k, v := range m.hints {
		st.Hints[k] = v
	}
	st.ElapsedSeconds = int(m.elapsed.Load())
	st.Elapsed = history.FormatElapsed(st.ElapsedSeconds)

	st.TotalExercises = len(s.Exercises)
	for _, p := range s.Exercises {
		if def, ok := plan.Lookup(s.DayType, p.ExerciseID); ok && models.ExerciseComplete(p, def) {
			st.CompletedExercises++
		}
	}
	return st
}
