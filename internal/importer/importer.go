package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/claude/liftlog/internal/export"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/plan"
)

// Stats tracks restore progress.
type Stats struct {
	SessionsRead     int
	SessionsRestored int
	SessionsReplaced int
	SessionsSkipped  int
	SettingsRestored bool

	SkippedIDs []string
}

// Repository is the write side used for a restore.
type Repository interface {
	ListSessions(ctx context.Context) []models.WorkoutSession
	UpsertSession(ctx context.Context, s models.WorkoutSession)
	SaveSettings(ctx context.Context, s models.UserSettings)
}

// Importer restores export documents into a repository. Every session goes
// through UpsertSession, so restoring the same document twice leaves the
// same stored state.
type Importer struct {
	repo            Repository
	log             *slog.Logger
	dryRun          bool
	restoreSettings bool
	stats           Stats
}

// New creates a new Importer. When restoreSettings is set the document's
// settings overwrite the stored ones.
func New(repo Repository, log *slog.Logger, dryRun, restoreSettings bool) *Importer {
	return &Importer{repo: repo, log: log, dryRun: dryRun, restoreSettings: restoreSettings}
}

// ImportFile restores the export document at path.
func (imp *Importer) ImportFile(ctx context.Context, path string) (*Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return &imp.stats, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return imp.Import(ctx, f)
}

// Import restores the export document read from r.
func (imp *Importer) Import(ctx context.Context, r io.Reader) (*Stats, error) {
	doc, err := export.ReadJSON(r)
	if err != nil {
		return &imp.stats, err
	}

	existing := make(map[string]bool)
	for _, s := range imp.repo.ListSessions(ctx) {
		existing[s.ID] = true
	}

	for _, s := range doc.Sessions {
		imp.stats.SessionsRead++
		if err := validate(s); err != nil {
			imp.log.Warn("skipping session", "session_id", s.ID, "error", err)
			imp.stats.SessionsSkipped++
			imp.stats.SkippedIDs = append(imp.stats.SkippedIDs, s.ID)
			continue
		}
		if existing[s.ID] {
			imp.stats.SessionsReplaced++
		}
		imp.stats.SessionsRestored++
		if imp.dryRun {
			continue
		}
		imp.repo.UpsertSession(ctx, normalize(s))
	}

	if imp.restoreSettings {
		if err := validateSettings(doc.Settings); err != nil {
			imp.log.Warn("skipping settings", "error", err)
		} else {
			imp.stats.SettingsRestored = true
			if !imp.dryRun {
				imp.repo.SaveSettings(ctx, doc.Settings)
			}
		}
	}

	imp.log.Info("restore complete",
		"read", imp.stats.SessionsRead,
		"restored", imp.stats.SessionsRestored,
		"replaced", imp.stats.SessionsReplaced,
		"skipped", imp.stats.SessionsSkipped,
		"dry_run", imp.dryRun,
	)
	return &imp.stats, nil
}

// validate checks a session against the shape the session manager writes:
// one entry per plan exercise of its day, in plan order.
func validate(s models.WorkoutSession) error {
	if s.ID == "" {
		return fmt.Errorf("missing id")
	}
	defs, ok := plan.Exercises(s.DayType)
	if !ok {
		return fmt.Errorf("invalid day type %q", s.DayType)
	}
	if s.Date.IsZero() {
		return fmt.Errorf("missing date")
	}
	if len(s.Exercises) != len(defs) {
		return fmt.Errorf("%d exercises, %s has %d", len(s.Exercises), s.DayType, len(defs))
	}
	for i, e := range s.Exercises {
		if e.ExerciseID != defs[i].ID {
			return fmt.Errorf("exercise %d is %q, want %q", i+1, e.ExerciseID, defs[i].ID)
		}
		for n, set := range e.CompletedSets {
			if set.Weight < 0 || set.Reps < 0 {
				return fmt.Errorf("%s set %d: negative weight or reps", e.ExerciseID, n+1)
			}
		}
	}
	if s.BodyWeight != nil && *s.BodyWeight <= 0 {
		return fmt.Errorf("body weight %v is not positive", *s.BodyWeight)
	}
	if s.Duration != nil && *s.Duration < 0 {
		return fmt.Errorf("negative duration %d", *s.Duration)
	}
	return nil
}

func validateSettings(st models.UserSettings) error {
	if st.BodyWeight <= 0 {
		return fmt.Errorf("body weight %v is not positive", st.BodyWeight)
	}
	if st.LastWorkoutType != "" && !st.LastWorkoutType.Valid() {
		return fmt.Errorf("invalid last workout type %q", st.LastWorkoutType)
	}
	return nil
}

// normalize replaces nil set slices so restored sessions encode like ones
// created by the session manager.
func normalize(s models.WorkoutSession) models.WorkoutSession {
	s = s.Clone()
	for i := range s.Exercises {
		if s.Exercises[i].CompletedSets == nil {
			s.Exercises[i].CompletedSets = []models.CompletedSet{}
		}
	}
	return s
}
