package importer

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/export"
	"github.com/claude/liftlog/internal/metrics"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/plan"
	"github.com/claude/liftlog/internal/repository"
	"github.com/claude/liftlog/internal/storage"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// planSession returns a session with one empty entry per plan exercise of day,
// the shape the session manager creates.
func planSession(id string, day models.DayType, date time.Time) models.WorkoutSession {
	defs, _ := plan.Exercises(day)
	s := models.WorkoutSession{ID: id, Date: date, DayType: day}
	for _, d := range defs {
		s.Exercises = append(s.Exercises, models.ExerciseProgress{ExerciseID: d.ID, CompletedSets: []models.CompletedSet{}})
	}
	return s
}

func sampleDoc() export.Document {
	b := planSession("b", models.Day2, time.Date(2026, 6, 14, 18, 0, 0, 0, time.UTC))
	b.Exercises[0].CompletedSets = []models.CompletedSet{
		{Weight: 100, Reps: 12, Completed: true, Timestamp: time.Date(2026, 6, 14, 18, 5, 0, 0, time.UTC)},
	}
	d := 48
	b.Duration = &d
	b.Completed = true

	a := planSession("a", models.Day1, time.Date(2026, 6, 12, 18, 0, 0, 0, time.UTC))

	bad := planSession("bad", models.Day1, time.Date(2026, 6, 10, 18, 0, 0, 0, time.UTC))
	bad.DayType = "Leg day"

	return export.Document{
		Sessions:   []models.WorkoutSession{b, a, bad},
		Settings:   models.UserSettings{BodyWeight: 165, WeekStartsWithDay1: false},
		ExportDate: time.Date(2026, 6, 15, 20, 0, 0, 0, time.UTC),
	}
}

func encode(t *testing.T, doc export.Document) string {
	t.Helper()
	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, doc); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	return buf.String()
}

func newRepo() *repository.Repository {
	return repository.New(storage.NewMemoryStore(), metrics.NewTestManager(), discard)
}

// TestImportRestoresSessions verifies valid sessions are stored and invalid
// ones are skipped.
func TestImportRestoresSessions(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	stats, err := New(repo, discard, false, true).Import(ctx, strings.NewReader(encode(t, sampleDoc())))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.SessionsRead != 3 || stats.SessionsRestored != 2 || stats.SessionsSkipped != 1 || !stats.SettingsRestored {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.SkippedIDs) != 1 || stats.SkippedIDs[0] != "bad" {
		t.Errorf("SkippedIDs = %v", stats.SkippedIDs)
	}

	sessions := repo.ListSessions(ctx)
	if len(sessions) != 2 || sessions[0].ID != "b" || sessions[1].ID != "a" {
		t.Fatalf("stored = %+v", sessions)
	}
	if got := sessions[0].Exercises[0].CompletedSets[0].Weight; got != 100 {
		t.Errorf("restored weight = %v, want 100", got)
	}
	if got := len(sessions[1].Exercises); got != 8 {
		t.Errorf("Day1 exercises = %d, want 8", got)
	}

	settings := repo.GetSettings(ctx)
	if settings.BodyWeight != 165 || settings.WeekStartsWithDay1 {
		t.Errorf("settings = %+v", settings)
	}
}

// TestImportIsIdempotent verifies restoring the same document twice leaves
// the same sessions and reports replacements.
func TestImportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	doc := encode(t, sampleDoc())

	if _, err := New(repo, discard, false, false).Import(ctx, strings.NewReader(doc)); err != nil {
		t.Fatal(err)
	}
	stats, err := New(repo, discard, false, false).Import(ctx, strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if stats.SessionsReplaced != 2 {
		t.Errorf("SessionsReplaced = %d, want 2", stats.SessionsReplaced)
	}
	if got := len(repo.ListSessions(ctx)); got != 2 {
		t.Errorf("stored sessions = %d, want 2", got)
	}
	if got := repo.GetSettings(ctx); got != models.DefaultSettings() {
		t.Errorf("settings changed without restoreSettings: %+v", got)
	}
}

// TestImportDryRun verifies nothing is written in dry-run mode.
func TestImportDryRun(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	stats, err := New(repo, discard, true, true).Import(ctx, strings.NewReader(encode(t, sampleDoc())))
	if err != nil {
		t.Fatal(err)
	}
	if stats.SessionsRestored != 2 || !stats.SettingsRestored {
		t.Errorf("stats = %+v", stats)
	}
	if got := len(repo.ListSessions(ctx)); got != 0 {
		t.Errorf("stored sessions = %d, want 0", got)
	}
	if got := repo.GetSettings(ctx); got != models.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", got)
	}
}

// TestImportFile verifies restoring from a file and the error for a missing one.
func TestImportFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "liftlog-export.json")
	if err := os.WriteFile(path, []byte(encode(t, sampleDoc())), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := newRepo()
	if _, err := New(repo, discard, false, false).ImportFile(ctx, path); err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if got := len(repo.ListSessions(ctx)); got != 2 {
		t.Errorf("stored sessions = %d, want 2", got)
	}

	if _, err := New(repo, discard, false, false).ImportFile(ctx, path+".missing"); err == nil {
		t.Error("ImportFile(missing) succeeded")
	}
}

// TestValidate covers the per-session checks, including the exercise list
// matching the plan for the session's day.
func TestValidate(t *testing.T) {
	date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	zero, negative := 0.0, -2

	tests := []struct {
		name    string
		mutate  func(s *models.WorkoutSession)
		wantErr bool
	}{
		{"ok", func(s *models.WorkoutSession) {}, false},
		{"missing id", func(s *models.WorkoutSession) { s.ID = "" }, true},
		{"bad day", func(s *models.WorkoutSession) { s.DayType = "Day9" }, true},
		{"other day", func(s *models.WorkoutSession) { s.DayType = models.Day2 }, true},
		{"missing date", func(s *models.WorkoutSession) { s.Date = time.Time{} }, true},
		{"negative weight", func(s *models.WorkoutSession) {
			s.Exercises[0].CompletedSets = []models.CompletedSet{{Weight: -5, Reps: 10}}
		}, true},
		{"negative duration", func(s *models.WorkoutSession) { s.Duration = &negative }, true},
		{"zero body weight", func(s *models.WorkoutSession) { s.BodyWeight = &zero }, true},
		{"unknown exercise", func(s *models.WorkoutSession) { s.Exercises[1].ExerciseID = "made-up" }, true},
		{"duplicate exercise", func(s *models.WorkoutSession) { s.Exercises[1].ExerciseID = s.Exercises[0].ExerciseID }, true},
		{"exercise from other day", func(s *models.WorkoutSession) { s.Exercises[0].ExerciseID = "lat-pulldown" }, true},
		{"missing exercise", func(s *models.WorkoutSession) { s.Exercises = s.Exercises[:len(s.Exercises)-1] }, true},
		{"extra exercise", func(s *models.WorkoutSession) {
			s.Exercises = append(s.Exercises, models.ExerciseProgress{ExerciseID: "hip-thrusts"})
		}, true},
		{"empty exercises", func(s *models.WorkoutSession) { s.Exercises = []models.ExerciseProgress{} }, true},
		{"no exercises", func(s *models.WorkoutSession) { s.Exercises = nil }, true},
		{"reordered", func(s *models.WorkoutSession) {
			s.Exercises[0], s.Exercises[1] = s.Exercises[1], s.Exercises[0]
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := planSession("x", models.Day1, date)
			tt.mutate(&s)
			if err := validate(s); (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestImportRejectsMalformedSessionAndSettings verifies a session whose
// exercises do not match the plan and settings with a negative body weight
// are both left out of the store.
func TestImportRejectsMalformedSessionAndSettings(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	s := models.WorkoutSession{
		ID: "x", Date: time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC), DayType: models.Day1,
		Exercises: []models.ExerciseProgress{{ExerciseID: "lat-pulldown"}, {ExerciseID: "lat-pulldown"}, {ExerciseID: "made-up"}},
	}
	doc := export.Document{
		Sessions: []models.WorkoutSession{s},
		Settings: models.UserSettings{BodyWeight: -40, WeekStartsWithDay1: true},
	}

	stats, err := New(repo, discard, false, true).Import(ctx, strings.NewReader(encode(t, doc)))
	if err != nil {
		t.Fatal(err)
	}
	if stats.SessionsRestored != 0 || stats.SessionsSkipped != 1 || stats.SettingsRestored {
		t.Errorf("stats = %+v", stats)
	}
	if got := len(repo.ListSessions(ctx)); got != 0 {
		t.Errorf("stored sessions = %d, want 0", got)
	}
	if got := repo.GetSettings(ctx); got != models.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", got)
	}
}

// TestValidateSettings covers the settings checks applied before a restore.
func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		st      models.UserSettings
		wantErr bool
	}{
		{"defaults", models.DefaultSettings(), false},
		{"with last workout", models.UserSettings{BodyWeight: 170, LastWorkoutType: models.Day2}, false},
		{"zero body weight", models.UserSettings{BodyWeight: 0}, true},
		{"negative body weight", models.UserSettings{BodyWeight: -40}, true},
		{"bad last workout type", models.UserSettings{BodyWeight: 170, LastWorkoutType: "Day3"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateSettings(tt.st); (err != nil) != tt.wantErr {
				t.Errorf("validateSettings() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestImportMalformed verifies a broken document is an error.
func TestImportMalformed(t *testing.T) {
	if _, err := New(newRepo(), discard, false, false).Import(context.Background(), strings.NewReader("{")); err == nil {
		t.Error("Import(malformed) succeeded")
	}
}
