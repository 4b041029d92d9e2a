package mcp

import (
	"context"

	"github.com/claude/liftlog/internal/models"
)

// DataSource abstracts the data layer for MCP tools. Local (the repository in
// this process) and HTTPClient (a running liftlog server) satisfy it.
type DataSource interface {
	ListSessions(ctx context.Context) ([]models.WorkoutSession, error)
	GetSettings(ctx context.Context) (models.UserSettings, error)
}

// Repository is the read side of repository.Repository.
type Repository interface {
	ListSessions(ctx context.Context) []models.WorkoutSession
	GetSettings(ctx context.Context) models.UserSettings
}

// Local serves tools straight from a repository. Storage failures have
// already been logged and replaced with defaults, so it never errors.
type Local struct {
	Repo Repository
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = Local{}

func (l Local) ListSessions(ctx context.Context) ([]models.WorkoutSession, error) {
	return l.Repo.ListSessions(ctx), nil
}

func (l Local) GetSettings(ctx context.Context) (models.UserSettings, error) {
	return l.Repo.GetSettings(ctx), nil
}
