// Package repository stores workout sessions and user settings on top of a
// storage.Store.
//
// Storage failures never reach callers. Reads fall back to an empty session
// list or default settings and writes are dropped; every failure is logged
// and counted under the store_failures_total metric.
package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/claude/liftlog/internal/metrics"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"go.uber.org/multierr"
)

// Repository is the only write path for sessions and settings.
type Repository struct {
	store   storage.Store
	log     *slog.Logger
	metrics *metrics.Manager
}

// New creates a Repository over store.
func New(store storage.Store, m *metrics.Manager, log *slog.Logger) *Repository {
	return &Repository{store: store, log: log, metrics: m}
}

// ListSessions returns all stored sessions, most recent first.
// It returns an empty slice if the record is absent, malformed or unreadable.
func (r *Repository) ListSessions(ctx context.Context) []models.WorkoutSession {
	sessions, _ := r.readSessions(ctx)
	return sessions
}

// readSessions decodes the sessions record. ok is false only when the store
// itself failed, so callers can tell "nothing stored" from "could not read".
func (r *Repository) readSessions(ctx context.Context) (_ []models.WorkoutSession, ok bool) {
	raw, found, err := r.store.Get(ctx, storage.KeySessions)
	if err != nil {
		r.fail("read", storage.KeySessions, err)
		return []models.WorkoutSession{}, false
	}
	if !found {
		return []models.WorkoutSession{}, true
	}

	var sessions []models.WorkoutSession
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		r.fail("decode", storage.KeySessions, err)
		return []models.WorkoutSession{}, true
	}
	if sessions == nil {
		sessions = []models.WorkoutSession{}
	}
	return sessions, true
}

// UpsertSession replaces any stored session with the same id by s and keeps
// the list sorted by date, newest first. Calling it twice with the same value
// leaves the same stored state.
//
// If the current list cannot be read the write is dropped, so a transient
// read failure never replaces the stored history with a single session.
func (r *Repository) UpsertSession(ctx context.Context, s models.WorkoutSession) {
	existing, ok := r.readSessions(ctx)
	if !ok {
		r.log.Warn("session upsert dropped", "session_id", s.ID)
		return
	}

	updated := make([]models.WorkoutSession, 0, len(existing)+1)
	for _, e := range existing {
		if e.ID != s.ID {
			updated = append(updated, e)
		}
	}
	updated = append(updated, s.Clone())
	SortByDateDesc(updated)

	data, err := json.Marshal(updated)
	if err != nil {
		r.fail("encode", storage.KeySessions, err)
		return
	}
	if err := r.store.Set(ctx, storage.KeySessions, string(data)); err != nil {
		r.fail("write", storage.KeySessions, err)
		return
	}
	r.metrics.CounterSessionsSaved.Inc()
	r.log.Debug("session saved", "session_id", s.ID, "sessions", len(updated))
}

// SortByDateDesc orders sessions newest first. Equal dates are ordered by id
// descending so the result is deterministic.
func SortByDateDesc(sessions []models.WorkoutSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].Date.Equal(sessions[j].Date) {
			return sessions[i].Date.After(sessions[j].Date)
		}
		return sessions[i].ID > sessions[j].ID
	})
}

// GetSettings returns the stored settings. Fields missing from the stored
// document, and the whole record when absent or unreadable, take default values.
func (r *Repository) GetSettings(ctx context.Context) models.UserSettings {
	settings := models.DefaultSettings()

	raw, found, err := r.store.Get(ctx, storage.KeySettings)
	if err != nil {
		r.fail("read", storage.KeySettings, err)
		return settings
	}
	if !found {
		return settings
	}
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		r.fail("decode", storage.KeySettings, err)
		return models.DefaultSettings()
	}
	return settings
}

// SaveSettings overwrites the settings record.
func (r *Repository) SaveSettings(ctx context.Context, s models.UserSettings) {
	data, err := json.Marshal(s)
	if err != nil {
		r.fail("encode", storage.KeySettings, err)
		return
	}
	if err := r.store.Set(ctx, storage.KeySettings, string(data)); err != nil {
		r.fail("write", storage.KeySettings, err)
	}
}

// ClearAll deletes every session and resets settings to defaults.
func (r *Repository) ClearAll(ctx context.Context) {
	var err error
	err = multierr.Append(err, r.store.Delete(ctx, storage.KeySessions))
	err = multierr.Append(err, r.store.Delete(ctx, storage.KeySettings))
	if err != nil {
		r.fail("delete", storage.KeySessions+","+storage.KeySettings, err)
	}
	r.SaveSettings(ctx, models.DefaultSettings())
	r.log.Info("all data cleared")
}

func (r *Repository) fail(op, key string, err error) {
	r.metrics.CounterStoreFailures.WithLabelValues(op).Inc()
	r.log.Error("storage operation failed", "op", op, "key", key, "error", err)
}
