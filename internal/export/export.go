// Package export writes a snapshot of all stored data as a JSON document or
// an XLSX workbook.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// Document is the full export: every session, the settings and when the
// snapshot was taken.
type Document struct {
	Sessions   []models.WorkoutSession `json:"sessions"`
	Settings   models.UserSettings     `json:"settings"`
	ExportDate time.Time               `json:"exportDate"`
}

// Source supplies the data to export.
type Source interface {
	ListSessions(ctx context.Context) []models.WorkoutSession
	GetSettings(ctx context.Context) models.UserSettings
}

// Snapshot reads the current sessions and settings from src.
func Snapshot(ctx context.Context, src Source, now time.Time) Document {
	return Document{
		Sessions:   src.ListSessions(ctx),
		Settings:   src.GetSettings(ctx),
		ExportDate: now.UTC(),
	}
}

// WriteJSON encodes doc with two-space indentation.
func WriteJSON(w io.Writer, doc Document) error {
	if doc.Sessions == nil {
		doc.Sessions = []models.WorkoutSession{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// ReadJSON decodes a document written by WriteJSON. Settings missing from the
// document keep their default values.
func ReadJSON(r io.Reader) (Document, error) {
	doc := Document{Settings: models.DefaultSettings()}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decoding export: %w", err)
	}
	return doc, nil
}
