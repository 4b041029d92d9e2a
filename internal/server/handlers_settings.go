package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/claude/liftlog/internal/export"
	"github.com/claude/liftlog/internal/models"
)

type settingsRequest struct {
	BodyWeight         *float64 `json:"bodyWeight"`
	WeekStartsWithDay1 *bool    `json:"weekStartsWithDay1"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.repo.GetSettings(r.Context()))
}

// handleUpdateSettings applies the fields present in the body; last workout
// info is only changed by finishing a session.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.BodyWeight != nil && *req.BodyWeight <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bodyWeight must be a positive number"})
		return
	}

	settings := s.sessions.UpdateSettings(r.Context(), func(st *models.UserSettings) {
		if req.BodyWeight != nil {
			st.BodyWeight = *req.BodyWeight
		}
		if req.WeekStartsWithDay1 != nil {
			st.WeekStartsWithDay1 = *req.WeekStartsWithDay1
		}
	})
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	settings, err := s.sessions.ClearData(r.Context())
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	doc := export.Snapshot(r.Context(), s.repo, now)
	name := "liftlog-export-" + now.Format("2006-01-02")

	var (
		buf         bytes.Buffer
		err         error
		contentType string
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		err = export.WriteJSON(&buf, doc)
		contentType = "application/json"
		name += ".json"
	case "xlsx":
		err = export.WriteXLSX(&buf, doc)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		name += ".xlsx"
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown format " + strconv.Quote(format)})
		return
	}
	if err != nil {
		s.log.Error("export failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
