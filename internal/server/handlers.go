package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/plan"
	"github.com/go-chi/chi/v5"
)

type planDay struct {
	DayType   models.DayType              `json:"dayType"`
	Title     string                      `json:"title"`
	Exercises []models.ExerciseDefinition `json:"exercises"`
}

func dayPlan(day models.DayType) (planDay, bool) {
	defs, ok := plan.Exercises(day)
	if !ok {
		return planDay{}, false
	}
	return planDay{DayType: day, Title: day.Title(), Exercises: defs}, true
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var days []planDay
	for _, d := range plan.Days() {
		p, _ := dayPlan(d)
		days = append(days, p)
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handlePlanDay(w http.ResponseWriter, r *http.Request) {
	p, ok := dayPlan(models.DayType(chi.URLParam(r, "day")))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown day type"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	win, ok := parseWindow(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.history.Sessions(r.Context(), win))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	win, ok := parseWindow(w, r)
	if !ok {
		return
	}
	st := s.history.Stats(r.Context(), win)
	writeJSON(w, http.StatusOK, map[string]any{
		"period":        win,
		"stats":         st,
		"totalTime":     history.FormatMinutes(st.TotalTimeMinutes),
		"avgTime":       history.FormatMinutes(int(st.AvgTimeMinutes)),
		"thisWeekCount": s.history.WeeklyCount(r.Context()),
	})
}

func (s *Server) handleLastSet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	last, ok := s.history.LastSetFor(r.Context(), id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no sets logged for " + id})
		return
	}
	writeJSON(w, http.StatusOK, last)
}

func (s *Server) handleNextDay(w http.ResponseWriter, r *http.Request) {
	day := s.history.NextDay(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{
		"dayType": string(day),
		"title":   day.Title(),
	})
}

func (s *Server) handleWeeklyCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"count": s.history.WeeklyCount(r.Context())})
}

func parseWindow(w http.ResponseWriter, r *http.Request) (history.Window, bool) {
	win, err := history.ParseWindow(r.URL.Query().Get("period"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return "", false
	}
	return win, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
