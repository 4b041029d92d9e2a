package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/session"
	"github.com/go-chi/chi/v5"
)

type startRequest struct {
	DayType models.DayType `json:"dayType"`
}

// recordSetRequest carries pointers so missing fields can be told apart
// from zero values.
type recordSetRequest struct {
	ExerciseID string   `json:"exerciseId"`
	SetIndex   *int     `json:"setIndex"`
	Weight     *float64 `json:"weight"`
	Reps       *int     `json:"reps"`
}

func (req recordSetRequest) validate() error {
	if req.ExerciseID == "" {
		return errors.New("exerciseId is required")
	}
	if req.Weight == nil || req.Reps == nil {
		return errors.New("weight and reps are required")
	}
	if *req.Weight < 0 || *req.Reps < 0 {
		return errors.New("weight and reps must not be negative")
	}
	return nil
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	st, err := s.sessions.Start(r.Context(), req.DayType)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.Status())
}

func (s *Server) handleRecordSet(w http.ResponseWriter, r *http.Request) {
	var req recordSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight and reps must be numbers: " + err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var (
		st  session.Status
		err error
	)
	if req.SetIndex == nil {
		st, err = s.sessions.AppendSet(r.Context(), req.ExerciseID, *req.Weight, *req.Reps)
	} else {
		st, err = s.sessions.RecordSet(r.Context(), req.ExerciseID, *req.SetIndex, *req.Weight, *req.Reps)
	}
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleRemoveSet(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set index"})
		return
	}
	st, err := s.sessions.RemoveSet(r.Context(), chi.URLParam(r, "exerciseID"), index)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	st, err := s.sessions.Finish(r.Context())
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Cancel(); err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessions.Status())
}

// writeSessionError maps lifecycle errors to HTTP statuses.
func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNoActiveSession), errors.Is(err, session.ErrSessionInProgress):
		status = http.StatusConflict
	case errors.Is(err, session.ErrUnknownExercise):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrInvalidDayType), errors.Is(err, session.ErrSetIndexOutOfRange):
		status = http.StatusBadRequest
	default:
		s.log.Error("session operation failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
