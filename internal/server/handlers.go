package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/ironledger/internal/metrics"
	"github.com/meltforce/ironledger/internal/models"
	"github.com/meltforce/ironledger/internal/workout"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	info := userInfoFromContext(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":      uid,
		"login":        info.Login,
		"display_name": info.DisplayName,
	})
}

type startWorkoutRequest struct {
	PlanID    *uuid.UUID           `json:"plan_id"`
	Name      string               `json:"name"`
	Exercises []models.ExerciseRef `json:"exercises"`
}

func (s *Server) handleStartWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req startWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	started, exercises, err := s.svc.StartSession(r.Context(), uid, workout.StartParams{
		PlanID:    req.PlanID,
		Name:      req.Name,
		Exercises: req.Exercises,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"workout":   started,
		"exercises": exercises,
	})
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	since := time.Now().AddDate(0, -1, 0)
	if v := r.URL.Query().Get("since"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "since must be YYYY-MM-DD"})
			return
		}
		since = parsed
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	workouts, err := s.db.ListRecentWorkouts(r.Context(), uid, since, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleActiveWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	active, err := s.db.GetActiveWorkout(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	detail, err := s.db.GetWorkoutDetail(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if detail.UserID != uid {
		s.writeError(w, workout.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type endWorkoutRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) handleEndWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req endWorkoutRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}

	alreadyEnded, err := s.svc.EndSession(r.Context(), uid, id, req.Notes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := map[string]any{"ended": true}
	if alreadyEnded {
		resp["warning"] = "workout was already ended"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEnterCurrent(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	current, err := s.svc.EnterCurrentExercise(r.Context(), uid, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if current == nil {
		writeJSON(w, http.StatusOK, map[string]any{"all_completed": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"current": current})
}

func (s *Server) handleCompleteExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.svc.CompleteExercise(r.Context(), uid, id); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"completed": true})
}

type selectNextRequest struct {
	NextID uuid.UUID `json:"next_id"`
}

func (s *Server) handleSelectNext(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req selectNextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.NextID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "next_id is required"})
		return
	}

	if err := s.svc.SelectNextExercise(r.Context(), uid, id, req.NextID); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"reordered": true})
}

type addSetRequest struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	IsWarmup  bool    `json:"is_warmup"`
	IsDropset bool    `json:"is_dropset"`
	Notes     string  `json:"notes"`
	RestSec   *int    `json:"rest_sec"`
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req addSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	set, err := s.svc.AddSet(r.Context(), uid, id, workout.AddSetParams{
		Weight:    req.Weight,
		Reps:      req.Reps,
		IsWarmup:  req.IsWarmup,
		IsDropset: req.IsDropset,
		Notes:     req.Notes,
		RestSec:   req.RestSec,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var patch models.SetPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.svc.UpdateSet(r.Context(), uid, id, patch); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeleteSet(r.Context(), uid, id); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handlePlates(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	target, err := strconv.ParseFloat(r.URL.Query().Get("weight"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight parameter required"})
		return
	}

	bar := 0.0
	if v := r.URL.Query().Get("bar"); v != "" {
		bar, err = strconv.ParseFloat(v, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid bar weight"})
			return
		}
	} else {
		settings, err := s.db.GetOrCreateSettings(r.Context(), uid)
		if err != nil {
			s.writeError(w, err)
			return
		}
		bar = settings.DefaultBarWeight
	}

	breakdown, err := metrics.CalculatePlates(target, bar, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	records, err := s.db.ListRecords(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ID"})
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps service errors onto HTTP statuses. Ownership
// failures deliberately share 403 with visibility failures so probing
// cannot distinguish "exists but not yours" from "forbidden".
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workout.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, workout.ErrUnauthorized), errors.Is(err, workout.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, workout.ErrWorkoutEnded):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "workout already ended"})
	case errors.Is(err, workout.ErrCrossWorkout),
		errors.Is(err, workout.ErrInvalidArgument),
		errors.Is(err, metrics.ErrBelowBarWeight),
		errors.Is(err, metrics.ErrInvalidReps):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
