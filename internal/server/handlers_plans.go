package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/meltforce/ironledger/internal/models"
	"github.com/meltforce/ironledger/internal/workout"
)

type planExerciseRequest struct {
	Exercise     models.ExerciseRef `json:"exercise"`
	TargetSets   int                `json:"target_sets"`
	TargetReps   *int               `json:"target_reps"`
	TargetWeight *float64           `json:"target_weight"`
	Notes        string             `json:"notes"`
}

type planRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Privacy     string                `json:"privacy"`
	Tags        string                `json:"tags"`
	Exercises   []planExerciseRequest `json:"exercises"`
}

func (p planRequest) validate() string {
	if p.Name == "" {
		return "name is required"
	}
	switch p.Privacy {
	case "", "private", "shared":
	default:
		return "privacy must be private or shared"
	}
	for _, e := range p.Exercises {
		if e.Exercise.IsZero() {
			return "every exercise needs a valid reference"
		}
	}
	return ""
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	plans, err := s.db.ListPlans(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	plan := models.WorkoutPlan{
		ID:          uuid.New(),
		UserID:      uid,
		Name:        req.Name,
		Description: req.Description,
		Privacy:     req.Privacy,
		Tags:        req.Tags,
		IsActive:    true,
	}
	if plan.Privacy == "" {
		plan.Privacy = "private"
	}

	exercises := plannedExercises(plan.ID, req.Exercises)
	if err := s.db.CreatePlan(r.Context(), plan, exercises); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"plan":      plan,
		"exercises": exercises,
	})
}

func plannedExercises(planID uuid.UUID, reqs []planExerciseRequest) []models.PlannedExercise {
	var out []models.PlannedExercise
	for i, e := range reqs {
		targetSets := e.TargetSets
		if targetSets == 0 {
			targetSets = 3
		}
		out = append(out, models.PlannedExercise{
			ID:           uuid.New(),
			PlanID:       planID,
			Exercise:     e.Exercise,
			Position:     i + 1,
			TargetSets:   targetSets,
			TargetReps:   e.TargetReps,
			TargetWeight: e.TargetWeight,
			Notes:        e.Notes,
		})
	}
	return out
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	plan, err := s.db.GetPlan(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !plan.IsActive {
		s.writeError(w, workout.ErrNotFound)
		return
	}
	if plan.UserID != uid && plan.Privacy != "shared" {
		s.writeError(w, workout.ErrForbidden)
		return
	}

	exercises, err := s.db.ListPlannedExercises(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"plan":      plan,
		"exercises": exercises,
	})
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	plan := models.WorkoutPlan{
		ID:          id,
		UserID:      uid,
		Name:        req.Name,
		Description: req.Description,
		Privacy:     req.Privacy,
		Tags:        req.Tags,
	}
	if plan.Privacy == "" {
		plan.Privacy = "private"
	}

	if err := s.db.UpdatePlan(r.Context(), uid, plan, plannedExercises(id, req.Exercises)); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeletePlan(r.Context(), uid, id); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
