package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/meltforce/ironledger/internal/models"
)

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	catalog, err := s.db.ListCatalogExercises(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	custom, err := s.db.ListCustomExercises(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"catalog": catalog,
		"custom":  custom,
	})
}

type customExerciseRequest struct {
	Name                  string `json:"name"`
	Equipment             string `json:"equipment"`
	PrimaryMuscleGroup    string `json:"primary_muscle_group"`
	SecondaryMuscleGroups string `json:"secondary_muscle_groups"`
	WeightIncrement       string `json:"weight_increment"`
}

func (s *Server) handleCreateCustomExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req customExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.WeightIncrement == "" {
		req.WeightIncrement = "plate"
	}

	created, err := s.db.CreateCustomExercise(r.Context(), uid, models.ExerciseInfo{
		Name:                  req.Name,
		Equipment:             req.Equipment,
		PrimaryMuscleGroup:    req.PrimaryMuscleGroup,
		SecondaryMuscleGroups: req.SecondaryMuscleGroups,
		WeightIncrement:       req.WeightIncrement,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCustomExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var patch struct {
		Name                  *string `json:"name"`
		Equipment             *string `json:"equipment"`
		PrimaryMuscleGroup    *string `json:"primary_muscle_group"`
		SecondaryMuscleGroups *string `json:"secondary_muscle_groups"`
		WeightIncrement       *string `json:"weight_increment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	current, err := s.db.ResolveExercise(r.Context(), models.CustomRef(id), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if patch.Name != nil {
		if *patch.Name == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name cannot be empty"})
			return
		}
		current.Name = *patch.Name
	}
	if patch.Equipment != nil {
		current.Equipment = *patch.Equipment
	}
	if patch.PrimaryMuscleGroup != nil {
		current.PrimaryMuscleGroup = *patch.PrimaryMuscleGroup
	}
	if patch.SecondaryMuscleGroups != nil {
		current.SecondaryMuscleGroups = *patch.SecondaryMuscleGroups
	}
	if patch.WeightIncrement != nil {
		current.WeightIncrement = *patch.WeightIncrement
	}

	if err := s.db.UpdateCustomExercise(r.Context(), uid, id, *current); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (s *Server) handleDeleteCustomExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteCustomExercise(r.Context(), uid, id); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	settings, err := s.db.GetOrCreateSettings(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type settingsPatch struct {
	DefaultBarWeight    *float64 `json:"default_bar_weight"`
	WeightUnit          *string  `json:"weight_unit"`
	DefaultRestTimeSec  *int     `json:"default_rest_time_sec"`
	ShowPlateCalculator *bool    `json:"show_plate_calculator"`
	ShowWarmupSets      *bool    `json:"show_warmup_sets"`
	RestTimerSound      *bool    `json:"rest_timer_sound"`
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var patch settingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	settings, err := s.db.GetOrCreateSettings(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if patch.DefaultBarWeight != nil {
		if *patch.DefaultBarWeight < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bar weight must be non-negative"})
			return
		}
		settings.DefaultBarWeight = *patch.DefaultBarWeight
	}
	if patch.WeightUnit != nil {
		if *patch.WeightUnit != "lbs" && *patch.WeightUnit != "kg" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight_unit must be lbs or kg"})
			return
		}
		settings.WeightUnit = *patch.WeightUnit
	}
	if patch.DefaultRestTimeSec != nil {
		if *patch.DefaultRestTimeSec < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rest time must be non-negative"})
			return
		}
		settings.DefaultRestTimeSec = *patch.DefaultRestTimeSec
	}
	if patch.ShowPlateCalculator != nil {
		settings.ShowPlateCalculator = *patch.ShowPlateCalculator
	}
	if patch.ShowWarmupSets != nil {
		settings.ShowWarmupSets = *patch.ShowWarmupSets
	}
	if patch.RestTimerSound != nil {
		settings.RestTimerSound = *patch.RestTimerSound
	}

	if err := s.db.UpdateSettings(r.Context(), *settings); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	since := time.Now().AddDate(-1, 0, 0)
	if v := r.URL.Query().Get("since"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "since must be YYYY-MM-DD"})
			return
		}
		since = parsed
	}

	stats, err := s.db.GetTrainingStats(r.Context(), uid, since)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
