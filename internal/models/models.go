package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutPlan is a reusable workout blueprint owned by one user.
type WorkoutPlan struct {
	ID          uuid.UUID `json:"id"`
	UserID      int       `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Privacy     string    `json:"privacy"` // "private" or "shared"
	Tags        string    `json:"tags,omitempty"`
	TimesUsed   int       `json:"times_used"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlannedExercise is one slot in a plan: which exercise, where in the
// order, and the optional targets.
type PlannedExercise struct {
	ID           uuid.UUID   `json:"id"`
	PlanID       uuid.UUID   `json:"plan_id"`
	Exercise     ExerciseRef `json:"exercise"`
	Position     int         `json:"position"`
	TargetSets   int         `json:"target_sets"`
	TargetReps   *int        `json:"target_reps,omitempty"`
	TargetWeight *float64    `json:"target_weight,omitempty"`
	Notes        string      `json:"notes,omitempty"`
}

// LoggedWorkout is one real session at the gym. EndedAt is nil while
// the session is in progress.
type LoggedWorkout struct {
	ID        uuid.UUID  `json:"id"`
	UserID    int        `json:"user_id"`
	PlanID    *uuid.UUID `json:"plan_id,omitempty"`
	Name      string     `json:"name"`
	Notes     string     `json:"notes,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	IsActive  bool       `json:"is_active"`
}

// Ended reports whether the session has been closed.
func (w *LoggedWorkout) Ended() bool { return w.EndedAt != nil }

// Duration is end minus start, or zero while in progress.
func (w *LoggedWorkout) Duration() time.Duration {
	if w.EndedAt == nil {
		return 0
	}
	return w.EndedAt.Sub(w.StartedAt)
}

// SessionExercise is one exercise instance inside a LoggedWorkout.
// Position establishes the queue order; StartedAt is set the first
// time the exercise becomes current, CompletedAt when the user moves
// past it. RestBeforeSec is the client-measured rest preceding the
// first set, captured once.
type SessionExercise struct {
	ID            uuid.UUID   `json:"id"`
	WorkoutID     uuid.UUID   `json:"workout_id"`
	Exercise      ExerciseRef `json:"exercise"`
	Position      int         `json:"position"`
	Notes         string      `json:"notes,omitempty"`
	StartedAt     *time.Time  `json:"started_at,omitempty"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
	RestBeforeSec *int        `json:"rest_before_sec,omitempty"`
}

// Completed reports whether the exercise has been marked done.
func (e *SessionExercise) Completed() bool { return e.CompletedAt != nil }

// LoggedSet is one performed set. RestSec is the client-measured rest
// preceding this set; nil for the first set of an exercise or when the
// client supplied no timer value.
type LoggedSet struct {
	ID                uuid.UUID  `json:"id"`
	SessionExerciseID uuid.UUID  `json:"session_exercise_id"`
	SetNumber         int        `json:"set_number"`
	Weight            float64    `json:"weight"`
	Reps              int        `json:"reps"`
	IsWarmup          bool       `json:"is_warmup"`
	IsDropset         bool       `json:"is_dropset"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	RestSec           *int       `json:"rest_sec,omitempty"`
	Notes             string     `json:"notes,omitempty"`
}

// SetPatch carries the mutable set fields for a partial update; nil
// fields are left untouched.
type SetPatch struct {
	Weight    *float64 `json:"weight,omitempty"`
	Reps      *int     `json:"reps,omitempty"`
	IsWarmup  *bool    `json:"is_warmup,omitempty"`
	IsDropset *bool    `json:"is_dropset,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

// RecordKind is the type of personal record tracked per exercise.
type RecordKind string

const (
	RecordWeightAtReps RecordKind = "weight_at_reps"
	RecordOneRepMax    RecordKind = "one_rep_max"
)

// PersonalRecord is a derived best-seen-so-far fact. Regenerating all
// records from the full set history converges to the same rows.
type PersonalRecord struct {
	ID           uuid.UUID   `json:"id"`
	UserID       int         `json:"user_id"`
	Exercise     ExerciseRef `json:"exercise"`
	Kind         RecordKind  `json:"kind"`
	Weight       float64     `json:"weight"`
	Reps         int         `json:"reps"`
	Estimated1RM *float64    `json:"estimated_1rm,omitempty"`
	AchievedAt   time.Time   `json:"achieved_at"`
	LoggedSetID  *uuid.UUID  `json:"logged_set_id,omitempty"`
}

// UserSettings is the per-user singleton of preferences, lazily
// created with these defaults on first access.
type UserSettings struct {
	UserID              int     `json:"user_id"`
	DefaultBarWeight    float64 `json:"default_bar_weight"`
	WeightUnit          string  `json:"weight_unit"` // "lbs" or "kg"
	DefaultRestTimeSec  int     `json:"default_rest_time_sec"`
	ShowPlateCalculator bool    `json:"show_plate_calculator"`
	ShowWarmupSets      bool    `json:"show_warmup_sets"`
	RestTimerSound      bool    `json:"rest_timer_sound"`
}

// DefaultSettings returns the settings a new user starts with.
func DefaultSettings(userID int) UserSettings {
	return UserSettings{
		UserID:              userID,
		DefaultBarWeight:    45.00,
		WeightUnit:          "lbs",
		DefaultRestTimeSec:  90,
		ShowPlateCalculator: true,
		ShowWarmupSets:      true,
		RestTimerSound:      true,
	}
}
