// Package workout implements the active-session state machine: how a
// started workout progresses exercise by exercise, how sets are
// recorded against the current exercise, and how personal records are
// derived from them.
package workout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/ironledger/internal/models"
)

// Store is the persistence surface the service needs. *storage.DB
// implements it; tests use an in-memory fake. Multi-row operations
// (CreateWorkout, ReorderQueue) are transactional in the
// implementation, and the Mark*/SetRestBefore writes are
// compare-and-set against NULL.
type Store interface {
	GetWorkout(ctx context.Context, id uuid.UUID) (*models.LoggedWorkout, error)
	CreateWorkout(ctx context.Context, w models.LoggedWorkout, exercises []models.SessionExercise) error
	EndWorkout(ctx context.Context, id uuid.UUID, endedAt time.Time, notes string) error

	ListSessionExercises(ctx context.Context, workoutID uuid.UUID) ([]models.SessionExercise, error)
	GetSessionExercise(ctx context.Context, id uuid.UUID) (*models.SessionExercise, error)
	MarkExerciseStarted(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkExerciseCompleted(ctx context.Context, id uuid.UUID, at time.Time) error
	ReorderQueue(ctx context.Context, workoutID, currentID, chosenID uuid.UUID, completedAt time.Time) error

	GetPlan(ctx context.Context, id uuid.UUID) (*models.WorkoutPlan, error)
	ListPlannedExercises(ctx context.Context, planID uuid.UUID) ([]models.PlannedExercise, error)
	RecordPlanUsage(ctx context.Context, planID uuid.UUID) error

	ResolveExercise(ctx context.Context, ref models.ExerciseRef, userID int) (*models.ExerciseInfo, error)

	GetSet(ctx context.Context, id uuid.UUID) (*models.LoggedSet, error)
	MaxSetNumber(ctx context.Context, sessionExerciseID uuid.UUID) (int, error)
	InsertSet(ctx context.Context, set models.LoggedSet) error
	UpdateSet(ctx context.Context, id uuid.UUID, patch models.SetPatch) error
	DeleteSet(ctx context.Context, id uuid.UUID) error
	SetRestBefore(ctx context.Context, sessionExerciseID uuid.UUID, seconds int) error

	BestRecord(ctx context.Context, userID int, ref models.ExerciseRef, kind models.RecordKind, reps int) (*models.PersonalRecord, error)
	SaveRecord(ctx context.Context, rec models.PersonalRecord) error
}

// Service runs the session state machine over a Store. The clock is
// injected so tests control time.
type Service struct {
	store Store
	now   func() time.Time
	log   *slog.Logger
}

// NewService creates a Service. A nil clock defaults to time.Now.
func NewService(store Store, clock func() time.Time, log *slog.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, now: clock, log: log}
}

// StartParams describes how a new session begins: from a plan, or ad
// hoc from an explicit exercise list in display order.
type StartParams struct {
	PlanID    *uuid.UUID
	Name      string
	Exercises []models.ExerciseRef
}

// StartSession creates a new in-progress workout. When started from a
// plan, its exercises are copied in plan order with positions 1..n and
// the plan's usage counter is incremented; a private plan owned by
// someone else fails with ErrForbidden. Ad hoc exercise references
// that resolve to nothing are skipped rather than failing the start.
func (s *Service) StartSession(ctx context.Context, userID int, p StartParams) (*models.LoggedWorkout, []models.SessionExercise, error) {
	var plan *models.WorkoutPlan
	if p.PlanID != nil {
		var err error
		plan, err = s.store.GetPlan(ctx, *p.PlanID)
		if err != nil {
			return nil, nil, err
		}
		if !plan.IsActive {
			return nil, nil, ErrNotFound
		}
		if plan.UserID != userID && plan.Privacy != "shared" {
			return nil, nil, ErrForbidden
		}
	}

	name := p.Name
	if name == "" {
		if plan != nil {
			name = plan.Name
		} else {
			name = "Quick Workout"
		}
	}

	w := models.LoggedWorkout{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		StartedAt: s.now(),
		IsActive:  true,
	}
	if plan != nil {
		w.PlanID = &plan.ID
	}

	var exercises []models.SessionExercise
	if plan != nil {
		planned, err := s.store.ListPlannedExercises(ctx, plan.ID)
		if err != nil {
			return nil, nil, err
		}
		for _, pe := range planned {
			exercises = append(exercises, models.SessionExercise{
				ID:        uuid.New(),
				WorkoutID: w.ID,
				Exercise:  pe.Exercise,
				Position:  len(exercises) + 1,
				Notes:     pe.Notes,
			})
		}
	} else {
		for _, ref := range p.Exercises {
			if _, err := s.store.ResolveExercise(ctx, ref, userID); err != nil {
				if errors.Is(err, ErrNotFound) {
					s.log.Warn("skipping unknown exercise", "ref", ref.String())
					continue
				}
				return nil, nil, err
			}
			exercises = append(exercises, models.SessionExercise{
				ID:        uuid.New(),
				WorkoutID: w.ID,
				Exercise:  ref,
				Position:  len(exercises) + 1,
			})
		}
	}

	if err := s.store.CreateWorkout(ctx, w, exercises); err != nil {
		return nil, nil, fmt.Errorf("creating workout: %w", err)
	}

	if plan != nil {
		if err := s.store.RecordPlanUsage(ctx, plan.ID); err != nil {
			s.log.Warn("recording plan usage failed", "plan", plan.ID, "error", err)
		}
	}

	return &w, exercises, nil
}

// EnterCurrentExercise recomputes the current exercise (lowest-position
// incomplete entry) and stamps its started_at exactly once. Repeat
// calls are idempotent: the timestamp write is a compare-and-set
// against NULL, so re-entering never resets the timer. A nil exercise
// with nil error means every exercise is completed.
func (s *Service) EnterCurrentExercise(ctx context.Context, userID int, workoutID uuid.UUID) (*models.SessionExercise, error) {
	w, err := s.store.GetWorkout(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, ErrUnauthorized
	}
	if w.Ended() {
		return nil, ErrWorkoutEnded
	}

	exercises, err := s.store.ListSessionExercises(ctx, workoutID)
	if err != nil {
		return nil, err
	}

	current := CurrentExercise(exercises)
	if current == nil {
		return nil, nil
	}

	if current.StartedAt == nil {
		at := s.now()
		if err := s.store.MarkExerciseStarted(ctx, current.ID, at); err != nil {
			return nil, fmt.Errorf("marking exercise started: %w", err)
		}
		current.StartedAt = &at
	}

	return current, nil
}

// CompleteExercise marks a session exercise done. Already-completed
// exercises are a no-op, not an error.
func (s *Service) CompleteExercise(ctx context.Context, userID int, sessionExerciseID uuid.UUID) error {
	se, err := s.store.GetSessionExercise(ctx, sessionExerciseID)
	if err != nil {
		return err
	}
	w, err := s.store.GetWorkout(ctx, se.WorkoutID)
	if err != nil {
		return err
	}
	if w.UserID != userID {
		return ErrUnauthorized
	}
	if se.Completed() {
		return nil
	}
	return s.store.MarkExerciseCompleted(ctx, sessionExerciseID, s.now())
}

// SelectNextExercise completes current and pulls chosen to the front
// of the incomplete queue, renumbering the rest in their prior
// relative order. The renumbering runs in a single transaction so
// concurrent calls cannot interleave and split the queue.
func (s *Service) SelectNextExercise(ctx context.Context, userID int, currentID, chosenID uuid.UUID) error {
	if chosenID == currentID {
		return fmt.Errorf("%w: chosen exercise is the current exercise", ErrInvalidArgument)
	}
	current, err := s.store.GetSessionExercise(ctx, currentID)
	if err != nil {
		return err
	}
	chosen, err := s.store.GetSessionExercise(ctx, chosenID)
	if err != nil {
		return err
	}
	if current.WorkoutID != chosen.WorkoutID {
		return ErrCrossWorkout
	}

	w, err := s.store.GetWorkout(ctx, current.WorkoutID)
	if err != nil {
		return err
	}
	if w.UserID != userID {
		return ErrUnauthorized
	}
	if w.Ended() {
		return ErrWorkoutEnded
	}
	if chosen.Completed() {
		return fmt.Errorf("%w: chosen exercise is already completed", ErrInvalidArgument)
	}

	return s.store.ReorderQueue(ctx, w.ID, currentID, chosenID, s.now())
}

// EndSession closes the workout and stores the final notes. Ending an
// already-ended workout is reported as a warning outcome
// (alreadyEnded true), never an error, and leaves ended_at unchanged.
func (s *Service) EndSession(ctx context.Context, userID int, workoutID uuid.UUID, notes string) (alreadyEnded bool, err error) {
	w, err := s.store.GetWorkout(ctx, workoutID)
	if err != nil {
		return false, err
	}
	if w.UserID != userID {
		return false, ErrUnauthorized
	}
	if w.Ended() {
		s.log.Warn("workout already ended", "workout", workoutID)
		return true, nil
	}
	if err := s.store.EndWorkout(ctx, workoutID, s.now(), notes); err != nil {
		return false, fmt.Errorf("ending workout: %w", err)
	}
	return false, nil
}
