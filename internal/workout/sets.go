package workout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/ironledger/internal/metrics"
	"github.com/meltforce/ironledger/internal/models"
)

// AddSetParams carries the client-supplied fields for a new set.
// RestSec is the client timer's elapsed rest in seconds; when absent
// the stored rest stays NULL. Server timestamps are never used to
// guess rest, since idle-viewing time is indistinguishable from
// actual rest on the server clock.
type AddSetParams struct {
	Weight    float64
	Reps      int
	IsWarmup  bool
	IsDropset bool
	Notes     string
	RestSec   *int
}

// AddSet appends a set to a session exercise. Set numbers are
// monotonic: 1 + the highest number ever assigned to this exercise,
// never reused after deletions. The first set's rest is recorded once
// on the session exercise (rest before the exercise began); later
// sets carry their own rest value. Fails with ErrWorkoutEnded when
// the parent workout is closed.
func (s *Service) AddSet(ctx context.Context, userID int, sessionExerciseID uuid.UUID, p AddSetParams) (*models.LoggedSet, error) {
	if p.Weight < 0 || p.Reps < 0 || (p.RestSec != nil && *p.RestSec < 0) {
		return nil, fmt.Errorf("%w: weight, reps and rest must be non-negative", ErrInvalidArgument)
	}

	se, err := s.store.GetSessionExercise(ctx, sessionExerciseID)
	if err != nil {
		return nil, err
	}
	w, err := s.store.GetWorkout(ctx, se.WorkoutID)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, ErrUnauthorized
	}
	if w.Ended() {
		return nil, ErrWorkoutEnded
	}

	maxNum, err := s.store.MaxSetNumber(ctx, sessionExerciseID)
	if err != nil {
		return nil, fmt.Errorf("reading set numbers: %w", err)
	}

	now := s.now()
	set := models.LoggedSet{
		ID:                uuid.New(),
		SessionExerciseID: sessionExerciseID,
		SetNumber:         maxNum + 1,
		Weight:            p.Weight,
		Reps:              p.Reps,
		IsWarmup:          p.IsWarmup,
		IsDropset:         p.IsDropset,
		StartedAt:         now,
		CompletedAt:       &now,
		Notes:             p.Notes,
	}

	if set.SetNumber == 1 {
		// Rest before the exercise's first set belongs to the session
		// exercise, captured once (CAS against NULL in the store).
		if p.RestSec != nil {
			if err := s.store.SetRestBefore(ctx, sessionExerciseID, *p.RestSec); err != nil {
				return nil, fmt.Errorf("recording rest before exercise: %w", err)
			}
		}
	} else {
		set.RestSec = p.RestSec
	}

	if err := s.store.InsertSet(ctx, set); err != nil {
		return nil, fmt.Errorf("inserting set: %w", err)
	}

	s.updateRecords(ctx, userID, se, &set)

	return &set, nil
}

// UpdateSet applies only the fields present in the patch. Ownership of
// the parent workout is required; the set keeps its number.
func (s *Service) UpdateSet(ctx context.Context, userID int, setID uuid.UUID, patch models.SetPatch) error {
	if (patch.Weight != nil && *patch.Weight < 0) || (patch.Reps != nil && *patch.Reps < 0) {
		return fmt.Errorf("%w: weight and reps must be non-negative", ErrInvalidArgument)
	}
	if err := s.authorizeSet(ctx, userID, setID); err != nil {
		return err
	}
	return s.store.UpdateSet(ctx, setID, patch)
}

// DeleteSet hard-deletes a set. Remaining sets are not renumbered;
// gaps in set_number are expected after deletion.
func (s *Service) DeleteSet(ctx context.Context, userID int, setID uuid.UUID) error {
	if err := s.authorizeSet(ctx, userID, setID); err != nil {
		return err
	}
	return s.store.DeleteSet(ctx, setID)
}

func (s *Service) authorizeSet(ctx context.Context, userID int, setID uuid.UUID) error {
	set, err := s.store.GetSet(ctx, setID)
	if err != nil {
		return err
	}
	se, err := s.store.GetSessionExercise(ctx, set.SessionExerciseID)
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
	return nil
}

// updateRecords opportunistically refreshes personal records after a
// set write. Records are regenerable best-seen-so-far facts, so a
// failure here is logged and the set stands. Warmup and zero-rep sets
// never establish records, and a set against a deleted exercise has
// nothing to attach a record to.
func (s *Service) updateRecords(ctx context.Context, userID int, se *models.SessionExercise, set *models.LoggedSet) {
	if set.IsWarmup || set.Reps < 1 || se.Exercise.IsZero() {
		return
	}

	est, err := metrics.Estimate1RM(set.Weight, set.Reps)
	if err != nil {
		return
	}

	// Best weight at this exact rep count.
	best, err := s.store.BestRecord(ctx, userID, se.Exercise, models.RecordWeightAtReps, set.Reps)
	if err != nil {
		s.log.Warn("record lookup failed", "kind", models.RecordWeightAtReps, "error", err)
	} else if best == nil || set.Weight > best.Weight {
		rec := newRecord(best, userID, se.Exercise, models.RecordWeightAtReps)
		rec.Weight = set.Weight
		rec.Reps = set.Reps
		rec.Estimated1RM = &est
		rec.AchievedAt = set.StartedAt
		rec.LoggedSetID = &set.ID
		if err := s.store.SaveRecord(ctx, rec); err != nil {
			s.log.Warn("saving weight-at-reps record failed", "error", err)
		}
	}

	// Best estimated one-rep max, across all rep counts.
	best, err = s.store.BestRecord(ctx, userID, se.Exercise, models.RecordOneRepMax, 0)
	if err != nil {
		s.log.Warn("record lookup failed", "kind", models.RecordOneRepMax, "error", err)
		return
	}
	if best == nil || best.Estimated1RM == nil || est > *best.Estimated1RM {
		rec := newRecord(best, userID, se.Exercise, models.RecordOneRepMax)
		rec.Weight = set.Weight
		rec.Reps = set.Reps
		rec.Estimated1RM = &est
		rec.AchievedAt = set.StartedAt
		rec.LoggedSetID = &set.ID
		if err := s.store.SaveRecord(ctx, rec); err != nil {
			s.log.Warn("saving one-rep-max record failed", "error", err)
		}
	}
}

// newRecord reuses the existing record's identity when beating it, so
// each (user, exercise, kind, reps) slot stays a single row.
func newRecord(existing *models.PersonalRecord, userID int, ref models.ExerciseRef, kind models.RecordKind) models.PersonalRecord {
	if existing != nil {
		rec := *existing
		return rec
	}
	return models.PersonalRecord{
		ID:       uuid.New(),
		UserID:   userID,
		Exercise: ref,
		Kind:     kind,
	}
}
