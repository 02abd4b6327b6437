package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/ironledger/internal/models"
	"github.com/meltforce/ironledger/internal/workout"
)

// GetWorkout fetches one workout by ID.
func (db *DB) GetWorkout(ctx context.Context, id uuid.UUID) (*models.LoggedWorkout, error) {
	var w models.LoggedWorkout
	err := db.Pool.QueryRow(ctx, `
		SELECT id, user_id, plan_id, name, notes, started_at, ended_at, is_active
		FROM logged_workouts
		WHERE id = $1 AND is_active
	`, id).Scan(&w.ID, &w.UserID, &w.PlanID, &w.Name, &w.Notes, &w.StartedAt, &w.EndedAt, &w.IsActive)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &w, nil
}

// CreateWorkout inserts the workout and its initial exercise queue in
// one transaction, so a half-created session never becomes visible.
func (db *DB) CreateWorkout(ctx context.Context, w models.LoggedWorkout, exercises []models.SessionExercise) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO logged_workouts (id, user_id, plan_id, name, notes, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, w.ID, w.UserID, w.PlanID, w.Name, w.Notes, w.StartedAt)
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}

	for _, se := range exercises {
		catalogID, customID := se.Exercise.Columns()
		_, err := tx.Exec(ctx, `
			INSERT INTO session_exercises (id, workout_id, catalog_exercise_id, custom_exercise_id, position, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, se.ID, se.WorkoutID, catalogID, customID, se.Position, se.Notes)
		if err != nil {
			return fmt.Errorf("inserting session exercise: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// EndWorkout stamps ended_at and the final notes. The NULL guard makes
// the close idempotent at the row level; a second close matches
// nothing and reports not found.
func (db *DB) EndWorkout(ctx context.Context, id uuid.UUID, endedAt time.Time, notes string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE logged_workouts
		SET ended_at = $2, notes = $3
		WHERE id = $1 AND ended_at IS NULL
	`, id, endedAt, notes)
	if err != nil {
		return fmt.Errorf("ending workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workout.ErrNotFound
	}
	return nil
}

// ListRecentWorkouts returns the user's workouts started on or after
// since, newest first, capped at limit.
func (db *DB) ListRecentWorkouts(ctx context.Context, userID int, since time.Time, limit int) ([]models.LoggedWorkout, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, plan_id, name, notes, started_at, ended_at, is_active
		FROM logged_workouts
		WHERE user_id = $1 AND is_active AND started_at >= $2
		ORDER BY started_at DESC
		LIMIT $3
	`, userID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var out []models.LoggedWorkout
	for rows.Next() {
		var w models.LoggedWorkout
		if err := rows.Scan(&w.ID, &w.UserID, &w.PlanID, &w.Name, &w.Notes, &w.StartedAt, &w.EndedAt, &w.IsActive); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// GetActiveWorkout returns the user's most recent in-progress workout,
// or ErrNotFound when nothing is open.
func (db *DB) GetActiveWorkout(ctx context.Context, userID int) (*models.LoggedWorkout, error) {
	var w models.LoggedWorkout
	err := db.Pool.QueryRow(ctx, `
		SELECT id, user_id, plan_id, name, notes, started_at, ended_at, is_active
		FROM logged_workouts
		WHERE user_id = $1 AND is_active AND ended_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1
	`, userID).Scan(&w.ID, &w.UserID, &w.PlanID, &w.Name, &w.Notes, &w.StartedAt, &w.EndedAt, &w.IsActive)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &w, nil
}

// ListSessionExercises returns the workout's queue in position order.
func (db *DB) ListSessionExercises(ctx context.Context, workoutID uuid.UUID) ([]models.SessionExercise, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, workout_id, catalog_exercise_id, custom_exercise_id, position, notes, started_at, completed_at, rest_before_sec
		FROM session_exercises
		WHERE workout_id = $1
		ORDER BY position
	`, workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying session exercises: %w", err)
	}
	defer rows.Close()
	return scanSessionExercises(rows)
}

func scanSessionExercises(rows pgx.Rows) ([]models.SessionExercise, error) {
	var out []models.SessionExercise
	for rows.Next() {
		var se models.SessionExercise
		var catalogID, customID *uuid.UUID
		if err := rows.Scan(&se.ID, &se.WorkoutID, &catalogID, &customID, &se.Position,
			&se.Notes, &se.StartedAt, &se.CompletedAt, &se.RestBeforeSec); err != nil {
			return nil, fmt.Errorf("scanning session exercise: %w", err)
		}
		se.Exercise = models.RefFromColumns(catalogID, customID)
		out = append(out, se)
	}
	return out, rows.Err()
}

// GetSessionExercise fetches one queue entry by ID.
func (db *DB) GetSessionExercise(ctx context.Context, id uuid.UUID) (*models.SessionExercise, error) {
	var se models.SessionExercise
	var catalogID, customID *uuid.UUID
	err := db.Pool.QueryRow(ctx, `
		SELECT id, workout_id, catalog_exercise_id, custom_exercise_id, position, notes, started_at, completed_at, rest_before_sec
		FROM session_exercises
		WHERE id = $1
	`, id).Scan(&se.ID, &se.WorkoutID, &catalogID, &customID, &se.Position,
		&se.Notes, &se.StartedAt, &se.CompletedAt, &se.RestBeforeSec)
	if err != nil {
		return nil, mapNotFound(err)
	}
	se.Exercise = models.RefFromColumns(catalogID, customID)
	return &se, nil
}

// MarkExerciseStarted stamps started_at once. The NULL guard keeps the
// first timestamp under concurrent enters.
func (db *DB) MarkExerciseStarted(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE session_exercises SET started_at = $2
		WHERE id = $1 AND started_at IS NULL
	`, id, at)
	if err != nil {
		return fmt.Errorf("marking exercise started: %w", err)
	}
	return nil
}

// MarkExerciseCompleted stamps completed_at once.
func (db *DB) MarkExerciseCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE session_exercises SET completed_at = $2
		WHERE id = $1 AND completed_at IS NULL
	`, id, at)
	if err != nil {
		return fmt.Errorf("marking exercise completed: %w", err)
	}
	return nil
}

// ReorderQueue completes the current exercise and renumbers the
// remaining incomplete queue with the chosen exercise first, in one
// transaction. The queue rows are locked up front so concurrent
// reorders serialize; a serialization failure gets one retry.
func (db *DB) ReorderQueue(ctx context.Context, workoutID, currentID, chosenID uuid.UUID, completedAt time.Time) error {
	err := db.reorderQueueTx(ctx, workoutID, currentID, chosenID, completedAt)
	if err != nil && isSerializationFailure(err) {
		err = db.reorderQueueTx(ctx, workoutID, currentID, chosenID, completedAt)
	}
	return err
}

func (db *DB) reorderQueueTx(ctx context.Context, workoutID, currentID, chosenID uuid.UUID, completedAt time.Time) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT id, workout_id, catalog_exercise_id, custom_exercise_id, position, notes, started_at, completed_at, rest_before_sec
		FROM session_exercises
		WHERE workout_id = $1
		ORDER BY position
		FOR UPDATE
	`, workoutID)
	if err != nil {
		return fmt.Errorf("locking queue: %w", err)
	}
	exercises, err := scanSessionExercises(rows)
	rows.Close()
	if err != nil {
		return err
	}

	// Re-check chosen under the lock: a concurrent completion between
	// the service-level check and this transaction must not let a
	// completed exercise take position 1.
	var chosen *models.SessionExercise
	for i := range exercises {
		if exercises[i].ID == chosenID {
			chosen = &exercises[i]
		}
	}
	if chosen == nil {
		return workout.ErrNotFound
	}
	if chosen.ID == currentID || chosen.Completed() {
		return fmt.Errorf("%w: chosen exercise is not in the incomplete queue", workout.ErrInvalidArgument)
	}

	_, err = tx.Exec(ctx, `
		UPDATE session_exercises SET completed_at = $2
		WHERE id = $1 AND completed_at IS NULL
	`, currentID, completedAt)
	if err != nil {
		return fmt.Errorf("completing current exercise: %w", err)
	}

	var incomplete []models.SessionExercise
	for _, se := range exercises {
		if se.ID != currentID && !se.Completed() {
			incomplete = append(incomplete, se)
		}
	}

	for _, qp := range workout.RenumberQueue(incomplete, chosenID) {
		_, err := tx.Exec(ctx, `
			UPDATE session_exercises SET position = $2 WHERE id = $1
		`, qp.ID, qp.Position)
		if err != nil {
			return fmt.Errorf("renumbering queue: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// SessionExerciseDetail is a queue entry with its resolved name and
// sets, for workout detail views.
type SessionExerciseDetail struct {
	models.SessionExercise
	Name string             `json:"name"`
	Sets []models.LoggedSet `json:"sets,omitempty"`
}

// WorkoutDetail is a workout with its full queue and set history.
type WorkoutDetail struct {
	models.LoggedWorkout
	Exercises []SessionExerciseDetail `json:"exercises"`
}

// GetWorkoutDetail loads a workout, its queue with resolved exercise
// names, and all sets. Deleted exercises show the placeholder name.
func (db *DB) GetWorkoutDetail(ctx context.Context, id uuid.UUID) (*WorkoutDetail, error) {
	w, err := db.GetWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := WorkoutDetail{LoggedWorkout: *w}

	rows, err := db.Pool.Query(ctx, `
		SELECT se.id, se.workout_id, se.catalog_exercise_id, se.custom_exercise_id, se.position,
		       se.notes, se.started_at, se.completed_at, se.rest_before_sec,
		       `+exerciseNameSQL+`
		FROM session_exercises se
		LEFT JOIN exercises e ON e.id = se.catalog_exercise_id
		LEFT JOIN custom_exercises ce ON ce.id = se.custom_exercise_id
		WHERE se.workout_id = $1
		ORDER BY se.position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying session exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d SessionExerciseDetail
		var catalogID, customID *uuid.UUID
		if err := rows.Scan(&d.ID, &d.WorkoutID, &catalogID, &customID, &d.Position,
			&d.Notes, &d.StartedAt, &d.CompletedAt, &d.RestBeforeSec, &d.Name); err != nil {
			return nil, fmt.Errorf("scanning session exercise: %w", err)
		}
		d.Exercise = models.RefFromColumns(catalogID, customID)
		detail.Exercises = append(detail.Exercises, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range detail.Exercises {
		sets, err := db.ListSetsForExercise(ctx, detail.Exercises[i].SessionExercise.ID)
		if err != nil {
			return nil, err
		}
		detail.Exercises[i].Sets = sets
	}

	return &detail, nil
}
