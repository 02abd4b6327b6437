package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/meltforce/ironledger/internal/models"
	"github.com/meltforce/ironledger/internal/workout"
)

// GetSet fetches one set by ID.
func (db *DB) GetSet(ctx context.Context, id uuid.UUID) (*models.LoggedSet, error) {
	var s models.LoggedSet
	err := db.Pool.QueryRow(ctx, `
		SELECT id, session_exercise_id, set_number, weight, reps, is_warmup, is_dropset, started_at, completed_at, rest_sec, notes
		FROM logged_sets
		WHERE id = $1
	`, id).Scan(&s.ID, &s.SessionExerciseID, &s.SetNumber, &s.Weight, &s.Reps,
		&s.IsWarmup, &s.IsDropset, &s.StartedAt, &s.CompletedAt, &s.RestSec, &s.Notes)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &s, nil
}

// MaxSetNumber returns the highest set number ever assigned under this
// session exercise, 0 when none. Deleted sets leave gaps, so this is a
// MAX, not a COUNT.
func (db *DB) MaxSetNumber(ctx context.Context, sessionExerciseID uuid.UUID) (int, error) {
	var max int
	err := db.Pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(set_number), 0) FROM logged_sets WHERE session_exercise_id = $1
	`, sessionExerciseID).Scan(&max)
	return max, err
}

// InsertSet appends a set row.
func (db *DB) InsertSet(ctx context.Context, s models.LoggedSet) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO logged_sets (id, session_exercise_id, set_number, weight, reps, is_warmup, is_dropset, started_at, completed_at, rest_sec, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, s.ID, s.SessionExerciseID, s.SetNumber, s.Weight, s.Reps,
		s.IsWarmup, s.IsDropset, s.StartedAt, s.CompletedAt, s.RestSec, s.Notes)
	if err != nil {
		return fmt.Errorf("inserting set: %w", err)
	}
	return nil
}

// UpdateSet applies only the patch's non-nil fields. set_number is
// deliberately not updatable.
func (db *DB) UpdateSet(ctx context.Context, id uuid.UUID, patch models.SetPatch) error {
	var cols []string
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		cols = append(cols, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Weight != nil {
		add("weight", *patch.Weight)
	}
	if patch.Reps != nil {
		add("reps", *patch.Reps)
	}
	if patch.IsWarmup != nil {
		add("is_warmup", *patch.IsWarmup)
	}
	if patch.IsDropset != nil {
		add("is_dropset", *patch.IsDropset)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if len(cols) == 0 {
		return nil
	}

	tag, err := db.Pool.Exec(ctx,
		`UPDATE logged_sets SET `+strings.Join(cols, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return fmt.Errorf("updating set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workout.ErrNotFound
	}
	return nil
}

// DeleteSet hard-deletes a set. Later set numbers keep their values.
func (db *DB) DeleteSet(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM logged_sets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workout.ErrNotFound
	}
	return nil
}

// SetRestBefore records the rest preceding an exercise's first set.
// The NULL guard keeps the first value if clients race.
func (db *DB) SetRestBefore(ctx context.Context, sessionExerciseID uuid.UUID, seconds int) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE session_exercises SET rest_before_sec = $2
		WHERE id = $1 AND rest_before_sec IS NULL
	`, sessionExerciseID, seconds)
	if err != nil {
		return fmt.Errorf("recording rest before exercise: %w", err)
	}
	return nil
}

// ListSetsForExercise returns the exercise's sets in set-number order.
func (db *DB) ListSetsForExercise(ctx context.Context, sessionExerciseID uuid.UUID) ([]models.LoggedSet, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, session_exercise_id, set_number, weight, reps, is_warmup, is_dropset, started_at, completed_at, rest_sec, notes
		FROM logged_sets
		WHERE session_exercise_id = $1
		ORDER BY set_number
	`, sessionExerciseID)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var out []models.LoggedSet
	for rows.Next() {
		var s models.LoggedSet
		if err := rows.Scan(&s.ID, &s.SessionExerciseID, &s.SetNumber, &s.Weight, &s.Reps,
			&s.IsWarmup, &s.IsDropset, &s.StartedAt, &s.CompletedAt, &s.RestSec, &s.Notes); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
