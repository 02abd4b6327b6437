package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meltforce/ironledger/internal/models"
	"github.com/meltforce/ironledger/internal/workout"
)

// ListCatalogExercises returns all active catalog exercises ordered by
// name.
func (db *DB) ListCatalogExercises(ctx context.Context) ([]models.ExerciseInfo, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, equipment, primary_muscle_group, secondary_muscle_groups, weight_increment
		FROM exercises
		WHERE is_active
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var out []models.ExerciseInfo
	for rows.Next() {
		var e models.ExerciseInfo
		var id uuid.UUID
		if err := rows.Scan(&id, &e.Name, &e.Equipment, &e.PrimaryMuscleGroup, &e.SecondaryMuscleGroups, &e.WeightIncrement); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		e.Ref = models.CatalogRef(id)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListCustomExercises returns the user's active custom exercises
// ordered by name.
func (db *DB) ListCustomExercises(ctx context.Context, userID int) ([]models.ExerciseInfo, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, equipment, primary_muscle_group, secondary_muscle_groups, weight_increment
		FROM custom_exercises
		WHERE user_id = $1 AND is_active
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying custom exercises: %w", err)
	}
	defer rows.Close()

	var out []models.ExerciseInfo
	for rows.Next() {
		var e models.ExerciseInfo
		var id uuid.UUID
		if err := rows.Scan(&id, &e.Name, &e.Equipment, &e.PrimaryMuscleGroup, &e.SecondaryMuscleGroups, &e.WeightIncrement); err != nil {
			return nil, fmt.Errorf("scanning custom exercise: %w", err)
		}
		e.Ref = models.CustomRef(id)
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateCustomExercise inserts a user-owned exercise. The (user, name)
// pair is unique per the schema.
func (db *DB) CreateCustomExercise(ctx context.Context, userID int, e models.ExerciseInfo) (*models.ExerciseInfo, error) {
	id := uuid.New()
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO custom_exercises (id, user_id, name, equipment, primary_muscle_group, secondary_muscle_groups, weight_increment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, userID, e.Name, e.Equipment, e.PrimaryMuscleGroup, e.SecondaryMuscleGroups, e.WeightIncrement)
	if err != nil {
		return nil, fmt.Errorf("inserting custom exercise: %w", err)
	}
	e.Ref = models.CustomRef(id)
	return &e, nil
}

// UpdateCustomExercise rewrites the descriptive fields of a user's
// custom exercise.
func (db *DB) UpdateCustomExercise(ctx context.Context, userID int, id uuid.UUID, e models.ExerciseInfo) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE custom_exercises
		SET name = $3, equipment = $4, primary_muscle_group = $5,
		    secondary_muscle_groups = $6, weight_increment = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_active
	`, id, userID, e.Name, e.Equipment, e.PrimaryMuscleGroup, e.SecondaryMuscleGroups, e.WeightIncrement)
	if err != nil {
		return fmt.Errorf("updating custom exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workout.ErrNotFound
	}
	return nil
}

// DeleteCustomExercise soft-deletes a user's custom exercise. History
// referencing it survives and keeps resolving until the row is purged.
func (db *DB) DeleteCustomExercise(ctx context.Context, userID int, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE custom_exercises SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting custom exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workout.ErrNotFound
	}
	return nil
}

// ResolveExercise looks up the referenced exercise. Custom references
// must belong to the given user; inactive rows resolve as not found.
func (db *DB) ResolveExercise(ctx context.Context, ref models.ExerciseRef, userID int) (*models.ExerciseInfo, error) {
	if ref.IsZero() {
		return nil, workout.ErrNotFound
	}

	e := models.ExerciseInfo{Ref: ref}
	var err error
	switch ref.Kind {
	case models.ExerciseCatalog:
		err = db.Pool.QueryRow(ctx, `
			SELECT name, equipment, primary_muscle_group, secondary_muscle_groups, weight_increment
			FROM exercises
			WHERE id = $1 AND is_active
		`, ref.ID).Scan(&e.Name, &e.Equipment, &e.PrimaryMuscleGroup, &e.SecondaryMuscleGroups, &e.WeightIncrement)
	case models.ExerciseCustom:
		err = db.Pool.QueryRow(ctx, `
			SELECT name, equipment, primary_muscle_group, secondary_muscle_groups, weight_increment
			FROM custom_exercises
			WHERE id = $1 AND user_id = $2 AND is_active
		`, ref.ID, userID).Scan(&e.Name, &e.Equipment, &e.PrimaryMuscleGroup, &e.SecondaryMuscleGroups, &e.WeightIncrement)
	default:
		return nil, workout.ErrNotFound
	}
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &e, nil
}

// exerciseNameSQL is the join fragment that resolves a row's exercise
// name from either foreign key, falling back to the deleted
// placeholder when both are gone.
const exerciseNameSQL = `COALESCE(e.name, ce.name, '` + models.DeletedExerciseName + `')`
