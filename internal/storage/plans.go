package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/ironledger/internal/models"
	"github.com/meltforce/ironledger/internal/workout"
)

// ListPlans returns the user's own active plans plus shared plans from
// other users, own first, newest first within each group.
func (db *DB) ListPlans(ctx context.Context, userID int) ([]models.WorkoutPlan, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, name, description, privacy, tags, times_used, is_active, created_at, updated_at
		FROM workout_plans
		WHERE is_active AND (user_id = $1 OR privacy = 'shared')
		ORDER BY (user_id = $1) DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var out []models.WorkoutPlan
	for rows.Next() {
		var p models.WorkoutPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Privacy, &p.Tags,
			&p.TimesUsed, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPlan fetches one plan by ID, active or not. Visibility is the
// caller's concern.
func (db *DB) GetPlan(ctx context.Context, id uuid.UUID) (*models.WorkoutPlan, error) {
	var p models.WorkoutPlan
	err := db.Pool.QueryRow(ctx, `
		SELECT id, user_id, name, description, privacy, tags, times_used, is_active, created_at, updated_at
		FROM workout_plans
		WHERE id = $1
	`, id).Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Privacy, &p.Tags,
		&p.TimesUsed, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

// CreatePlan inserts the plan and its exercise slots in one
// transaction.
func (db *DB) CreatePlan(ctx context.Context, p models.WorkoutPlan, exercises []models.PlannedExercise) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO workout_plans (id, user_id, name, description, privacy, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.UserID, p.Name, p.Description, p.Privacy, p.Tags)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}

	if err := insertPlannedExercises(ctx, tx, exercises); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdatePlan replaces the plan's fields and its full exercise list.
// Only the owner's rows match.
func (db *DB) UpdatePlan(ctx context.Context, userID int, p models.WorkoutPlan, exercises []models.PlannedExercise) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE workout_plans
		SET name = $3, description = $4, privacy = $5, tags = $6, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_active
	`, p.ID, userID, p.Name, p.Description, p.Privacy, p.Tags)
	if err != nil {
		return fmt.Errorf("updating plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workout.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM planned_exercises WHERE plan_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clearing planned exercises: %w", err)
	}
	if err := insertPlannedExercises(ctx, tx, exercises); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertPlannedExercises(ctx context.Context, tx pgx.Tx, exercises []models.PlannedExercise) error {
	for _, pe := range exercises {
		catalogID, customID := pe.Exercise.Columns()
		_, err := tx.Exec(ctx, `
			INSERT INTO planned_exercises (id, plan_id, catalog_exercise_id, custom_exercise_id, position, target_sets, target_reps, target_weight, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, pe.ID, pe.PlanID, catalogID, customID, pe.Position, pe.TargetSets, pe.TargetReps, pe.TargetWeight, pe.Notes)
		if err != nil {
			return fmt.Errorf("inserting planned exercise: %w", err)
		}
	}
	return nil
}

// DeletePlan soft-deletes the user's plan. Past workouts started from
// it keep their plan_id.
func (db *DB) DeletePlan(ctx context.Context, userID int, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE workout_plans SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_active
	`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workout.ErrNotFound
	}
	return nil
}

// ListPlannedExercises returns the plan's slots in position order.
func (db *DB) ListPlannedExercises(ctx context.Context, planID uuid.UUID) ([]models.PlannedExercise, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, plan_id, catalog_exercise_id, custom_exercise_id, position, target_sets, target_reps, target_weight, notes
		FROM planned_exercises
		WHERE plan_id = $1
		ORDER BY position
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("querying planned exercises: %w", err)
	}
	defer rows.Close()

	var out []models.PlannedExercise
	for rows.Next() {
		var pe models.PlannedExercise
		var catalogID, customID *uuid.UUID
		if err := rows.Scan(&pe.ID, &pe.PlanID, &catalogID, &customID, &pe.Position,
			&pe.TargetSets, &pe.TargetReps, &pe.TargetWeight, &pe.Notes); err != nil {
			return nil, fmt.Errorf("scanning planned exercise: %w", err)
		}
		pe.Exercise = models.RefFromColumns(catalogID, customID)
		out = append(out, pe)
	}
	return out, rows.Err()
}

// RecordPlanUsage bumps the usage counter. The increment happens in
// SQL so concurrent session starts never lose a count.
func (db *DB) RecordPlanUsage(ctx context.Context, planID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE workout_plans SET times_used = times_used + 1 WHERE id = $1
	`, planID)
	if err != nil {
		return fmt.Errorf("recording plan usage: %w", err)
	}
	return nil
}
