package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/ironledger/internal/models"
)

// BestRecord returns the current record for (user, exercise, kind) or
// nil when none exists. For weight_at_reps the reps value narrows the
// lookup to that exact rep count; for one_rep_max it is ignored.
func (db *DB) BestRecord(ctx context.Context, userID int, ref models.ExerciseRef, kind models.RecordKind, reps int) (*models.PersonalRecord, error) {
	catalogID, customID := ref.Columns()

	query := `
		SELECT id, user_id, catalog_exercise_id, custom_exercise_id, kind, weight, reps, estimated_1rm, achieved_at, logged_set_id
		FROM personal_records
		WHERE user_id = $1 AND kind = $2
		  AND catalog_exercise_id IS NOT DISTINCT FROM $3
		  AND custom_exercise_id IS NOT DISTINCT FROM $4`
	args := []any{userID, kind, catalogID, customID}

	switch kind {
	case models.RecordWeightAtReps:
		args = append(args, reps)
		query += fmt.Sprintf(" AND reps = $%d ORDER BY weight DESC", len(args))
	default:
		query += " ORDER BY estimated_1rm DESC NULLS LAST"
	}
	query += " LIMIT 1"

	var r models.PersonalRecord
	var cID, uID *uuid.UUID
	err := db.Pool.QueryRow(ctx, query, args...).Scan(&r.ID, &r.UserID, &cID, &uID,
		&r.Kind, &r.Weight, &r.Reps, &r.Estimated1RM, &r.AchievedAt, &r.LoggedSetID)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying record: %w", err)
	}
	r.Exercise = models.RefFromColumns(cID, uID)
	return &r, nil
}

// SaveRecord upserts by primary key. The service reuses the beaten
// record's ID, so an improvement updates the same row in place.
func (db *DB) SaveRecord(ctx context.Context, r models.PersonalRecord) error {
	catalogID, customID := r.Exercise.Columns()
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO personal_records (id, user_id, catalog_exercise_id, custom_exercise_id, kind, weight, reps, estimated_1rm, achieved_at, logged_set_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE
			SET weight = EXCLUDED.weight,
			    reps = EXCLUDED.reps,
			    estimated_1rm = EXCLUDED.estimated_1rm,
			    achieved_at = EXCLUDED.achieved_at,
			    logged_set_id = EXCLUDED.logged_set_id
	`, r.ID, r.UserID, catalogID, customID, r.Kind, r.Weight, r.Reps, r.Estimated1RM, r.AchievedAt, r.LoggedSetID)
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// RecordWithName is a personal record joined with its exercise name
// for list views.
type RecordWithName struct {
	models.PersonalRecord
	ExerciseName string `json:"exercise_name"`
}

// ListRecords returns all of the user's records with resolved names,
// grouped by exercise name then kind.
func (db *DB) ListRecords(ctx context.Context, userID int) ([]RecordWithName, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT pr.id, pr.user_id, pr.catalog_exercise_id, pr.custom_exercise_id, pr.kind,
		       pr.weight, pr.reps, pr.estimated_1rm, pr.achieved_at, pr.logged_set_id,
		       `+exerciseNameSQL+`
		FROM personal_records pr
		LEFT JOIN exercises e ON e.id = pr.catalog_exercise_id
		LEFT JOIN custom_exercises ce ON ce.id = pr.custom_exercise_id
		WHERE pr.user_id = $1
		ORDER BY `+exerciseNameSQL+`, pr.kind, pr.reps
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []RecordWithName
	for rows.Next() {
		var r RecordWithName
		var cID, uID *uuid.UUID
		if err := rows.Scan(&r.ID, &r.UserID, &cID, &uID, &r.Kind, &r.Weight, &r.Reps,
			&r.Estimated1RM, &r.AchievedAt, &r.LoggedSetID, &r.ExerciseName); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Exercise = models.RefFromColumns(cID, uID)
		out = append(out, r)
	}
	return out, rows.Err()
}
