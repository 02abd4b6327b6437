package storage

import (
	"context"
	"fmt"
	"time"
)

// TrainingStats summarizes a user's logged history over a window.
// Volume counts working sets only (weight times reps, warmups
// excluded).
type TrainingStats struct {
	Workouts      int        `json:"workouts"`
	Sets          int        `json:"sets"`
	TotalVolume   float64    `json:"total_volume"`
	TotalDuration int64      `json:"total_duration_sec"`
	FirstWorkout  *time.Time `json:"first_workout,omitempty"`
	LastWorkout   *time.Time `json:"last_workout,omitempty"`
}

// GetTrainingStats aggregates workouts started on or after since.
func (db *DB) GetTrainingStats(ctx context.Context, userID int, since time.Time) (*TrainingStats, error) {
	var s TrainingStats
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(EXTRACT(EPOCH FROM (ended_at - started_at)))::BIGINT, 0),
		       MIN(started_at), MAX(started_at)
		FROM logged_workouts
		WHERE user_id = $1 AND is_active AND started_at >= $2
	`, userID, since).Scan(&s.Workouts, &s.TotalDuration, &s.FirstWorkout, &s.LastWorkout)
	if err != nil {
		return nil, fmt.Errorf("aggregating workouts: %w", err)
	}

	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(ls.weight * ls.reps), 0)
		FROM logged_sets ls
		JOIN session_exercises se ON se.id = ls.session_exercise_id
		JOIN logged_workouts w ON w.id = se.workout_id
		WHERE w.user_id = $1 AND w.is_active AND w.started_at >= $2 AND NOT ls.is_warmup
	`, userID, since).Scan(&s.Sets, &s.TotalVolume)
	if err != nil {
		return nil, fmt.Errorf("aggregating sets: %w", err)
	}

	return &s, nil
}
