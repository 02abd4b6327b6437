package storage

import (
	"context"
	"fmt"
	"time"
)

// ImportLog records one import run for auditing.
type ImportLog struct {
	ID         int           `json:"id"`
	UserID     int           `json:"user_id"`
	Source     string        `json:"source"`
	Status     string        `json:"status"`
	Workouts   int           `json:"workouts"`
	Sets       int           `json:"sets"`
	Error      string        `json:"error,omitempty"`
	DurationMS int64         `json:"duration_ms"`
	CreatedAt  time.Time     `json:"created_at"`
	Duration   time.Duration `json:"-"`
}

// InsertImportLog records the outcome of an import run.
func (db *DB) InsertImportLog(ctx context.Context, l ImportLog) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO import_logs (user_id, source, status, workouts, sets, error, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, l.UserID, l.Source, l.Status, l.Workouts, l.Sets, l.Error, l.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("inserting import log: %w", err)
	}
	return nil
}
