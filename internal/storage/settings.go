package storage

import (
	"context"
	"fmt"

	"github.com/meltforce/ironledger/internal/models"
)

// GetOrCreateSettings returns the user's settings row, creating it
// with defaults on first access. The DO NOTHING insert makes the lazy
// create safe under concurrent first requests.
func (db *DB) GetOrCreateSettings(ctx context.Context, userID int) (*models.UserSettings, error) {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO user_settings (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("creating settings: %w", err)
	}

	var s models.UserSettings
	err = db.Pool.QueryRow(ctx, `
		SELECT user_id, default_bar_weight, weight_unit, default_rest_time_sec,
		       show_plate_calculator, show_warmup_sets, rest_timer_sound
		FROM user_settings
		WHERE user_id = $1
	`, userID).Scan(&s.UserID, &s.DefaultBarWeight, &s.WeightUnit, &s.DefaultRestTimeSec,
		&s.ShowPlateCalculator, &s.ShowWarmupSets, &s.RestTimerSound)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &s, nil
}

// UpdateSettings writes the full settings row.
func (db *DB) UpdateSettings(ctx context.Context, s models.UserSettings) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO user_settings (user_id, default_bar_weight, weight_unit, default_rest_time_sec,
		                           show_plate_calculator, show_warmup_sets, rest_timer_sound)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
			SET default_bar_weight = EXCLUDED.default_bar_weight,
			    weight_unit = EXCLUDED.weight_unit,
			    default_rest_time_sec = EXCLUDED.default_rest_time_sec,
			    show_plate_calculator = EXCLUDED.show_plate_calculator,
			    show_warmup_sets = EXCLUDED.show_warmup_sets,
			    rest_timer_sound = EXCLUDED.rest_timer_sound
	`, s.UserID, s.DefaultBarWeight, s.WeightUnit, s.DefaultRestTimeSec,
		s.ShowPlateCalculator, s.ShowWarmupSets, s.RestTimerSound)
	if err != nil {
		return fmt.Errorf("updating settings: %w", err)
	}
	return nil
}
