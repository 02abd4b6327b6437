package workout

import "errors"

// Sentinel errors returned by the workout service. Handlers translate
// these to HTTP statuses with errors.Is; storage maps pgx.ErrNoRows to
// ErrNotFound so callers never see driver errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrWorkoutEnded    = errors.New("workout already ended")
	ErrCrossWorkout    = errors.New("exercises belong to different workouts")
	ErrInvalidArgument = errors.New("invalid argument")
)
