// Package metrics holds the pure numeric routines derived from logged
// sets: the Epley one-rep-max estimate and the plate-loading
// breakdown.
package metrics

import "errors"

// ErrInvalidReps is returned when a 1RM estimate is requested for a
// rep count below 1. A zero-rep set cannot establish a record.
var ErrInvalidReps = errors.New("reps must be at least 1")

// Estimate1RM estimates a one-rep max from a submaximal set using the
// Epley formula: weight x (1 + reps/30). A single rep is returned as
// the weight itself.
func Estimate1RM(weight float64, reps int) (float64, error) {
	if reps < 1 {
		return 0, ErrInvalidReps
	}
	if reps == 1 {
		return weight, nil
	}
	return weight * (1 + float64(reps)/30), nil
}
