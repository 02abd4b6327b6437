package metrics

import (
	"errors"
	"math"
	"testing"
)

// TestEstimate1RMSingleRep verifies that a one-rep set is its own max.
func TestEstimate1RMSingleRep(t *testing.T) {
	for _, w := range []float64{45, 135, 225.5, 0} {
		got, err := Estimate1RM(w, 1)
		if err != nil {
			t.Fatalf("Estimate1RM(%v, 1) error: %v", w, err)
		}
		if got != w {
			t.Errorf("Estimate1RM(%v, 1) = %v, want %v", w, got, w)
		}
	}
}

// TestEstimate1RMEpley verifies the Epley formula for multi-rep sets.
func TestEstimate1RMEpley(t *testing.T) {
	tests := []struct {
		weight float64
		reps   int
		want   float64
	}{
		{100, 10, 133.3333},
		{225, 5, 262.5},
		{60, 30, 120},
		{135, 2, 144},
	}
	for _, tt := range tests {
		got, err := Estimate1RM(tt.weight, tt.reps)
		if err != nil {
			t.Fatalf("Estimate1RM(%v, %d) error: %v", tt.weight, tt.reps, err)
		}
		if math.Abs(got-tt.want) > 0.001 {
			t.Errorf("Estimate1RM(%v, %d) = %v, want %v", tt.weight, tt.reps, got, tt.want)
		}
	}
}

// TestEstimate1RMInvalidReps verifies that rep counts below 1 are rejected.
func TestEstimate1RMInvalidReps(t *testing.T) {
	for _, reps := range []int{0, -1} {
		if _, err := Estimate1RM(100, reps); !errors.Is(err, ErrInvalidReps) {
			t.Errorf("Estimate1RM(100, %d) error = %v, want ErrInvalidReps", reps, err)
		}
	}
}
