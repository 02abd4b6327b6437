package metrics

import (
	"errors"
	"math"
)

// ErrBelowBarWeight is returned when the target weight is less than
// the bar itself, so no per-side load exists.
var ErrBelowBarWeight = errors.New("target weight is less than bar weight")

// DefaultPlates is the standard denomination set in pounds, largest
// first. The greedy breakdown below is exact for this set.
var DefaultPlates = []float64{45, 35, 25, 10, 5, 2.5}

// PlateCount is one denomination and how many of it load one side.
type PlateCount struct {
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

// PlateBreakdown is the per-side plate loading for a target weight.
type PlateBreakdown struct {
	TargetWeight float64      `json:"target_weight"`
	BarWeight    float64      `json:"bar_weight"`
	PerSide      float64      `json:"weight_per_side"`
	Plates       []PlateCount `json:"plates"`
	Remainder    float64      `json:"remainder"`
}

// CalculatePlates computes the plates needed on each side of the bar
// to reach target. Denominations are consumed greedily from largest to
// smallest; whatever cannot be allocated is reported as Remainder,
// rounded to two decimal places. A nil denominations slice uses
// DefaultPlates.
func CalculatePlates(target, bar float64, denominations []float64) (*PlateBreakdown, error) {
	perSide := (target - bar) / 2
	if perSide < 0 {
		return nil, ErrBelowBarWeight
	}
	if denominations == nil {
		denominations = DefaultPlates
	}

	b := &PlateBreakdown{
		TargetWeight: target,
		BarWeight:    bar,
		PerSide:      perSide,
	}

	remaining := perSide
	for _, plate := range denominations {
		count := int(remaining / plate)
		if count > 0 {
			b.Plates = append(b.Plates, PlateCount{Weight: plate, Count: count})
			remaining -= plate * float64(count)
		}
	}
	b.Remainder = math.Round(remaining*100) / 100

	return b, nil
}
