package metrics

import (
	"errors"
	"testing"
)

// TestCalculatePlatesExact verifies clean loads with a single denomination.
func TestCalculatePlatesExact(t *testing.T) {
	tests := []struct {
		target, bar float64
		wantPerSide float64
		wantPlates  []PlateCount
	}{
		{135, 45, 45, []PlateCount{{45, 1}}},
		{225, 45, 90, []PlateCount{{45, 2}}},
		{315, 45, 135, []PlateCount{{45, 3}}},
		{45, 45, 0, nil},
	}
	for _, tt := range tests {
		b, err := CalculatePlates(tt.target, tt.bar, nil)
		if err != nil {
			t.Fatalf("CalculatePlates(%v, %v) error: %v", tt.target, tt.bar, err)
		}
		if b.PerSide != tt.wantPerSide {
			t.Errorf("PerSide = %v, want %v", b.PerSide, tt.wantPerSide)
		}
		if len(b.Plates) != len(tt.wantPlates) {
			t.Fatalf("CalculatePlates(%v, %v) plates = %v, want %v", tt.target, tt.bar, b.Plates, tt.wantPlates)
		}
		for i, p := range tt.wantPlates {
			if b.Plates[i] != p {
				t.Errorf("plate[%d] = %v, want %v", i, b.Plates[i], p)
			}
		}
		if b.Remainder != 0 {
			t.Errorf("Remainder = %v, want 0", b.Remainder)
		}
	}
}

// TestCalculatePlatesGreedy verifies that the breakdown always prefers
// the largest available denomination.
func TestCalculatePlatesGreedy(t *testing.T) {
	// 185 total, 45 bar: 70 per side = 45 + 25
	b, err := CalculatePlates(185, 45, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []PlateCount{{45, 1}, {25, 1}}
	if len(b.Plates) != len(want) {
		t.Fatalf("plates = %v, want %v", b.Plates, want)
	}
	for i := range want {
		if b.Plates[i] != want[i] {
			t.Errorf("plate[%d] = %v, want %v", i, b.Plates[i], want[i])
		}
	}
}

// TestCalculatePlatesRemainder verifies unallocatable weight is
// reported, rounded to two decimals.
func TestCalculatePlatesRemainder(t *testing.T) {
	// 48 total, 45 bar: 1.5 per side, smallest plate is 2.5
	b, err := CalculatePlates(48, 45, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Plates) != 0 {
		t.Errorf("plates = %v, want none", b.Plates)
	}
	if b.Remainder != 1.5 {
		t.Errorf("Remainder = %v, want 1.5", b.Remainder)
	}
}

// TestCalculatePlatesBelowBar verifies the domain error when the
// target is lighter than the bar.
func TestCalculatePlatesBelowBar(t *testing.T) {
	if _, err := CalculatePlates(40, 45, nil); !errors.Is(err, ErrBelowBarWeight) {
		t.Errorf("error = %v, want ErrBelowBarWeight", err)
	}
}
