package importer

import (
	"strings"
	"testing"
	"time"
)

const sampleCSV = `Date,Workout Name,Duration,Exercise Name,Set Order,Weight,Reps,Notes,Workout Notes
2026-01-05 18:30:00,Push Day,1h 5m,Bench Press,W1,95,10,,felt strong
2026-01-05 18:30:00,Push Day,1h 5m,Bench Press,1,135,8,,felt strong
2026-01-05 18:30:00,Push Day,1h 5m,Bench Press,2,135,7,grinder,felt strong
2026-01-05 18:30:00,Push Day,1h 5m,Overhead Press,1,85,8,,felt strong
2026-01-07 07:15:00,Pull Day,55m,Deadlift,1,225,5,,
`

// TestParseGroupsWorkouts verifies rows sharing a date and workout name
// collapse into one workout with exercises in file order.
func TestParseGroupsWorkouts(t *testing.T) {
	workouts, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(workouts) != 2 {
		t.Fatalf("got %d workouts, want 2", len(workouts))
	}

	push := workouts[0]
	if push.Name != "Push Day" {
		t.Errorf("name = %q, want %q", push.Name, "Push Day")
	}
	want := time.Date(2026, 1, 5, 18, 30, 0, 0, time.UTC)
	if !push.StartedAt.Equal(want) {
		t.Errorf("started = %v, want %v", push.StartedAt, want)
	}
	if push.Duration != 65*time.Minute {
		t.Errorf("duration = %v, want 1h5m", push.Duration)
	}
	if push.Notes != "felt strong" {
		t.Errorf("workout notes = %q", push.Notes)
	}
	if len(push.Exercises) != 2 {
		t.Fatalf("got %d exercises, want 2", len(push.Exercises))
	}
	if push.Exercises[0].Name != "Bench Press" || push.Exercises[1].Name != "Overhead Press" {
		t.Errorf("exercise order = %q, %q", push.Exercises[0].Name, push.Exercises[1].Name)
	}
}

// TestParseWarmupFlag verifies "W"-prefixed set orders mark warmups.
func TestParseWarmupFlag(t *testing.T) {
	workouts, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	bench := workouts[0].Exercises[0]
	if len(bench.Sets) != 3 {
		t.Fatalf("got %d sets, want 3", len(bench.Sets))
	}
	if !bench.Sets[0].IsWarmup {
		t.Error("first set should be a warmup")
	}
	if bench.Sets[0].Weight != 95 || bench.Sets[0].Reps != 10 {
		t.Errorf("warmup = %v x %d, want 95 x 10", bench.Sets[0].Weight, bench.Sets[0].Reps)
	}
	if bench.Sets[1].IsWarmup || bench.Sets[2].IsWarmup {
		t.Error("working sets flagged as warmup")
	}
	if bench.Sets[2].Notes != "grinder" {
		t.Errorf("set notes = %q, want %q", bench.Sets[2].Notes, "grinder")
	}
}

// TestParseMissingColumn verifies a header without required columns is
// rejected up front.
func TestParseMissingColumn(t *testing.T) {
	csv := "Date,Workout Name,Reps\n2026-01-05,X,5\n"
	if _, err := Parse(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

// TestParseBadDate verifies unparseable dates fail with the line number.
func TestParseBadDate(t *testing.T) {
	csv := "Date,Workout Name,Exercise Name,Set Order,Weight,Reps\nnot-a-date,X,Squat,1,100,5\n"
	_, err := Parse(strings.NewReader(csv))
	if err == nil {
		t.Fatal("expected error for bad date")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not name the line", err)
	}
}

// TestParseEuropeanDecimals verifies comma decimal weights are handled.
func TestParseEuropeanDecimals(t *testing.T) {
	csv := "Date,Workout Name,Exercise Name,Set Order,Weight,Reps\n2026-01-05,X,Squat,1,\"102,5\",5\n"
	workouts, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := workouts[0].Exercises[0].Sets[0].Weight; got != 102.5 {
		t.Errorf("weight = %v, want 102.5", got)
	}
}

// TestParseDurationForms verifies the accepted duration spellings.
func TestParseDurationForms(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"1h 10m", 70 * time.Minute},
		{"55m", 55 * time.Minute},
		{"55", 55 * time.Minute},
		{"", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		if got := parseDuration(tt.in); got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
