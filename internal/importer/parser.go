// Package importer loads historical workout logs from CSV exports into
// the database. Files already imported are remembered in a local
// SQLite state database so re-running the tool is safe.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ParsedSet is one set row from the export.
type ParsedSet struct {
	Order    int
	Weight   float64
	Reps     int
	IsWarmup bool
	Notes    string
}

// ParsedExercise groups consecutive rows of the same exercise within a
// workout.
type ParsedExercise struct {
	Name string
	Sets []ParsedSet
}

// ParsedWorkout is one historical session reassembled from its rows.
type ParsedWorkout struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Notes     string
	Exercises []ParsedExercise
}

// Parse reads a set-per-row CSV export. Required columns: Date,
// Workout Name, Exercise Name, Set Order, Weight, Reps. Duration,
// Notes and Workout Notes are used when present. Rows sharing the same
// date and workout name form one workout; a Set Order starting with
// "W" marks a warmup set.
func Parse(r io.Reader) ([]ParsedWorkout, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := columnIndex(header)
	for _, required := range []string{"date", "workout name", "exercise name", "set order", "weight", "reps"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var workouts []ParsedWorkout
	var current *ParsedWorkout
	var currentKey string

	for lineNo := 2; ; lineNo++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		startedAt, err := parseDate(field("date"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		key := field("date") + "\x00" + field("workout name")
		if current == nil || key != currentKey {
			if current != nil {
				workouts = append(workouts, *current)
			}
			current = &ParsedWorkout{
				Name:      field("workout name"),
				StartedAt: startedAt,
				Duration:  parseDuration(field("duration")),
				Notes:     field("workout notes"),
			}
			currentKey = key
		}

		exerciseName := field("exercise name")
		if exerciseName == "" {
			continue
		}
		if len(current.Exercises) == 0 || current.Exercises[len(current.Exercises)-1].Name != exerciseName {
			current.Exercises = append(current.Exercises, ParsedExercise{Name: exerciseName})
		}
		ex := &current.Exercises[len(current.Exercises)-1]

		set, err := parseSet(field)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		ex.Sets = append(ex.Sets, set)
	}

	if current != nil {
		workouts = append(workouts, *current)
	}
	return workouts, nil
}

func parseSet(field func(string) string) (ParsedSet, error) {
	order := field("set order")
	set := ParsedSet{Notes: field("notes")}
	if strings.HasPrefix(strings.ToUpper(order), "W") {
		set.IsWarmup = true
		order = order[1:]
	}
	if order != "" {
		set.Order, _ = strconv.Atoi(order)
	}

	weight, err := strconv.ParseFloat(strings.ReplaceAll(field("weight"), ",", "."), 64)
	if err != nil && field("weight") != "" {
		return set, fmt.Errorf("bad weight %q", field("weight"))
	}
	reps, err := strconv.Atoi(field("reps"))
	if err != nil && field("reps") != "" {
		return set, fmt.Errorf("bad reps %q", field("reps"))
	}
	set.Weight = weight
	set.Reps = reps
	return set, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// parseDuration handles "1h 10m", "55m" and plain minutes ("55").
func parseDuration(s string) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if d, err := time.ParseDuration(strings.ReplaceAll(s, " ", "")); err == nil {
		return d
	}
	if mins, err := strconv.Atoi(s); err == nil {
		return time.Duration(mins) * time.Minute
	}
	return 0
}
