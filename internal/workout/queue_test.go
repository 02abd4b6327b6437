package workout

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/ironledger/internal/models"
)

func exerciseAt(pos int, completed bool) models.SessionExercise {
	e := models.SessionExercise{ID: uuid.New(), Position: pos}
	if completed {
		t := time.Now()
		e.CompletedAt = &t
	}
	return e
}

// TestCurrentExerciseLowestIncomplete verifies the current-exercise
// rule: the incomplete entry with the lowest position wins.
func TestCurrentExerciseLowestIncomplete(t *testing.T) {
	exercises := []models.SessionExercise{
		exerciseAt(2, false),
		exerciseAt(1, true),
		exerciseAt(3, false),
	}
	current := CurrentExercise(exercises)
	if current == nil {
		t.Fatal("current = nil, want position 2")
	}
	if current.Position != 2 {
		t.Errorf("current.Position = %d, want 2", current.Position)
	}
}

// TestCurrentExerciseAllCompleted verifies that a fully completed
// queue yields nil (the AllCompleted sub-state).
func TestCurrentExerciseAllCompleted(t *testing.T) {
	exercises := []models.SessionExercise{
		exerciseAt(1, true),
		exerciseAt(2, true),
	}
	if current := CurrentExercise(exercises); current != nil {
		t.Errorf("current = %+v, want nil", current)
	}
}

// TestCurrentExerciseEmpty verifies an empty queue yields nil.
func TestCurrentExerciseEmpty(t *testing.T) {
	if current := CurrentExercise(nil); current != nil {
		t.Errorf("current = %+v, want nil", current)
	}
}

// TestRenumberQueueStable verifies that the chosen exercise is pulled
// to position 1 and the rest keep their prior relative order,
// contiguous from 1.
func TestRenumberQueueStable(t *testing.T) {
	b := exerciseAt(2, false)
	c := exerciseAt(3, false)
	d := exerciseAt(4, false)
	incomplete := []models.SessionExercise{d, b, c} // deliberately unsorted

	assignments := RenumberQueue(incomplete, c.ID)

	want := []QueuePosition{
		{ID: c.ID, Position: 1},
		{ID: b.ID, Position: 2},
		{ID: d.ID, Position: 3},
	}
	if len(assignments) != len(want) {
		t.Fatalf("got %d assignments, want %d", len(assignments), len(want))
	}
	for i, w := range want {
		if assignments[i] != w {
			t.Errorf("assignments[%d] = %+v, want %+v", i, assignments[i], w)
		}
	}
}

// TestRenumberQueueChosenAlreadyFirst verifies renumbering is a no-op
// reordering when the chosen exercise already leads the queue.
func TestRenumberQueueChosenAlreadyFirst(t *testing.T) {
	a := exerciseAt(1, false)
	b := exerciseAt(2, false)

	assignments := RenumberQueue([]models.SessionExercise{a, b}, a.ID)

	if assignments[0].ID != a.ID || assignments[0].Position != 1 {
		t.Errorf("assignments[0] = %+v, want {%s 1}", assignments[0], a.ID)
	}
	if assignments[1].ID != b.ID || assignments[1].Position != 2 {
		t.Errorf("assignments[1] = %+v, want {%s 2}", assignments[1], b.ID)
	}
}
