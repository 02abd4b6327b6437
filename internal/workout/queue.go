package workout

import (
	"sort"

	"github.com/google/uuid"
	"github.com/meltforce/ironledger/internal/models"
)

// CurrentExercise returns the incomplete session exercise with the
// lowest position, or nil when every exercise is completed (the
// AllCompleted sub-state: the workout stays in progress until the user
// explicitly ends it).
func CurrentExercise(exercises []models.SessionExercise) *models.SessionExercise {
	var current *models.SessionExercise
	for i := range exercises {
		e := &exercises[i]
		if e.Completed() {
			continue
		}
		if current == nil || e.Position < current.Position {
			current = e
		}
	}
	return current
}

// QueuePosition is one renumbering assignment produced by RenumberQueue.
type QueuePosition struct {
	ID       uuid.UUID
	Position int
}

// RenumberQueue re-ranks the incomplete exercise queue so that chosen
// receives position 1 and the rest follow in their prior relative
// order. The input is the incomplete entries of one workout, in any
// order; entries already completed must not be passed. The returned
// assignments are contiguous from 1.
func RenumberQueue(incomplete []models.SessionExercise, chosenID uuid.UUID) []QueuePosition {
	queue := make([]models.SessionExercise, len(incomplete))
	copy(queue, incomplete)
	sort.SliceStable(queue, func(i, j int) bool { return queue[i].Position < queue[j].Position })

	assignments := make([]QueuePosition, 0, len(queue))
	assignments = append(assignments, QueuePosition{ID: chosenID, Position: 1})

	next := 2
	for _, e := range queue {
		if e.ID == chosenID {
			continue
		}
		assignments = append(assignments, QueuePosition{ID: e.ID, Position: next})
		next++
	}
	return assignments
}
