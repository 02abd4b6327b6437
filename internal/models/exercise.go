package models

import (
	"fmt"

	"github.com/google/uuid"
)

// DeletedExerciseName is the placeholder shown when the exercise an
// entry referenced has been removed from the catalog.
const DeletedExerciseName = "(deleted)"

// ExerciseKind discriminates catalog exercises from user-created ones.
type ExerciseKind string

const (
	ExerciseCatalog ExerciseKind = "catalog"
	ExerciseCustom  ExerciseKind = "custom"
)

// ExerciseRef identifies exactly one exercise, either a shared catalog
// entry or a per-user custom entry. The zero value is "no reference",
// which only occurs when the original referent was deleted.
type ExerciseRef struct {
	Kind ExerciseKind `json:"kind"`
	ID   uuid.UUID    `json:"id"`
}

// IsZero reports whether the reference points at nothing.
func (r ExerciseRef) IsZero() bool {
	return r.Kind == "" || r.ID == uuid.Nil
}

func (r ExerciseRef) String() string {
	if r.IsZero() {
		return "exercise:none"
	}
	return fmt.Sprintf("exercise:%s:%s", r.Kind, r.ID)
}

// CatalogRef builds a reference to a shared catalog exercise.
func CatalogRef(id uuid.UUID) ExerciseRef {
	return ExerciseRef{Kind: ExerciseCatalog, ID: id}
}

// CustomRef builds a reference to a user-created exercise.
func CustomRef(id uuid.UUID) ExerciseRef {
	return ExerciseRef{Kind: ExerciseCustom, ID: id}
}

// RefFromColumns converts the two nullable foreign-key columns used at
// the storage layer into a tagged reference. Both columns NULL yields
// the zero reference (deleted referent), never an error.
func RefFromColumns(catalogID, customID *uuid.UUID) ExerciseRef {
	switch {
	case catalogID != nil:
		return CatalogRef(*catalogID)
	case customID != nil:
		return CustomRef(*customID)
	default:
		return ExerciseRef{}
	}
}

// Columns splits the reference back into the nullable column pair.
func (r ExerciseRef) Columns() (catalogID, customID *uuid.UUID) {
	switch r.Kind {
	case ExerciseCatalog:
		id := r.ID
		return &id, nil
	case ExerciseCustom:
		id := r.ID
		return nil, &id
	default:
		return nil, nil
	}
}

// ExerciseInfo is the resolved identity of an exercise, independent of
// whether it came from the catalog or a user's custom list.
type ExerciseInfo struct {
	Ref                   ExerciseRef `json:"ref"`
	Name                  string      `json:"name"`
	Equipment             string      `json:"equipment"`
	PrimaryMuscleGroup    string      `json:"primary_muscle_group"`
	SecondaryMuscleGroups string      `json:"secondary_muscle_groups,omitempty"`
	WeightIncrement       string      `json:"weight_increment"`
}
