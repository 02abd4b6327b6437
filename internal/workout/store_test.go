package workout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/ironledger/internal/models"
)

// fakeStore is an in-memory Store for service tests. Write semantics
// mirror the SQL implementation: Mark* and SetRestBefore are
// compare-and-set against nil, ReorderQueue completes current and
// renumbers in one step.
type fakeStore struct {
	workouts  map[uuid.UUID]*models.LoggedWorkout
	exercises map[uuid.UUID]*models.SessionExercise
	plans     map[uuid.UUID]*models.WorkoutPlan
	planned   map[uuid.UUID][]models.PlannedExercise
	known     map[models.ExerciseRef]models.ExerciseInfo
	sets      map[uuid.UUID]*models.LoggedSet
	records   map[uuid.UUID]*models.PersonalRecord
	usage     map[uuid.UUID]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		workouts:  make(map[uuid.UUID]*models.LoggedWorkout),
		exercises: make(map[uuid.UUID]*models.SessionExercise),
		plans:     make(map[uuid.UUID]*models.WorkoutPlan),
		planned:   make(map[uuid.UUID][]models.PlannedExercise),
		known:     make(map[models.ExerciseRef]models.ExerciseInfo),
		sets:      make(map[uuid.UUID]*models.LoggedSet),
		records:   make(map[uuid.UUID]*models.PersonalRecord),
		usage:     make(map[uuid.UUID]int),
	}
}

var _ Store = (*fakeStore)(nil)

func (f *fakeStore) GetWorkout(_ context.Context, id uuid.UUID) (*models.LoggedWorkout, error) {
	w, ok := f.workouts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (f *fakeStore) CreateWorkout(_ context.Context, w models.LoggedWorkout, exercises []models.SessionExercise) error {
	f.workouts[w.ID] = &w
	for _, e := range exercises {
		e := e
		f.exercises[e.ID] = &e
	}
	return nil
}

func (f *fakeStore) EndWorkout(_ context.Context, id uuid.UUID, endedAt time.Time, notes string) error {
	w, ok := f.workouts[id]
	if !ok {
		return ErrNotFound
	}
	if w.EndedAt == nil {
		w.EndedAt = &endedAt
		if notes != "" {
			w.Notes = notes
		}
	}
	return nil
}

func (f *fakeStore) ListSessionExercises(_ context.Context, workoutID uuid.UUID) ([]models.SessionExercise, error) {
	var out []models.SessionExercise
	for _, e := range f.exercises {
		if e.WorkoutID == workoutID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeStore) GetSessionExercise(_ context.Context, id uuid.UUID) (*models.SessionExercise, error) {
	e, ok := f.exercises[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeStore) MarkExerciseStarted(_ context.Context, id uuid.UUID, at time.Time) error {
	e, ok := f.exercises[id]
	if !ok {
		return ErrNotFound
	}
	if e.StartedAt == nil {
		e.StartedAt = &at
	}
	return nil
}

func (f *fakeStore) MarkExerciseCompleted(_ context.Context, id uuid.UUID, at time.Time) error {
	e, ok := f.exercises[id]
	if !ok {
		return ErrNotFound
	}
	if e.CompletedAt == nil {
		e.CompletedAt = &at
	}
	return nil
}

func (f *fakeStore) ReorderQueue(ctx context.Context, workoutID, currentID, chosenID uuid.UUID, completedAt time.Time) error {
	if err := f.MarkExerciseCompleted(ctx, currentID, completedAt); err != nil {
		return err
	}
	var incomplete []models.SessionExercise
	for _, e := range f.exercises {
		if e.WorkoutID == workoutID && e.CompletedAt == nil {
			incomplete = append(incomplete, *e)
		}
	}
	for _, a := range RenumberQueue(incomplete, chosenID) {
		f.exercises[a.ID].Position = a.Position
	}
	return nil
}

func (f *fakeStore) GetPlan(_ context.Context, id uuid.UUID) (*models.WorkoutPlan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) ListPlannedExercises(_ context.Context, planID uuid.UUID) ([]models.PlannedExercise, error) {
	return f.planned[planID], nil
}

func (f *fakeStore) RecordPlanUsage(_ context.Context, planID uuid.UUID) error {
	f.usage[planID]++
	f.plans[planID].TimesUsed++
	return nil
}

func (f *fakeStore) ResolveExercise(_ context.Context, ref models.ExerciseRef, _ int) (*models.ExerciseInfo, error) {
	info, ok := f.known[ref]
	if !ok {
		return nil, ErrNotFound
	}
	return &info, nil
}

func (f *fakeStore) GetSet(_ context.Context, id uuid.UUID) (*models.LoggedSet, error) {
	set, ok := f.sets[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *set
	return &cp, nil
}

func (f *fakeStore) MaxSetNumber(_ context.Context, sessionExerciseID uuid.UUID) (int, error) {
	max := 0
	for _, set := range f.sets {
		if set.SessionExerciseID == sessionExerciseID && set.SetNumber > max {
			max = set.SetNumber
		}
	}
	return max, nil
}

func (f *fakeStore) InsertSet(_ context.Context, set models.LoggedSet) error {
	f.sets[set.ID] = &set
	return nil
}

func (f *fakeStore) UpdateSet(_ context.Context, id uuid.UUID, patch models.SetPatch) error {
	set, ok := f.sets[id]
	if !ok {
		return ErrNotFound
	}
	if patch.Weight != nil {
		set.Weight = *patch.Weight
	}
	if patch.Reps != nil {
		set.Reps = *patch.Reps
	}
	if patch.IsWarmup != nil {
		set.IsWarmup = *patch.IsWarmup
	}
	if patch.IsDropset != nil {
		set.IsDropset = *patch.IsDropset
	}
	if patch.Notes != nil {
		set.Notes = *patch.Notes
	}
	return nil
}

func (f *fakeStore) DeleteSet(_ context.Context, id uuid.UUID) error {
	delete(f.sets, id)
	return nil
}

func (f *fakeStore) SetRestBefore(_ context.Context, sessionExerciseID uuid.UUID, seconds int) error {
	e, ok := f.exercises[sessionExerciseID]
	if !ok {
		return ErrNotFound
	}
	if e.RestBeforeSec == nil {
		e.RestBeforeSec = &seconds
	}
	return nil
}

func (f *fakeStore) BestRecord(_ context.Context, userID int, ref models.ExerciseRef, kind models.RecordKind, reps int) (*models.PersonalRecord, error) {
	for _, rec := range f.records {
		if rec.UserID != userID || rec.Exercise != ref || rec.Kind != kind {
			continue
		}
		if kind == models.RecordWeightAtReps && rec.Reps != reps {
			continue
		}
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) SaveRecord(_ context.Context, rec models.PersonalRecord) error {
	f.records[rec.ID] = &rec
	return nil
}

// testClock hands out strictly increasing timestamps one second apart.
type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}
