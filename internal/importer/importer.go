package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironledger/internal/models"
	"github.com/meltforce/ironledger/internal/storage"
)

// Importer writes parsed workout history into the database for one
// user. Exercise names are matched case-insensitively against the
// catalog and the user's custom list; unknown names become custom
// exercises so no history is dropped.
type Importer struct {
	db     *storage.DB
	userID int
	log    *slog.Logger

	byName map[string]models.ExerciseRef
}

// New creates an Importer for the given user.
func New(db *storage.DB, userID int, log *slog.Logger) *Importer {
	return &Importer{db: db, userID: userID, log: log}
}

// Result summarizes one import run.
type Result struct {
	Workouts int
	Sets     int
	Created  int // custom exercises created for unknown names
}

// Import inserts the parsed workouts. Each workout lands fully formed:
// ended, with its exercise queue and sets. Personal records are not
// computed here; they rebuild from history as new sets are logged.
func (im *Importer) Import(ctx context.Context, workouts []ParsedWorkout) (*Result, error) {
	if err := im.loadExercises(ctx); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, pw := range workouts {
		sets, err := im.importWorkout(ctx, pw, res)
		if err != nil {
			return res, fmt.Errorf("importing workout %q (%s): %w", pw.Name, pw.StartedAt.Format("2006-01-02"), err)
		}
		res.Workouts++
		res.Sets += sets
	}
	return res, nil
}

func (im *Importer) loadExercises(ctx context.Context) error {
	im.byName = make(map[string]models.ExerciseRef)

	catalog, err := im.db.ListCatalogExercises(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	for _, e := range catalog {
		im.byName[strings.ToLower(e.Name)] = e.Ref
	}

	custom, err := im.db.ListCustomExercises(ctx, im.userID)
	if err != nil {
		return fmt.Errorf("loading custom exercises: %w", err)
	}
	for _, e := range custom {
		im.byName[strings.ToLower(e.Name)] = e.Ref
	}
	return nil
}

func (im *Importer) resolveName(ctx context.Context, name string, res *Result) (models.ExerciseRef, error) {
	if ref, ok := im.byName[strings.ToLower(name)]; ok {
		return ref, nil
	}

	created, err := im.db.CreateCustomExercise(ctx, im.userID, models.ExerciseInfo{
		Name:            name,
		WeightIncrement: "plate",
	})
	if err != nil {
		return models.ExerciseRef{}, fmt.Errorf("creating custom exercise %q: %w", name, err)
	}
	im.log.Info("created custom exercise for unknown name", "name", name)
	im.byName[strings.ToLower(name)] = created.Ref
	res.Created++
	return created.Ref, nil
}

func (im *Importer) importWorkout(ctx context.Context, pw ParsedWorkout, res *Result) (int, error) {
	name := pw.Name
	if name == "" {
		name = "Imported Workout"
	}

	endedAt := pw.StartedAt
	if pw.Duration > 0 {
		endedAt = pw.StartedAt.Add(pw.Duration)
	}

	w := models.LoggedWorkout{
		ID:        uuid.New(),
		UserID:    im.userID,
		Name:      name,
		Notes:     pw.Notes,
		StartedAt: pw.StartedAt,
		EndedAt:   &endedAt,
		IsActive:  true,
	}

	var exercises []models.SessionExercise
	var exerciseSets [][]ParsedSet
	at := pw.StartedAt
	for _, pe := range pw.Exercises {
		ref, err := im.resolveName(ctx, pe.Name, res)
		if err != nil {
			return 0, err
		}
		completed := at
		exercises = append(exercises, models.SessionExercise{
			ID:          uuid.New(),
			WorkoutID:   w.ID,
			Exercise:    ref,
			Position:    len(exercises) + 1,
			StartedAt:   &completed,
			CompletedAt: &completed,
		})
		exerciseSets = append(exerciseSets, pe.Sets)
	}

	if err := im.db.CreateWorkout(ctx, w, exercises); err != nil {
		return 0, err
	}

	// Historical imports bypass the live session path: completed_at on
	// the queue rows has to be backfilled since CreateWorkout only
	// writes fresh queues.
	for _, se := range exercises {
		if err := im.db.MarkExerciseStarted(ctx, se.ID, pw.StartedAt); err != nil {
			return 0, err
		}
		if err := im.db.MarkExerciseCompleted(ctx, se.ID, endedAt); err != nil {
			return 0, err
		}
	}

	inserted := 0
	for i, se := range exercises {
		for j, ps := range exerciseSets[i] {
			// Exports number warmups separately (W1, W2, ...), which
			// would collide with working set numbers, so rows are
			// renumbered sequentially in file order.
			set := models.LoggedSet{
				ID:                uuid.New(),
				SessionExerciseID: se.ID,
				SetNumber:         j + 1,
				Weight:            ps.Weight,
				Reps:              ps.Reps,
				IsWarmup:          ps.IsWarmup,
				StartedAt:         pw.StartedAt,
				CompletedAt:       &endedAt,
				Notes:             ps.Notes,
			}
			if err := im.db.InsertSet(ctx, set); err != nil {
				return inserted, err
			}
			inserted++
		}
	}
	return inserted, nil
}

// LogRun records the outcome of an import run in import_logs.
func (im *Importer) LogRun(ctx context.Context, source string, res *Result, runErr error, took time.Duration) {
	status := "success"
	errMsg := ""
	if runErr != nil {
		status = "error"
		errMsg = runErr.Error()
	}
	l := storage.ImportLog{
		UserID:   im.userID,
		Source:   source,
		Status:   status,
		Error:    errMsg,
		Duration: took,
	}
	if res != nil {
		l.Workouts = res.Workouts
		l.Sets = res.Sets
	}
	if err := im.db.InsertImportLog(ctx, l); err != nil {
		im.log.Error("failed to log import", "source", source, "error", err)
	}
}
