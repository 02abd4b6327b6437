package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"tailscale.com/client/local"

	"github.com/meltforce/ironledger/internal/storage"
	"github.com/meltforce/ironledger/internal/workout"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	svc    *workout.Service
	log    *slog.Logger
	lc     *local.Client
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, svc *workout.Service, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		svc:    svc,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale wires the tsnet local client used to resolve request
// identity. Without it every request runs as the local dev user.
func (s *Server) SetTailscale(lc *local.Client) {
	s.lc = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.Identity)

		r.Get("/me", s.handleMe)

		r.Get("/exercises", s.handleListExercises)
		r.Post("/exercises/custom", s.handleCreateCustomExercise)
		r.Patch("/exercises/custom/{id}", s.handleUpdateCustomExercise)
		r.Delete("/exercises/custom/{id}", s.handleDeleteCustomExercise)

		r.Get("/plans", s.handleListPlans)
		r.Post("/plans", s.handleCreatePlan)
		r.Get("/plans/{id}", s.handleGetPlan)
		r.Put("/plans/{id}", s.handleUpdatePlan)
		r.Delete("/plans/{id}", s.handleDeletePlan)

		r.Post("/workouts", s.handleStartWorkout)
		r.Get("/workouts", s.handleListWorkouts)
		r.Get("/workouts/active", s.handleActiveWorkout)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Post("/workouts/{id}/end", s.handleEndWorkout)
		r.Post("/workouts/{id}/current", s.handleEnterCurrent)

		r.Post("/session-exercises/{id}/complete", s.handleCompleteExercise)
		r.Post("/session-exercises/{id}/select-next", s.handleSelectNext)
		r.Post("/session-exercises/{id}/sets", s.handleAddSet)

		r.Patch("/sets/{id}", s.handleUpdateSet)
		r.Delete("/sets/{id}", s.handleDeleteSet)

		r.Get("/plates", s.handlePlates)
		r.Get("/records", s.handleRecords)
		r.Get("/settings", s.handleGetSettings)
		r.Patch("/settings", s.handleUpdateSettings)
		r.Get("/stats", s.handleStats)
	})
}
