package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aperrin/fitledger/internal/activity"
	"github.com/aperrin/fitledger/internal/leaderboard"
	"github.com/aperrin/fitledger/internal/metrics"
	"github.com/aperrin/fitledger/internal/team"
	"github.com/aperrin/fitledger/internal/user"
	"github.com/aperrin/fitledger/internal/workout"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps holds all dependencies for the API router.
type RouterDeps struct {
	Users       *user.Service
	Teams       *team.Service
	Activities  *activity.Service
	Workouts    *workout.Service
	Leaderboard *leaderboard.Service

	Metrics        *metrics.Metrics
	DB             Pinger // nil for the memory driver
	AllowedOrigins []string
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.AllowedOrigins))
	r.Use(slogRequestLogger)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}

	// Handlers.
	users := newUsersHandler(deps.Users)
	teams := newTeamsHandler(deps.Teams)
	activities := newActivitiesHandler(deps.Activities)
	workouts := newWorkoutsHandler(deps.Workouts)
	board := newLeaderboardHandler(deps.Leaderboard)

	// API root index.
	r.Get("/", apiRootHandler)

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		dbStatus := "connected"
		status := http.StatusOK
		if deps.DB != nil {
			if err := deps.DB.Ping(r.Context()); err != nil {
				dbStatus = "unreachable"
				status = http.StatusServiceUnavailable
			}
		}
		writeJSON(w, status, map[string]string{
			"status":   "ok",
			"database": dbStatus,
		})
	})

	r.Route("/api/v1", func(ar chi.Router) {
		ar.Get("/users", users.ListUsers)
		ar.Post("/users", users.CreateUser)
		ar.Get("/users/{id}", users.GetUser)
		ar.Put("/users/{id}", users.UpdateUser)
		ar.Delete("/users/{id}", users.DeleteUser)

		ar.Get("/teams", teams.ListTeams)
		ar.Post("/teams", teams.CreateTeam)
		ar.Get("/teams/{id}", teams.GetTeam)
		ar.Put("/teams/{id}", teams.UpdateTeam)
		ar.Delete("/teams/{id}", teams.DeleteTeam)

		ar.Get("/activities", activities.ListActivities)
		ar.Post("/activities", activities.CreateActivity)
		ar.Get("/activities/{id}", activities.GetActivity)
		ar.Put("/activities/{id}", activities.UpdateActivity)
		ar.Delete("/activities/{id}", activities.DeleteActivity)

		ar.Get("/workouts", workouts.ListWorkouts)
		ar.Post("/workouts", workouts.CreateWorkout)
		ar.Get("/workouts/{id}", workouts.GetWorkout)
		ar.Put("/workouts/{id}", workouts.UpdateWorkout)
		ar.Delete("/workouts/{id}", workouts.DeleteWorkout)

		ar.Get("/leaderboard", board.ListEntries)
		ar.Get("/leaderboard/{email}", board.GetEntry)
		ar.Post("/leaderboard/rebuild", board.Rebuild)
	})

	// Metrics.
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.PrometheusHandler())
		r.Get("/metrics/summary", deps.Metrics.SummaryHandler())
	}

	return r
}

// apiRootHandler lists the collection endpoints, mirroring the usual
// browsable-API index document.
func apiRootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"users":       "/api/v1/users",
		"teams":       "/api/v1/teams",
		"activities":  "/api/v1/activities",
		"workouts":    "/api/v1/workouts",
		"leaderboard": "/api/v1/leaderboard",
		"health":      "/health",
	})
}

// slogRequestLogger is a simple structured logging middleware using slog.
func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", ww.BytesWritten(),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}
