package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aperrin/fitledger/internal/activity"
	"github.com/aperrin/fitledger/internal/aggregate"
	"github.com/aperrin/fitledger/internal/leaderboard"
	"github.com/aperrin/fitledger/internal/metrics"
	"github.com/aperrin/fitledger/internal/store/memory"
	"github.com/aperrin/fitledger/internal/team"
	"github.com/aperrin/fitledger/internal/user"
	"github.com/aperrin/fitledger/internal/workout"
)

// newTestServer wires the full router over an in-memory store, the same
// composition the serve command builds.
func newTestServer(t *testing.T, m *metrics.Metrics) http.Handler {
	t.Helper()
	db := memory.New()
	var opts []aggregate.Option
	if m != nil {
		opts = append(opts, aggregate.WithMetrics(m))
	}
	engine := aggregate.NewEngine(db.Users(), db.Teams(), db.Leaderboard(), opts...)

	return NewRouter(RouterDeps{
		Users:          user.NewService(db, db.Users(), engine),
		Teams:          team.NewService(db, db.Teams(), engine),
		Activities:     activity.NewService(db, db.Activities(), db.Users(), engine, false),
		Workouts:       workout.NewService(db.Workouts()),
		Leaderboard:    leaderboard.NewService(db, db.Leaderboard(), engine),
		Metrics:        m,
		AllowedOrigins: []string{"*"},
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	h := newTestServer(t, nil)

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]string
	decodeInto(t, rec, &body)
	if body["status"] != "ok" || body["database"] != "connected" {
		t.Fatalf("unexpected health body: %v", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}
}

func TestAPIRootIndex(t *testing.T) {
	h := newTestServer(t, nil)

	rec := doJSON(t, h, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var index map[string]string
	decodeInto(t, rec, &index)
	for _, key := range []string{"users", "teams", "activities", "workouts", "leaderboard", "health"} {
		if index[key] == "" {
			t.Errorf("index missing %q endpoint", key)
		}
	}
}

func TestUserTeamLeaderboardFlow(t *testing.T) {
	h := newTestServer(t, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/teams", map[string]string{"name": "Alpha"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating team: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var tm team.Team
	decodeInto(t, rec, &tm)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/users", map[string]interface{}{
		"name": "Anna", "email": "anna@example.com", "team": "Alpha", "total_points": 100,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating user: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var anna user.User
	decodeInto(t, rec, &anna)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/users", map[string]interface{}{
		"name": "Ben", "email": "ben@example.com", "team": "Alpha", "total_points": 200,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating user: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Team aggregates follow the user writes.
	rec = doJSON(t, h, http.MethodGet, "/api/v1/teams/"+tm.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetching team: expected 200, got %d", rec.Code)
	}
	decodeInto(t, rec, &tm)
	if tm.TotalPoints != 300 || tm.MemberCount != 2 {
		t.Fatalf("team = (%d, %d), want (300, 2)", tm.TotalPoints, tm.MemberCount)
	}

	// Ben leads with 200 points.
	rec = doJSON(t, h, http.MethodGet, "/api/v1/leaderboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetching leaderboard: expected 200, got %d", rec.Code)
	}
	var board struct {
		Leaderboard []leaderboard.Entry `json:"leaderboard"`
	}
	decodeInto(t, rec, &board)
	if len(board.Leaderboard) != 2 {
		t.Fatalf("got %d entries, want 2", len(board.Leaderboard))
	}
	if board.Leaderboard[0].UserEmail != "ben@example.com" || board.Leaderboard[0].Rank != 1 {
		t.Fatalf("top entry = %+v, want ben@example.com at rank 1", board.Leaderboard[0])
	}

	// Boost Anna past Ben; the board reorders in the same request.
	rec = doJSON(t, h, http.MethodPut, "/api/v1/users/"+anna.ID, map[string]interface{}{"total_points": 500})
	if rec.Code != http.StatusOK {
		t.Fatalf("updating user: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/leaderboard", nil)
	decodeInto(t, rec, &board)
	if board.Leaderboard[0].UserEmail != "anna@example.com" || board.Leaderboard[0].TotalPoints != 500 {
		t.Fatalf("top entry = %+v, want anna@example.com with 500", board.Leaderboard[0])
	}

	// Deleting Anna shrinks the board and the team.
	rec = doJSON(t, h, http.MethodDelete, "/api/v1/users/"+anna.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("deleting user: expected 204, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/leaderboard", nil)
	decodeInto(t, rec, &board)
	if len(board.Leaderboard) != 1 || board.Leaderboard[0].UserEmail != "ben@example.com" {
		t.Fatalf("board after delete = %+v, want only ben@example.com", board.Leaderboard)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/teams/"+tm.ID, nil)
	decodeInto(t, rec, &tm)
	if tm.TotalPoints != 200 || tm.MemberCount != 1 {
		t.Fatalf("team after delete = (%d, %d), want (200, 1)", tm.TotalPoints, tm.MemberCount)
	}
}

func TestErrorMapping(t *testing.T) {
	h := newTestServer(t, nil)

	// Seed one user so conflict cases have something to collide with.
	rec := doJSON(t, h, http.MethodPost, "/api/v1/users", map[string]interface{}{
		"name": "Anna", "email": "anna@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seeding user: expected 201, got %d", rec.Code)
	}

	tests := []struct {
		name     string
		method   string
		path     string
		body     interface{}
		wantCode int
		wantErr  string
	}{
		{
			name:   "validation error",
			method: http.MethodPost, path: "/api/v1/users",
			body:     map[string]string{"email": "anna@example.com"},
			wantCode: http.StatusUnprocessableEntity, wantErr: "validation_error",
		},
		{
			name:   "bad email",
			method: http.MethodPost, path: "/api/v1/users",
			body:     map[string]string{"name": "X", "email": "nope"},
			wantCode: http.StatusUnprocessableEntity, wantErr: "validation_error",
		},
		{
			name:   "duplicate email",
			method: http.MethodPost, path: "/api/v1/users",
			body:     map[string]string{"name": "Clone", "email": "anna@example.com"},
			wantCode: http.StatusConflict, wantErr: "conflict",
		},
		{
			name:   "missing user",
			method: http.MethodGet, path: "/api/v1/users/does-not-exist",
			wantCode: http.StatusNotFound, wantErr: "not_found",
		},
		{
			name:   "missing workout",
			method: http.MethodGet, path: "/api/v1/workouts/does-not-exist",
			wantCode: http.StatusNotFound, wantErr: "not_found",
		},
		{
			name:   "bad difficulty",
			method: http.MethodPost, path: "/api/v1/workouts",
			body:     map[string]interface{}{"name": "X", "description": "d", "difficulty": "brutal", "duration": 30},
			wantCode: http.StatusUnprocessableEntity, wantErr: "validation_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			var envelope struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			decodeInto(t, rec, &envelope)
			if envelope.Error.Code != tt.wantErr {
				t.Errorf("error code = %q, want %q", envelope.Error.Code, tt.wantErr)
			}
			if envelope.Error.Message == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestMalformedBody(t *testing.T) {
	h := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/teams", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var envelope errorEnvelope
	decodeInto(t, rec, &envelope)
	if envelope.Error.Code != "invalid_body" {
		t.Errorf("error code = %q, want invalid_body", envelope.Error.Code)
	}
}

func TestWorkoutCatalog(t *testing.T) {
	h := newTestServer(t, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/workouts", map[string]interface{}{
		"name": "Morning Run", "description": "Easy jog", "difficulty": "easy",
		"duration": 30, "category": "Cardio", "points_value": 40,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating workout: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var wk workout.Workout
	decodeInto(t, rec, &wk)

	rec = doJSON(t, h, http.MethodPut, "/api/v1/workouts/"+wk.ID, map[string]string{"difficulty": "hard"})
	if rec.Code != http.StatusOK {
		t.Fatalf("updating workout: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decodeInto(t, rec, &wk)
	if wk.Difficulty != "hard" {
		t.Fatalf("difficulty = %q, want hard", wk.Difficulty)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/workouts/"+wk.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("deleting workout: expected 204, got %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/api/v1/workouts", nil)
	var list struct {
		Workouts []workout.Workout `json:"workouts"`
	}
	decodeInto(t, rec, &list)
	if len(list.Workouts) != 0 {
		t.Fatalf("catalog has %d workouts after delete, want 0", len(list.Workouts))
	}
}

func TestActivityFeedFilter(t *testing.T) {
	h := newTestServer(t, nil)

	for i, email := range []string{"a@x.com", "a@x.com", "b@x.com"} {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/activities", map[string]interface{}{
			"user_email": email, "activity_type": "Running", "duration": 30 + i,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("creating activity: expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/api/v1/activities?user_email=a@x.com", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var feed struct {
		Activities []activity.Activity `json:"activities"`
	}
	decodeInto(t, rec, &feed)
	if len(feed.Activities) != 2 {
		t.Fatalf("filtered feed has %d rows, want 2", len(feed.Activities))
	}
}

func TestLeaderboardRebuildEndpoint(t *testing.T) {
	h := newTestServer(t, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/users", map[string]interface{}{
		"name": "Anna", "email": "anna@example.com", "total_points": 100,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating user: expected 201, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/v1/leaderboard/rebuild", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("rebuild: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var board struct {
		Leaderboard []leaderboard.Entry `json:"leaderboard"`
	}
	decodeInto(t, rec, &board)
	if len(board.Leaderboard) != 1 || board.Leaderboard[0].Rank != 1 {
		t.Fatalf("rebuild returned %+v, want one rank-1 entry", board.Leaderboard)
	}
}

func TestLeaderboardEntryLookup(t *testing.T) {
	h := newTestServer(t, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/users", map[string]interface{}{
		"name": "Anna", "email": "anna@example.com", "total_points": 100,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating user: expected 201, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/leaderboard/anna@example.com", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("entry lookup: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var entry leaderboard.Entry
	decodeInto(t, rec, &entry)
	if entry.Rank != 1 || entry.UserName != "Anna" {
		t.Fatalf("entry = %+v, want Anna at rank 1", entry)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/leaderboard/nobody@example.com", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing entry: expected 404, got %d", rec.Code)
	}
}

func TestMetricsEndpoints(t *testing.T) {
	m := metrics.New()
	h := newTestServer(t, m)

	// Generate a little traffic first.
	for i := 0; i < 3; i++ {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/users", map[string]interface{}{
			"name": fmt.Sprintf("User %d", i), "email": fmt.Sprintf("u%d@x.com", i), "total_points": i * 10,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("creating user: expected 201, got %d", rec.Code)
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "fitledger_http_requests_total") {
		t.Error("/metrics output missing fitledger_http_requests_total")
	}
	if !strings.Contains(rec.Body.String(), "fitledger_leaderboard_rebuilds_total") {
		t.Error("/metrics output missing fitledger_leaderboard_rebuilds_total")
	}

	rec = doJSON(t, h, http.MethodGet, "/metrics/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics/summary: expected 200, got %d", rec.Code)
	}
	var summary map[string]interface{}
	decodeInto(t, rec, &summary)
	for _, key := range []string{"http", "aggregation", "leaderboard", "server"} {
		if _, ok := summary[key]; !ok {
			t.Errorf("summary missing %q section", key)
		}
	}
}

func TestCORSHeaders(t *testing.T) {
	h := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("preflight response missing Access-Control-Allow-Origin")
	}
}
