// Package memory provides a mutex-guarded in-memory implementation of the
// entity stores. It backs the test suite and the `database.driver: memory`
// mode for dependency-free local runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aperrin/fitledger/internal/activity"
	"github.com/aperrin/fitledger/internal/leaderboard"
	"github.com/aperrin/fitledger/internal/team"
	"github.com/aperrin/fitledger/internal/user"
	"github.com/aperrin/fitledger/internal/workout"
)

// txKey marks a context as running inside an InTx unit.
type txKey struct{}

// DB holds every record collection behind one mutex. It implements
// store.Runner plus the Store interface of each entity package.
type DB struct {
	mu sync.Mutex

	users      map[string]user.User           // by id
	teams      map[string]team.Team           // by id
	activities map[string]activity.Activity   // by id
	workouts   map[string]workout.Workout     // by id
	board      map[string]leaderboard.Entry   // by user email

	now func() time.Time
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{
		users:      make(map[string]user.User),
		teams:      make(map[string]team.Team),
		activities: make(map[string]activity.Activity),
		workouts:   make(map[string]workout.Workout),
		board:      make(map[string]leaderboard.Entry),
		now:        time.Now,
	}
}

// InTx runs fn as a single commit unit: the database lock is held for the
// whole unit and all writes are rolled back if fn fails. Nested calls join
// the enclosing unit.
func (d *DB) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	snap := d.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		d.restore(snap)
		return err
	}
	return nil
}

// lock acquires the database mutex unless ctx already runs inside an InTx
// unit, which holds it for the duration. The returned func releases it.
func (d *DB) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	d.mu.Lock()
	return d.mu.Unlock
}

type dbSnapshot struct {
	users      map[string]user.User
	teams      map[string]team.Team
	activities map[string]activity.Activity
	workouts   map[string]workout.Workout
	board      map[string]leaderboard.Entry
}

func (d *DB) snapshot() dbSnapshot {
	return dbSnapshot{
		users:      copyMap(d.users),
		teams:      copyMap(d.teams),
		activities: copyMap(d.activities),
		workouts:   copyMap(d.workouts),
		board:      copyMap(d.board),
	}
}

func (d *DB) restore(s dbSnapshot) {
	d.users = s.users
	d.teams = s.teams
	d.activities = s.activities
	d.workouts = s.workouts
	d.board = s.board
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
