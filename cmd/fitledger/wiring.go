package main

import (
	"context"

	"github.com/aperrin/fitledger/internal/activity"
	"github.com/aperrin/fitledger/internal/aggregate"
	"github.com/aperrin/fitledger/internal/config"
	"github.com/aperrin/fitledger/internal/leaderboard"
	"github.com/aperrin/fitledger/internal/metrics"
	"github.com/aperrin/fitledger/internal/store"
	"github.com/aperrin/fitledger/internal/store/memory"
	"github.com/aperrin/fitledger/internal/store/postgres"
	"github.com/aperrin/fitledger/internal/team"
	"github.com/aperrin/fitledger/internal/user"
	"github.com/aperrin/fitledger/internal/workout"
	"github.com/jackc/pgx/v5/pgxpool"
)

// backend bundles the entity stores for whichever driver the config selects.
type backend struct {
	pool *pgxpool.Pool // nil for the memory driver

	runner     store.Runner
	users      user.Store
	teams      team.Store
	activities activity.Store
	workouts   workout.Store
	board      leaderboard.Store
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.Database.Driver == "memory" {
		db := memory.New()
		return &backend{
			runner:     db,
			users:      db.Users(),
			teams:      db.Teams(),
			activities: db.Activities(),
			workouts:   db.Workouts(),
			board:      db.Leaderboard(),
		}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	db := postgres.New(pool)
	return &backend{
		pool:       pool,
		runner:     db,
		users:      db.Users(),
		teams:      db.Teams(),
		activities: db.Activities(),
		workouts:   db.Workouts(),
		board:      db.Leaderboard(),
	}, nil
}

func (b *backend) close() {
	if b.pool != nil {
		b.pool.Close()
	}
}

// services holds the wired domain services sharing one aggregation engine.
type services struct {
	engine     *aggregate.Engine
	users      *user.Service
	teams      *team.Service
	activities *activity.Service
	workouts   *workout.Service
	board      *leaderboard.Service
}

func newServices(b *backend, cfg *config.Config, m *metrics.Metrics) *services {
	var opts []aggregate.Option
	if m != nil {
		opts = append(opts, aggregate.WithMetrics(m))
	}
	engine := aggregate.NewEngine(b.users, b.teams, b.board, opts...)

	return &services{
		engine:     engine,
		users:      user.NewService(b.runner, b.users, engine),
		teams:      team.NewService(b.runner, b.teams, engine),
		activities: activity.NewService(b.runner, b.activities, b.users, engine, cfg.Aggregation.AccrueActivityPoints),
		workouts:   workout.NewService(b.workouts),
		board:      leaderboard.NewService(b.runner, b.board, engine),
	}
}
