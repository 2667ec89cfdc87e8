package leaderboard

import (
	"context"

	"github.com/aperrin/fitledger/internal/store"
)

// Rebuilder recomputes the full leaderboard from the user collection. The
// aggregation engine implements it.
type Rebuilder interface {
	RebuildLeaderboard(ctx context.Context) error
}

// Service exposes the leaderboard read path plus an explicit rebuild. All
// ordinary maintenance happens through the engine as users change; Rebuild
// exists for seeding and operator-triggered repair.
type Service struct {
	runner    store.Runner
	store     Store
	rebuilder Rebuilder
}

// NewService creates a new Service.
func NewService(runner store.Runner, st Store, rb Rebuilder) *Service {
	return &Service{runner: runner, store: st, rebuilder: rb}
}

// List returns all entries in rank order.
func (s *Service) List(ctx context.Context) ([]*Entry, error) {
	return s.store.List(ctx)
}

// GetByEmail returns the entry for a single user.
func (s *Service) GetByEmail(ctx context.Context, email string) (*Entry, error) {
	return s.store.GetByEmail(ctx, email)
}

// Rebuild recomputes every entry and rank from current user state. It runs
// inside a commit unit like every user mutation does, which gives rebuilds
// and mutations one lock order: store unit first, engine locks second.
func (s *Service) Rebuild(ctx context.Context) error {
	return s.runner.InTx(ctx, s.rebuilder.RebuildLeaderboard)
}
