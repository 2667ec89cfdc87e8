// Package aggregate maintains the derived data: team totals, member counts,
// and the materialized leaderboard. It is the only writer of those fields;
// record services never touch them directly.
package aggregate

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aperrin/fitledger/internal/leaderboard"
	"github.com/aperrin/fitledger/internal/metrics"
	"github.com/aperrin/fitledger/internal/team"
	"github.com/aperrin/fitledger/internal/user"
)

// Engine recomputes aggregates from current store state. It caches nothing
// between calls; every operation re-reads the collections it depends on.
//
// Engine methods run inside the caller's commit unit. Serialization happens
// at two levels: in-process per-team and board mutexes keep goroutines from
// interleaving within one engine, and store-level locks (a team row lock, an
// advisory lock for the board) are held until the unit ends so a competing
// unit cannot scan state that predates this unit's commit.
type Engine struct {
	users user.Store
	teams team.Store
	board leaderboard.Store

	metrics *metrics.Metrics
	now     func() time.Time

	mu        sync.Mutex
	teamLocks map[string]*sync.Mutex
	boardMu   sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics attaches prometheus instrumentation to engine operations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an Engine over the given stores.
func NewEngine(users user.Store, teams team.Store, board leaderboard.Store, opts ...Option) *Engine {
	e := &Engine{
		users:     users,
		teams:     teams,
		board:     board,
		now:       time.Now,
		teamLocks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RecomputeTeam refreshes one team's member_count and total_points from the
// user collection. The team must exist; a missing team surfaces the store's
// not-found error to the caller.
func (e *Engine) RecomputeTeam(ctx context.Context, name string) error {
	lock := e.teamLock(name)
	lock.Lock()
	defer lock.Unlock()

	start := e.now()
	err := e.recomputeTeam(ctx, name)
	if e.metrics != nil {
		e.metrics.ObserveTeamRecompute(e.now().Sub(start), err)
	}
	return err
}

func (e *Engine) recomputeTeam(ctx context.Context, name string) error {
	if err := e.teams.LockByName(ctx, name); err != nil {
		return fmt.Errorf("locking team %q: %w", name, err)
	}

	t, err := e.teams.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("loading team %q: %w", name, err)
	}

	members, err := e.users.ListByTeam(ctx, name)
	if err != nil {
		return fmt.Errorf("listing members of team %q: %w", name, err)
	}

	total := 0
	for _, m := range members {
		total += m.TotalPoints
	}

	if _, err := e.teams.SetAggregates(ctx, t.ID, total, len(members)); err != nil {
		return fmt.Errorf("writing aggregates for team %q: %w", name, err)
	}
	return nil
}

// RebuildLeaderboard recomputes every leaderboard row and rank from the full
// user collection: total_points descending, name ascending on ties, email as
// the final key so the ordering is total. Rows for users that no longer exist
// are pruned.
func (e *Engine) RebuildLeaderboard(ctx context.Context) error {
	e.boardMu.Lock()
	defer e.boardMu.Unlock()

	start := e.now()
	size, err := e.rebuildLeaderboard(ctx)
	if e.metrics != nil {
		e.metrics.ObserveLeaderboardRebuild(e.now().Sub(start), size, err)
	}
	return err
}

func (e *Engine) rebuildLeaderboard(ctx context.Context) (int, error) {
	if err := e.board.Lock(ctx); err != nil {
		return 0, fmt.Errorf("locking leaderboard: %w", err)
	}

	users, err := e.users.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing users for leaderboard: %w", err)
	}

	sort.Slice(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Email < b.Email
	})

	now := e.now()
	keep := make([]string, 0, len(users))
	for i, u := range users {
		keep = append(keep, u.Email)
		entry := leaderboard.Entry{
			UserEmail:   u.Email,
			UserName:    u.Name,
			Team:        u.Team,
			TotalPoints: u.TotalPoints,
			Rank:        i + 1,
			LastUpdated: now,
		}
		if _, err := e.board.Upsert(ctx, entry); err != nil {
			return 0, fmt.Errorf("upserting leaderboard entry for %s: %w", u.Email, err)
		}
	}

	if err := e.board.Prune(ctx, keep); err != nil {
		return 0, fmt.Errorf("pruning stale leaderboard entries: %w", err)
	}
	return len(users), nil
}

// UserMutated runs the aggregation cycle for one user change: the affected
// team or teams first, then the leaderboard. It implements user.Aggregator
// and runs inside the caller's commit unit.
func (e *Engine) UserMutated(ctx context.Context, m user.Mutation) error {
	oldTeam, newTeam := "", ""
	switch m.Kind {
	case user.ChangeCreated, user.ChangePointsChanged:
		newTeam = m.User.Team
	case user.ChangeTeamChanged:
		oldTeam = m.OldTeam
		newTeam = m.User.Team
	case user.ChangeDeleted:
		oldTeam = m.OldTeam
	default:
		return fmt.Errorf("unknown change kind %q", m.Kind)
	}

	names := make([]string, 0, 2)
	if oldTeam != "" {
		names = append(names, oldTeam)
	}
	if newTeam != "" && newTeam != oldTeam {
		names = append(names, newTeam)
	}
	// Name order keeps the team lock order identical across units, so two
	// moves between the same pair of teams cannot deadlock on their locks.
	sort.Strings(names)

	for _, name := range names {
		if err := e.RecomputeTeam(ctx, name); err != nil {
			return err
		}
	}
	return e.RebuildLeaderboard(ctx)
}

// teamLock returns the mutex for a team name, creating it on first use.
func (e *Engine) teamLock(name string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.teamLocks[name]
	if !ok {
		lock = &sync.Mutex{}
		e.teamLocks[name] = lock
	}
	return lock
}
