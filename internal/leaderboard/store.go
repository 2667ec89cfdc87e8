package leaderboard

import "context"

// Store provides persistence operations for the materialized leaderboard.
// Rows are keyed by user email; only the aggregation engine writes them.
type Store interface {
	// List returns all entries in rank order.
	List(ctx context.Context) ([]*Entry, error)
	GetByEmail(ctx context.Context, email string) (*Entry, error)
	// Upsert inserts or replaces the entry for in.UserEmail.
	Upsert(ctx context.Context, in Entry) (*Entry, error)
	// Prune deletes every entry whose email is not in keep.
	Prune(ctx context.Context, keep []string) error
	// Lock serializes full rebuilds. Inside a commit unit the lock is held
	// until the unit ends, so two rebuilds cannot interleave their user
	// scans and rank writes.
	Lock(ctx context.Context) error
}
