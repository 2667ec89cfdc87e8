// Package store defines the entity-store boundary shared by the postgres and
// in-memory implementations: the common error sentinels and the transaction
// runner that lets a record write and its aggregate recomputation commit as a
// single unit.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a record with the given key does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a write violates a uniqueness constraint
	// (user email, team name, leaderboard user_email).
	ErrConflict = errors.New("record conflicts with an existing record")
)

// Runner executes fn inside a single commit unit. Implementations pass a
// derived context to fn; store calls made with that context join the unit,
// and an error from fn discards every write made within it.
type Runner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
