package user

import (
	"context"
	"fmt"

	"github.com/aperrin/fitledger/internal/store"
)

// Service provides validated user CRUD. Every successful mutation notifies
// the Aggregator inside the same commit unit, so callers never observe a user
// whose team totals or leaderboard row are stale.
type Service struct {
	runner store.Runner
	store  Store
	agg    Aggregator
}

// NewService creates a new Service over the given store and aggregator.
func NewService(runner store.Runner, st Store, agg Aggregator) *Service {
	return &Service{runner: runner, store: st, agg: agg}
}

// Create validates the input, inserts the user, and recomputes aggregates.
func (s *Service) Create(ctx context.Context, in CreateUserInput) (*User, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	var created *User
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		u, err := s.store.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		created = u
		return s.agg.UserMutated(ctx, Mutation{Kind: ChangeCreated, User: u})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a user by primary key.
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email address.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.store.GetByEmail(ctx, email)
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.store.List(ctx)
}

// Update applies a partial update and recomputes any affected aggregates.
func (s *Service) Update(ctx context.Context, id string, in UpdateUserInput) (*User, error) {
	if err := validateUpdate(in); err != nil {
		return nil, err
	}

	var updated *User
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		current, err := s.store.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("loading user %s: %w", id, err)
		}

		u, err := s.store.Update(ctx, id, in)
		if err != nil {
			return fmt.Errorf("updating user %s: %w", id, err)
		}
		updated = u

		m, relevant := classifyChange(current, u)
		if !relevant {
			return nil
		}
		return s.agg.UserMutated(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a user and recomputes its team and the leaderboard.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.runner.InTx(ctx, func(ctx context.Context) error {
		current, err := s.store.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("loading user %s: %w", id, err)
		}
		if err := s.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting user %s: %w", id, err)
		}
		return s.agg.UserMutated(ctx, Mutation{
			Kind:    ChangeDeleted,
			User:    current,
			OldTeam: current.Team,
		})
	})
}

// classifyChange maps an old/new user pair to the mutation kind the engine
// cares about. Identity-only changes (name, email) ride the points path:
// the engine work is the same, a team recompute that lands on the existing
// values plus a leaderboard rebuild that refreshes the mirrored fields.
func classifyChange(old, new *User) (Mutation, bool) {
	switch {
	case old.Team != new.Team:
		return Mutation{Kind: ChangeTeamChanged, User: new, OldTeam: old.Team}, true
	case old.TotalPoints != new.TotalPoints,
		old.Name != new.Name,
		old.Email != new.Email:
		return Mutation{Kind: ChangePointsChanged, User: new}, true
	default:
		return Mutation{}, false
	}
}
