package team

import (
	"context"
	"fmt"

	"github.com/aperrin/fitledger/internal/store"
)

// Recomputer refreshes a team's derived fields from the user collection.
// The aggregation engine implements it.
type Recomputer interface {
	RecomputeTeam(ctx context.Context, name string) error
}

// Service provides validated team CRUD.
//
// Membership is linked by name, so renaming a team silently orphans users
// still carrying the old name. The service keeps the renamed team's derived
// fields truthful by recomputing them under the new name; reattaching members
// is the caller's job.
type Service struct {
	runner store.Runner
	store  Store
	rec    Recomputer
}

// NewService creates a new Service over the given store and recomputer.
func NewService(runner store.Runner, st Store, rec Recomputer) *Service {
	return &Service{runner: runner, store: st, rec: rec}
}

// Create validates the input and inserts the team. Aggregates are recomputed
// immediately so a team created after its members (the seed order, or a
// re-created team) starts with truthful totals rather than zeros.
func (s *Service) Create(ctx context.Context, in CreateTeamInput) (*Team, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	var created *Team
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		t, err := s.store.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("creating team: %w", err)
		}
		created = t
		return s.rec.RecomputeTeam(ctx, t.Name)
	})
	if err != nil {
		return nil, err
	}
	// Re-read so the response carries the recomputed fields.
	return s.store.GetByID(ctx, created.ID)
}

// GetByID retrieves a team by primary key.
func (s *Service) GetByID(ctx context.Context, id string) (*Team, error) {
	return s.store.GetByID(ctx, id)
}

// GetByName retrieves a team by its unique name.
func (s *Service) GetByName(ctx context.Context, name string) (*Team, error) {
	return s.store.GetByName(ctx, name)
}

// List returns all teams.
func (s *Service) List(ctx context.Context) ([]*Team, error) {
	return s.store.List(ctx)
}

// Update applies a partial update. A rename recomputes the team under its new
// name; users still pointing at the old name no longer count toward it.
func (s *Service) Update(ctx context.Context, id string, in UpdateTeamInput) (*Team, error) {
	if err := validateUpdate(in); err != nil {
		return nil, err
	}

	var updated *Team
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		current, err := s.store.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("loading team %s: %w", id, err)
		}

		t, err := s.store.Update(ctx, id, in)
		if err != nil {
			return fmt.Errorf("updating team %s: %w", id, err)
		}
		updated = t

		if t.Name != current.Name {
			return s.rec.RecomputeTeam(ctx, t.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, updated.ID)
}

// Delete removes a team. Members keep their team name string; their points
// simply stop being aggregated until a team with that name exists again.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting team %s: %w", id, err)
	}
	return nil
}
