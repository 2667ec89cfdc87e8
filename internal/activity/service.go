package activity

import (
	"context"
	"fmt"

	"github.com/aperrin/fitledger/internal/store"
	"github.com/aperrin/fitledger/internal/user"
)

// Service provides validated activity CRUD.
//
// By default activities are pass-through records: logging one does not touch
// the owning user's total_points, which is set directly on the user. The
// accrual hook flips that: with accrue enabled, every create/update/delete
// folds the activity's point delta into the user's total inside the same
// commit unit, and the user must exist for the write to succeed.
type Service struct {
	runner store.Runner
	store  Store
	users  user.Store
	agg    user.Aggregator
	accrue bool
}

// NewService creates a new Service. users and agg are consulted only when
// accrue is true.
func NewService(runner store.Runner, st Store, users user.Store, agg user.Aggregator, accrue bool) *Service {
	return &Service{runner: runner, store: st, users: users, agg: agg, accrue: accrue}
}

// Create validates and logs a new activity.
func (s *Service) Create(ctx context.Context, in CreateActivityInput) (*Activity, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	var created *Activity
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		a, err := s.store.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("creating activity: %w", err)
		}
		created = a
		if !s.accrue {
			return nil
		}
		return s.adjustUserPoints(ctx, a.UserEmail, a.Points)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves an activity by primary key.
func (s *Service) GetByID(ctx context.Context, id string) (*Activity, error) {
	return s.store.GetByID(ctx, id)
}

// List returns all activities.
func (s *Service) List(ctx context.Context) ([]*Activity, error) {
	return s.store.List(ctx)
}

// ListByUserEmail returns all activities logged for the given email.
func (s *Service) ListByUserEmail(ctx context.Context, email string) ([]*Activity, error) {
	return s.store.ListByUserEmail(ctx, email)
}

// Update applies a partial update, shifting accrued points between users when
// the activity's points or owner change.
func (s *Service) Update(ctx context.Context, id string, in UpdateActivityInput) (*Activity, error) {
	if err := validateUpdate(in); err != nil {
		return nil, err
	}

	var updated *Activity
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		current, err := s.store.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("loading activity %s: %w", id, err)
		}

		a, err := s.store.Update(ctx, id, in)
		if err != nil {
			return fmt.Errorf("updating activity %s: %w", id, err)
		}
		updated = a
		if !s.accrue {
			return nil
		}

		if a.UserEmail != current.UserEmail {
			if err := s.adjustUserPoints(ctx, current.UserEmail, -current.Points); err != nil {
				return err
			}
			return s.adjustUserPoints(ctx, a.UserEmail, a.Points)
		}
		if a.Points != current.Points {
			return s.adjustUserPoints(ctx, a.UserEmail, a.Points-current.Points)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an activity, reclaiming its accrued points.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.runner.InTx(ctx, func(ctx context.Context) error {
		current, err := s.store.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("loading activity %s: %w", id, err)
		}
		if err := s.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting activity %s: %w", id, err)
		}
		if !s.accrue {
			return nil
		}
		return s.adjustUserPoints(ctx, current.UserEmail, -current.Points)
	})
}

// adjustUserPoints applies a point delta to the user owning email and runs
// the aggregation cycle for the change. Totals never go below zero.
func (s *Service) adjustUserPoints(ctx context.Context, email string, delta int) error {
	if delta == 0 {
		return nil
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("loading user %s for point accrual: %w", email, err)
	}

	points := u.TotalPoints + delta
	if points < 0 {
		points = 0
	}
	updated, err := s.users.Update(ctx, u.ID, user.UpdateUserInput{TotalPoints: &points})
	if err != nil {
		return fmt.Errorf("accruing %d points to user %s: %w", delta, email, err)
	}
	return s.agg.UserMutated(ctx, user.Mutation{Kind: user.ChangePointsChanged, User: updated})
}
