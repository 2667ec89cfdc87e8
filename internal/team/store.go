package team

import "context"

// Store provides persistence operations for teams.
type Store interface {
	Create(ctx context.Context, in CreateTeamInput) (*Team, error)
	GetByID(ctx context.Context, id string) (*Team, error)
	GetByName(ctx context.Context, name string) (*Team, error)
	List(ctx context.Context) ([]*Team, error)
	Update(ctx context.Context, id string, in UpdateTeamInput) (*Team, error)
	// SetAggregates overwrites the derived fields. Only the aggregation
	// engine calls this.
	SetAggregates(ctx context.Context, id string, totalPoints, memberCount int) (*Team, error)
	// LockByName serializes aggregate recomputes for one team. Inside a
	// commit unit the lock is held until the unit ends, so a competing
	// recompute cannot read member state that predates this unit's writes.
	LockByName(ctx context.Context, name string) error
	Delete(ctx context.Context, id string) error
}
