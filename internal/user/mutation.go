package user

import "context"

// ChangeKind classifies a user mutation for aggregate maintenance.
type ChangeKind string

const (
	ChangeCreated       ChangeKind = "created"
	ChangePointsChanged ChangeKind = "points_changed"
	ChangeTeamChanged   ChangeKind = "team_changed"
	ChangeDeleted       ChangeKind = "deleted"
)

// Mutation describes a completed user write that may have moved points or
// membership. User holds the post-write state (the pre-delete state for
// ChangeDeleted). OldTeam is the previous team name for ChangeTeamChanged and
// ChangeDeleted.
type Mutation struct {
	Kind    ChangeKind
	User    *User
	OldTeam string
}

// Aggregator is notified after every user mutation, inside the same commit
// unit as the write itself. The aggregation engine implements it.
type Aggregator interface {
	UserMutated(ctx context.Context, m Mutation) error
}
