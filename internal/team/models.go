package team

import (
	"errors"
	"strings"
	"time"
)

// ErrNameRequired is returned when a team name is missing or blank.
var ErrNameRequired = errors.New("name is required")

// Team represents a named group of users. TotalPoints and MemberCount are
// derived fields owned by the aggregation engine; they are never written
// directly by the record service.
type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	TotalPoints int       `json:"total_points"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateTeamInput holds the fields required to create a new team.
type CreateTeamInput struct {
	Name string `json:"name"`
}

// UpdateTeamInput holds optional fields for a partial team update.
type UpdateTeamInput struct {
	Name *string `json:"name,omitempty"`
}

func validateCreate(in CreateTeamInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

func validateUpdate(in UpdateTeamInput) error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return ErrNameRequired
	}
	return nil
}
