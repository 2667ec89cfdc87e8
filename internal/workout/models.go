package workout

import (
	"errors"
	"strings"
)

// Validation errors returned by the Service layer.
var (
	ErrNameRequired        = errors.New("name is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrDifficultyInvalid   = errors.New("difficulty must be one of: easy, medium, hard")
	ErrDurationInvalid     = errors.New("duration must be a positive number of minutes")
	ErrPointsValueInvalid  = errors.New("points_value must not be negative")
)

// validDifficulties is the set of accepted difficulty values.
var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// Workout is a predefined routine in the catalog. It is not involved in
// aggregation; PointsValue is what a user would earn for completing it.
type Workout struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	Duration    int    `json:"duration"`
	Category    string `json:"category"`
	PointsValue int    `json:"points_value"`
}

// CreateWorkoutInput holds the fields required to create a catalog entry.
type CreateWorkoutInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	Duration    int    `json:"duration"`
	Category    string `json:"category"`
	PointsValue int    `json:"points_value"`
}

// UpdateWorkoutInput holds optional fields for a partial update.
type UpdateWorkoutInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Difficulty  *string `json:"difficulty,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
	Category    *string `json:"category,omitempty"`
	PointsValue *int    `json:"points_value,omitempty"`
}

func validateCreate(in CreateWorkoutInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrDescriptionRequired
	}
	if !validDifficulties[in.Difficulty] {
		return ErrDifficultyInvalid
	}
	if in.Duration <= 0 {
		return ErrDurationInvalid
	}
	if in.PointsValue < 0 {
		return ErrPointsValueInvalid
	}
	return nil
}

func validateUpdate(in UpdateWorkoutInput) error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return ErrNameRequired
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		return ErrDescriptionRequired
	}
	if in.Difficulty != nil && !validDifficulties[*in.Difficulty] {
		return ErrDifficultyInvalid
	}
	if in.Duration != nil && *in.Duration <= 0 {
		return ErrDurationInvalid
	}
	if in.PointsValue != nil && *in.PointsValue < 0 {
		return ErrPointsValueInvalid
	}
	return nil
}
