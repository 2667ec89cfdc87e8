package activity

import (
	"errors"
	"strings"
	"time"
)

// Validation errors returned by the Service layer.
var (
	ErrUserEmailRequired = errors.New("user_email is required")
	ErrTypeRequired      = errors.New("activity_type is required")
	ErrDurationInvalid   = errors.New("duration must be a positive number of minutes")
	ErrPointsInvalid     = errors.New("points must not be negative")
)

// Activity is a single logged exercise session. UserEmail links to a user by
// email rather than id, matching the rest of the record model.
type Activity struct {
	ID           string    `json:"id"`
	UserEmail    string    `json:"user_email"`
	ActivityType string    `json:"activity_type"`
	Duration     int       `json:"duration"`
	Points       int       `json:"points"`
	Date         time.Time `json:"date"`
	Notes        string    `json:"notes,omitempty"`
}

// CreateActivityInput holds the fields required to log an activity.
type CreateActivityInput struct {
	UserEmail    string    `json:"user_email"`
	ActivityType string    `json:"activity_type"`
	Duration     int       `json:"duration"`
	Points       int       `json:"points"`
	Date         time.Time `json:"date"`
	Notes        string    `json:"notes"`
}

// UpdateActivityInput holds optional fields for a partial activity update.
type UpdateActivityInput struct {
	UserEmail    *string    `json:"user_email,omitempty"`
	ActivityType *string    `json:"activity_type,omitempty"`
	Duration     *int       `json:"duration,omitempty"`
	Points       *int       `json:"points,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

func validateCreate(in CreateActivityInput) error {
	if strings.TrimSpace(in.UserEmail) == "" {
		return ErrUserEmailRequired
	}
	if strings.TrimSpace(in.ActivityType) == "" {
		return ErrTypeRequired
	}
	if in.Duration <= 0 {
		return ErrDurationInvalid
	}
	if in.Points < 0 {
		return ErrPointsInvalid
	}
	return nil
}

func validateUpdate(in UpdateActivityInput) error {
	if in.UserEmail != nil && strings.TrimSpace(*in.UserEmail) == "" {
		return ErrUserEmailRequired
	}
	if in.ActivityType != nil && strings.TrimSpace(*in.ActivityType) == "" {
		return ErrTypeRequired
	}
	if in.Duration != nil && *in.Duration <= 0 {
		return ErrDurationInvalid
	}
	if in.Points != nil && *in.Points < 0 {
		return ErrPointsInvalid
	}
	return nil
}
