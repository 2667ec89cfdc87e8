package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// Validation errors returned by the Service layer.
var (
	ErrNameRequired  = errors.New("name is required")
	ErrEmailInvalid  = errors.New("email must be a valid address")
	ErrPointsInvalid = errors.New("total_points must not be negative")
)

// User represents a participant. Team is a name-based link to a Team record;
// an empty string means the user belongs to no team.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Team        string    `json:"team,omitempty"`
	TotalPoints int       `json:"total_points"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateUserInput holds the fields required to create a new user.
type CreateUserInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Team        string `json:"team"`
	TotalPoints int    `json:"total_points"`
}

// UpdateUserInput holds optional fields for a partial user update.
type UpdateUserInput struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Team        *string `json:"team,omitempty"`
	TotalPoints *int    `json:"total_points,omitempty"`
}

// validateCreate checks that all required fields are present and valid.
func validateCreate(in CreateUserInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if in.TotalPoints < 0 {
		return ErrPointsInvalid
	}
	return nil
}

// validateUpdate checks that any provided fields are valid.
func validateUpdate(in UpdateUserInput) error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return ErrNameRequired
	}
	if in.Email != nil {
		if err := validateEmail(*in.Email); err != nil {
			return err
		}
	}
	if in.TotalPoints != nil && *in.TotalPoints < 0 {
		return ErrPointsInvalid
	}
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailInvalid
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrEmailInvalid
	}
	return nil
}
