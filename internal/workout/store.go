package workout

import "context"

// Store provides persistence operations for the workout catalog.
type Store interface {
	Create(ctx context.Context, in CreateWorkoutInput) (*Workout, error)
	GetByID(ctx context.Context, id string) (*Workout, error)
	List(ctx context.Context) ([]*Workout, error)
	Update(ctx context.Context, id string, in UpdateWorkoutInput) (*Workout, error)
	Delete(ctx context.Context, id string) error
}
