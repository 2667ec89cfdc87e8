package activity

import "context"

// Store provides persistence operations for activities.
type Store interface {
	Create(ctx context.Context, in CreateActivityInput) (*Activity, error)
	GetByID(ctx context.Context, id string) (*Activity, error)
	List(ctx context.Context) ([]*Activity, error)
	ListByUserEmail(ctx context.Context, email string) ([]*Activity, error)
	Update(ctx context.Context, id string, in UpdateActivityInput) (*Activity, error)
	Delete(ctx context.Context, id string) error
}
