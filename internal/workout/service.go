package workout

import "context"

// Service provides validated CRUD over the workout catalog. Workouts carry no
// aggregation side effects, so there is no transaction or engine involvement.
type Service struct {
	store Store
}

// NewService creates a new Service wrapping the given Store.
func NewService(st Store) *Service {
	return &Service{store: st}
}

// Create validates the input and inserts the workout.
func (s *Service) Create(ctx context.Context, in CreateWorkoutInput) (*Workout, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	return s.store.Create(ctx, in)
}

// GetByID retrieves a workout by primary key.
func (s *Service) GetByID(ctx context.Context, id string) (*Workout, error) {
	return s.store.GetByID(ctx, id)
}

// List returns the full catalog.
func (s *Service) List(ctx context.Context) ([]*Workout, error) {
	return s.store.List(ctx)
}

// Update validates and applies a partial update.
func (s *Service) Update(ctx context.Context, id string, in UpdateWorkoutInput) (*Workout, error) {
	if err := validateUpdate(in); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, in)
}

// Delete removes a workout from the catalog.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
