package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aperrin/fitledger/internal/store"
	"github.com/aperrin/fitledger/internal/workout"
	"github.com/google/uuid"
)

// Workouts returns the workout.Store view of the database.
func (d *DB) Workouts() workout.Store { return workoutStore{d} }

type workoutStore struct{ d *DB }

func (s workoutStore) Create(ctx context.Context, in workout.CreateWorkoutInput) (*workout.Workout, error) {
	defer s.d.lock(ctx)()

	w := workout.Workout{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Difficulty:  in.Difficulty,
		Duration:    in.Duration,
		Category:    in.Category,
		PointsValue: in.PointsValue,
	}
	s.d.workouts[w.ID] = w
	return &w, nil
}

func (s workoutStore) GetByID(ctx context.Context, id string) (*workout.Workout, error) {
	defer s.d.lock(ctx)()

	w, ok := s.d.workouts[id]
	if !ok {
		return nil, fmt.Errorf("workout %s: %w", id, store.ErrNotFound)
	}
	return &w, nil
}

func (s workoutStore) List(ctx context.Context) ([]*workout.Workout, error) {
	defer s.d.lock(ctx)()

	out := make([]*workout.Workout, 0, len(s.d.workouts))
	for _, w := range s.d.workouts {
		w := w
		out = append(out, &w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s workoutStore) Update(ctx context.Context, id string, in workout.UpdateWorkoutInput) (*workout.Workout, error) {
	defer s.d.lock(ctx)()

	w, ok := s.d.workouts[id]
	if !ok {
		return nil, fmt.Errorf("workout %s: %w", id, store.ErrNotFound)
	}

	if in.Name != nil {
		w.Name = *in.Name
	}
	if in.Description != nil {
		w.Description = *in.Description
	}
	if in.Difficulty != nil {
		w.Difficulty = *in.Difficulty
	}
	if in.Duration != nil {
		w.Duration = *in.Duration
	}
	if in.Category != nil {
		w.Category = *in.Category
	}
	if in.PointsValue != nil {
		w.PointsValue = *in.PointsValue
	}

	s.d.workouts[id] = w
	return &w, nil
}

func (s workoutStore) Delete(ctx context.Context, id string) error {
	defer s.d.lock(ctx)()

	if _, ok := s.d.workouts[id]; !ok {
		return fmt.Errorf("workout %s: %w", id, store.ErrNotFound)
	}
	delete(s.d.workouts, id)
	return nil
}
