package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aperrin/fitledger/internal/activity"
	"github.com/aperrin/fitledger/internal/store"
	"github.com/google/uuid"
)

// Activities returns the activity.Store view of the database.
func (d *DB) Activities() activity.Store { return activityStore{d} }

type activityStore struct{ d *DB }

func (s activityStore) Create(ctx context.Context, in activity.CreateActivityInput) (*activity.Activity, error) {
	defer s.d.lock(ctx)()

	a := activity.Activity{
		ID:           uuid.NewString(),
		UserEmail:    in.UserEmail,
		ActivityType: in.ActivityType,
		Duration:     in.Duration,
		Points:       in.Points,
		Date:         in.Date,
		Notes:        in.Notes,
	}
	if a.Date.IsZero() {
		a.Date = s.d.now()
	}
	s.d.activities[a.ID] = a
	return &a, nil
}

func (s activityStore) GetByID(ctx context.Context, id string) (*activity.Activity, error) {
	defer s.d.lock(ctx)()

	a, ok := s.d.activities[id]
	if !ok {
		return nil, fmt.Errorf("activity %s: %w", id, store.ErrNotFound)
	}
	return &a, nil
}

// List returns all activities, most recent first.
func (s activityStore) List(ctx context.Context) ([]*activity.Activity, error) {
	defer s.d.lock(ctx)()

	out := make([]*activity.Activity, 0, len(s.d.activities))
	for _, a := range s.d.activities {
		a := a
		out = append(out, &a)
	}
	sortActivities(out)
	return out, nil
}

func (s activityStore) ListByUserEmail(ctx context.Context, email string) ([]*activity.Activity, error) {
	defer s.d.lock(ctx)()

	out := []*activity.Activity{}
	for _, a := range s.d.activities {
		if a.UserEmail == email {
			a := a
			out = append(out, &a)
		}
	}
	sortActivities(out)
	return out, nil
}

func (s activityStore) Update(ctx context.Context, id string, in activity.UpdateActivityInput) (*activity.Activity, error) {
	defer s.d.lock(ctx)()

	a, ok := s.d.activities[id]
	if !ok {
		return nil, fmt.Errorf("activity %s: %w", id, store.ErrNotFound)
	}

	if in.UserEmail != nil {
		a.UserEmail = *in.UserEmail
	}
	if in.ActivityType != nil {
		a.ActivityType = *in.ActivityType
	}
	if in.Duration != nil {
		a.Duration = *in.Duration
	}
	if in.Points != nil {
		a.Points = *in.Points
	}
	if in.Date != nil {
		a.Date = *in.Date
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}

	s.d.activities[id] = a
	return &a, nil
}

func (s activityStore) Delete(ctx context.Context, id string) error {
	defer s.d.lock(ctx)()

	if _, ok := s.d.activities[id]; !ok {
		return fmt.Errorf("activity %s: %w", id, store.ErrNotFound)
	}
	delete(s.d.activities, id)
	return nil
}

func sortActivities(list []*activity.Activity) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID < list[j].ID
	})
}
