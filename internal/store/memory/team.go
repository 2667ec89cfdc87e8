package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aperrin/fitledger/internal/store"
	"github.com/aperrin/fitledger/internal/team"
	"github.com/google/uuid"
)

// Teams returns the team.Store view of the database.
func (d *DB) Teams() team.Store { return teamStore{d} }

type teamStore struct{ d *DB }

func (s teamStore) Create(ctx context.Context, in team.CreateTeamInput) (*team.Team, error) {
	defer s.d.lock(ctx)()

	for _, t := range s.d.teams {
		if t.Name == in.Name {
			return nil, fmt.Errorf("team name %s: %w", in.Name, store.ErrConflict)
		}
	}

	t := team.Team{
		ID:        uuid.NewString(),
		Name:      in.Name,
		CreatedAt: s.d.now(),
	}
	s.d.teams[t.ID] = t
	return &t, nil
}

func (s teamStore) GetByID(ctx context.Context, id string) (*team.Team, error) {
	defer s.d.lock(ctx)()

	t, ok := s.d.teams[id]
	if !ok {
		return nil, fmt.Errorf("team %s: %w", id, store.ErrNotFound)
	}
	return &t, nil
}

func (s teamStore) GetByName(ctx context.Context, name string) (*team.Team, error) {
	defer s.d.lock(ctx)()

	for _, t := range s.d.teams {
		if t.Name == name {
			t := t
			return &t, nil
		}
	}
	return nil, fmt.Errorf("team %s: %w", name, store.ErrNotFound)
}

func (s teamStore) List(ctx context.Context) ([]*team.Team, error) {
	defer s.d.lock(ctx)()

	out := make([]*team.Team, 0, len(s.d.teams))
	for _, t := range s.d.teams {
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s teamStore) Update(ctx context.Context, id string, in team.UpdateTeamInput) (*team.Team, error) {
	defer s.d.lock(ctx)()

	t, ok := s.d.teams[id]
	if !ok {
		return nil, fmt.Errorf("team %s: %w", id, store.ErrNotFound)
	}

	if in.Name != nil && *in.Name != t.Name {
		for _, other := range s.d.teams {
			if other.ID != id && other.Name == *in.Name {
				return nil, fmt.Errorf("team name %s: %w", *in.Name, store.ErrConflict)
			}
		}
		t.Name = *in.Name
	}

	s.d.teams[id] = t
	return &t, nil
}

func (s teamStore) SetAggregates(ctx context.Context, id string, totalPoints, memberCount int) (*team.Team, error) {
	defer s.d.lock(ctx)()

	t, ok := s.d.teams[id]
	if !ok {
		return nil, fmt.Errorf("team %s: %w", id, store.ErrNotFound)
	}

	t.TotalPoints = totalPoints
	t.MemberCount = memberCount
	s.d.teams[id] = t
	return &t, nil
}

// LockByName is a no-op: a commit unit holds the database mutex for its
// whole duration, so recomputes of the same team already serialize.
func (s teamStore) LockByName(ctx context.Context, name string) error {
	return nil
}

func (s teamStore) Delete(ctx context.Context, id string) error {
	defer s.d.lock(ctx)()

	if _, ok := s.d.teams[id]; !ok {
		return fmt.Errorf("team %s: %w", id, store.ErrNotFound)
	}
	delete(s.d.teams, id)
	return nil
}
