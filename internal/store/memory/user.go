package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aperrin/fitledger/internal/store"
	"github.com/aperrin/fitledger/internal/user"
	"github.com/google/uuid"
)

// Users returns the user.Store view of the database.
func (d *DB) Users() user.Store { return userStore{d} }

type userStore struct{ d *DB }

func (s userStore) Create(ctx context.Context, in user.CreateUserInput) (*user.User, error) {
	defer s.d.lock(ctx)()

	for _, u := range s.d.users {
		if u.Email == in.Email {
			return nil, fmt.Errorf("user email %s: %w", in.Email, store.ErrConflict)
		}
	}

	u := user.User{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Email:       in.Email,
		Team:        in.Team,
		TotalPoints: in.TotalPoints,
		CreatedAt:   s.d.now(),
	}
	s.d.users[u.ID] = u
	return &u, nil
}

func (s userStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	defer s.d.lock(ctx)()

	u, ok := s.d.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}
	return &u, nil
}

func (s userStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	defer s.d.lock(ctx)()

	for _, u := range s.d.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, store.ErrNotFound)
}

// List returns all users ordered by created_at DESC, id as the tie key so
// the ordering is stable under equal timestamps.
func (s userStore) List(ctx context.Context) ([]*user.User, error) {
	defer s.d.lock(ctx)()

	out := make([]*user.User, 0, len(s.d.users))
	for _, u := range s.d.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s userStore) ListByTeam(ctx context.Context, teamName string) ([]*user.User, error) {
	defer s.d.lock(ctx)()

	out := []*user.User{}
	for _, u := range s.d.users {
		if u.Team == teamName {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s userStore) Update(ctx context.Context, id string, in user.UpdateUserInput) (*user.User, error) {
	defer s.d.lock(ctx)()

	u, ok := s.d.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}

	if in.Email != nil && *in.Email != u.Email {
		for _, other := range s.d.users {
			if other.ID != id && other.Email == *in.Email {
				return nil, fmt.Errorf("user email %s: %w", *in.Email, store.ErrConflict)
			}
		}
		u.Email = *in.Email
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Team != nil {
		u.Team = *in.Team
	}
	if in.TotalPoints != nil {
		u.TotalPoints = *in.TotalPoints
	}

	s.d.users[id] = u
	return &u, nil
}

func (s userStore) Delete(ctx context.Context, id string) error {
	defer s.d.lock(ctx)()

	if _, ok := s.d.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}
	delete(s.d.users, id)
	return nil
}
