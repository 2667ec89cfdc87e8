package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aperrin/fitledger/internal/leaderboard"
	"github.com/aperrin/fitledger/internal/store"
	"github.com/google/uuid"
)

// Leaderboard returns the leaderboard.Store view of the database.
func (d *DB) Leaderboard() leaderboard.Store { return leaderboardStore{d} }

type leaderboardStore struct{ d *DB }

func (s leaderboardStore) List(ctx context.Context) ([]*leaderboard.Entry, error) {
	defer s.d.lock(ctx)()

	out := make([]*leaderboard.Entry, 0, len(s.d.board))
	for _, e := range s.d.board {
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}

func (s leaderboardStore) GetByEmail(ctx context.Context, email string) (*leaderboard.Entry, error) {
	defer s.d.lock(ctx)()

	e, ok := s.d.board[email]
	if !ok {
		return nil, fmt.Errorf("leaderboard entry %s: %w", email, store.ErrNotFound)
	}
	return &e, nil
}

// Lock is a no-op: a commit unit holds the database mutex for its whole
// duration, so rebuilds already serialize.
func (s leaderboardStore) Lock(ctx context.Context) error {
	return nil
}

func (s leaderboardStore) Upsert(ctx context.Context, in leaderboard.Entry) (*leaderboard.Entry, error) {
	defer s.d.lock(ctx)()

	if existing, ok := s.d.board[in.UserEmail]; ok {
		in.ID = existing.ID
	} else {
		in.ID = uuid.NewString()
	}
	s.d.board[in.UserEmail] = in
	return &in, nil
}

func (s leaderboardStore) Prune(ctx context.Context, keep []string) error {
	defer s.d.lock(ctx)()

	keepSet := make(map[string]struct{}, len(keep))
	for _, email := range keep {
		keepSet[email] = struct{}{}
	}
	for email := range s.d.board {
		if _, ok := keepSet[email]; !ok {
			delete(s.d.board, email)
		}
	}
	return nil
}
