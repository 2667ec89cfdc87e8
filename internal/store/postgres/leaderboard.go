package postgres

import (
	"context"
	"fmt"

	"github.com/aperrin/fitledger/internal/leaderboard"
	"github.com/jackc/pgx/v5"
)

// Leaderboard returns the leaderboard.Store view of the database.
func (d *DB) Leaderboard() leaderboard.Store { return leaderboardStore{d} }

type leaderboardStore struct{ d *DB }

// rebuildLockID is the advisory lock key serializing leaderboard rebuilds.
const rebuildLockID = 815001

// Lock takes a transaction-scoped advisory lock so only one rebuild at a
// time can scan users and write ranks. Released automatically at commit or
// rollback.
func (s leaderboardStore) Lock(ctx context.Context) error {
	if _, err := s.d.q(ctx).Exec(ctx,
		`SELECT pg_advisory_xact_lock($1)`, rebuildLockID); err != nil {
		return wrapErr("locking leaderboard", err)
	}
	return nil
}

const leaderboardColumns = `id, user_email, user_name, team, total_points, rank, last_updated`

func scanEntry(row pgx.Row) (*leaderboard.Entry, error) {
	var e leaderboard.Entry
	err := row.Scan(&e.ID, &e.UserEmail, &e.UserName, &e.Team, &e.TotalPoints, &e.Rank, &e.LastUpdated)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s leaderboardStore) List(ctx context.Context) ([]*leaderboard.Entry, error) {
	rows, err := s.d.q(ctx).Query(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboard ORDER BY rank`)
	if err != nil {
		return nil, wrapErr("listing leaderboard", err)
	}
	defer rows.Close()

	entries := []*leaderboard.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s leaderboardStore) GetByEmail(ctx context.Context, email string) (*leaderboard.Entry, error) {
	row := s.d.q(ctx).QueryRow(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboard WHERE user_email = $1`, email)
	e, err := scanEntry(row)
	if err != nil {
		return nil, wrapErr("getting leaderboard entry", err)
	}
	return e, nil
}

func (s leaderboardStore) Upsert(ctx context.Context, in leaderboard.Entry) (*leaderboard.Entry, error) {
	row := s.d.q(ctx).QueryRow(ctx,
		`INSERT INTO leaderboard (user_email, user_name, team, total_points, rank, last_updated)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_email) DO UPDATE SET
			user_name = EXCLUDED.user_name,
			team = EXCLUDED.team,
			total_points = EXCLUDED.total_points,
			rank = EXCLUDED.rank,
			last_updated = EXCLUDED.last_updated
		 RETURNING `+leaderboardColumns,
		in.UserEmail, in.UserName, in.Team, in.TotalPoints, in.Rank, in.LastUpdated,
	)
	e, err := scanEntry(row)
	if err != nil {
		return nil, wrapErr("upserting leaderboard entry", err)
	}
	return e, nil
}

func (s leaderboardStore) Prune(ctx context.Context, keep []string) error {
	var err error
	if len(keep) == 0 {
		_, err = s.d.q(ctx).Exec(ctx, `DELETE FROM leaderboard`)
	} else {
		_, err = s.d.q(ctx).Exec(ctx,
			`DELETE FROM leaderboard WHERE user_email != ALL($1)`, keep)
	}
	if err != nil {
		return wrapErr("pruning leaderboard", err)
	}
	return nil
}
