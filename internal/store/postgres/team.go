package postgres

import (
	"context"
	"fmt"

	"github.com/aperrin/fitledger/internal/team"
	"github.com/jackc/pgx/v5"
)

// Teams returns the team.Store view of the database.
func (d *DB) Teams() team.Store { return teamStore{d} }

type teamStore struct{ d *DB }

const teamColumns = `id, name, total_points, member_count, created_at`

func scanTeam(row pgx.Row) (*team.Team, error) {
	var t team.Team
	err := row.Scan(&t.ID, &t.Name, &t.TotalPoints, &t.MemberCount, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s teamStore) Create(ctx context.Context, in team.CreateTeamInput) (*team.Team, error) {
	row := s.d.q(ctx).QueryRow(ctx,
		`INSERT INTO teams (name) VALUES ($1) RETURNING `+teamColumns, in.Name)
	t, err := scanTeam(row)
	if err != nil {
		return nil, wrapErr("creating team", err)
	}
	return t, nil
}

func (s teamStore) GetByID(ctx context.Context, id string) (*team.Team, error) {
	row := s.d.q(ctx).QueryRow(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = $1`, id)
	t, err := scanTeam(row)
	if err != nil {
		return nil, wrapErr("getting team by id", err)
	}
	return t, nil
}

func (s teamStore) GetByName(ctx context.Context, name string) (*team.Team, error) {
	row := s.d.q(ctx).QueryRow(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE name = $1`, name)
	t, err := scanTeam(row)
	if err != nil {
		return nil, wrapErr("getting team by name", err)
	}
	return t, nil
}

func (s teamStore) List(ctx context.Context) ([]*team.Team, error) {
	rows, err := s.d.q(ctx).Query(ctx,
		`SELECT `+teamColumns+` FROM teams ORDER BY name`)
	if err != nil {
		return nil, wrapErr("listing teams", err)
	}
	defer rows.Close()

	teams := []*team.Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s teamStore) Update(ctx context.Context, id string, in team.UpdateTeamInput) (*team.Team, error) {
	if in.Name == nil {
		return s.GetByID(ctx, id)
	}

	row := s.d.q(ctx).QueryRow(ctx,
		`UPDATE teams SET name = $1 WHERE id = $2 RETURNING `+teamColumns,
		*in.Name, id)
	t, err := scanTeam(row)
	if err != nil {
		return nil, wrapErr("updating team", err)
	}
	return t, nil
}

func (s teamStore) SetAggregates(ctx context.Context, id string, totalPoints, memberCount int) (*team.Team, error) {
	row := s.d.q(ctx).QueryRow(ctx,
		`UPDATE teams SET total_points = $1, member_count = $2
		 WHERE id = $3 RETURNING `+teamColumns,
		totalPoints, memberCount, id)
	t, err := scanTeam(row)
	if err != nil {
		return nil, wrapErr("writing team aggregates", err)
	}
	return t, nil
}

// LockByName takes a row lock on the team. Inside a transaction the lock is
// held until commit, so a concurrent recompute of the same team waits here
// and then scans members with this transaction's writes visible.
func (s teamStore) LockByName(ctx context.Context, name string) error {
	var id string
	err := s.d.q(ctx).QueryRow(ctx,
		`SELECT id FROM teams WHERE name = $1 FOR UPDATE`, name).Scan(&id)
	if err != nil {
		return wrapErr("locking team", err)
	}
	return nil
}

func (s teamStore) Delete(ctx context.Context, id string) error {
	tag, err := s.d.q(ctx).Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return wrapErr("deleting team", err)
	}
	if tag.RowsAffected() == 0 {
		return wrapErr("deleting team", pgx.ErrNoRows)
	}
	return nil
}
