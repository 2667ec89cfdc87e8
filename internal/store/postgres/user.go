package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/aperrin/fitledger/internal/user"
	"github.com/jackc/pgx/v5"
)

// Users returns the user.Store view of the database.
func (d *DB) Users() user.Store { return userStore{d} }

type userStore struct{ d *DB }

const userColumns = `id, name, email, team, total_points, created_at`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Team, &u.TotalPoints, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s userStore) Create(ctx context.Context, in user.CreateUserInput) (*user.User, error) {
	row := s.d.q(ctx).QueryRow(ctx,
		`INSERT INTO users (name, email, team, total_points)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		in.Name, in.Email, in.Team, in.TotalPoints,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, wrapErr("creating user", err)
	}
	return u, nil
}

func (s userStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	row := s.d.q(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, wrapErr("getting user by id", err)
	}
	return u, nil
}

func (s userStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	row := s.d.q(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, wrapErr("getting user by email", err)
	}
	return u, nil
}

func (s userStore) List(ctx context.Context) ([]*user.User, error) {
	rows, err := s.d.q(ctx).Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, wrapErr("listing users", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (s userStore) ListByTeam(ctx context.Context, team string) ([]*user.User, error) {
	rows, err := s.d.q(ctx).Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE team = $1 ORDER BY email`, team)
	if err != nil {
		return nil, wrapErr("listing users by team", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]*user.User, error) {
	users := []*user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s userStore) Update(ctx context.Context, id string, in user.UpdateUserInput) (*user.User, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *in.Name)
		argIdx++
	}
	if in.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, *in.Email)
		argIdx++
	}
	if in.Team != nil {
		setClauses = append(setClauses, fmt.Sprintf("team = $%d", argIdx))
		args = append(args, *in.Team)
		argIdx++
	}
	if in.TotalPoints != nil {
		setClauses = append(setClauses, fmt.Sprintf("total_points = $%d", argIdx))
		args = append(args, *in.TotalPoints)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, userColumns)

	u, err := scanUser(s.d.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapErr("updating user", err)
	}
	return u, nil
}

func (s userStore) Delete(ctx context.Context, id string) error {
	tag, err := s.d.q(ctx).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrapErr("deleting user", err)
	}
	if tag.RowsAffected() == 0 {
		return wrapErr("deleting user", pgx.ErrNoRows)
	}
	return nil
}
