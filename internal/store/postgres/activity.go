package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aperrin/fitledger/internal/activity"
	"github.com/jackc/pgx/v5"
)

// Activities returns the activity.Store view of the database.
func (d *DB) Activities() activity.Store { return activityStore{d} }

type activityStore struct{ d *DB }

const activityColumns = `id, user_email, activity_type, duration, points, date, notes`

func scanActivity(row pgx.Row) (*activity.Activity, error) {
	var a activity.Activity
	err := row.Scan(&a.ID, &a.UserEmail, &a.ActivityType, &a.Duration, &a.Points, &a.Date, &a.Notes)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s activityStore) Create(ctx context.Context, in activity.CreateActivityInput) (*activity.Activity, error) {
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}
	row := s.d.q(ctx).QueryRow(ctx,
		`INSERT INTO activities (user_email, activity_type, duration, points, date, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+activityColumns,
		in.UserEmail, in.ActivityType, in.Duration, in.Points, date, in.Notes,
	)
	a, err := scanActivity(row)
	if err != nil {
		return nil, wrapErr("creating activity", err)
	}
	return a, nil
}

func (s activityStore) GetByID(ctx context.Context, id string) (*activity.Activity, error) {
	row := s.d.q(ctx).QueryRow(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE id = $1`, id)
	a, err := scanActivity(row)
	if err != nil {
		return nil, wrapErr("getting activity by id", err)
	}
	return a, nil
}

func (s activityStore) List(ctx context.Context) ([]*activity.Activity, error) {
	rows, err := s.d.q(ctx).Query(ctx,
		`SELECT `+activityColumns+` FROM activities ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, wrapErr("listing activities", err)
	}
	defer rows.Close()
	return collectActivities(rows)
}

func (s activityStore) ListByUserEmail(ctx context.Context, email string) ([]*activity.Activity, error) {
	rows, err := s.d.q(ctx).Query(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE user_email = $1 ORDER BY date DESC, id DESC`,
		email)
	if err != nil {
		return nil, wrapErr("listing activities by user", err)
	}
	defer rows.Close()
	return collectActivities(rows)
}

func collectActivities(rows pgx.Rows) ([]*activity.Activity, error) {
	activities := []*activity.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (s activityStore) Update(ctx context.Context, id string, in activity.UpdateActivityInput) (*activity.Activity, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.UserEmail != nil {
		setClauses = append(setClauses, fmt.Sprintf("user_email = $%d", argIdx))
		args = append(args, *in.UserEmail)
		argIdx++
	}
	if in.ActivityType != nil {
		setClauses = append(setClauses, fmt.Sprintf("activity_type = $%d", argIdx))
		args = append(args, *in.ActivityType)
		argIdx++
	}
	if in.Duration != nil {
		setClauses = append(setClauses, fmt.Sprintf("duration = $%d", argIdx))
		args = append(args, *in.Duration)
		argIdx++
	}
	if in.Points != nil {
		setClauses = append(setClauses, fmt.Sprintf("points = $%d", argIdx))
		args = append(args, *in.Points)
		argIdx++
	}
	if in.Date != nil {
		setClauses = append(setClauses, fmt.Sprintf("date = $%d", argIdx))
		args = append(args, *in.Date)
		argIdx++
	}
	if in.Notes != nil {
		setClauses = append(setClauses, fmt.Sprintf("notes = $%d", argIdx))
		args = append(args, *in.Notes)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE activities SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, activityColumns)

	a, err := scanActivity(s.d.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapErr("updating activity", err)
	}
	return a, nil
}

func (s activityStore) Delete(ctx context.Context, id string) error {
	tag, err := s.d.q(ctx).Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return wrapErr("deleting activity", err)
	}
	if tag.RowsAffected() == 0 {
		return wrapErr("deleting activity", pgx.ErrNoRows)
	}
	return nil
}
