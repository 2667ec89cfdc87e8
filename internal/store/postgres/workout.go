package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/aperrin/fitledger/internal/workout"
	"github.com/jackc/pgx/v5"
)

// Workouts returns the workout.Store view of the database.
func (d *DB) Workouts() workout.Store { return workoutStore{d} }

type workoutStore struct{ d *DB }

const workoutColumns = `id, name, description, difficulty, duration, category, points_value`

func scanWorkout(row pgx.Row) (*workout.Workout, error) {
	var w workout.Workout
	err := row.Scan(&w.ID, &w.Name, &w.Description, &w.Difficulty, &w.Duration, &w.Category, &w.PointsValue)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s workoutStore) Create(ctx context.Context, in workout.CreateWorkoutInput) (*workout.Workout, error) {
	row := s.d.q(ctx).QueryRow(ctx,
		`INSERT INTO workouts (name, description, difficulty, duration, category, points_value)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+workoutColumns,
		in.Name, in.Description, in.Difficulty, in.Duration, in.Category, in.PointsValue,
	)
	w, err := scanWorkout(row)
	if err != nil {
		return nil, wrapErr("creating workout", err)
	}
	return w, nil
}

func (s workoutStore) GetByID(ctx context.Context, id string) (*workout.Workout, error) {
	row := s.d.q(ctx).QueryRow(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = $1`, id)
	w, err := scanWorkout(row)
	if err != nil {
		return nil, wrapErr("getting workout by id", err)
	}
	return w, nil
}

func (s workoutStore) List(ctx context.Context) ([]*workout.Workout, error) {
	rows, err := s.d.q(ctx).Query(ctx,
		`SELECT `+workoutColumns+` FROM workouts ORDER BY name`)
	if err != nil {
		return nil, wrapErr("listing workouts", err)
	}
	defer rows.Close()

	workouts := []*workout.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workout row: %w", err)
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

func (s workoutStore) Update(ctx context.Context, id string, in workout.UpdateWorkoutInput) (*workout.Workout, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *in.Name)
		argIdx++
	}
	if in.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *in.Description)
		argIdx++
	}
	if in.Difficulty != nil {
		setClauses = append(setClauses, fmt.Sprintf("difficulty = $%d", argIdx))
		args = append(args, *in.Difficulty)
		argIdx++
	}
	if in.Duration != nil {
		setClauses = append(setClauses, fmt.Sprintf("duration = $%d", argIdx))
		args = append(args, *in.Duration)
		argIdx++
	}
	if in.Category != nil {
		setClauses = append(setClauses, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, *in.Category)
		argIdx++
	}
	if in.PointsValue != nil {
		setClauses = append(setClauses, fmt.Sprintf("points_value = $%d", argIdx))
		args = append(args, *in.PointsValue)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE workouts SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, workoutColumns)

	w, err := scanWorkout(s.d.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapErr("updating workout", err)
	}
	return w, nil
}

func (s workoutStore) Delete(ctx context.Context, id string) error {
	tag, err := s.d.q(ctx).Exec(ctx, `DELETE FROM workouts WHERE id = $1`, id)
	if err != nil {
		return wrapErr("deleting workout", err)
	}
	if tag.RowsAffected() == 0 {
		return wrapErr("deleting workout", pgx.ErrNoRows)
	}
	return nil
}
