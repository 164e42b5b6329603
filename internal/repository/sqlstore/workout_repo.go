package sqlstore

import (
	"context"
	"database/sql"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/repository"

	"github.com/google/uuid"
)

type workoutRepository struct {
	db *sql.DB
}

// NewWorkoutRepository creates a workout repository backed by db. The returned
// value also implements repository.SessionReplacer.
func NewWorkoutRepository(db *sql.DB) repository.WorkoutRepository {
	return &workoutRepository{db: db}
}

var _ repository.SessionReplacer = (*workoutRepository)(nil)

const workoutColumns = `id, member_id, date, exercise, weight, sets, reps`

// rowid keeps same-date rows in insertion order.
const workoutOrder = ` ORDER BY date, rowid`

func (r *workoutRepository) query(ctx context.Context, q string, args ...any) ([]domain.Workout, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := []domain.Workout{}
	for rows.Next() {
		var w domain.Workout
		if err := rows.Scan(&w.ID, &w.MemberID, &w.Date, &w.Exercise, &w.Weight, &w.Sets, &w.Reps); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

func (r *workoutRepository) ListAll(ctx context.Context) ([]domain.Workout, error) {
	return r.query(ctx, `SELECT `+workoutColumns+` FROM workouts`+workoutOrder)
}

func (r *workoutRepository) ListByMember(ctx context.Context, memberID string) ([]domain.Workout, error) {
	return r.query(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE member_id = ?`+workoutOrder, memberID)
}

func (r *workoutRepository) ListByMemberAndDate(ctx context.Context, memberID, date string) ([]domain.Workout, error) {
	return r.query(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE member_id = ? AND date = ?`+workoutOrder, memberID, date)
}

// CreateMany inserts every input in one transaction; either all rows are
// stored or none.
func (r *workoutRepository) CreateMany(ctx context.Context, memberID string, inputs []domain.WorkoutInput) ([]domain.Workout, error) {
	if len(inputs) == 0 {
		return []domain.Workout{}, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	created, err := insertWorkouts(ctx, tx, memberID, inputs)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

func insertWorkouts(ctx context.Context, tx *sql.Tx, memberID string, inputs []domain.WorkoutInput) ([]domain.Workout, error) {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO workouts (`+workoutColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	created := make([]domain.Workout, 0, len(inputs))
	for _, in := range inputs {
		w := domain.Workout{
			ID:       uuid.NewString(),
			MemberID: memberID,
			Date:     in.Date,
			Exercise: in.Exercise,
			Weight:   in.Weight,
			Sets:     in.Sets,
			Reps:     in.Reps,
		}
		if _, err := stmt.ExecContext(ctx, w.ID, w.MemberID, w.Date, w.Exercise, w.Weight, w.Sets, w.Reps); err != nil {
			return nil, err
		}
		created = append(created, w)
	}
	return created, nil
}

func (r *workoutRepository) Update(ctx context.Context, memberID string, w domain.Workout) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE workouts SET date = ?, exercise = ?, weight = ?, sets = ?, reps = ? WHERE id = ? AND member_id = ?`,
		w.Date, w.Exercise, w.Weight, w.Sets, w.Reps, w.ID, memberID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *workoutRepository) Delete(ctx context.Context, memberID, workoutID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = ? AND member_id = ?`, workoutID, memberID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *workoutRepository) DeleteByMember(ctx context.Context, memberID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM workouts WHERE member_id = ?`, memberID)
	return err
}

// ReplaceSession removes every workout of the member on date and inserts
// inputs in their place, atomically. Inputs are stored under date regardless
// of their own Date field.
func (r *workoutRepository) ReplaceSession(ctx context.Context, memberID, date string, inputs []domain.WorkoutInput) ([]string, []domain.Workout, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id FROM workouts WHERE member_id = ? AND date = ?`+workoutOrder, memberID, date)
	if err != nil {
		return nil, nil, err
	}
	removed := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, nil, err
		}
		removed = append(removed, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM workouts WHERE member_id = ? AND date = ?`, memberID, date); err != nil {
		return nil, nil, err
	}

	fixed := make([]domain.WorkoutInput, len(inputs))
	for i, in := range inputs {
		in.Date = date
		fixed[i] = in
	}
	created, err := insertWorkouts(ctx, tx, memberID, fixed)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return removed, created, nil
}
