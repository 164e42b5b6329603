package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/repository"

	"github.com/google/uuid"
)

type memberRepository struct {
	db *sql.DB
}

// NewMemberRepository creates a member repository backed by db.
func NewMemberRepository(db *sql.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

const memberColumns = `id, name, avatar, join_date, photo_url`

func scanMember(row interface{ Scan(...any) error }) (domain.Member, error) {
	m := domain.Member{Workouts: []domain.Workout{}}
	err := row.Scan(&m.ID, &m.Name, &m.Avatar, &m.JoinDate, &m.PhotoURL)
	return m, err
}

func (r *memberRepository) List(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+memberColumns+` FROM members ORDER BY join_date, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	if member.Name == "" {
		return errors.New("member name is required")
	}
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO members (id, name, avatar, join_date, photo_url) VALUES (?, ?, ?, ?, ?)`,
		id, member.Name, member.Avatar, member.JoinDate, member.PhotoURL)
	if err != nil {
		return err
	}
	member.ID = id
	return nil
}

func (r *memberRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *memberRepository) UpdatePhoto(ctx context.Context, id, photoURL string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE members SET photo_url = ? WHERE id = ?`, photoURL, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
