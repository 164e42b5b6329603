package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/repository"
	"time"

	"github.com/google/uuid"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a user repository backed by db.
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.Username == "" || user.PasswordHash == "" || user.Role == "" {
		return errors.New("username, password hash, and role are required")
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, member_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, user.Username, user.PasswordHash, string(user.Role), user.MemberID, now.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateKey
		}
		return err
	}
	user.ID = id
	user.CreatedAt = now.Truncate(time.Second)
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var (
		u         domain.User
		role      string
		memberID  sql.NullString
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, member_id, created_at FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &memberID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	if memberID.Valid {
		u.MemberID = &memberID.String
	}
	if t, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
		u.CreatedAt = t
	}
	return &u, nil
}
