package repository

import (
	"context"
	"errors"
	"neonfit/studio-tracker/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound      = RepositoryError("not found")
	ErrDuplicateKey  = RepositoryError("duplicate key")
	ErrNotConfigured = RepositoryError("store not configured")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// MemberRepository defines the interface for interacting with member rows.
// Members are returned without workouts; assembly happens in the service layer.
type MemberRepository interface {
	List(ctx context.Context) ([]domain.Member, error) // ordered by join date, then insertion
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	Create(ctx context.Context, member *domain.Member) error // sets member.ID
	Delete(ctx context.Context, id string) error
	UpdatePhoto(ctx context.Context, id, photoURL string) error
}

// WorkoutRepository defines the interface for interacting with workout rows.
// Update and Delete filter on both the workout id and the owning member id.
type WorkoutRepository interface {
	ListAll(ctx context.Context) ([]domain.Workout, error) // date ascending, then insertion
	ListByMember(ctx context.Context, memberID string) ([]domain.Workout, error)
	ListByMemberAndDate(ctx context.Context, memberID, date string) ([]domain.Workout, error)
	CreateMany(ctx context.Context, memberID string, inputs []domain.WorkoutInput) ([]domain.Workout, error)
	Update(ctx context.Context, memberID string, workout domain.Workout) error
	Delete(ctx context.Context, memberID, workoutID string) error
	DeleteByMember(ctx context.Context, memberID string) error
}

// SessionReplacer is implemented by workout repositories that can swap all of a
// member's workouts on one date for a new list inside a single transaction.
type SessionReplacer interface {
	ReplaceSession(ctx context.Context, memberID, date string, inputs []domain.WorkoutInput) (removed []string, created []domain.Workout, err error)
}

// UserRepository defines the interface for interacting with login credentials.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error // sets user.ID
}

// Store bundles the repositories of one backend.
type Store struct {
	Members  MemberRepository
	Workouts WorkoutRepository
	Users    UserRepository
	// Close releases the backend connection. Never nil.
	Close func(ctx context.Context) error
}

// IsNotConfigured reports whether err originates from an unconfigured store.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}
