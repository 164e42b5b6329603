package repository

import (
	"context"
	"fmt"
	"neonfit/studio-tracker/internal/domain"
)

// NewUnconfiguredStore returns a Store whose every operation fails fast with
// ErrNotConfigured and a description of what is missing.
func NewUnconfiguredStore(reason string) *Store {
	err := fmt.Errorf("%w: %s", ErrNotConfigured, reason)
	return &Store{
		Members:  unconfiguredMembers{err},
		Workouts: unconfiguredWorkouts{err},
		Users:    unconfiguredUsers{err},
		Close:    func(context.Context) error { return nil },
	}
}

type unconfiguredMembers struct{ err error }

func (u unconfiguredMembers) List(context.Context) ([]domain.Member, error) { return nil, u.err }

func (u unconfiguredMembers) GetByID(context.Context, string) (*domain.Member, error) {
	return nil, u.err
}

func (u unconfiguredMembers) Create(context.Context, *domain.Member) error     { return u.err }
func (u unconfiguredMembers) Delete(context.Context, string) error             { return u.err }
func (u unconfiguredMembers) UpdatePhoto(context.Context, string, string) error { return u.err }

type unconfiguredWorkouts struct{ err error }

func (u unconfiguredWorkouts) ListAll(context.Context) ([]domain.Workout, error) { return nil, u.err }

func (u unconfiguredWorkouts) ListByMember(context.Context, string) ([]domain.Workout, error) {
	return nil, u.err
}

func (u unconfiguredWorkouts) ListByMemberAndDate(context.Context, string, string) ([]domain.Workout, error) {
	return nil, u.err
}

func (u unconfiguredWorkouts) CreateMany(context.Context, string, []domain.WorkoutInput) ([]domain.Workout, error) {
	return nil, u.err
}

func (u unconfiguredWorkouts) Update(context.Context, string, domain.Workout) error { return u.err }
func (u unconfiguredWorkouts) Delete(context.Context, string, string) error       { return u.err }
func (u unconfiguredWorkouts) DeleteByMember(context.Context, string) error       { return u.err }

type unconfiguredUsers struct{ err error }

func (u unconfiguredUsers) GetByUsername(context.Context, string) (*domain.User, error) {
	return nil, u.err
}

func (u unconfiguredUsers) Create(context.Context, *domain.User) error { return u.err }
