package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/repository"
	"strings"

	log "github.com/sirupsen/logrus"
)

// --- Error Definitions ---
var (
	ErrInvalidWorkout       = errors.New("invalid workout")
	ErrWorkoutNotFound      = errors.New("workout not found")
	ErrWorkoutsCreateFailed = errors.New("failed to add workouts")
	ErrWorkoutUpdateFailed  = errors.New("failed to update workout")
	ErrWorkoutDeleteFailed  = errors.New("failed to delete workout")
	ErrSessionDeleteFailed  = errors.New("failed to remove the previous session entries")
	ErrSessionInsertFailed  = errors.New("previous session entries removed but the new entries could not be stored")
	ErrSessionReplaceFailed = errors.New("failed to replace session")
)

// SessionReplacement describes the outcome of ReplaceSession. Callers holding
// a local copy apply it with domain.SpliceSession(ws, Date, Created).
type SessionReplacement struct {
	Date    string           `json:"date"`
	Removed []string         `json:"removed"`
	Created []domain.Workout `json:"created"`
}

type WorkoutService interface {
	AddWorkouts(ctx context.Context, memberID string, inputs []domain.WorkoutInput) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, memberID string, workout domain.Workout) error
	DeleteWorkout(ctx context.Context, memberID, workoutID string) error
	ReplaceSession(ctx context.Context, memberID, date string, inputs []domain.WorkoutInput) (*SessionReplacement, error)
}

type workoutService struct {
	memberRepo  repository.MemberRepository
	workoutRepo repository.WorkoutRepository
}

// NewWorkoutService creates a new workout service.
func NewWorkoutService(memberRepo repository.MemberRepository, workoutRepo repository.WorkoutRepository) WorkoutService {
	return &workoutService{
		memberRepo:  memberRepo,
		workoutRepo: workoutRepo,
	}
}

// ValidateWorkoutInput checks one entry: a calendar date, a non-blank
// exercise, a finite non-negative weight and positive sets and reps.
func ValidateWorkoutInput(in domain.WorkoutInput) error {
	switch {
	case !domain.ValidDate(in.Date):
		return fmt.Errorf("%w: %w", ErrInvalidWorkout, ErrInvalidDate)
	case strings.TrimSpace(in.Exercise) == "":
		return fmt.Errorf("%w: exercise is required", ErrInvalidWorkout)
	case math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) || in.Weight < 0:
		return fmt.Errorf("%w: weight must be a number >= 0", ErrInvalidWorkout)
	case in.Sets <= 0:
		return fmt.Errorf("%w: sets must be > 0", ErrInvalidWorkout)
	case in.Reps <= 0:
		return fmt.Errorf("%w: reps must be > 0", ErrInvalidWorkout)
	}
	return nil
}

func (s *workoutService) requireMember(ctx context.Context, memberID string) error {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	return nil
}

// AddWorkouts stores the entries for the member and returns them with their
// store-assigned ids, in the order they were given.
func (s *workoutService) AddWorkouts(ctx context.Context, memberID string, inputs []domain.WorkoutInput) ([]domain.Workout, error) {
	if len(inputs) == 0 {
		return []domain.Workout{}, nil
	}
	clean := make([]domain.WorkoutInput, len(inputs))
	for i, in := range inputs {
		in.Exercise = strings.TrimSpace(in.Exercise)
		if err := ValidateWorkoutInput(in); err != nil {
			return nil, err
		}
		clean[i] = in
	}
	if err := s.requireMember(ctx, memberID); err != nil {
		return nil, err
	}

	created, err := s.workoutRepo.CreateMany(ctx, memberID, clean)
	if err != nil {
		log.Errorf("add %d workouts for member %s: %v", len(clean), memberID, err)
		return nil, fmt.Errorf("%w: %w", ErrWorkoutsCreateFailed, err)
	}
	return created, nil
}

// UpdateWorkout rewrites one entry. Only an entry owned by memberID is touched.
func (s *workoutService) UpdateWorkout(ctx context.Context, memberID string, workout domain.Workout) error {
	workout.Exercise = strings.TrimSpace(workout.Exercise)
	if err := ValidateWorkoutInput(workout.Input()); err != nil {
		return err
	}
	workout.MemberID = memberID

	if err := s.workoutRepo.Update(ctx, memberID, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		log.Errorf("update workout %s of member %s: %v", workout.ID, memberID, err)
		return fmt.Errorf("%w: %w", ErrWorkoutUpdateFailed, err)
	}
	return nil
}

func (s *workoutService) DeleteWorkout(ctx context.Context, memberID, workoutID string) error {
	if err := s.workoutRepo.Delete(ctx, memberID, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		log.Errorf("delete workout %s of member %s: %v", workoutID, memberID, err)
		return fmt.Errorf("%w: %w", ErrWorkoutDeleteFailed, err)
	}
	return nil
}

// ReplaceSession swaps every entry of the member dated date for inputs, which
// are stored under date whatever their own Date says. An empty inputs clears
// the day.
//
// Stores implementing repository.SessionReplacer do this atomically. Otherwise
// the old entries are deleted one by one and the new ones inserted afterwards;
// if the insert fails the day stays empty and ErrSessionInsertFailed is returned.
func (s *workoutService) ReplaceSession(ctx context.Context, memberID, date string, inputs []domain.WorkoutInput) (*SessionReplacement, error) {
	if !domain.ValidDate(date) {
		return nil, ErrInvalidDate
	}
	fixed := make([]domain.WorkoutInput, len(inputs))
	for i, in := range inputs {
		in.Date = date
		in.Exercise = strings.TrimSpace(in.Exercise)
		if err := ValidateWorkoutInput(in); err != nil {
			return nil, err
		}
		fixed[i] = in
	}
	if err := s.requireMember(ctx, memberID); err != nil {
		return nil, err
	}

	if replacer, ok := s.workoutRepo.(repository.SessionReplacer); ok {
		removed, created, err := replacer.ReplaceSession(ctx, memberID, date, fixed)
		if err != nil {
			log.Errorf("replace session %s of member %s: %v", date, memberID, err)
			return nil, fmt.Errorf("%w: %w", ErrSessionReplaceFailed, err)
		}
		return &SessionReplacement{Date: date, Removed: removed, Created: created}, nil
	}

	old, err := s.workoutRepo.ListByMemberAndDate(ctx, memberID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionDeleteFailed, err)
	}
	removed := make([]string, 0, len(old))
	for _, w := range old {
		if err := s.workoutRepo.Delete(ctx, memberID, w.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			log.Errorf("replace session %s of member %s: delete %s: %v", date, memberID, w.ID, err)
			return nil, fmt.Errorf("%w: %w", ErrSessionDeleteFailed, err)
		}
		removed = append(removed, w.ID)
	}

	created, err := s.workoutRepo.CreateMany(ctx, memberID, fixed)
	if err != nil {
		log.Errorf("replace session %s of member %s: %d entries deleted, insert failed: %v", date, memberID, len(removed), err)
		return nil, fmt.Errorf("%w: %w", ErrSessionInsertFailed, err)
	}
	return &SessionReplacement{Date: date, Removed: removed, Created: created}, nil
}
