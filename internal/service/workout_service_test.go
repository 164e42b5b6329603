package service

import (
	"context"
	"math"
	"neonfit/studio-tracker/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWorkoutInput(t *testing.T) {
	valid := squat("2024-01-01", 0)
	assert.NoError(t, ValidateWorkoutInput(valid))

	cases := map[string]domain.WorkoutInput{
		"bad date":        {Date: "2024-13-01", Exercise: "Squat", Weight: 50, Sets: 3, Reps: 8},
		"blank exercise":  {Date: "2024-01-01", Exercise: "  ", Weight: 50, Sets: 3, Reps: 8},
		"negative weight": {Date: "2024-01-01", Exercise: "Squat", Weight: -1, Sets: 3, Reps: 8},
		"nan weight":      {Date: "2024-01-01", Exercise: "Squat", Weight: math.NaN(), Sets: 3, Reps: 8},
		"zero sets":       {Date: "2024-01-01", Exercise: "Squat", Weight: 50, Sets: 0, Reps: 8},
		"zero reps":       {Date: "2024-01-01", Exercise: "Squat", Weight: 50, Sets: 3, Reps: 0},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateWorkoutInput(in), ErrInvalidWorkout)
		})
	}
}

func TestAddWorkouts(t *testing.T) {
	store := newTestStore(t)
	members := NewMemberService(store.Members, store.Workouts, nil)
	svc := NewWorkoutService(store.Members, store.Workouts)
	ctx := context.Background()

	m, err := members.AddMember(ctx, "Alice Chen", domain.MemberOptions{})
	require.NoError(t, err)

	created, err := svc.AddWorkouts(ctx, m.ID, []domain.WorkoutInput{squat("2024-01-01", 50), squat("2024-01-08", 55)})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.NotEmpty(t, created[0].ID)
	assert.NotEqual(t, created[0].ID, created[1].ID)

	_, err = svc.AddWorkouts(ctx, "missing", []domain.WorkoutInput{squat("2024-01-01", 50)})
	assert.ErrorIs(t, err, ErrMemberNotFound)

	_, err = svc.AddWorkouts(ctx, m.ID, []domain.WorkoutInput{{Date: "2024-01-01", Exercise: "Squat", Sets: 0, Reps: 8}})
	assert.ErrorIs(t, err, ErrInvalidWorkout)
}

func TestUpdateAndDeleteWorkout(t *testing.T) {
	store := newTestStore(t)
	members := NewMemberService(store.Members, store.Workouts, nil)
	svc := NewWorkoutService(store.Members, store.Workouts)
	ctx := context.Background()

	alice, _ := members.AddMember(ctx, "Alice Chen", domain.MemberOptions{})
	bob, _ := members.AddMember(ctx, "Bob Smith", domain.MemberOptions{})
	created, err := svc.AddWorkouts(ctx, alice.ID, []domain.WorkoutInput{squat("2024-01-01", 50)})
	require.NoError(t, err)

	w := created[0]
	w.Weight = 60
	assert.ErrorIs(t, svc.UpdateWorkout(ctx, bob.ID, w), ErrWorkoutNotFound)
	require.NoError(t, svc.UpdateWorkout(ctx, alice.ID, w))

	got, _ := members.GetMember(ctx, alice.ID)
	assert.Equal(t, 60.0, got.Workouts[0].Weight)

	assert.ErrorIs(t, svc.DeleteWorkout(ctx, bob.ID, w.ID), ErrWorkoutNotFound)
	require.NoError(t, svc.DeleteWorkout(ctx, alice.ID, w.ID))
	assert.ErrorIs(t, svc.DeleteWorkout(ctx, alice.ID, w.ID), ErrWorkoutNotFound)
}

func TestReplaceSession_Transactional(t *testing.T) {
	store := newTestStore(t)
	members := NewMemberService(store.Members, store.Workouts, nil)
	svc := NewWorkoutService(store.Members, store.Workouts)
	ctx := context.Background()

	m, _ := members.AddMember(ctx, "Alice Chen", domain.MemberOptions{})
	old, err := svc.AddWorkouts(ctx, m.ID, []domain.WorkoutInput{squat("2024-01-01", 50), squat("2024-01-08", 55)})
	require.NoError(t, err)

	res, err := svc.ReplaceSession(ctx, m.ID, "2024-01-01", []domain.WorkoutInput{
		{Date: "2030-01-01", Exercise: "Deadlift", Weight: 90, Sets: 5, Reps: 5},
		{Exercise: "Lunge", Weight: 20, Sets: 3, Reps: 12},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{old[0].ID}, res.Removed)
	require.Len(t, res.Created, 2)
	for _, w := range res.Created {
		assert.Equal(t, "2024-01-01", w.Date)
	}

	local := domain.SpliceSession(old, res.Date, res.Created)
	got, _ := members.GetMember(ctx, m.ID)
	require.Len(t, got.Workouts, 3)
	assert.Equal(t, len(local), len(got.Workouts))
	assert.Equal(t, "Deadlift", got.Workouts[0].Exercise)
	assert.Equal(t, "2024-01-08", got.Workouts[2].Date)
}

func TestReplaceSession_TwoPhase(t *testing.T) {
	store := newTestStore(t)
	members := NewMemberService(store.Members, store.Workouts, nil)
	svc := NewWorkoutService(store.Members, plainWorkouts{store.Workouts})
	ctx := context.Background()

	m, _ := members.AddMember(ctx, "Alice Chen", domain.MemberOptions{})
	_, err := svc.AddWorkouts(ctx, m.ID, []domain.WorkoutInput{squat("2024-01-01", 50), squat("2024-01-01", 52)})
	require.NoError(t, err)

	res, err := svc.ReplaceSession(ctx, m.ID, "2024-01-01", []domain.WorkoutInput{squat("2024-01-01", 60)})
	require.NoError(t, err)
	assert.Len(t, res.Removed, 2)
	require.Len(t, res.Created, 1)

	got, _ := members.GetMember(ctx, m.ID)
	require.Len(t, got.Workouts, 1)
	assert.Equal(t, 60.0, got.Workouts[0].Weight)
}

func TestReplaceSession_InsertFailureLeavesDayEmpty(t *testing.T) {
	store := newTestStore(t)
	members := NewMemberService(store.Members, store.Workouts, nil)
	seedSvc := NewWorkoutService(store.Members, store.Workouts)
	svc := NewWorkoutService(store.Members, failingInsertWorkouts{store.Workouts})
	ctx := context.Background()

	m, _ := members.AddMember(ctx, "Alice Chen", domain.MemberOptions{})
	_, err := seedSvc.AddWorkouts(ctx, m.ID, []domain.WorkoutInput{squat("2024-01-01", 50)})
	require.NoError(t, err)

	_, err = svc.ReplaceSession(ctx, m.ID, "2024-01-01", []domain.WorkoutInput{squat("2024-01-01", 60)})
	assert.ErrorIs(t, err, ErrSessionInsertFailed)

	got, _ := members.GetMember(ctx, m.ID)
	assert.Empty(t, got.Workouts)
}

func TestReplaceSession_Validation(t *testing.T) {
	store := newTestStore(t)
	svc := NewWorkoutService(store.Members, store.Workouts)
	ctx := context.Background()

	_, err := svc.ReplaceSession(ctx, "m1", "2024/01/01", nil)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.ReplaceSession(ctx, "missing", "2024-01-01", nil)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}
