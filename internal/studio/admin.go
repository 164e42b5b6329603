package studio

import (
	"context"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/service"
	"strings"
	"time"
)

var nowFunc = func() time.Time { return time.Now().UTC() }

// AdminActions are the mutating operations of an admin session. Each one
// updates the store first and then the loaded members to match.
type AdminActions struct {
	s *Studio
}

// AddMember creates a member, appends it to the list and selects it.
func (a *AdminActions) AddMember(ctx context.Context, name string, opts domain.MemberOptions) (*domain.Member, error) {
	m, err := a.s.svc.Members.AddMember(ctx, name, opts)
	if err != nil {
		return nil, err
	}
	a.s.members = append(a.s.members, *m)
	a.s.selectedID = m.ID
	return m, nil
}

// DeleteMember removes a member. Deleting the selected member selects the
// first remaining one.
func (a *AdminActions) DeleteMember(ctx context.Context, ref string) error {
	idx, err := a.s.find(ref)
	if err != nil {
		return err
	}
	id := a.s.members[idx].ID
	if err := a.s.svc.Members.DeleteMember(ctx, id); err != nil {
		return err
	}

	a.s.members = append(a.s.members[:idx:idx], a.s.members[idx+1:]...)
	if a.s.selectedID == id {
		a.s.selectFirst()
	}
	return nil
}

// AddWorkouts records new entries for the selected member.
func (a *AdminActions) AddWorkouts(ctx context.Context, inputs []domain.WorkoutInput) ([]domain.Workout, error) {
	m, err := a.s.requireSelected()
	if err != nil {
		return nil, err
	}
	created, err := a.s.svc.Workouts.AddWorkouts(ctx, m.ID, inputs)
	if err != nil {
		return nil, err
	}
	m.Workouts = append(m.Workouts, created...)
	domain.SortWorkouts(m.Workouts)
	return created, nil
}

// SaveSession replaces every entry of the selected member on date.
func (a *AdminActions) SaveSession(ctx context.Context, date string, inputs []domain.WorkoutInput) (*service.SessionReplacement, error) {
	m, err := a.s.requireSelected()
	if err != nil {
		return nil, err
	}
	result, err := a.s.svc.Workouts.ReplaceSession(ctx, m.ID, date, inputs)
	if err != nil {
		return nil, err
	}
	m.Workouts = domain.SpliceSession(m.Workouts, result.Date, result.Created)
	return result, nil
}

// UpdateWorkout rewrites one entry of the selected member.
func (a *AdminActions) UpdateWorkout(ctx context.Context, w domain.Workout) error {
	m, err := a.s.requireSelected()
	if err != nil {
		return err
	}
	if err := a.s.svc.Workouts.UpdateWorkout(ctx, m.ID, w); err != nil {
		return err
	}
	w.MemberID = m.ID
	w.Exercise = strings.TrimSpace(w.Exercise)
	for i := range m.Workouts {
		if m.Workouts[i].ID == w.ID {
			m.Workouts[i] = w
		}
	}
	domain.SortWorkouts(m.Workouts)
	return nil
}

// DeleteWorkout removes one entry of the selected member.
func (a *AdminActions) DeleteWorkout(ctx context.Context, workoutID string) error {
	m, err := a.s.requireSelected()
	if err != nil {
		return err
	}
	if err := a.s.svc.Workouts.DeleteWorkout(ctx, m.ID, workoutID); err != nil {
		return err
	}
	kept := m.Workouts[:0]
	for _, w := range m.Workouts {
		if w.ID != workoutID {
			kept = append(kept, w)
		}
	}
	m.Workouts = kept
	return nil
}

// SetPhoto stores a photo reference, either an object key or a URL, for the selected member.
func (a *AdminActions) SetPhoto(ctx context.Context, photoRef string) error {
	m, err := a.s.requireSelected()
	if err != nil {
		return err
	}
	if err := a.s.svc.Members.UpdatePhoto(ctx, m.ID, photoRef); err != nil {
		return err
	}
	m.PhotoURL = photoRef
	return nil
}

// PhotoUploadURL returns a presigned upload target for the selected member.
func (a *AdminActions) PhotoUploadURL(ctx context.Context, contentType string) (*service.PhotoUploadURL, error) {
	m, err := a.s.requireSelected()
	if err != nil {
		return nil, err
	}
	return a.s.svc.Members.RequestPhotoUploadURL(ctx, m.ID, contentType)
}

// Seed imports the demo roster and reloads the members.
func (a *AdminActions) Seed(ctx context.Context) (*service.SeedResult, error) {
	result, err := a.s.svc.Seed.SeedSampleData(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.s.Load(ctx); err != nil {
		return result, err
	}
	return result, nil
}
