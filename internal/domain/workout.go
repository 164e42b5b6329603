package domain

import (
	"sort"
	"time"
)

// DateLayout is the calendar-day format used for workout and join dates.
const DateLayout = "2006-01-02"

// Workout is a single recorded exercise entry of a member on a given day.
type Workout struct {
	ID       string  `json:"id"`
	MemberID string  `json:"memberId,omitempty"`
	Date     string  `json:"date"` // YYYY-MM-DD
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"` // kg
	Sets     int     `json:"sets"`
	Reps     int     `json:"reps"`
}

// WorkoutInput carries the fields of a workout that is about to be created.
// Identifiers are always assigned by the store.
type WorkoutInput struct {
	Date     string  `json:"date"`
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"`
	Sets     int     `json:"sets"`
	Reps     int     `json:"reps"`
}

// Volume returns weight x sets x reps.
func (w Workout) Volume() float64 {
	return w.Weight * float64(w.Sets) * float64(w.Reps)
}

// Input strips the identifiers from a workout.
func (w Workout) Input() WorkoutInput {
	return WorkoutInput{
		Date:     w.Date,
		Exercise: w.Exercise,
		Weight:   w.Weight,
		Sets:     w.Sets,
		Reps:     w.Reps,
	}
}

// SortWorkouts orders workouts by date ascending, keeping insertion order for equal dates.
func SortWorkouts(workouts []Workout) {
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].Date < workouts[j].Date
	})
}

// SpliceSession returns a new collection in which every workout dated date has been
// replaced by fresh. The result is sorted by date.
func SpliceSession(workouts []Workout, date string, fresh []Workout) []Workout {
	out := make([]Workout, 0, len(workouts)+len(fresh))
	for _, w := range workouts {
		if w.Date != date {
			out = append(out, w)
		}
	}
	out = append(out, fresh...)
	SortWorkouts(out)
	return out
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Today returns the current date in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}

// TrainingSession groups all workouts a member recorded on one date.
type TrainingSession struct {
	Date     string    `json:"date"`
	Workouts []Workout `json:"workouts"`
}
