// Package stats derives the figures shown for a member from their workouts.
// Every function is pure and recomputed on demand.
package stats

import (
	"fmt"
	"neonfit/studio-tracker/internal/domain"
	"sort"
	"strings"
)

// MonthLayout is the format of a calendar month filter.
const MonthLayout = "2006-01"

// Summary holds the metric cards of a member view.
type Summary struct {
	Month        string  `json:"month"`
	MonthlyCount int     `json:"monthlyCount"`
	MaxWeight    float64 `json:"maxWeight"`
	TotalVolume  float64 `json:"totalVolume"`
}

// MonthlyCount counts workouts whose date starts with month (YYYY-MM).
func MonthlyCount(ws []domain.Workout, month string) int {
	n := 0
	for _, w := range ws {
		if strings.HasPrefix(w.Date, month) {
			n++
		}
	}
	return n
}

// MaxWeight returns the heaviest recorded weight, or 0 with no workouts.
func MaxWeight(ws []domain.Workout) float64 {
	var heaviest float64
	for _, w := range ws {
		if w.Weight > heaviest {
			heaviest = w.Weight
		}
	}
	return heaviest
}

// TotalVolume sums weight x sets x reps over all workouts.
func TotalVolume(ws []domain.Workout) float64 {
	var total float64
	for _, w := range ws {
		total += w.Volume()
	}
	return total
}

func Summarize(ws []domain.Workout, month string) Summary {
	return Summary{
		Month:        month,
		MonthlyCount: MonthlyCount(ws, month),
		MaxWeight:    MaxWeight(ws),
		TotalVolume:  TotalVolume(ws),
	}
}

// FormatVolume renders a volume in thousands with one decimal, e.g. "2.5k".
func FormatVolume(v float64) string {
	return fmt.Sprintf("%.1fk", v/1000)
}

// AvailableExercises lists, alphabetically, the exercises that have at least
// one workout with a positive weight.
func AvailableExercises(ws []domain.Workout) []string {
	seen := map[string]struct{}{}
	for _, w := range ws {
		if w.Weight > 0 {
			seen[w.Exercise] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for ex := range seen {
		out = append(out, ex)
	}
	sort.Strings(out)
	return out
}

// DefaultExercises is the chart selection used when none is given: the first
// three available exercises.
func DefaultExercises(ws []domain.Workout) []string {
	available := AvailableExercises(ws)
	if len(available) > 3 {
		available = available[:3]
	}
	return available
}

// Sessions groups workouts by date, ascending. Workouts keep their relative order.
func Sessions(ws []domain.Workout) []domain.TrainingSession {
	sorted := make([]domain.Workout, len(ws))
	copy(sorted, ws)
	domain.SortWorkouts(sorted)

	var sessions []domain.TrainingSession
	for _, w := range sorted {
		if n := len(sessions); n > 0 && sessions[n-1].Date == w.Date {
			sessions[n-1].Workouts = append(sessions[n-1].Workouts, w)
			continue
		}
		sessions = append(sessions, domain.TrainingSession{Date: w.Date, Workouts: []domain.Workout{w}})
	}
	if sessions == nil {
		sessions = []domain.TrainingSession{}
	}
	return sessions
}
