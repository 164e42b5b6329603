package stats

import (
	"fmt"
	"neonfit/studio-tracker/internal/domain"
	"time"
)

// CalendarDay is one day cell of a month grid.
type CalendarDay struct {
	Date      string   `json:"date"`
	Day       int      `json:"day"`
	Workouts  int      `json:"workouts"`
	Exercises []string `json:"exercises"` // distinct, in recorded order
}

// Calendar is a Sunday-first month grid. LeadingBlanks empty cells precede
// the first day.
type Calendar struct {
	Month         string        `json:"month"`
	LeadingBlanks int           `json:"leadingBlanks"`
	Days          []CalendarDay `json:"days"`
}

// Weeks lays the grid out in rows of seven; nil cells are blanks.
func (c Calendar) Weeks() [][]*CalendarDay {
	cells := make([]*CalendarDay, c.LeadingBlanks, c.LeadingBlanks+len(c.Days))
	for i := range c.Days {
		cells = append(cells, &c.Days[i])
	}
	for len(cells)%7 != 0 {
		cells = append(cells, nil)
	}
	weeks := make([][]*CalendarDay, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return weeks
}

// BuildCalendar lays out month (YYYY-MM) and marks the days with workouts.
func BuildCalendar(ws []domain.Workout, month string) (Calendar, error) {
	first, err := time.Parse(MonthLayout, month)
	if err != nil {
		return Calendar{}, fmt.Errorf("month must be formatted YYYY-MM: %q", month)
	}
	daysInMonth := first.AddDate(0, 1, -1).Day()

	byDate := map[string][]domain.Workout{}
	for _, s := range Sessions(ws) {
		byDate[s.Date] = s.Workouts
	}

	cal := Calendar{
		Month:         month,
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]CalendarDay, 0, daysInMonth),
	}
	for d := 1; d <= daysInMonth; d++ {
		date := fmt.Sprintf("%s-%02d", month, d)
		day := CalendarDay{Date: date, Day: d, Exercises: []string{}}
		seen := map[string]bool{}
		for _, w := range byDate[date] {
			day.Workouts++
			if !seen[w.Exercise] {
				seen[w.Exercise] = true
				day.Exercises = append(day.Exercises, w.Exercise)
			}
		}
		cal.Days = append(cal.Days, day)
	}
	return cal, nil
}

// CurrentMonth returns today's month in MonthLayout.
func CurrentMonth() string {
	return time.Now().Format(MonthLayout)
}
