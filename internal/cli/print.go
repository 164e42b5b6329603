package cli

import (
	"fmt"
	"io"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/stats"
	"neonfit/studio-tracker/internal/studio"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// seriesColors stand in for the chart palette on a terminal.
var seriesColors = []color.Attribute{
	color.FgGreen, color.FgBlue, color.FgRed, color.FgMagenta, color.FgYellow, color.FgCyan,
}

func selected(app *App) (*domain.Member, error) {
	m := app.Studio.Selected()
	if m == nil {
		return nil, studio.ErrNoSelection
	}
	return m, nil
}

func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatWorkout(w domain.Workout) string {
	return fmt.Sprintf("%s %s %dx%d @ %skg", w.Date, w.Exercise, w.Sets, w.Reps, formatKg(w.Weight))
}

func printChart(out io.Writer, chart stats.Chart) {
	if len(chart.Series) == 0 || len(chart.Points) == 0 {
		fmt.Fprintln(out, "No weighted workouts to chart")
		return
	}

	const width = 14
	fmt.Fprintf(out, "%-7s", chart.Metric)
	for i, s := range chart.Series {
		name := s.Exercise
		if len(name) > width-1 {
			name = name[:width-1]
		}
		fmt.Fprint(out, color.New(seriesColors[i%len(seriesColors)], color.Bold).Sprintf("%*s", width, name))
	}
	fmt.Fprintln(out)

	for _, p := range chart.Points {
		fmt.Fprintf(out, "%-7s", p.Label)
		for _, s := range chart.Series {
			v, ok := p.Values[s.Exercise]
			cell := "·"
			if ok {
				cell = formatKg(v)
			}
			fmt.Fprintf(out, "%*s", width, cell)
		}
		fmt.Fprintln(out)
	}
}

func printCalendar(out io.Writer, cal stats.Calendar, details bool) {
	trained := color.New(color.FgGreen, color.Bold).SprintFunc()

	fmt.Fprintf(out, "%s\n", cal.Month)
	fmt.Fprintln(out, "Su  Mo  Tu  We  Th  Fr  Sa")
	for _, week := range cal.Weeks() {
		var line strings.Builder
		for _, day := range week {
			switch {
			case day == nil:
				line.WriteString("    ")
			case day.Workouts > 0:
				line.WriteString(trained(fmt.Sprintf("%2d* ", day.Day)))
			default:
				fmt.Fprintf(&line, "%2d  ", day.Day)
			}
		}
		fmt.Fprintln(out, strings.TrimRight(line.String(), " "))
	}

	if !details {
		return
	}
	fmt.Fprintln(out)
	for _, day := range cal.Days {
		if day.Workouts > 0 {
			fmt.Fprintf(out, "%s  %s\n", day.Date, strings.Join(day.Exercises, ", "))
		}
	}
}
