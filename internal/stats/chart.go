package stats

import (
	"fmt"
	"neonfit/studio-tracker/internal/domain"
	"sort"
)

type Metric string

const (
	MetricWeight Metric = "weight" // heaviest set per day
	MetricVolume Metric = "volume" // summed weight x sets x reps per day
)

// ParseMetric accepts "weight", "volume" or an empty string (weight).
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case "", MetricWeight:
		return MetricWeight, nil
	case MetricVolume:
		return MetricVolume, nil
	}
	return "", fmt.Errorf("unknown chart metric %q", s)
}

// Palette assigns series colours by alphabetical exercise index, wrapping around.
var Palette = []string{
	"#a3e635", "#3b82f6", "#f43f5e", "#e879f9", "#f59e0b", "#22d3ee",
	"#a78bfa", "#fb923c", "#34d399", "#818cf8", "#fb7185", "#c084fc",
}

type Series struct {
	Exercise string `json:"exercise"`
	Color    string `json:"color"`
}

// Point is one day on the chart. Values only holds selected exercises that
// were trained that day; a missing key is a gap in that series.
type Point struct {
	Date   string             `json:"date"`
	Label  string             `json:"label"` // MM-DD
	Values map[string]float64 `json:"values"`
}

type Chart struct {
	Metric    Metric   `json:"metric"`
	Available []string `json:"available"`
	Series    []Series `json:"series"`
	Points    []Point  `json:"points"`
}

// BuildChart aggregates workouts with a positive weight into one point per
// date. An empty selection falls back to DefaultExercises; names that are not
// available are dropped from the selection.
func BuildChart(ws []domain.Workout, metric Metric, exercises []string) Chart {
	available := AvailableExercises(ws)
	colors := make(map[string]string, len(available))
	for i, ex := range available {
		colors[ex] = Palette[i%len(Palette)]
	}

	if len(exercises) == 0 {
		exercises = DefaultExercises(ws)
	}
	selected := map[string]bool{}
	series := []Series{}
	for _, ex := range exercises {
		color, ok := colors[ex]
		if !ok || selected[ex] {
			continue
		}
		selected[ex] = true
		series = append(series, Series{Exercise: ex, Color: color})
	}

	byDate := map[string]*Point{}
	for _, w := range ws {
		if w.Weight <= 0 {
			continue
		}
		p, ok := byDate[w.Date]
		if !ok {
			p = &Point{Date: w.Date, Label: label(w.Date), Values: map[string]float64{}}
			byDate[w.Date] = p
		}
		if !selected[w.Exercise] {
			continue
		}
		switch metric {
		case MetricVolume:
			p.Values[w.Exercise] += w.Volume()
		default:
			if cur, ok := p.Values[w.Exercise]; !ok || w.Weight > cur {
				p.Values[w.Exercise] = w.Weight
			}
		}
	}

	points := make([]Point, 0, len(byDate))
	for _, p := range byDate {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	if metric != MetricVolume {
		metric = MetricWeight
	}
	return Chart{Metric: metric, Available: available, Series: series, Points: points}
}

func label(date string) string {
	if len(date) >= len(domain.DateLayout) {
		return date[5:]
	}
	return date
}
