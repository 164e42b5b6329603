package cli

import (
	"fmt"
	"neonfit/studio-tracker/internal/domain"
	"strconv"
	"strings"
)

// ParseEntry reads "Exercise:weight:sets:reps". The exercise name may itself
// contain colons; the last three fields are numeric.
func ParseEntry(s, date string) (domain.WorkoutInput, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 4 {
		return domain.WorkoutInput{}, fmt.Errorf("entry %q: want Exercise:weight:sets:reps", s)
	}
	n := len(parts)

	weight, err := strconv.ParseFloat(strings.TrimSpace(parts[n-3]), 64)
	if err != nil {
		return domain.WorkoutInput{}, fmt.Errorf("entry %q: invalid weight", s)
	}
	sets, err := strconv.Atoi(strings.TrimSpace(parts[n-2]))
	if err != nil {
		return domain.WorkoutInput{}, fmt.Errorf("entry %q: invalid sets", s)
	}
	reps, err := strconv.Atoi(strings.TrimSpace(parts[n-1]))
	if err != nil {
		return domain.WorkoutInput{}, fmt.Errorf("entry %q: invalid reps", s)
	}

	return domain.WorkoutInput{
		Date:     date,
		Exercise: strings.TrimSpace(strings.Join(parts[:n-3], ":")),
		Weight:   weight,
		Sets:     sets,
		Reps:     reps,
	}, nil
}

func parseEntries(args []string, date string) ([]domain.WorkoutInput, error) {
	inputs := make([]domain.WorkoutInput, 0, len(args))
	for _, a := range args {
		in, err := ParseEntry(a, date)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}
