package domain

import (
	"net/url"
	"strings"
)

// Member is a studio member together with their recorded workouts.
type Member struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	JoinDate string    `json:"joinDate"`
	PhotoURL string    `json:"photoUrl,omitempty"` // progress picture reference
	Workouts []Workout `json:"workouts"`
}

// MemberOptions holds the optional fields of a new member.
type MemberOptions struct {
	JoinDate string
	Avatar   string
	PhotoURL string
}

// DefaultAvatarURL builds the generated avatar used when none is supplied.
func DefaultAvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}

// SameName compares member names the way duplicates are detected: trimmed, case-insensitive.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// WorkoutsOn returns the member's workouts recorded on date, in collection order.
func (m *Member) WorkoutsOn(date string) []Workout {
	var out []Workout
	for _, w := range m.Workouts {
		if w.Date == date {
			out = append(out, w)
		}
	}
	return out
}
