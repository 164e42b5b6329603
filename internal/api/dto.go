package api

import (
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/stats"
	"time"
)

// --- Request/Response Structs ---

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	MemberID  *string     `json:"memberId,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

type LoginResponse struct {
	Token string               `json:"token"`
	User  *domain.LoginSession `json:"user"`
}

type CreateUserRequest struct {
	Username string      `json:"username" binding:"required"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     domain.Role `json:"role" binding:"required,oneof=admin member"`
	MemberID *string     `json:"memberId"`
}

type CreateMemberRequest struct {
	Name     string `json:"name" binding:"required"`
	JoinDate string `json:"joinDate" binding:"omitempty,datetime=2006-01-02"`
	Avatar   string `json:"avatar"`
	PhotoURL string `json:"photoUrl"`
}

type UpdatePhotoRequest struct {
	PhotoURL string `json:"photoUrl" binding:"required"`
}

type PhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type PhotoURLResponse struct {
	URL string `json:"url"`
}

// WorkoutRequest is one workout entry. Date may be omitted where the route
// already carries the session date.
type WorkoutRequest struct {
	Date     string  `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Exercise string  `json:"exercise" binding:"required"`
	Weight   float64 `json:"weight" binding:"gte=0"`
	Sets     int     `json:"sets" binding:"gt=0"`
	Reps     int     `json:"reps" binding:"gt=0"`
}

func (r WorkoutRequest) toInput(fallbackDate string) domain.WorkoutInput {
	date := r.Date
	if date == "" {
		date = fallbackDate
	}
	return domain.WorkoutInput{
		Date:     date,
		Exercise: r.Exercise,
		Weight:   r.Weight,
		Sets:     r.Sets,
		Reps:     r.Reps,
	}
}

type AddWorkoutsRequest struct {
	Date     string           `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Workouts []WorkoutRequest `json:"workouts" binding:"required,min=1,dive"`
}

// ReplaceSessionRequest may carry an empty list, which clears the day.
type ReplaceSessionRequest struct {
	Workouts []WorkoutRequest `json:"workouts" binding:"dive"`
}

type AdviceRequest struct {
	Question string `json:"question"`
	Language string `json:"language"`
}

type AdviceResponse struct {
	Status   string `json:"status"` // ok, unconfigured or failed
	Advice   string `json:"advice"`
	Language string `json:"language"`
}

type MemberSummaryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	JoinDate string `json:"joinDate"`
	Workouts int    `json:"workoutCount"`
}

type StatsResponse struct {
	stats.Summary
	TotalVolumeDisplay string `json:"totalVolumeDisplay"`
}

type CalendarResponse struct {
	stats.Calendar
	Weeks [][]*stats.CalendarDay `json:"weeks"`
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
// Crucially excludes PasswordHash.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		MemberID:  user.MemberID,
		CreatedAt: user.CreatedAt,
	}
}

func mapMemberSummary(m domain.Member) MemberSummaryResponse {
	return MemberSummaryResponse{
		ID:       m.ID,
		Name:     m.Name,
		Avatar:   m.Avatar,
		JoinDate: m.JoinDate,
		Workouts: len(m.Workouts),
	}
}
