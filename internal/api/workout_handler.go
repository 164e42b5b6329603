package api

import (
	"fmt"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/service"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler serves workout writes. Every route is admin only.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// AddWorkouts godoc
// @Summary Record workouts for a member
// @Description Entries without a date use the request date, or today when that is empty too.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param memberId path string true "Member ID"
// @Param workouts body AddWorkoutsRequest true "Workout entries"
// @Success 201 {array} domain.Workout
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Member not found"
// @Security BearerAuth
// @Router /members/{memberId}/workouts [post]
func (h *WorkoutHandler) AddWorkouts(c *gin.Context) {
	var req AddWorkoutsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	date := req.Date
	if date == "" {
		date = domain.Today()
	}
	inputs := make([]domain.WorkoutInput, 0, len(req.Workouts))
	for _, w := range req.Workouts {
		inputs = append(inputs, w.toInput(date))
	}

	created, err := h.workoutService.AddWorkouts(c.Request.Context(), c.Param("memberId"), inputs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateWorkout godoc
// @Summary Update one workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Param memberId path string true "Member ID"
// @Param workoutId path string true "Workout ID"
// @Param workout body WorkoutRequest true "New values"
// @Success 200 {object} domain.Workout
// @Failure 404 {object} gin.H "Workout not found"
// @Security BearerAuth
// @Router /members/{memberId}/workouts/{workoutId} [put]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if req.Date == "" {
		abortWithError(c, http.StatusBadRequest, "Validation error: date is required")
		return
	}

	in := req.toInput("")
	workout := domain.Workout{
		ID:       c.Param("workoutId"),
		MemberID: c.Param("memberId"),
		Date:     in.Date,
		Exercise: strings.TrimSpace(in.Exercise),
		Weight:   in.Weight,
		Sets:     in.Sets,
		Reps:     in.Reps,
	}
	if err := h.workoutService.UpdateWorkout(c.Request.Context(), workout.MemberID, workout); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// DeleteWorkout godoc
// @Summary Delete one workout
// @Tags Workouts
// @Param memberId path string true "Member ID"
// @Param workoutId path string true "Workout ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Workout not found"
// @Security BearerAuth
// @Router /members/{memberId}/workouts/{workoutId} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), c.Param("memberId"), c.Param("workoutId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReplaceSession godoc
// @Summary Replace every workout of a member on one date
// @Description The entries take the path date; an empty list clears the day.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param memberId path string true "Member ID"
// @Param date path string true "Session date (YYYY-MM-DD)"
// @Param session body ReplaceSessionRequest true "New session entries"
// @Success 200 {object} service.SessionReplacement
// @Failure 400 {object} gin.H "Invalid input"
// @Security BearerAuth
// @Router /members/{memberId}/sessions/{date} [put]
func (h *WorkoutHandler) ReplaceSession(c *gin.Context) {
	var req ReplaceSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	date := c.Param("date")
	inputs := make([]domain.WorkoutInput, 0, len(req.Workouts))
	for _, w := range req.Workouts {
		inputs = append(inputs, w.toInput(date))
	}

	result, err := h.workoutService.ReplaceSession(c.Request.Context(), c.Param("memberId"), date, inputs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
