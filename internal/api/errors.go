package api

import (
	"errors"
	"neonfit/studio-tracker/internal/advisor"
	"neonfit/studio-tracker/internal/repository"
	"neonfit/studio-tracker/internal/service"
	"neonfit/studio-tracker/internal/storage"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var statusBySentinel = []struct {
	err    error
	status int
}{
	{service.ErrMemberNotFound, http.StatusNotFound},
	{service.ErrWorkoutNotFound, http.StatusNotFound},
	{service.ErrNoPhoto, http.StatusNotFound},
	{service.ErrDuplicateMemberName, http.StatusConflict},
	{service.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrSeedInProgress, http.StatusConflict},
	{advisor.ErrAdviceInProgress, http.StatusConflict},
	{service.ErrMemberNameRequired, http.StatusBadRequest},
	{service.ErrInvalidDate, http.StatusBadRequest},
	{service.ErrInvalidWorkout, http.StatusBadRequest},
	{storage.ErrUnsupportedContentType, http.StatusBadRequest},
	{service.ErrPhotoStorageDisabled, http.StatusServiceUnavailable},
}

// failureSentinels are reported by their own message; their wrapped causes stay in the log.
var failureSentinels = []error{
	service.ErrMemberCreateFailed,
	service.ErrMemberDeleteFailed,
	service.ErrPhotoUpdateFailed,
	service.ErrPhotoURLFailed,
	service.ErrWorkoutsCreateFailed,
	service.ErrWorkoutUpdateFailed,
	service.ErrWorkoutDeleteFailed,
	service.ErrSessionDeleteFailed,
	service.ErrSessionInsertFailed,
	service.ErrSessionReplaceFailed,
	service.ErrSeedFailed,
}

// respondError maps a service error to a status code and aborts the request.
func respondError(c *gin.Context, err error) {
	if repository.IsNotConfigured(err) {
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			abortWithError(c, s.status, err.Error())
			return
		}
	}

	log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	for _, s := range failureSentinels {
		if errors.Is(err, s) {
			abortWithError(c, http.StatusInternalServerError, s.Error())
			return
		}
	}
	abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
}
