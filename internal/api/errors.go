package api

import (
	"errors"
	"net/http"

	"fitcycle/server/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	// 400
	{service.ErrInvalidCredentials, http.StatusBadRequest},
	{service.ErrInvalidRole, http.StatusBadRequest},
	{service.ErrCannotDeleteSelf, http.StatusBadRequest},
	{service.ErrInvalidExercise, http.StatusBadRequest},
	{service.ErrInvalidMuscleGroup, http.StatusBadRequest},
	{service.ErrUnsupportedImageType, http.StatusBadRequest},
	{service.ErrInvalidDay, http.StatusBadRequest},
	{service.ErrWeekendRoutine, http.StatusBadRequest},
	{service.ErrNegativeTarget, http.StatusBadRequest},
	{service.ErrInvalidWorkout, http.StatusBadRequest},
	{service.ErrEmptyMeasurement, http.StatusBadRequest},
	{service.ErrNegativeMeasurement, http.StatusBadRequest},
	// 401
	{service.ErrAuthenticationFailed, http.StatusUnauthorized},
	{service.ErrInvalidRefreshToken, http.StatusUnauthorized},
	{service.ErrInvalidAccessToken, http.StatusUnauthorized},
	// 404
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrExerciseNotFound, http.StatusNotFound},
	{service.ErrMeasurementNotFound, http.StatusNotFound},
	// 409
	{service.ErrUserAlreadyExists, http.StatusConflict},
	// 503
	{service.ErrStorageDisabled, http.StatusServiceUnavailable},
}

func statusForError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondWithServiceError maps a service error to its HTTP status. Internal
// errors are logged and replaced by a generic message.
func respondWithServiceError(c *gin.Context, err error, action string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"path":   c.FullPath(),
			"action": action,
		}).Error("request failed")
		abortWithError(c, status, "Failed to "+action+".")
		return
	}
	abortWithError(c, status, err.Error())
}
