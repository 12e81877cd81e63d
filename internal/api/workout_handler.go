package api

import (
	"net/http"
	"strconv"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/metrics"
	"fitcycle/server/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
	metrics        *metrics.Manager
}

func NewWorkoutHandler(workoutService service.WorkoutService, metricsManager *metrics.Manager) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		metrics:        metricsManager,
	}
}

type WorkoutExerciseRequest struct {
	ExerciseID      string            `json:"exerciseId" binding:"required"`
	ExerciseName    string            `json:"exerciseName" binding:"required"`
	MuscleGroupName string            `json:"muscleGroupName"`
	Sets            int               `json:"sets"`
	Reps            int               `json:"reps"`
	Weight          float64           `json:"weight"`
	SetDetails      domain.SetDetails `json:"setDetails"`
}

// SaveWorkoutRequest is a finished session. Exercise and muscle group names
// are stored as sent.
type SaveWorkoutRequest struct {
	Day         *int                     `json:"day" binding:"required"`
	StartedAt   time.Time                `json:"startedAt"`
	CompletedAt time.Time                `json:"completedAt"`
	Exercises   []WorkoutExerciseRequest `json:"exercises" binding:"dive"`
}

func (r *SaveWorkoutRequest) toDomain() *domain.WorkoutSession {
	session := &domain.WorkoutSession{
		Day:         time.Weekday(*r.Day),
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		Exercises:   make([]domain.WorkoutExerciseLog, len(r.Exercises)),
	}
	for i, ex := range r.Exercises {
		session.Exercises[i] = domain.WorkoutExerciseLog{
			ExerciseID:      ex.ExerciseID,
			ExerciseName:    ex.ExerciseName,
			MuscleGroupName: ex.MuscleGroupName,
			Sets:            ex.Sets,
			Reps:            ex.Reps,
			Weight:          ex.Weight,
			SetDetails:      ex.SetDetails,
		}
	}
	return session
}

// SaveWorkout godoc
// @Summary Record a completed workout session
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body SaveWorkoutRequest true "Completed session"
// @Success 201 {object} domain.WorkoutSession
// @Failure 400 {object} gin.H "Invalid session"
// @Router /workouts [post]
func (h *WorkoutHandler) SaveWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	var req SaveWorkoutRequest
	if err = c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	session, err := h.workoutService.SaveWorkout(c.Request.Context(), userID, req.toDomain())
	if err != nil {
		respondWithServiceError(c, err, "save workout")
		return
	}

	if h.metrics != nil {
		h.metrics.CounterWorkoutsSaved.Inc()
	}
	log.WithFields(log.Fields{
		"user_id":    userID,
		"session_id": session.ID,
		"exercises":  len(session.Exercises),
	}).Debug("workout saved")
	c.JSON(http.StatusCreated, session)
}

// GetHistory godoc
// @Summary Workout history, newest first
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max sessions (default 50, max 500)"
// @Success 200 {array} domain.WorkoutSession
// @Router /workouts [get]
func (h *WorkoutHandler) GetHistory(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			abortWithError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
	}

	sessions, err := h.workoutService.GetHistory(c.Request.Context(), userID, limit)
	if err != nil {
		respondWithServiceError(c, err, "retrieve workouts")
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GetStats godoc
// @Summary Aggregated workout statistics
// @Description Totals, 4 weekly buckets, top 5 exercises and weight progression.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} stats.Summary
// @Router /workouts/stats [get]
func (h *WorkoutHandler) GetStats(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	summary, err := h.workoutService.GetStats(c.Request.Context(), userID)
	if err != nil {
		respondWithServiceError(c, err, "compute stats")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetExerciseProgress godoc
// @Summary Raw weighted log rows of one exercise, oldest first
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {array} domain.ExerciseProgressEntry
// @Router /workouts/exercise/{id}/progress [get]
func (h *WorkoutHandler) GetExerciseProgress(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	entries, err := h.workoutService.GetExerciseProgress(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithServiceError(c, err, "retrieve progress")
		return
	}
	c.JSON(http.StatusOK, entries)
}
