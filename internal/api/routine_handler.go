package api

import (
	"net/http"
	"strconv"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/service"

	"github.com/gin-gonic/gin"
)

type RoutineHandler struct {
	routineService service.RoutineService
}

func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

// RoutineExerciseRequest is one exercise of a day. SetDetails may be sent as
// a JSON array or as a JSON-encoded string of that array.
type RoutineExerciseRequest struct {
	ExerciseID string            `json:"exerciseId" binding:"required"`
	Sets       int               `json:"sets" binding:"min=0"`
	Reps       int               `json:"reps" binding:"min=0"`
	Weight     float64           `json:"weight" binding:"min=0"`
	SetDetails domain.SetDetails `json:"setDetails"`
}

type SetDayRoutineRequest struct {
	MuscleGroupIDs []string                 `json:"muscleGroupIds"`
	Exercises      []RoutineExerciseRequest `json:"exercises" binding:"dive"`
}

func parseDay(c *gin.Context) (time.Weekday, bool) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "day must be an integer weekday (0 = Sunday)")
		return 0, false
	}
	return time.Weekday(day), true
}

// GetWeekRoutine godoc
// @Summary Get the Monday to Friday routine
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.DayRoutine
// @Router /routines [get]
func (h *RoutineHandler) GetWeekRoutine(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	week, err := h.routineService.GetWeekRoutine(c.Request.Context(), userID)
	if err != nil {
		respondWithServiceError(c, err, "retrieve routine")
		return
	}
	c.JSON(http.StatusOK, week)
}

// GetDayRoutine godoc
// @Summary Get the routine of one weekday
// @Description Saturday and Sunday always return an empty routine.
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param day path int true "Weekday, 0 = Sunday"
// @Success 200 {object} domain.DayRoutine
// @Failure 400 {object} gin.H "Invalid day"
// @Router /routines/{day} [get]
func (h *RoutineHandler) GetDayRoutine(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	day, ok := parseDay(c)
	if !ok {
		return
	}

	routine, err := h.routineService.GetDayRoutine(c.Request.Context(), userID, day)
	if err != nil {
		respondWithServiceError(c, err, "retrieve routine")
		return
	}
	c.JSON(http.StatusOK, routine)
}

// SetDayRoutine godoc
// @Summary Replace the routine of one weekday
// @Description Unknown muscle group and exercise ids are ignored.
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param day path int true "Weekday, 1 = Monday to 5 = Friday"
// @Param routine body SetDayRoutineRequest true "Muscle groups and exercises"
// @Success 200 {object} domain.DayRoutine
// @Failure 400 {object} gin.H "Invalid day or weekend"
// @Router /routines/{day} [put]
func (h *RoutineHandler) SetDayRoutine(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	day, ok := parseDay(c)
	if !ok {
		return
	}

	var req SetDayRoutineRequest
	if err = c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercises := make([]service.RoutineExerciseInput, len(req.Exercises))
	for i, ex := range req.Exercises {
		exercises[i] = service.RoutineExerciseInput{
			ExerciseID: ex.ExerciseID,
			Sets:       ex.Sets,
			Reps:       ex.Reps,
			Weight:     ex.Weight,
			SetDetails: ex.SetDetails,
		}
	}

	routine, err := h.routineService.SetDayRoutine(c.Request.Context(), userID, day, req.MuscleGroupIDs, exercises)
	if err != nil {
		respondWithServiceError(c, err, "save routine")
		return
	}
	c.JSON(http.StatusOK, routine)
}
