package api

import (
	"net/http"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/service"

	"github.com/gin-gonic/gin"
)

type MeasurementHandler struct {
	measurementService service.MeasurementService
}

func NewMeasurementHandler(measurementService service.MeasurementService) *MeasurementHandler {
	return &MeasurementHandler{measurementService: measurementService}
}

// CreateMeasurementRequest has only optional fields; at least one value or
// a note must be present. MeasuredAt defaults to now.
type CreateMeasurementRequest struct {
	MeasuredAt *time.Time `json:"measuredAt"`
	Weight     *float64   `json:"weight"`
	Height     *float64   `json:"height"`
	Chest      *float64   `json:"chest"`
	Waist      *float64   `json:"waist"`
	Hips       *float64   `json:"hips"`
	BicepLeft  *float64   `json:"bicepLeft"`
	BicepRight *float64   `json:"bicepRight"`
	ThighLeft  *float64   `json:"thighLeft"`
	ThighRight *float64   `json:"thighRight"`
	CalfLeft   *float64   `json:"calfLeft"`
	CalfRight  *float64   `json:"calfRight"`
	Neck       *float64   `json:"neck"`
	BodyFat    *float64   `json:"bodyFat"`
	Notes      string     `json:"notes" binding:"max=1000"`
}

func (r *CreateMeasurementRequest) toDomain() *domain.BodyMeasurement {
	m := &domain.BodyMeasurement{
		Weight:     r.Weight,
		Height:     r.Height,
		Chest:      r.Chest,
		Waist:      r.Waist,
		Hips:       r.Hips,
		BicepLeft:  r.BicepLeft,
		BicepRight: r.BicepRight,
		ThighLeft:  r.ThighLeft,
		ThighRight: r.ThighRight,
		CalfLeft:   r.CalfLeft,
		CalfRight:  r.CalfRight,
		Neck:       r.Neck,
		BodyFat:    r.BodyFat,
		Notes:      r.Notes,
	}
	if r.MeasuredAt != nil {
		m.MeasuredAt = *r.MeasuredAt
	}
	return m
}

// CreateMeasurement godoc
// @Summary Log body measurements
// @Tags Measurements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param measurement body CreateMeasurementRequest true "Measurement values"
// @Success 201 {object} domain.BodyMeasurement
// @Failure 400 {object} gin.H "No values or negative values"
// @Router /measurements [post]
func (h *MeasurementHandler) CreateMeasurement(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	var req CreateMeasurementRequest
	if err = c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	m, err := h.measurementService.Create(c.Request.Context(), userID, req.toDomain())
	if err != nil {
		respondWithServiceError(c, err, "save measurement")
		return
	}
	c.JSON(http.StatusCreated, m)
}

// ListMeasurements godoc
// @Summary Measurement log, newest first, with the fields ever tracked
// @Tags Measurements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.MeasurementLog
// @Router /measurements [get]
func (h *MeasurementHandler) ListMeasurements(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	list, err := h.measurementService.List(c.Request.Context(), userID)
	if err != nil {
		respondWithServiceError(c, err, "retrieve measurements")
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeleteMeasurement godoc
// @Summary Delete one of your measurements
// @Tags Measurements
// @Security BearerAuth
// @Param id path string true "Measurement ID"
// @Success 204
// @Failure 404 {object} gin.H "Not found or not yours"
// @Router /measurements/{id} [delete]
func (h *MeasurementHandler) DeleteMeasurement(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	if err = h.measurementService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithServiceError(c, err, "delete measurement")
		return
	}
	c.Status(http.StatusNoContent)
}
