package api

import (
	"net/http"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler serves the shared catalog: muscle groups and exercises.
type ExerciseHandler struct {
	catalogService service.CatalogService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(catalogService service.CatalogService) *ExerciseHandler {
	return &ExerciseHandler{catalogService: catalogService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseRequest is used for both create and update.
type ExerciseRequest struct {
	Name          string `json:"name" binding:"required"`
	MuscleGroupID string `json:"muscleGroupId" binding:"required"`
	ImageURL      string `json:"imageUrl" binding:"omitempty,url"`
}

type ImageUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	MuscleGroupID string    `json:"muscleGroupId"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:            ex.ID,
		Name:          ex.Name,
		MuscleGroupID: ex.MuscleGroupID,
		ImageURL:      ex.ImageURL,
		CreatedAt:     ex.CreatedAt,
		UpdatedAt:     ex.UpdatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// --- Handler Methods ---

// ListMuscleGroups godoc
// @Summary List muscle groups
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.MuscleGroup
// @Router /musclegroups [get]
func (h *ExerciseHandler) ListMuscleGroups(c *gin.Context) {
	groups, err := h.catalogService.ListMuscleGroups(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err, "retrieve muscle groups")
		return
	}
	if groups == nil {
		groups = []domain.MuscleGroup{}
	}
	c.JSON(http.StatusOK, groups)
}

// ListExercises godoc
// @Summary List exercises
// @Description All exercises, or those of one muscle group.
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param muscleGroupId query string false "Filter by muscle group"
// @Success 200 {array} ExerciseResponse
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.catalogService.ListExercises(c.Request.Context(), c.Query("muscleGroupId"))
	if err != nil {
		respondWithServiceError(c, err, "retrieve exercises")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// CreateExercise godoc
// @Summary Create a new exercise
// @Description Adds an exercise to the shared catalog.
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse "Exercise created successfully"
// @Failure 400 {object} gin.H "Invalid input or unknown muscle group"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	exercise, err := h.catalogService.CreateExercise(c.Request.Context(), userID, service.ExerciseInput{
		Name:          req.Name,
		MuscleGroupID: req.MuscleGroupID,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		respondWithServiceError(c, err, "create exercise")
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// UpdateExercise godoc
// @Summary Rename or re-categorize an exercise
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 200 {object} ExerciseResponse
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{id} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.catalogService.UpdateExercise(c.Request.Context(), c.Param("id"), service.ExerciseInput{
		Name:          req.Name,
		MuscleGroupID: req.MuscleGroupID,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		respondWithServiceError(c, err, "update exercise")
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// CreateImageUploadURL godoc
// @Summary Get a presigned upload URL for an exercise image
// @Description PUT the image to uploadUrl, then store imageUrl on the exercise.
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ImageUploadRequest true "Image content type"
// @Success 200 {object} service.ImageUpload
// @Failure 400 {object} gin.H "Unsupported content type"
// @Failure 503 {object} gin.H "Object storage not configured"
// @Router /exercises/image-upload-url [post]
func (h *ExerciseHandler) CreateImageUploadURL(c *gin.Context) {
	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	upload, err := h.catalogService.CreateImageUpload(c.Request.Context(), req.ContentType)
	if err != nil {
		respondWithServiceError(c, err, "create upload URL")
		return
	}
	c.JSON(http.StatusOK, upload)
}
