package api

import (
	"net/http"
	"testing"

	"fitcycle/server/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_RegisterLoginRefreshMe(t *testing.T) {
	s := newTestServer(t, nil)

	registered := s.register("alice")
	assert.Equal(t, "alice", registered.User.Username)
	assert.Equal(t, domain.RoleStandard, registered.User.Role)
	assert.NotEmpty(t, registered.RefreshToken)

	rec := s.do(http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/auth/register", "", `{"username":"bob","email":"nope","password":"secret123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Identifier: "alice@example.com", Password: "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[AuthResponse](t, rec)

	rec = s.do(http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Identifier: "alice", Password: "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, decode[gin.H](t, rec), "error")

	rec = s.do(http.MethodPost, "/api/v1/auth/refresh", "", RefreshRequest{RefreshToken: login.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)
	refreshed := decode[AuthResponse](t, rec)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	rec = s.do(http.MethodPost, "/api/v1/auth/refresh", "", RefreshRequest{RefreshToken: login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/auth/me", refreshed.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[UserResponse](t, rec)
	assert.Equal(t, registered.User.ID, me.ID)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAuthMiddleware_RejectsMissingOrBadTokens(t *testing.T) {
	s := newTestServer(t, nil)

	for _, header := range []string{"", "garbage"} {
		req := s.do(http.MethodGet, "/api/v1/routines", header, nil)
		assert.Equal(t, http.StatusUnauthorized, req.Code)
	}

	rec := s.do(http.MethodGet, "/api/v1/workouts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization header is missing", decode[gin.H](t, rec)["error"])
}

func TestUserHandler_SuperuserOnly(t *testing.T) {
	s := newTestServer(t, nil)
	standard := s.register("carol")
	rootToken := s.superuserToken()

	rec := s.do(http.MethodGet, "/api/v1/users", standard.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/users", rootToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]UserResponse](t, rec), 2)

	rec = s.do(http.MethodPost, "/api/v1/users", rootToken, CreateUserRequest{Username: "coach", Email: "coach@example.com", Password: "secret123", Role: "admin"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	coach := decode[UserResponse](t, rec)
	assert.Equal(t, domain.RoleAdmin, coach.Role)

	rec = s.do(http.MethodPost, "/api/v1/users", rootToken, CreateUserRequest{Username: "x", Email: "x@example.com", Password: "secret123", Role: "owner"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	role := "superuser"
	rec = s.do(http.MethodPut, "/api/v1/users/"+coach.ID, rootToken, UpdateUserRequest{Role: &role})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.RoleSuperuser, decode[UserResponse](t, rec).Role)

	rec = s.do(http.MethodGet, "/api/v1/users/missing", rootToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/auth/me", rootToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rootID := decode[UserResponse](t, rec).ID

	rec = s.do(http.MethodDelete, "/api/v1/users/"+rootID, rootToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/users/"+standard.User.ID, rootToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodDelete, "/api/v1/users/"+standard.User.ID, rootToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExerciseHandler_Catalog(t *testing.T) {
	s := newTestServer(t, nil)
	user := s.register("dave")
	chest := s.groupByName("Chest")

	rec := s.do(http.MethodGet, "/api/v1/musclegroups", user.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.MuscleGroup](t, rec), len(domain.DefaultMuscleGroups))

	rec = s.do(http.MethodGet, "/api/v1/exercises?muscleGroupId="+chest.ID, user.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ExerciseResponse](t, rec), len(domain.DefaultExercises["Chest"]))

	rec = s.do(http.MethodPost, "/api/v1/exercises", user.AccessToken, ExerciseRequest{Name: "Svend Press", MuscleGroupID: chest.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[ExerciseResponse](t, rec)

	rec = s.do(http.MethodPost, "/api/v1/exercises", user.AccessToken, ExerciseRequest{Name: "Ghost", MuscleGroupID: "unknown"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/exercises/"+created.ID, user.AccessToken, ExerciseRequest{Name: "Renamed", MuscleGroupID: chest.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rootToken := s.superuserToken()
	rec = s.do(http.MethodPut, "/api/v1/exercises/"+created.ID, rootToken, ExerciseRequest{Name: "Renamed", MuscleGroupID: chest.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", decode[ExerciseResponse](t, rec).Name)

	rec = s.do(http.MethodPut, "/api/v1/exercises/missing", rootToken, ExerciseRequest{Name: "Renamed", MuscleGroupID: chest.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/exercises/image-upload-url", user.AccessToken, ImageUploadRequest{ContentType: "image/png"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
