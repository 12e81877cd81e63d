package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fitcycle/server/internal/api"
	"fitcycle/server/internal/cache"
	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository/memory"
	"fitcycle/server/internal/service"
	"fitcycle/server/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requestCounter counts requests per "METHOD path".
type requestCounter struct {
	next http.Handler
	mu   sync.Mutex
	hits map[string]int
}

func (rc *requestCounter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc.mu.Lock()
	rc.hits[r.Method+" "+r.URL.Path]++
	rc.mu.Unlock()
	rc.next.ServeHTTP(w, r)
}

func (rc *requestCounter) count(key string) int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.hits[key]
}

func newFitCycleServer(t *testing.T) (*Client, *requestCounter) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	catalog := service.NewCatalogService(store.MuscleGroups, store.Exercises, cache.NewCatalogCache(1, time.Minute), storage.NewDisabledStorage())
	require.NoError(t, catalog.Seed(context.Background()))

	const secret = "client-test-secret"
	router := api.NewRouter(secret, api.Services{
		Auth:         service.NewAuthService(store.Users, secret, time.Hour, 24*time.Hour),
		Users:        service.NewUserService(store.Users),
		Catalog:      catalog,
		Routines:     service.NewRoutineService(store.Routines, catalog),
		Workouts:     service.NewWorkoutService(store.Workouts),
		Measurements: service.NewMeasurementService(store.Measurements),
	}, api.RouterOptions{})

	counter := &requestCounter{next: router, hits: make(map[string]int)}
	srv := httptest.NewServer(counter)
	t.Cleanup(srv.Close)

	return New(Config{BaseURL: srv.URL, HTTPClient: srv.Client()}), counter
}

func findByName(t *testing.T, exercises []Exercise, name string) Exercise {
	t.Helper()
	for _, ex := range exercises {
		if ex.Name == name {
			return ex
		}
	}
	t.Fatalf("exercise %q missing", name)
	return Exercise{}
}

func TestClient_CatalogCache(t *testing.T) {
	c, counter := newFitCycleServer(t)
	ctx := context.Background()
	_, err := c.Register(ctx, "mia", "mia@example.com", "secret123")
	require.NoError(t, err)

	groups, err := c.MuscleGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, len(domain.DefaultMuscleGroups))
	_, err = c.MuscleGroups(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counter.count("GET /api/v1/musclegroups"))

	all, err := c.Exercises(ctx, "")
	require.NoError(t, err)
	squat := findByName(t, all, "Squat")

	legs, err := c.Exercises(ctx, squat.MuscleGroupID)
	require.NoError(t, err)
	assert.Len(t, legs, len(domain.DefaultExercises["Legs"]))
	for _, ex := range legs {
		assert.Equal(t, squat.MuscleGroupID, ex.MuscleGroupID)
	}
	assert.Equal(t, 1, counter.count("GET /api/v1/exercises"))

	created, err := c.CreateExercise(ctx, ExerciseInput{Name: "Goblet Squat", MuscleGroupID: squat.MuscleGroupID})
	require.NoError(t, err)

	legs, err = c.Exercises(ctx, squat.MuscleGroupID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, findByName(t, legs, "Goblet Squat").ID)
	assert.Equal(t, 2, counter.count("GET /api/v1/exercises"))

	// muscle groups were not invalidated
	_, err = c.MuscleGroups(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counter.count("GET /api/v1/musclegroups"))
}

func TestClient_RoutineAndWorkoutFlow(t *testing.T) {
	c, _ := newFitCycleServer(t)
	ctx := context.Background()
	_, err := c.Register(ctx, "noah", "noah@example.com", "secret123")
	require.NoError(t, err)

	exercises, err := c.Exercises(ctx, "")
	require.NoError(t, err)
	bench := findByName(t, exercises, "Bench Press")

	routine, err := c.SetDayRoutine(ctx, time.Wednesday, DayRoutineInput{
		MuscleGroupIDs: []string{bench.MuscleGroupID},
		Exercises: []RoutineExercise{{
			ExerciseID: bench.ID,
			SetDetails: SetDetails{{Reps: 10, Weight: 60}, {Reps: 8, Weight: 70}},
		}},
	})
	require.NoError(t, err)
	require.Len(t, routine.Exercises, 1)
	assert.Equal(t, 2, routine.Exercises[0].Sets)
	assert.Equal(t, 70.0, routine.Exercises[0].Weight)

	week, err := c.WeekRoutine(ctx)
	require.NoError(t, err)
	require.Len(t, week, 5)
	assert.Equal(t, time.Wednesday, week[2].Day)
	assert.Len(t, week[2].Exercises, 1)

	completed := time.Now().UTC().Add(-time.Hour)
	summary := c.CompleteWorkout(ctx, WorkoutSession{
		Day:         completed.Weekday(),
		StartedAt:   completed.Add(-45 * time.Minute),
		CompletedAt: completed,
		Exercises: []WorkoutExerciseLog{{
			ExerciseID:      bench.ID,
			ExerciseName:    bench.Name,
			MuscleGroupName: "Chest",
			SetDetails:      SetDetails{{Reps: 10, Weight: 60}, {Reps: 8, Weight: 70}},
		}},
	})
	assert.True(t, summary.Saved)
	assert.NotEmpty(t, summary.SessionID)
	assert.Equal(t, 45*time.Minute, summary.Duration)
	assert.Equal(t, 2, summary.TotalSets)
	assert.Equal(t, 18, summary.TotalReps)
	assert.Equal(t, 1160.0, summary.TotalVolume)

	history, err := c.WorkoutHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, summary.SessionID, history[0].ID)

	stats, err := c.WorkoutStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalWorkouts)

	progress, err := c.ExerciseProgress(ctx, bench.ID)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, 70.0, progress[0].Weight)
}

func TestClient_CompleteWorkoutSwallowsSaveFailure(t *testing.T) {
	c, counter := newFitCycleServer(t)
	ctx := context.Background()
	_, err := c.Register(ctx, "olga", "olga@example.com", "secret123")
	require.NoError(t, err)

	now := time.Now().UTC()
	summary := c.CompleteWorkout(ctx, WorkoutSession{
		Day:         now.Weekday(),
		StartedAt:   now,
		CompletedAt: now.Add(-time.Minute),
		Exercises: []WorkoutExerciseLog{{
			ExerciseID: "x", ExerciseName: "Plank", Sets: 3, Reps: 1,
		}},
	})
	assert.False(t, summary.Saved)
	assert.Equal(t, 3, summary.TotalSets)
	assert.Equal(t, 1, counter.count("POST /api/v1/workouts"))

	history, err := c.WorkoutHistory(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestClient_RefreshAgainstServer(t *testing.T) {
	c, counter := newFitCycleServer(t)
	ctx := context.Background()
	session, err := c.Login(ctx, "nobody", "secret123")
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Nil(t, session)

	session, err = c.Register(ctx, "pete", "pete@example.com", "secret123")
	require.NoError(t, err)

	c.SetTokens("stale-access", session.RefreshToken)
	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pete", me.Username)
	assert.Equal(t, 1, counter.count("POST /api/v1/auth/refresh"))

	access, refresh := c.Tokens()
	assert.NotEqual(t, "stale-access", access)
	assert.NotEqual(t, session.RefreshToken, refresh)
}

func TestClient_Measurements(t *testing.T) {
	c, _ := newFitCycleServer(t)
	ctx := context.Background()
	_, err := c.Register(ctx, "quinn", "quinn@example.com", "secret123")
	require.NoError(t, err)

	weight := 72.5
	created, err := c.CreateMeasurement(ctx, BodyMeasurement{Weight: &weight, Notes: "morning"})
	require.NoError(t, err)
	assert.False(t, created.MeasuredAt.IsZero())

	log, err := c.Measurements(ctx)
	require.NoError(t, err)
	require.Len(t, log.Measurements, 1)
	assert.Equal(t, []string{"weight"}, log.TrackedFields)

	require.NoError(t, c.DeleteMeasurement(ctx, created.ID))
	log, err = c.Measurements(ctx)
	require.NoError(t, err)
	assert.Empty(t, log.Measurements)
}

func TestSummarize_FlatValues(t *testing.T) {
	start := time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC)
	summary := Summarize(WorkoutSession{
		Day:         time.Monday,
		StartedAt:   start,
		CompletedAt: start.Add(30 * time.Minute),
		Exercises: []WorkoutExerciseLog{
			{ExerciseName: "Squat", Sets: 3, Reps: 5, Weight: 100},
			{ExerciseName: "Plank", Sets: 2, Reps: 1},
		},
	})
	assert.Equal(t, WorkoutSummary{
		Day:         time.Monday,
		Duration:    30 * time.Minute,
		Exercises:   2,
		TotalSets:   5,
		TotalReps:   17,
		TotalVolume: 1500,
	}, summary)
}
