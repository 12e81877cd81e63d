package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func squatLog(sets, reps int, weight float64) domain.WorkoutExerciseLog {
	return domain.WorkoutExerciseLog{
		ExerciseID:      "squat",
		ExerciseName:    "Squat",
		MuscleGroupName: "Legs",
		Sets:            sets,
		Reps:            reps,
		Weight:          weight,
	}
}

func newSession(completedAt time.Time, logs ...domain.WorkoutExerciseLog) *domain.WorkoutSession {
	return &domain.WorkoutSession{
		Day:         completedAt.Weekday(),
		StartedAt:   completedAt.Add(-time.Hour),
		CompletedAt: completedAt,
		Exercises:   logs,
	}
}

func TestWorkoutService_SaveWorkoutValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	_, err := env.workout.SaveWorkout(ctx, "u1", nil)
	assert.ErrorIs(t, err, ErrInvalidWorkout)

	bad := newSession(now)
	bad.Day = 9
	_, err = env.workout.SaveWorkout(ctx, "u1", bad)
	assert.ErrorIs(t, err, ErrInvalidWorkout)

	backwards := newSession(now)
	backwards.StartedAt = now.Add(time.Minute)
	_, err = env.workout.SaveWorkout(ctx, "u1", backwards)
	assert.ErrorIs(t, err, ErrInvalidWorkout)

	missingTimes := &domain.WorkoutSession{Day: time.Monday}
	_, err = env.workout.SaveWorkout(ctx, "u1", missingTimes)
	assert.ErrorIs(t, err, ErrInvalidWorkout)

	unnamed := newSession(now, domain.WorkoutExerciseLog{ExerciseID: "x"})
	_, err = env.workout.SaveWorkout(ctx, "u1", unnamed)
	assert.ErrorIs(t, err, ErrInvalidWorkout)
}

func TestWorkoutService_SaveWorkout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	loc := time.FixedZone("UTC+2", 2*60*60)
	completed := time.Date(2024, 3, 4, 19, 0, 0, 0, loc)

	log := squatLog(1, 1, 1)
	log.SetDetails = domain.SetDetails{{Reps: 5, Weight: 100}, {Reps: 3, Weight: 110}}
	in := newSession(completed, log)
	in.ID = "client-chosen"
	in.UserID = "someone-else"

	saved, err := env.workout.SaveWorkout(ctx, "u1", in)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.NotEqual(t, "client-chosen", saved.ID)
	assert.Equal(t, "u1", saved.UserID)
	assert.Equal(t, time.UTC, saved.CompletedAt.Location())
	assert.True(t, completed.Equal(saved.CompletedAt))
	assert.Equal(t, 2, saved.Exercises[0].Sets)
	assert.Equal(t, 5, saved.Exercises[0].Reps)
	assert.Equal(t, 110.0, saved.Exercises[0].Weight)

	history, err := env.workout.GetHistory(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, saved.ID, history[0].ID)

	other, err := env.workout.GetHistory(ctx, "u2", 0)
	require.NoError(t, err)
	assert.NotNil(t, other)
	assert.Empty(t, other)
}

func TestWorkoutService_HistoryLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockWorkoutRepository(ctrl)
	svc := NewWorkoutService(repoMock)
	ctx := context.Background()

	gomock.InOrder(
		repoMock.EXPECT().ListByUser(gomock.Any(), "u1", DefaultHistoryLimit).Return(nil, nil),
		repoMock.EXPECT().ListByUser(gomock.Any(), "u1", 20).Return(nil, nil),
		repoMock.EXPECT().ListByUser(gomock.Any(), "u1", MaxHistoryLimit).Return(nil, nil),
		repoMock.EXPECT().ListByUser(gomock.Any(), "u1", DefaultHistoryLimit).Return(nil, errors.New("db down")),
	)

	for _, limit := range []int{0, 20, 10000} {
		sessions, err := svc.GetHistory(ctx, "u1", limit)
		require.NoError(t, err)
		assert.NotNil(t, sessions)
	}
	_, err := svc.GetHistory(ctx, "u1", -1)
	assert.EqualError(t, err, "list workouts: db down")
}

// One session logs Squat at 60 and at 80: the stats series keeps the session
// max while the progress rows keep both.
func TestWorkoutService_SessionMaxVersusRawProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	monday := time.Now().UTC().Add(-24 * time.Hour)

	_, err := env.workout.SaveWorkout(ctx, "u1", newSession(monday.Add(-7*24*time.Hour), squatLog(3, 10, 0)))
	require.NoError(t, err)
	_, err = env.workout.SaveWorkout(ctx, "u1", newSession(monday, squatLog(3, 10, 60), squatLog(1, 10, 80)))
	require.NoError(t, err)

	progress, err := env.workout.GetExerciseProgress(ctx, "u1", "squat")
	require.NoError(t, err)
	require.Len(t, progress, 2)
	assert.Equal(t, 60.0, progress[0].Weight)
	assert.Equal(t, 3, progress[0].Sets)
	assert.Equal(t, 80.0, progress[1].Weight)
	assert.Equal(t, 1, progress[1].Sets)

	summary, err := env.workout.GetStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalWorkouts)
	assert.Equal(t, 3+3+1, summary.TotalSets)
	assert.Equal(t, 30+30+10, summary.TotalReps)
	require.Len(t, summary.WeightProgression, 1)
	series := summary.WeightProgression[0]
	assert.Equal(t, "Squat", series.ExerciseName)
	require.Len(t, series.Points, 1)
	assert.Equal(t, 80.0, series.Points[0].Weight)

	empty, err := env.workout.GetExerciseProgress(ctx, "u1", "bench")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestWorkoutService_StatsUsesClock(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockWorkoutRepository(ctrl)
	svc := NewWorkoutService(repoMock).(*workoutService)
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repoMock.EXPECT().ListByUser(gomock.Any(), "u1", 0).Return([]domain.WorkoutSession{
		*newSession(now.Add(-time.Hour), squatLog(1, 5, 100)),
		*newSession(now.Add(-10*24*time.Hour), squatLog(1, 5, 90)),
	}, nil)

	summary, err := svc.GetStats(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, summary.Weekly, 4)
	last := summary.Weekly[len(summary.Weekly)-1]
	assert.Equal(t, "this week", last.Label)
	assert.Equal(t, 1, last.Count)
	assert.Equal(t, "1 weeks ago", summary.Weekly[2].Label)
	assert.Equal(t, 1, summary.Weekly[2].Count)
}

func TestWorkoutService_RejectsNegativeSetDetails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	bench := squatLog(0, 0, 0)
	bench.SetDetails = domain.SetDetails{{Reps: 10, Weight: 60}, {Reps: -50, Weight: 60}}
	_, err := env.workout.SaveWorkout(ctx, "u1", newSession(now, bench))
	assert.ErrorIs(t, err, ErrInvalidWorkout)

	bench.SetDetails = domain.SetDetails{{Reps: 5, Weight: -1}}
	_, err = env.workout.SaveWorkout(ctx, "u1", newSession(now, bench))
	assert.ErrorIs(t, err, ErrInvalidWorkout)

	summary, err := env.workout.GetStats(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalWorkouts)
	assert.Zero(t, summary.TotalReps)
}
