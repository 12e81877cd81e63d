package memory

import (
	"context"
	"testing"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_UniqueUsernameAndEmail(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.Users.Create(ctx, &domain.User{Username: "sam", Email: "sam@example.com", Role: domain.RoleStandard})
	require.NoError(t, err)

	_, err = store.Users.Create(ctx, &domain.User{Username: "sam", Email: "other@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	_, err = store.Users.Create(ctx, &domain.User{Username: "other", Email: "SAM@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	user := &domain.User{Username: "sam", Email: "sam@example.com", Role: domain.RoleStandard}
	_, err := store.Users.Create(ctx, user)
	require.NoError(t, err)

	found, err := store.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	found.Role = domain.RoleSuperuser

	again, err := store.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStandard, again.Role)
}

func TestRoutineRepository_ReplaceDay(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Routines.ReplaceDay(ctx, "u1", time.Monday,
		[]domain.DayMuscleGroup{{MuscleGroupID: "g1", Position: 0}},
		[]domain.DayExercise{{ExerciseID: "e2", Position: 1}, {ExerciseID: "e1", Position: 0}}))
	require.NoError(t, store.Routines.ReplaceDay(ctx, "u1", time.Tuesday,
		[]domain.DayMuscleGroup{{MuscleGroupID: "g2"}}, nil))

	groups, exercises, err := store.Routines.GetDay(ctx, "u1", time.Monday)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, exercises, 2)
	assert.Equal(t, "e1", exercises[0].ExerciseID)
	assert.Equal(t, "u1", exercises[0].UserID)

	require.NoError(t, store.Routines.ReplaceDay(ctx, "u1", time.Monday, nil, nil))
	groups, exercises, err = store.Routines.GetDay(ctx, "u1", time.Monday)
	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.Empty(t, exercises)

	groups, _, err = store.Routines.GetDay(ctx, "u1", time.Tuesday)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	err = store.Routines.ReplaceDay(ctx, "u1", time.Friday,
		[]domain.DayMuscleGroup{{MuscleGroupID: "g1"}, {MuscleGroupID: "g1"}}, nil)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestWorkoutRepository_Ordering(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	for _, offset := range []int{2, 0, 1} {
		_, err := store.Workouts.Create(ctx, &domain.WorkoutSession{
			UserID:      "u1",
			StartedAt:   base.AddDate(0, 0, offset),
			CompletedAt: base.AddDate(0, 0, offset).Add(time.Hour),
			Exercises:   []domain.WorkoutExerciseLog{{ExerciseID: "e1", ExerciseName: "Squat"}},
		})
		require.NoError(t, err)
	}
	_, err := store.Workouts.Create(ctx, &domain.WorkoutSession{UserID: "u2", StartedAt: base, CompletedAt: base})
	require.NoError(t, err)

	history, err := store.Workouts.ListByUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, base.AddDate(0, 0, 2).Add(time.Hour), history[0].CompletedAt)
	assert.Equal(t, base.Add(time.Hour), history[2].CompletedAt)

	limited, err := store.Workouts.ListByUser(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	progress, err := store.Workouts.ListByExercise(ctx, "u1", "e1")
	require.NoError(t, err)
	require.Len(t, progress, 3)
	assert.Equal(t, base.Add(time.Hour), progress[0].CompletedAt)
}

func TestMeasurementRepository_DeleteOwnOnly(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	entry := &domain.BodyMeasurement{UserID: "u1", MeasuredAt: time.Now()}
	_, err := store.Measurements.Create(ctx, entry)
	require.NoError(t, err)

	assert.ErrorIs(t, store.Measurements.Delete(ctx, entry.ID, "u2"), repository.ErrNotFound)
	assert.NoError(t, store.Measurements.Delete(ctx, entry.ID, "u1"))
	assert.ErrorIs(t, store.Measurements.Delete(ctx, entry.ID, "u1"), repository.ErrNotFound)
}
