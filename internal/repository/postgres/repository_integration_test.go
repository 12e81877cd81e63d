package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type PostgresRepositoryTestSuite struct {
	suite.Suite

	dockerPool *dockertest.Pool
	resource   *dockertest.Resource
	db         *gorm.DB
	store      *repository.Store
}

func TestPostgresRepositoryTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration tests in short mode")
	}
	suite.Run(t, new(PostgresRepositoryTestSuite))
}

func (s *PostgresRepositoryTestSuite) SetupSuite() {
	var err error
	s.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		s.T().Skipf("could not create dockertest pool: %s", err)
	}
	if err = s.dockerPool.Client.Ping(); err != nil {
		s.T().Skipf("docker not available: %s", err)
	}

	s.resource, err = s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=fitcycle",
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	s.Require().NoError(err, "run postgres container")

	dsn := fmt.Sprintf("host=localhost port=%s user=postgres dbname=fitcycle sslmode=disable",
		s.resource.GetPort("5432/tcp"))
	s.dockerPool.MaxWait = 60 * time.Second
	err = s.dockerPool.Retry(func() error {
		var openErr error
		s.db, openErr = Open(dsn)
		return openErr
	})
	s.Require().NoError(err, "connect to postgres container")
	s.store = NewStore(s.db)
}

func (s *PostgresRepositoryTestSuite) TearDownSuite() {
	if s.db != nil {
		if err := Close(s.db); err != nil {
			fmt.Printf("postgres close: %s\n", err)
		}
	}
	if s.resource != nil {
		if err := s.dockerPool.Purge(s.resource); err != nil {
			fmt.Printf("postgres teardown: %s\n", err)
		}
	}
}

func (s *PostgresRepositoryTestSuite) SetupTest() {
	for _, table := range []string{
		"workout_exercise_logs", "workout_sessions", "day_exercises", "day_muscle_groups",
		"exercises", "muscle_groups", "body_measurements", "users",
	} {
		s.Require().NoError(s.db.Exec("DELETE FROM " + table).Error)
	}
}

func (s *PostgresRepositoryTestSuite) TestRoutine_ReplaceDayIsScopedToDay() {
	ctx := context.Background()
	user := &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash", Role: domain.RoleStandard}
	_, err := s.store.Users.Create(ctx, user)
	s.Require().NoError(err)

	group := &domain.MuscleGroup{Name: "Chest"}
	_, err = s.store.MuscleGroups.Create(ctx, group)
	s.Require().NoError(err)
	bench := &domain.Exercise{Name: "Bench Press", MuscleGroupID: group.ID}
	_, err = s.store.Exercises.Create(ctx, bench)
	s.Require().NoError(err)

	for _, day := range []time.Weekday{time.Monday, time.Wednesday} {
		s.Require().NoError(s.store.Routines.ReplaceDay(ctx, user.ID, day,
			[]domain.DayMuscleGroup{{MuscleGroupID: group.ID}},
			[]domain.DayExercise{{ExerciseID: bench.ID, SetDetails: domain.SetDetails{{Reps: 5, Weight: 80}}, Sets: 1, Reps: 5, Weight: 80}}))
	}
	s.Require().NoError(s.store.Routines.ReplaceDay(ctx, user.ID, time.Monday, nil, nil))

	groups, exercises, err := s.store.Routines.GetDay(ctx, user.ID, time.Monday)
	s.Require().NoError(err)
	s.Empty(groups)
	s.Empty(exercises)

	groups, exercises, err = s.store.Routines.GetDay(ctx, user.ID, time.Wednesday)
	s.Require().NoError(err)
	s.Len(groups, 1)
	s.Require().Len(exercises, 1)
	s.Equal(domain.SetDetails{{Reps: 5, Weight: 80}}, exercises[0].SetDetails)
}

func (s *PostgresRepositoryTestSuite) TestWorkout_ListByExercise() {
	ctx := context.Background()
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"Squat", "Deadlift", "Squat"} {
		_, err := s.store.Workouts.Create(ctx, &domain.WorkoutSession{
			UserID:      "user-1",
			Day:         time.Monday,
			StartedAt:   base.AddDate(0, 0, i),
			CompletedAt: base.AddDate(0, 0, i).Add(time.Hour),
			Exercises: []domain.WorkoutExerciseLog{
				{ExerciseID: name, ExerciseName: name, Sets: 3, Reps: 5, Weight: 100},
			},
		})
		s.Require().NoError(err)
	}

	sessions, err := s.store.Workouts.ListByExercise(ctx, "user-1", "Squat")
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.True(sessions[0].CompletedAt.Before(sessions[1].CompletedAt))

	all, err := s.store.Workouts.ListByUser(ctx, "user-1", 0)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *PostgresRepositoryTestSuite) TestUser_DuplicateEmail() {
	ctx := context.Background()
	_, err := s.store.Users.Create(ctx, &domain.User{Username: "a", Email: "same@example.com", PasswordHash: "h", Role: domain.RoleStandard})
	s.Require().NoError(err)
	_, err = s.store.Users.Create(ctx, &domain.User{Username: "b", Email: "same@example.com", PasswordHash: "h", Role: domain.RoleStandard})
	s.ErrorIs(err, repository.ErrDuplicate)
}
