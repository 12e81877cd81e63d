package repository

import (
	"context"
	"time"

	"fitcycle/server/internal/domain"
)

//go:generate mockgen -source=repository.go -destination=mocks/repository_mock.go -package=mocks

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrInvalidID    = RepositoryError("invalid id")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (string, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// Update writes username, email, role and password hash.
	Update(ctx context.Context, user *domain.User) error
	// SetRefreshToken overwrites the stored refresh token, invalidating the previous one.
	SetRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// MuscleGroupRepository reads and seeds the static muscle group catalog.
type MuscleGroupRepository interface {
	Create(ctx context.Context, group *domain.MuscleGroup) (string, error)
	List(ctx context.Context) ([]domain.MuscleGroup, error)
}

// ExerciseRepository defines the interface for the shared exercise catalog.
// There is deliberately no Delete.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	// List returns all exercises, or only those of one muscle group when muscleGroupID is set.
	List(ctx context.Context, muscleGroupID string) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
}

// RoutineRepository stores the per-user per-weekday routine rows.
type RoutineRepository interface {
	// GetDay returns the rows of one day ordered by position.
	GetDay(ctx context.Context, userID string, day time.Weekday) ([]domain.DayMuscleGroup, []domain.DayExercise, error)
	// ReplaceDay deletes every row of (userID, day) and inserts the given ones.
	ReplaceDay(ctx context.Context, userID string, day time.Weekday, groups []domain.DayMuscleGroup, exercises []domain.DayExercise) error
}

// WorkoutRepository defines the append-only store of workout sessions.
type WorkoutRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (string, error)
	// ListByUser returns sessions by completedAt descending. limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.WorkoutSession, error)
	// ListByExercise returns sessions containing a log of exerciseID, by completedAt ascending.
	ListByExercise(ctx context.Context, userID, exerciseID string) ([]domain.WorkoutSession, error)
}

// MeasurementRepository stores body measurement entries.
type MeasurementRepository interface {
	Create(ctx context.Context, measurement *domain.BodyMeasurement) (string, error)
	// ListByUser returns entries by measuredAt descending.
	ListByUser(ctx context.Context, userID string) ([]domain.BodyMeasurement, error)
	// Delete removes an entry only if it belongs to userID.
	Delete(ctx context.Context, id, userID string) error
}

// Store bundles every repository of one backend.
type Store struct {
	Users        UserRepository
	MuscleGroups MuscleGroupRepository
	Exercises    ExerciseRepository
	Routines     RoutineRepository
	Workouts     WorkoutRepository
	Measurements MeasurementRepository
}
