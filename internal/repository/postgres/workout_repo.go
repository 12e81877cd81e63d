package postgres

import (
	"context"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type workoutRepository struct {
	db *gorm.DB
}

func NewWorkoutRepository(db *gorm.DB) repository.WorkoutRepository {
	return &workoutRepository{db: db}
}

func (r *workoutRepository) Create(ctx context.Context, session *domain.WorkoutSession) (string, error) {
	m := workoutSessionModel{
		ID:          uuid.NewString(),
		UserID:      session.UserID,
		Day:         int(session.Day),
		StartedAt:   session.StartedAt.UTC(),
		CompletedAt: session.CompletedAt.UTC(),
		Exercises:   make([]workoutExerciseLogModel, 0, len(session.Exercises)),
	}
	for i, l := range session.Exercises {
		m.Exercises = append(m.Exercises, workoutExerciseLogModel{
			ExerciseID:      l.ExerciseID,
			ExerciseName:    l.ExerciseName,
			MuscleGroupName: l.MuscleGroupName,
			Sets:            l.Sets,
			Reps:            l.Reps,
			Weight:          l.Weight,
			SetDetails:      l.SetDetails,
			Position:        i,
		})
	}

	// Creates the session and its logs in one transaction.
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return "", translate(err)
	}
	session.ID = m.ID
	session.CreatedAt = m.CreatedAt
	return m.ID, nil
}

func preloadLogs(db *gorm.DB) *gorm.DB {
	return db.Preload("Exercises", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position")
	})
}

func toSessions(models []workoutSessionModel) []domain.WorkoutSession {
	sessions := make([]domain.WorkoutSession, 0, len(models))
	for i := range models {
		sessions = append(sessions, models[i].toDomain())
	}
	return sessions
}

func (r *workoutRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.WorkoutSession, error) {
	query := preloadLogs(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var models []workoutSessionModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return toSessions(models), nil
}

func (r *workoutRepository) ListByExercise(ctx context.Context, userID, exerciseID string) ([]domain.WorkoutSession, error) {
	withExercise := r.db.Model(&workoutExerciseLogModel{}).
		Select("session_id").
		Where("exercise_id = ?", exerciseID)

	var models []workoutSessionModel
	err := preloadLogs(r.db.WithContext(ctx)).
		Where("user_id = ? AND id IN (?)", userID, withExercise).
		Order("completed_at").
		Order("created_at").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toSessions(models), nil
}
