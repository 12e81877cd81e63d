package postgres

import (
	"context"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type muscleGroupRepository struct {
	db *gorm.DB
}

func NewMuscleGroupRepository(db *gorm.DB) repository.MuscleGroupRepository {
	return &muscleGroupRepository{db: db}
}

func (r *muscleGroupRepository) Create(ctx context.Context, group *domain.MuscleGroup) (string, error) {
	m := muscleGroupModel{ID: uuid.NewString(), Name: group.Name, Seq: time.Now().UnixNano()}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return "", translate(err)
	}
	group.ID = m.ID
	return m.ID, nil
}

func (r *muscleGroupRepository) List(ctx context.Context) ([]domain.MuscleGroup, error) {
	var models []muscleGroupModel
	if err := r.db.WithContext(ctx).Order("seq").Find(&models).Error; err != nil {
		return nil, err
	}
	groups := make([]domain.MuscleGroup, 0, len(models))
	for _, m := range models {
		groups = append(groups, domain.MuscleGroup{ID: m.ID, Name: m.Name})
	}
	return groups, nil
}

type exerciseRepository struct {
	db *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) repository.ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (string, error) {
	m := exerciseModel{
		ID:            uuid.NewString(),
		Name:          exercise.Name,
		MuscleGroupID: exercise.MuscleGroupID,
		ImageURL:      exercise.ImageURL,
		CreatedBy:     exercise.CreatedBy,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return "", translate(err)
	}
	exercise.ID = m.ID
	exercise.CreatedAt = m.CreatedAt
	exercise.UpdatedAt = m.UpdatedAt
	return m.ID, nil
}

func (r *exerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	var m exerciseModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	exercise := m.toDomain()
	return &exercise, nil
}

func (r *exerciseRepository) List(ctx context.Context, muscleGroupID string) ([]domain.Exercise, error) {
	query := r.db.WithContext(ctx).Order("name")
	if muscleGroupID != "" {
		query = query.Where("muscle_group_id = ?", muscleGroupID)
	}
	var models []exerciseModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	exercises := make([]domain.Exercise, 0, len(models))
	for i := range models {
		exercises = append(exercises, models[i].toDomain())
	}
	return exercises, nil
}

func (r *exerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&exerciseModel{}).Where("id = ?", exercise.ID).Updates(map[string]interface{}{
		"name":            exercise.Name,
		"muscle_group_id": exercise.MuscleGroupID,
		"image_url":       exercise.ImageURL,
		"updated_at":      now,
	})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	exercise.UpdatedAt = now
	return nil
}
