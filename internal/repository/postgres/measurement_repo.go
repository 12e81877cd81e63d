package postgres

import (
	"context"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type measurementRepository struct {
	db *gorm.DB
}

func NewMeasurementRepository(db *gorm.DB) repository.MeasurementRepository {
	return &measurementRepository{db: db}
}

func (r *measurementRepository) Create(ctx context.Context, entry *domain.BodyMeasurement) (string, error) {
	m := measurementModel{
		ID:         uuid.NewString(),
		UserID:     entry.UserID,
		MeasuredAt: entry.MeasuredAt.UTC(),
		Weight:     entry.Weight,
		Height:     entry.Height,
		Chest:      entry.Chest,
		Waist:      entry.Waist,
		Hips:       entry.Hips,
		BicepLeft:  entry.BicepLeft,
		BicepRight: entry.BicepRight,
		ThighLeft:  entry.ThighLeft,
		ThighRight: entry.ThighRight,
		CalfLeft:   entry.CalfLeft,
		CalfRight:  entry.CalfRight,
		Neck:       entry.Neck,
		BodyFat:    entry.BodyFat,
		Notes:      entry.Notes,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return "", translate(err)
	}
	entry.ID = m.ID
	entry.CreatedAt = m.CreatedAt
	return m.ID, nil
}

func (r *measurementRepository) ListByUser(ctx context.Context, userID string) ([]domain.BodyMeasurement, error) {
	var models []measurementModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("measured_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entries := make([]domain.BodyMeasurement, 0, len(models))
	for i := range models {
		entries = append(entries, models[i].toDomain())
	}
	return entries, nil
}

func (r *measurementRepository) Delete(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).Delete(&measurementModel{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
