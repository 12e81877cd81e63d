package postgres

import (
	"context"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"

	"gorm.io/gorm"
)

type routineRepository struct {
	db *gorm.DB
}

func NewRoutineRepository(db *gorm.DB) repository.RoutineRepository {
	return &routineRepository{db: db}
}

func (r *routineRepository) GetDay(ctx context.Context, userID string, day time.Weekday) ([]domain.DayMuscleGroup, []domain.DayExercise, error) {
	var groupModels []dayMuscleGroupModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND day = ?", userID, int(day)).
		Order("position").
		Find(&groupModels).Error
	if err != nil {
		return nil, nil, err
	}

	var exerciseModels []dayExerciseModel
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND day = ?", userID, int(day)).
		Order("position").
		Find(&exerciseModels).Error
	if err != nil {
		return nil, nil, err
	}

	groups := make([]domain.DayMuscleGroup, 0, len(groupModels))
	for _, m := range groupModels {
		groups = append(groups, domain.DayMuscleGroup{
			UserID:        m.UserID,
			Day:           day,
			MuscleGroupID: m.MuscleGroupID,
			Position:      m.Position,
		})
	}
	exercises := make([]domain.DayExercise, 0, len(exerciseModels))
	for _, m := range exerciseModels {
		exercises = append(exercises, domain.DayExercise{
			UserID:     m.UserID,
			Day:        day,
			ExerciseID: m.ExerciseID,
			Sets:       m.Sets,
			Reps:       m.Reps,
			Weight:     m.Weight,
			SetDetails: m.SetDetails,
			Position:   m.Position,
		})
	}
	return groups, exercises, nil
}

// ReplaceDay swaps all rows of (userID, day) inside a single transaction.
func (r *routineRepository) ReplaceDay(ctx context.Context, userID string, day time.Weekday, groups []domain.DayMuscleGroup, exercises []domain.DayExercise) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND day = ?", userID, int(day)).Delete(&dayMuscleGroupModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND day = ?", userID, int(day)).Delete(&dayExerciseModel{}).Error; err != nil {
			return err
		}

		if len(groups) > 0 {
			groupModels := make([]dayMuscleGroupModel, 0, len(groups))
			for _, g := range groups {
				groupModels = append(groupModels, dayMuscleGroupModel{
					UserID:        userID,
					Day:           int(day),
					MuscleGroupID: g.MuscleGroupID,
					Position:      g.Position,
				})
			}
			if err := tx.Create(&groupModels).Error; err != nil {
				return translate(err)
			}
		}

		if len(exercises) > 0 {
			exerciseModels := make([]dayExerciseModel, 0, len(exercises))
			for _, e := range exercises {
				exerciseModels = append(exerciseModels, dayExerciseModel{
					UserID:     userID,
					Day:        int(day),
					ExerciseID: e.ExerciseID,
					Sets:       e.Sets,
					Reps:       e.Reps,
					Weight:     e.Weight,
					SetDetails: e.SetDetails,
					Position:   e.Position,
				})
			}
			if err := tx.Create(&exerciseModels).Error; err != nil {
				return translate(err)
			}
		}
		return nil
	})
}
