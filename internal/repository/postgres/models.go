package postgres

import (
	"time"

	"fitcycle/server/internal/domain"
)

type userModel struct {
	ID                    string `gorm:"primaryKey;size:36"`
	Username              string `gorm:"size:64;uniqueIndex;not null"`
	Email                 string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash          string `gorm:"size:255;not null"`
	Role                  string `gorm:"size:16;not null"`
	RefreshToken          string `gorm:"size:128;index"`
	RefreshTokenExpiresAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:                    m.ID,
		Username:              m.Username,
		Email:                 m.Email,
		PasswordHash:          m.PasswordHash,
		Role:                  domain.Role(m.Role),
		RefreshToken:          m.RefreshToken,
		RefreshTokenExpiresAt: m.RefreshTokenExpiresAt,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

type muscleGroupModel struct {
	ID   string `gorm:"primaryKey;size:36"`
	Name string `gorm:"size:64;uniqueIndex;not null"`
	// Seq keeps the seed order stable for listing.
	Seq int64 `gorm:"autoIncrement:false;index"`
}

func (muscleGroupModel) TableName() string { return "muscle_groups" }

type exerciseModel struct {
	ID            string `gorm:"primaryKey;size:36"`
	Name          string `gorm:"size:128;not null;index"`
	MuscleGroupID string `gorm:"size:36;not null;index"`
	ImageURL      string `gorm:"size:512"`
	CreatedBy     string `gorm:"size:36"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (exerciseModel) TableName() string { return "exercises" }

func (m *exerciseModel) toDomain() domain.Exercise {
	return domain.Exercise{
		ID:            m.ID,
		Name:          m.Name,
		MuscleGroupID: m.MuscleGroupID,
		ImageURL:      m.ImageURL,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type dayMuscleGroupModel struct {
	UserID        string `gorm:"primaryKey;size:36"`
	Day           int    `gorm:"primaryKey"`
	MuscleGroupID string `gorm:"primaryKey;size:36"`
	Position      int    `gorm:"not null"`
}

func (dayMuscleGroupModel) TableName() string { return "day_muscle_groups" }

type dayExerciseModel struct {
	ID         uint              `gorm:"primaryKey"`
	UserID     string            `gorm:"size:36;not null;index:idx_day_exercise_user_day"`
	Day        int               `gorm:"not null;index:idx_day_exercise_user_day"`
	ExerciseID string            `gorm:"size:36;not null"`
	Sets       int               `gorm:"not null"`
	Reps       int               `gorm:"not null"`
	Weight     float64           `gorm:"not null"`
	SetDetails domain.SetDetails `gorm:"serializer:json"`
	Position   int               `gorm:"not null"`
}

func (dayExerciseModel) TableName() string { return "day_exercises" }

type workoutSessionModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	UserID      string `gorm:"size:36;not null;index:idx_workout_user_completed"`
	Day         int    `gorm:"not null"`
	StartedAt   time.Time
	CompletedAt time.Time `gorm:"index:idx_workout_user_completed"`
	CreatedAt   time.Time
	Exercises   []workoutExerciseLogModel `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

func (workoutSessionModel) TableName() string { return "workout_sessions" }

func (m *workoutSessionModel) toDomain() domain.WorkoutSession {
	logs := make([]domain.WorkoutExerciseLog, 0, len(m.Exercises))
	for _, l := range m.Exercises {
		logs = append(logs, domain.WorkoutExerciseLog{
			ExerciseID:      l.ExerciseID,
			ExerciseName:    l.ExerciseName,
			MuscleGroupName: l.MuscleGroupName,
			Sets:            l.Sets,
			Reps:            l.Reps,
			Weight:          l.Weight,
			SetDetails:      l.SetDetails,
		})
	}
	return domain.WorkoutSession{
		ID:          m.ID,
		UserID:      m.UserID,
		Day:         time.Weekday(m.Day),
		StartedAt:   m.StartedAt.UTC(),
		CompletedAt: m.CompletedAt.UTC(),
		Exercises:   logs,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type workoutExerciseLogModel struct {
	ID              uint              `gorm:"primaryKey"`
	SessionID       string            `gorm:"size:36;not null;index"`
	ExerciseID      string            `gorm:"size:64;not null;index"`
	ExerciseName    string            `gorm:"size:128;not null"`
	MuscleGroupName string            `gorm:"size:64"`
	Sets            int               `gorm:"not null"`
	Reps            int               `gorm:"not null"`
	Weight          float64           `gorm:"not null"`
	SetDetails      domain.SetDetails `gorm:"serializer:json"`
	Position        int               `gorm:"not null"`
}

func (workoutExerciseLogModel) TableName() string { return "workout_exercise_logs" }

type measurementModel struct {
	ID         string    `gorm:"primaryKey;size:36"`
	UserID     string    `gorm:"size:36;not null;index:idx_measurement_user_measured"`
	MeasuredAt time.Time `gorm:"index:idx_measurement_user_measured"`
	Weight     *float64
	Height     *float64
	Chest      *float64
	Waist      *float64
	Hips       *float64
	BicepLeft  *float64
	BicepRight *float64
	ThighLeft  *float64
	ThighRight *float64
	CalfLeft   *float64
	CalfRight  *float64
	Neck       *float64
	BodyFat    *float64
	Notes      string `gorm:"size:1024"`
	CreatedAt  time.Time
}

func (measurementModel) TableName() string { return "body_measurements" }

func (m *measurementModel) toDomain() domain.BodyMeasurement {
	return domain.BodyMeasurement{
		ID:         m.ID,
		UserID:     m.UserID,
		MeasuredAt: m.MeasuredAt.UTC(),
		Weight:     m.Weight,
		Height:     m.Height,
		Chest:      m.Chest,
		Waist:      m.Waist,
		Hips:       m.Hips,
		BicepLeft:  m.BicepLeft,
		BicepRight: m.BicepRight,
		ThighLeft:  m.ThighLeft,
		ThighRight: m.ThighRight,
		CalfLeft:   m.CalfLeft,
		CalfRight:  m.CalfRight,
		Neck:       m.Neck,
		BodyFat:    m.BodyFat,
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

func allModels() []interface{} {
	return []interface{}{
		&userModel{},
		&muscleGroupModel{},
		&exerciseModel{},
		&dayMuscleGroupModel{},
		&dayExerciseModel{},
		&workoutSessionModel{},
		&workoutExerciseLogModel{},
		&measurementModel{},
	}
}
