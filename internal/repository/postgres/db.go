package postgres

import (
	"errors"
	"fmt"

	"fitcycle/server/internal/repository"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to postgres and migrates every table.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	log.Debugln("running database migration ...")
	if err = db.AutoMigrate(allModels()...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Debugln("database migration completed")

	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewStore wires every gorm-backed repository onto one connection.
func NewStore(db *gorm.DB) *repository.Store {
	return &repository.Store{
		Users:        NewUserRepository(db),
		MuscleGroups: NewMuscleGroupRepository(db),
		Exercises:    NewExerciseRepository(db),
		Routines:     NewRoutineRepository(db),
		Workouts:     NewWorkoutRepository(db),
		Measurements: NewMeasurementRepository(db),
	}
}

// translate maps gorm errors onto repository errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	default:
		return err
	}
}
