package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"

	log "github.com/sirupsen/logrus"
)

// --- Error Definitions ---
var (
	ErrInvalidDay     = errors.New("day must be between 0 (Sunday) and 6 (Saturday)")
	ErrWeekendRoutine = errors.New("routines can only be set for Monday to Friday")
	ErrNegativeTarget = errors.New("routine sets, reps and weights cannot be negative")
)

// RoutineExerciseInput is one exercise assignment of a SetDayRoutine call.
type RoutineExerciseInput struct {
	ExerciseID string
	Sets       int
	Reps       int
	Weight     float64
	SetDetails domain.SetDetails
}

// RoutineService builds and replaces the weekly routine of a user.
type RoutineService interface {
	GetDayRoutine(ctx context.Context, userID string, day time.Weekday) (*domain.DayRoutine, error)
	// GetWeekRoutine returns Monday to Friday, in that order.
	GetWeekRoutine(ctx context.Context, userID string) ([]domain.DayRoutine, error)
	// SetDayRoutine replaces the whole routine of one weekday. Unknown muscle
	// group and exercise ids are dropped rather than rejected.
	SetDayRoutine(ctx context.Context, userID string, day time.Weekday, muscleGroupIDs []string, exercises []RoutineExerciseInput) (*domain.DayRoutine, error)
}

type routineService struct {
	routineRepo repository.RoutineRepository
	catalog     CatalogService
}

func NewRoutineService(routineRepo repository.RoutineRepository, catalog CatalogService) RoutineService {
	return &routineService{
		routineRepo: routineRepo,
		catalog:     catalog,
	}
}

// catalogIndex is a snapshot of the catalog used to join routine rows.
type catalogIndex struct {
	groups    map[string]domain.MuscleGroup
	exercises map[string]domain.Exercise
}

func (s *routineService) loadCatalog(ctx context.Context) (*catalogIndex, error) {
	groups, err := s.catalog.ListMuscleGroups(ctx)
	if err != nil {
		return nil, err
	}
	exercises, err := s.catalog.ListExercises(ctx, "")
	if err != nil {
		return nil, err
	}

	idx := &catalogIndex{
		groups:    make(map[string]domain.MuscleGroup, len(groups)),
		exercises: make(map[string]domain.Exercise, len(exercises)),
	}
	for _, g := range groups {
		idx.groups[g.ID] = g
	}
	for _, e := range exercises {
		idx.exercises[e.ID] = e
	}
	return idx, nil
}

func (s *routineService) GetDayRoutine(ctx context.Context, userID string, day time.Weekday) (*domain.DayRoutine, error) {
	if !domain.IsValidDay(day) {
		return nil, ErrInvalidDay
	}
	if !domain.IsRoutineDay(day) {
		routine := domain.EmptyDayRoutine(day)
		return &routine, nil
	}

	idx, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildDay(ctx, idx, userID, day)
}

func (s *routineService) GetWeekRoutine(ctx context.Context, userID string) ([]domain.DayRoutine, error) {
	idx, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	week := make([]domain.DayRoutine, 0, len(domain.Weekdays))
	for _, day := range domain.Weekdays {
		routine, err := s.buildDay(ctx, idx, userID, day)
		if err != nil {
			return nil, err
		}
		week = append(week, *routine)
	}
	return week, nil
}

func (s *routineService) buildDay(ctx context.Context, idx *catalogIndex, userID string, day time.Weekday) (*domain.DayRoutine, error) {
	groupRows, exerciseRows, err := s.routineRepo.GetDay(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("get routine for %s: %w", day, err)
	}

	routine := domain.EmptyDayRoutine(day)
	for _, row := range groupRows {
		if g, ok := idx.groups[row.MuscleGroupID]; ok {
			routine.MuscleGroups = append(routine.MuscleGroups, g)
		}
	}
	for _, row := range exerciseRows {
		ex, ok := idx.exercises[row.ExerciseID]
		if !ok {
			log.WithFields(log.Fields{
				"user_id":     userID,
				"exercise_id": row.ExerciseID,
			}).Warn("routine references an unknown exercise")
			continue
		}
		setDetails := row.SetDetails
		if setDetails == nil {
			setDetails = domain.SetDetails{}
		}
		// Muscle group comes from the exercise as it is now, not as it was
		// when the routine was saved.
		routine.Exercises = append(routine.Exercises, domain.RoutineExercise{
			ExerciseID:      ex.ID,
			ExerciseName:    ex.Name,
			MuscleGroupID:   ex.MuscleGroupID,
			MuscleGroupName: idx.groups[ex.MuscleGroupID].Name,
			ImageURL:        ex.ImageURL,
			Sets:            row.Sets,
			Reps:            row.Reps,
			Weight:          row.Weight,
			SetDetails:      setDetails,
		})
	}
	return &routine, nil
}

func (s *routineService) SetDayRoutine(ctx context.Context, userID string, day time.Weekday, muscleGroupIDs []string, exercises []RoutineExerciseInput) (*domain.DayRoutine, error) {
	if !domain.IsValidDay(day) {
		return nil, ErrInvalidDay
	}
	if !domain.IsRoutineDay(day) {
		return nil, ErrWeekendRoutine
	}
	for _, in := range exercises {
		if in.Sets < 0 || in.Reps < 0 || in.Weight < 0 || in.SetDetails.HasNegative() {
			return nil, ErrNegativeTarget
		}
	}

	idx, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(muscleGroupIDs))
	groupRows := make([]domain.DayMuscleGroup, 0, len(muscleGroupIDs))
	for _, id := range muscleGroupIDs {
		if _, ok := idx.groups[id]; !ok || seen[id] {
			continue
		}
		seen[id] = true
		groupRows = append(groupRows, domain.DayMuscleGroup{
			UserID:        userID,
			Day:           day,
			MuscleGroupID: id,
			Position:      len(groupRows),
		})
	}

	exerciseRows := make([]domain.DayExercise, 0, len(exercises))
	for _, in := range exercises {
		if _, ok := idx.exercises[in.ExerciseID]; !ok {
			continue
		}
		row := domain.DayExercise{
			UserID:     userID,
			Day:        day,
			ExerciseID: in.ExerciseID,
			Sets:       in.Sets,
			Reps:       in.Reps,
			Weight:     in.Weight,
			SetDetails: in.SetDetails,
			Position:   len(exerciseRows),
		}
		row.ApplySetDetails()
		exerciseRows = append(exerciseRows, row)
	}

	dropped := len(muscleGroupIDs) - len(groupRows) + len(exercises) - len(exerciseRows)
	if dropped > 0 {
		log.WithFields(log.Fields{
			"user_id": userID,
			"day":     day.String(),
			"dropped": dropped,
		}).Debug("ignored unknown or duplicate routine entries")
	}

	if err = s.routineRepo.ReplaceDay(ctx, userID, day, groupRows, exerciseRows); err != nil {
		return nil, fmt.Errorf("replace routine for %s: %w", day, err)
	}
	return s.buildDay(ctx, idx, userID, day)
}
