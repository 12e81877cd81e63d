package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"
	"fitcycle/server/internal/stats"
)

// --- Error Definitions ---
var (
	ErrInvalidWorkout = errors.New("invalid workout session")
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// WorkoutService records completed sessions and reads them back.
type WorkoutService interface {
	// SaveWorkout stores a finished session as sent. It does not check the
	// session against the user's routine.
	SaveWorkout(ctx context.Context, userID string, session *domain.WorkoutSession) (*domain.WorkoutSession, error)
	GetHistory(ctx context.Context, userID string, limit int) ([]domain.WorkoutSession, error)
	GetExerciseProgress(ctx context.Context, userID, exerciseID string) ([]domain.ExerciseProgressEntry, error)
	GetStats(ctx context.Context, userID string) (*stats.Summary, error)
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	now         func() time.Time
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository) WorkoutService {
	return &workoutService{
		workoutRepo: workoutRepo,
		now:         time.Now,
	}
}

func invalidWorkout(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidWorkout, fmt.Sprintf(format, args...))
}

func validateSession(session *domain.WorkoutSession) error {
	if !domain.IsValidDay(session.Day) {
		return invalidWorkout("day %d out of range", session.Day)
	}
	if session.StartedAt.IsZero() || session.CompletedAt.IsZero() {
		return invalidWorkout("startedAt and completedAt are required")
	}
	if session.CompletedAt.Before(session.StartedAt) {
		return invalidWorkout("completedAt is before startedAt")
	}
	for i, l := range session.Exercises {
		if l.ExerciseID == "" || strings.TrimSpace(l.ExerciseName) == "" {
			return invalidWorkout("exercise %d needs an id and a name", i)
		}
		if l.Sets < 0 || l.Reps < 0 || l.Weight < 0 || l.SetDetails.HasNegative() {
			return invalidWorkout("exercise %d has negative values", i)
		}
	}
	return nil
}

func (s *workoutService) SaveWorkout(ctx context.Context, userID string, session *domain.WorkoutSession) (*domain.WorkoutSession, error) {
	if session == nil {
		return nil, ErrInvalidWorkout
	}
	if err := validateSession(session); err != nil {
		return nil, err
	}

	session.ID = ""
	session.UserID = userID
	session.StartedAt = session.StartedAt.UTC()
	session.CompletedAt = session.CompletedAt.UTC()
	if session.Exercises == nil {
		session.Exercises = []domain.WorkoutExerciseLog{}
	}
	for i := range session.Exercises {
		session.Exercises[i].ApplySetDetails()
	}

	if _, err := s.workoutRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("save workout: %w", err)
	}
	return session, nil
}

func (s *workoutService) GetHistory(ctx context.Context, userID string, limit int) ([]domain.WorkoutSession, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	sessions, err := s.workoutRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	if sessions == nil {
		sessions = []domain.WorkoutSession{}
	}
	return sessions, nil
}

// GetExerciseProgress returns one entry per logged set group with a weight,
// oldest first. Several logs of the same exercise in one session each
// produce an entry.
func (s *workoutService) GetExerciseProgress(ctx context.Context, userID, exerciseID string) ([]domain.ExerciseProgressEntry, error) {
	sessions, err := s.workoutRepo.ListByExercise(ctx, userID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("list workouts for exercise: %w", err)
	}

	entries := []domain.ExerciseProgressEntry{}
	for _, session := range sessions {
		for _, l := range session.Exercises {
			if l.ExerciseID != exerciseID || l.Weight <= 0 {
				continue
			}
			entries = append(entries, domain.ExerciseProgressEntry{
				Date:   session.CompletedAt,
				Weight: l.Weight,
				Sets:   l.Sets,
				Reps:   l.Reps,
			})
		}
	}
	return entries, nil
}

func (s *workoutService) GetStats(ctx context.Context, userID string) (*stats.Summary, error) {
	sessions, err := s.workoutRepo.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	summary := stats.Compute(sessions, s.now().UTC())
	return &summary, nil
}
