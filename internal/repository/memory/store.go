// Package memory is a process-local backend used by tests and by
// `database.driver: memory` for local development. Nothing is persisted.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"

	"github.com/google/uuid"
)

type dayKey struct {
	userID string
	day    time.Weekday
}

type db struct {
	mu sync.RWMutex

	users        []*domain.User
	muscleGroups []domain.MuscleGroup
	exercises    map[string]*domain.Exercise
	dayGroups    map[dayKey][]domain.DayMuscleGroup
	dayExercises map[dayKey][]domain.DayExercise
	workouts     []domain.WorkoutSession
	measurements []domain.BodyMeasurement
}

// NewStore returns a Store whose repositories share one in-memory database.
func NewStore() *repository.Store {
	d := &db{
		exercises:    make(map[string]*domain.Exercise),
		dayGroups:    make(map[dayKey][]domain.DayMuscleGroup),
		dayExercises: make(map[dayKey][]domain.DayExercise),
	}
	return &repository.Store{
		Users:        &userRepository{d},
		MuscleGroups: &muscleGroupRepository{d},
		Exercises:    &exerciseRepository{d},
		Routines:     &routineRepository{d},
		Workouts:     &workoutRepository{d},
		Measurements: &measurementRepository{d},
	}
}

type userRepository struct{ *db }

func (r *userRepository) Create(_ context.Context, user *domain.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return "", repository.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	r.users = append(r.users, &stored)
	return user.ID, nil
}

func (r *userRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepository) GetByRefreshToken(_ context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.find(func(u *domain.User) bool { return u.RefreshToken == token })
}

func (r *userRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var target *domain.User
	for _, u := range r.users {
		if u.ID == user.ID {
			target = u
			continue
		}
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	if target == nil {
		return repository.ErrNotFound
	}
	target.Username = user.Username
	target.Email = user.Email
	target.Role = user.Role
	target.PasswordHash = user.PasswordHash
	target.UpdatedAt = time.Now().UTC()
	user.UpdatedAt = target.UpdatedAt
	return nil
}

func (r *userRepository) SetRefreshToken(_ context.Context, userID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			exp := expiresAt.UTC()
			u.RefreshToken = token
			u.RefreshTokenExpiresAt = &exp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *userRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type muscleGroupRepository struct{ *db }

func (r *muscleGroupRepository) Create(_ context.Context, group *domain.MuscleGroup) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.muscleGroups {
		if g.Name == group.Name {
			return "", repository.ErrDuplicate
		}
	}
	group.ID = uuid.NewString()
	r.muscleGroups = append(r.muscleGroups, *group)
	return group.ID, nil
}

func (r *muscleGroupRepository) List(_ context.Context) ([]domain.MuscleGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.MuscleGroup{}, r.muscleGroups...), nil
}

type exerciseRepository struct{ *db }

func (r *exerciseRepository) Create(_ context.Context, exercise *domain.Exercise) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	exercise.ID = uuid.NewString()
	exercise.CreatedAt, exercise.UpdatedAt = now, now
	stored := *exercise
	r.exercises[exercise.ID] = &stored
	return exercise.ID, nil
}

func (r *exerciseRepository) GetByID(_ context.Context, id string) (*domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *e
	return &found, nil
}

func (r *exerciseRepository) List(_ context.Context, muscleGroupID string) ([]domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exercises := make([]domain.Exercise, 0, len(r.exercises))
	for _, e := range r.exercises {
		if muscleGroupID == "" || e.MuscleGroupID == muscleGroupID {
			exercises = append(exercises, *e)
		}
	}
	sort.Slice(exercises, func(i, j int) bool {
		if exercises[i].Name == exercises[j].Name {
			return exercises[i].ID < exercises[j].ID
		}
		return exercises[i].Name < exercises[j].Name
	})
	return exercises, nil
}

func (r *exerciseRepository) Update(_ context.Context, exercise *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exercises[exercise.ID]
	if !ok {
		return repository.ErrNotFound
	}
	e.Name = exercise.Name
	e.MuscleGroupID = exercise.MuscleGroupID
	e.ImageURL = exercise.ImageURL
	e.UpdatedAt = time.Now().UTC()
	exercise.UpdatedAt = e.UpdatedAt
	return nil
}

type routineRepository struct{ *db }

func (r *routineRepository) GetDay(_ context.Context, userID string, day time.Weekday) ([]domain.DayMuscleGroup, []domain.DayExercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := dayKey{userID, day}
	groups := append([]domain.DayMuscleGroup{}, r.dayGroups[key]...)
	exercises := append([]domain.DayExercise{}, r.dayExercises[key]...)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Position < groups[j].Position })
	sort.SliceStable(exercises, func(i, j int) bool { return exercises[i].Position < exercises[j].Position })
	return groups, exercises, nil
}

func (r *routineRepository) ReplaceDay(_ context.Context, userID string, day time.Weekday, groups []domain.DayMuscleGroup, exercises []domain.DayExercise) error {
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		if seen[g.MuscleGroupID] {
			return repository.ErrDuplicate
		}
		seen[g.MuscleGroupID] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	key := dayKey{userID, day}
	delete(r.dayGroups, key)
	delete(r.dayExercises, key)

	if len(groups) > 0 {
		stored := make([]domain.DayMuscleGroup, len(groups))
		for i, g := range groups {
			g.UserID, g.Day = userID, day
			stored[i] = g
		}
		r.dayGroups[key] = stored
	}
	if len(exercises) > 0 {
		stored := make([]domain.DayExercise, len(exercises))
		for i, e := range exercises {
			e.UserID, e.Day = userID, day
			e.SetDetails = append(domain.SetDetails(nil), e.SetDetails...)
			stored[i] = e
		}
		r.dayExercises[key] = stored
	}
	return nil
}

type workoutRepository struct{ *db }

func (r *workoutRepository) Create(_ context.Context, session *domain.WorkoutSession) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.ID = uuid.NewString()
	session.CreatedAt = time.Now().UTC()

	stored := *session
	stored.Exercises = make([]domain.WorkoutExerciseLog, len(session.Exercises))
	for i, l := range session.Exercises {
		l.SetDetails = append(domain.SetDetails(nil), l.SetDetails...)
		stored.Exercises[i] = l
	}
	r.workouts = append(r.workouts, stored)
	return session.ID, nil
}

// userSessions returns the user's sessions in insertion order.
func (r *workoutRepository) userSessions(userID string, match func(*domain.WorkoutSession) bool) []domain.WorkoutSession {
	sessions := make([]domain.WorkoutSession, 0)
	for i := range r.workouts {
		s := &r.workouts[i]
		if s.UserID == userID && (match == nil || match(s)) {
			sessions = append(sessions, *s)
		}
	}
	return sessions
}

func (r *workoutRepository) ListByUser(_ context.Context, userID string, limit int) ([]domain.WorkoutSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := r.userSessions(userID, nil)
	// Reverse insertion order first so equal completedAt values list newest saved first.
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CompletedAt.After(sessions[j].CompletedAt)
	})
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

func (r *workoutRepository) ListByExercise(_ context.Context, userID, exerciseID string) ([]domain.WorkoutSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := r.userSessions(userID, func(s *domain.WorkoutSession) bool {
		for _, l := range s.Exercises {
			if l.ExerciseID == exerciseID {
				return true
			}
		}
		return false
	})
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CompletedAt.Before(sessions[j].CompletedAt)
	})
	return sessions, nil
}

type measurementRepository struct{ *db }

func (r *measurementRepository) Create(_ context.Context, m *domain.BodyMeasurement) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now().UTC()
	r.measurements = append(r.measurements, *m)
	return m.ID, nil
}

func (r *measurementRepository) ListByUser(_ context.Context, userID string) ([]domain.BodyMeasurement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]domain.BodyMeasurement, 0)
	for _, m := range r.measurements {
		if m.UserID == userID {
			entries = append(entries, m)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].MeasuredAt.After(entries[j].MeasuredAt)
	})
	return entries, nil
}

func (r *measurementRepository) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.measurements {
		if m.ID == id && m.UserID == userID {
			r.measurements = append(r.measurements[:i], r.measurements[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
