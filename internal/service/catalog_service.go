package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitcycle/server/internal/cache"
	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"
	"fitcycle/server/internal/storage"

	log "github.com/sirupsen/logrus"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrInvalidMuscleGroup   = errors.New("muscle group does not exist")
	ErrInvalidExercise      = errors.New("exercise name and muscle group are required")
	ErrUnsupportedImageType = errors.New("unsupported image content type")
	ErrStorageDisabled      = storage.ErrStorageDisabled
)

type ExerciseInput struct {
	Name          string
	MuscleGroupID string
	ImageURL      string
}

// ImageUpload tells the client where to PUT the image and which URL to
// store on the exercise afterwards.
type ImageUpload struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ImageURL  string    `json:"imageUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CatalogService manages the shared muscle group and exercise catalog.
type CatalogService interface {
	// Seed inserts the default muscle groups and starter exercises that are missing.
	Seed(ctx context.Context) error
	ListMuscleGroups(ctx context.Context) ([]domain.MuscleGroup, error)
	ListExercises(ctx context.Context, muscleGroupID string) ([]domain.Exercise, error)
	CreateExercise(ctx context.Context, userID string, input ExerciseInput) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, id string, input ExerciseInput) (*domain.Exercise, error)
	CreateImageUpload(ctx context.Context, contentType string) (*ImageUpload, error)
}

type catalogService struct {
	muscleGroupRepo repository.MuscleGroupRepository
	exerciseRepo    repository.ExerciseRepository
	cache           *cache.CatalogCache
	fileStorage     storage.FileStorage
}

func NewCatalogService(
	muscleGroupRepo repository.MuscleGroupRepository,
	exerciseRepo repository.ExerciseRepository,
	catalogCache *cache.CatalogCache,
	fileStorage storage.FileStorage,
) CatalogService {
	if fileStorage == nil {
		fileStorage = storage.NewDisabledStorage()
	}
	return &catalogService{
		muscleGroupRepo: muscleGroupRepo,
		exerciseRepo:    exerciseRepo,
		cache:           catalogCache,
		fileStorage:     fileStorage,
	}
}

func (s *catalogService) Seed(ctx context.Context) error {
	groups, err := s.muscleGroupRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list muscle groups: %w", err)
	}
	byName := make(map[string]string, len(groups))
	for _, g := range groups {
		byName[g.Name] = g.ID
	}

	createdGroups := 0
	for _, name := range domain.DefaultMuscleGroups {
		if _, ok := byName[name]; ok {
			continue
		}
		group := &domain.MuscleGroup{Name: name}
		if _, err = s.muscleGroupRepo.Create(ctx, group); err != nil {
			return fmt.Errorf("seed muscle group %s: %w", name, err)
		}
		byName[name] = group.ID
		createdGroups++
	}

	existing, err := s.exerciseRepo.List(ctx, "")
	if err != nil {
		return fmt.Errorf("list exercises: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, e := range existing {
		have[e.MuscleGroupID+"/"+e.Name] = true
	}

	createdExercises := 0
	for _, groupName := range domain.DefaultMuscleGroups {
		groupID := byName[groupName]
		for _, name := range domain.DefaultExercises[groupName] {
			if have[groupID+"/"+name] {
				continue
			}
			if _, err = s.exerciseRepo.Create(ctx, &domain.Exercise{Name: name, MuscleGroupID: groupID}); err != nil {
				return fmt.Errorf("seed exercise %s: %w", name, err)
			}
			createdExercises++
		}
	}

	s.cache.InvalidateMuscleGroups()
	s.cache.InvalidateExercises()
	log.WithFields(log.Fields{
		"muscle_groups": createdGroups,
		"exercises":     createdExercises,
	}).Info("catalog seeded")
	return nil
}

func (s *catalogService) ListMuscleGroups(ctx context.Context) ([]domain.MuscleGroup, error) {
	if groups, ok := s.cache.MuscleGroups(); ok {
		return groups, nil
	}
	groups, err := s.muscleGroupRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list muscle groups: %w", err)
	}
	s.cache.SetMuscleGroups(groups)
	return groups, nil
}

func (s *catalogService) ListExercises(ctx context.Context, muscleGroupID string) ([]domain.Exercise, error) {
	if exercises, ok := s.cache.Exercises(muscleGroupID); ok {
		return exercises, nil
	}
	exercises, err := s.exerciseRepo.List(ctx, muscleGroupID)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	s.cache.SetExercises(muscleGroupID, exercises)
	return exercises, nil
}

func (s *catalogService) muscleGroupExists(ctx context.Context, id string) (bool, error) {
	groups, err := s.ListMuscleGroups(ctx)
	if err != nil {
		return false, err
	}
	for _, g := range groups {
		if g.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *catalogService) validate(ctx context.Context, input *ExerciseInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	if input.Name == "" || input.MuscleGroupID == "" {
		return ErrInvalidExercise
	}
	ok, err := s.muscleGroupExists(ctx, input.MuscleGroupID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidMuscleGroup
	}
	return nil
}

// CreateExercise adds an exercise to the shared catalog, visible to every user.
func (s *catalogService) CreateExercise(ctx context.Context, userID string, input ExerciseInput) (*domain.Exercise, error) {
	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		Name:          input.Name,
		MuscleGroupID: input.MuscleGroupID,
		ImageURL:      input.ImageURL,
		CreatedBy:     userID,
	}
	if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	s.cache.InvalidateExercises()
	return exercise, nil
}

// UpdateExercise renames or re-categorizes an exercise. Routines pick up the
// new muscle group on their next read; logged workouts keep their snapshot.
func (s *catalogService) UpdateExercise(ctx context.Context, id string, input ExerciseInput) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if err = s.validate(ctx, &input); err != nil {
		return nil, err
	}

	previousImage := exercise.ImageURL
	exercise.Name = input.Name
	exercise.MuscleGroupID = input.MuscleGroupID
	exercise.ImageURL = input.ImageURL
	if err = s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("update exercise: %w", err)
	}
	s.cache.InvalidateExercises()

	if previousImage != exercise.ImageURL {
		s.removeUploadedImage(ctx, previousImage)
	}
	return exercise, nil
}

// removeUploadedImage deletes a replaced image when it lives in our bucket.
// External URLs are left alone. A failed delete leaves an orphan object.
func (s *catalogService) removeUploadedImage(ctx context.Context, imageURL string) {
	base := s.fileStorage.ObjectURL("")
	if imageURL == "" || base == "" || !strings.HasPrefix(imageURL, base) {
		return
	}
	key := strings.TrimPrefix(imageURL, base)
	if !storage.IsExerciseImageKey(key) {
		return
	}
	if err := s.fileStorage.DeleteObject(ctx, key); err != nil {
		log.WithError(err).WithField("key", key).Warn("failed to delete replaced exercise image")
	}
}

func (s *catalogService) CreateImageUpload(ctx context.Context, contentType string) (*ImageUpload, error) {
	key, ok := storage.ExerciseImageKey(contentType)
	if !ok {
		return nil, ErrUnsupportedImageType
	}

	expires := storage.DefaultPresignedURLExpiry
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, key, contentType, expires)
	if err != nil {
		if errors.Is(err, storage.ErrStorageDisabled) {
			return nil, ErrStorageDisabled
		}
		return nil, err
	}
	return &ImageUpload{
		UploadURL: url,
		ObjectKey: key,
		ImageURL:  s.fileStorage.ObjectURL(key),
		ExpiresAt: time.Now().UTC().Add(expires),
	}, nil
}
