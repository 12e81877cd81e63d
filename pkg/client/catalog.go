package client

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"
)

type catalogKey string

const (
	keyMuscleGroups catalogKey = "musclegroups"
	keyExercises    catalogKey = "exercises"
)

// catalogCache memoizes read-mostly reference data until it is invalidated.
// Every invalidation bumps a generation so a fetch that overlapped it is
// not stored.
type catalogCache struct {
	mu          sync.Mutex
	entries     map[catalogKey]interface{}
	generations map[catalogKey]uint64
	epoch       uint64
}

func newCatalogCache() *catalogCache {
	return &catalogCache{
		entries:     make(map[catalogKey]interface{}),
		generations: make(map[catalogKey]uint64),
	}
}

func (c *catalogCache) invalidate(key catalogKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.generations[key]++
}

func (c *catalogCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[catalogKey]interface{})
	c.epoch++
}

func cached[T any](c *catalogCache, key catalogKey, fetch func() (T, error)) (T, error) {
	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return v.(T), nil
	}
	generation, epoch := c.generations[key], c.epoch
	c.mu.Unlock()

	v, err := fetch()
	if err != nil {
		return v, err
	}

	c.mu.Lock()
	if c.generations[key] == generation && c.epoch == epoch {
		c.entries[key] = v
	}
	c.mu.Unlock()
	return v, nil
}

// ExerciseInput is the payload for creating or updating a catalog exercise.
type ExerciseInput struct {
	Name          string `json:"name"`
	MuscleGroupID string `json:"muscleGroupId"`
	ImageURL      string `json:"imageUrl,omitempty"`
}

// ImageUpload is a presigned upload slot for an exercise image.
type ImageUpload struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ImageURL  string    `json:"imageUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (c *Client) MuscleGroups(ctx context.Context) ([]MuscleGroup, error) {
	return cached(c.catalog, keyMuscleGroups, func() ([]MuscleGroup, error) {
		var groups []MuscleGroup
		err := c.do(ctx, http.MethodGet, "/musclegroups", nil, &groups)
		return groups, err
	})
}

// Exercises returns the whole catalog. The list is cached as a unit and
// filtered locally when muscleGroupID is set.
func (c *Client) Exercises(ctx context.Context, muscleGroupID string) ([]Exercise, error) {
	all, err := cached(c.catalog, keyExercises, func() ([]Exercise, error) {
		var exercises []Exercise
		err := c.do(ctx, http.MethodGet, "/exercises", nil, &exercises)
		return exercises, err
	})
	if err != nil || muscleGroupID == "" {
		return all, err
	}

	filtered := make([]Exercise, 0, len(all))
	for _, ex := range all {
		if ex.MuscleGroupID == muscleGroupID {
			filtered = append(filtered, ex)
		}
	}
	return filtered, nil
}

func (c *Client) CreateExercise(ctx context.Context, input ExerciseInput) (*Exercise, error) {
	var ex Exercise
	if err := c.do(ctx, http.MethodPost, "/exercises", input, &ex); err != nil {
		return nil, err
	}
	c.catalog.invalidate(keyExercises)
	return &ex, nil
}

// UpdateExercise requires an admin or superuser session.
func (c *Client) UpdateExercise(ctx context.Context, id string, input ExerciseInput) (*Exercise, error) {
	var ex Exercise
	if err := c.do(ctx, http.MethodPut, "/exercises/"+url.PathEscape(id), input, &ex); err != nil {
		return nil, err
	}
	c.catalog.invalidate(keyExercises)
	return &ex, nil
}

func (c *Client) CreateImageUpload(ctx context.Context, contentType string) (*ImageUpload, error) {
	var upload ImageUpload
	body := map[string]string{"contentType": contentType}
	if err := c.do(ctx, http.MethodPost, "/exercises/image-upload-url", body, &upload); err != nil {
		return nil, err
	}
	return &upload, nil
}

// InvalidateCatalog forces the next catalog reads to hit the server.
func (c *Client) InvalidateCatalog() {
	c.catalog.invalidateAll()
}
