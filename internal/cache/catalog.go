// Package cache holds the read-through cache of the shared exercise catalog.
package cache

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"fitcycle/server/internal/domain"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

// Entity type keys. Exercise lists filtered by muscle group live under
// KeyExercises + ":" + groupID so one invalidation drops them all.
const (
	KeyMuscleGroups = "musclegroups"
	KeyExercises    = "exercises"
)

const megabyte = 1024 * 1024

// CatalogCache memoizes muscle group and exercise lists until explicitly
// invalidated or expired. freecache rejects entries above 1/1024 of its size,
// so a list that outgrows that is simply never cached.
type CatalogCache struct {
	cache  *freecache.Cache
	expire int // seconds, 0 means no expiry

	mu sync.Mutex
	// exercise keys written since the last invalidation
	exerciseKeys map[string]struct{}
}

func NewCatalogCache(sizeMB int, ttl time.Duration) *CatalogCache {
	if sizeMB <= 0 {
		sizeMB = 1
	}
	return &CatalogCache{
		cache:        freecache.NewCache(sizeMB * megabyte),
		expire:       int(ttl.Seconds()),
		exerciseKeys: make(map[string]struct{}),
	}
}

func exercisesKey(muscleGroupID string) string {
	if muscleGroupID == "" {
		return KeyExercises
	}
	return KeyExercises + ":" + muscleGroupID
}

func (c *CatalogCache) get(key string, v interface{}) bool {
	data, err := c.cache.Get([]byte(key))
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			log.Warnf("catalog cache get %s: %s", key, err)
		}
		return false
	}
	if err = json.Unmarshal(data, v); err != nil {
		log.Warnf("catalog cache decode %s: %s", key, err)
		return false
	}
	return true
}

func (c *CatalogCache) set(key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Warnf("catalog cache encode %s: %s", key, err)
		return
	}
	if err = c.cache.Set([]byte(key), data, c.expire); err != nil {
		log.Warnf("catalog cache set %s: %s", key, err)
	}
}

func (c *CatalogCache) MuscleGroups() ([]domain.MuscleGroup, bool) {
	var groups []domain.MuscleGroup
	ok := c.get(KeyMuscleGroups, &groups)
	return groups, ok
}

func (c *CatalogCache) SetMuscleGroups(groups []domain.MuscleGroup) {
	c.set(KeyMuscleGroups, groups)
}

func (c *CatalogCache) Exercises(muscleGroupID string) ([]domain.Exercise, bool) {
	var exercises []domain.Exercise
	ok := c.get(exercisesKey(muscleGroupID), &exercises)
	return exercises, ok
}

func (c *CatalogCache) SetExercises(muscleGroupID string, exercises []domain.Exercise) {
	key := exercisesKey(muscleGroupID)
	c.set(key, exercises)

	c.mu.Lock()
	c.exerciseKeys[key] = struct{}{}
	c.mu.Unlock()
}

// InvalidateExercises drops every cached exercise list.
func (c *CatalogCache) InvalidateExercises() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Del([]byte(KeyExercises))
	for key := range c.exerciseKeys {
		c.cache.Del([]byte(key))
	}
	c.exerciseKeys = make(map[string]struct{})
}

func (c *CatalogCache) InvalidateMuscleGroups() {
	c.cache.Del([]byte(KeyMuscleGroups))
}
