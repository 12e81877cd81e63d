// internal/domain/exercise.go
package domain

import (
	"time"
)

// MuscleGroup is a static reference entry, seeded once and never changed.
type MuscleGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Exercise represents a single exercise definition in the shared catalog.
// Exercises are visible to every user once created and are never deleted.
type Exercise struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	MuscleGroupID string    `json:"muscleGroupId"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	CreatedBy     string    `json:"createdBy,omitempty"` // Empty for seeded exercises
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DefaultMuscleGroups is the predefined set seeded on startup.
var DefaultMuscleGroups = []string{
	"Chest",
	"Back",
	"Shoulders",
	"Biceps",
	"Triceps",
	"Legs",
	"Abs",
	"Cardio",
}

// DefaultExercises maps a muscle group name to its starter exercises.
var DefaultExercises = map[string][]string{
	"Chest":     {"Bench Press", "Incline Dumbbell Press", "Push-Up", "Cable Fly"},
	"Back":      {"Deadlift", "Pull-Up", "Barbell Row", "Lat Pulldown"},
	"Shoulders": {"Overhead Press", "Lateral Raise", "Face Pull"},
	"Biceps":    {"Barbell Curl", "Hammer Curl"},
	"Triceps":   {"Tricep Pushdown", "Skull Crusher", "Dips"},
	"Legs":      {"Squat", "Leg Press", "Romanian Deadlift", "Calf Raise"},
	"Abs":       {"Crunch", "Plank", "Hanging Leg Raise"},
	"Cardio":    {"Running", "Rowing", "Cycling"},
}
