package domain

import (
	"time"
)

// WorkoutSession represents a single completed workout. Sessions are
// created once, when the workout finishes, and never edited afterwards.
type WorkoutSession struct {
	ID          string               `json:"id"`
	UserID      string               `json:"userId"`
	Day         time.Weekday         `json:"day"` // Weekday the workout was done on, not when it was logged
	StartedAt   time.Time            `json:"startedAt"`
	CompletedAt time.Time            `json:"completedAt"`
	Exercises   []WorkoutExerciseLog `json:"exercises"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// WorkoutExerciseLog is one exercise performed in a session. Names are
// snapshots taken when the session was saved, not live catalog lookups.
type WorkoutExerciseLog struct {
	ExerciseID      string     `json:"exerciseId"`
	ExerciseName    string     `json:"exerciseName"`
	MuscleGroupName string     `json:"muscleGroupName"`
	Sets            int        `json:"sets"`
	Reps            int        `json:"reps"`
	Weight          float64    `json:"weight"`
	SetDetails      SetDetails `json:"setDetails,omitempty"`
}

// ApplySetDetails overwrites the flat summary when set details are present.
func (l *WorkoutExerciseLog) ApplySetDetails() {
	if sets, reps, weight, ok := l.SetDetails.Summarize(); ok {
		l.Sets, l.Reps, l.Weight = sets, reps, weight
	}
}

// Duration is the wall-clock length of the session.
func (s *WorkoutSession) Duration() time.Duration {
	return s.CompletedAt.Sub(s.StartedAt)
}

// ExerciseProgressEntry is one raw log row for an exercise, used for
// progression charts. Unlike the stats endpoint it is not reduced per session.
type ExerciseProgressEntry struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
	Sets   int       `json:"sets"`
	Reps   int       `json:"reps"`
}
