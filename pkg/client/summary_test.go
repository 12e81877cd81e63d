package client_test

import (
	"testing"
	"time"

	"fitcycle/server/pkg/client"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_SetDetailsOverrideFlatValues(t *testing.T) {
	start := time.Date(2024, 3, 6, 7, 0, 0, 0, time.UTC)
	session := client.WorkoutSession{
		Day:         time.Wednesday,
		StartedAt:   start,
		CompletedAt: start.Add(40 * time.Minute),
		Exercises: []client.WorkoutExerciseLog{{
			ExerciseID:   "bench",
			ExerciseName: "Bench Press",
			Sets:         9,
			Reps:         9,
			Weight:       9,
			SetDetails:   client.SetDetails{{Reps: 10, Weight: 60}, client.SetDetail{Reps: 8, Weight: 70}},
		}},
	}

	summary := client.Summarize(session)
	assert.Equal(t, 2, summary.TotalSets)
	assert.Equal(t, 18, summary.TotalReps)
	assert.Equal(t, 1160.0, summary.TotalVolume)
	assert.Equal(t, 40*time.Minute, summary.Duration)
	assert.False(t, summary.Saved)

	var role client.Role = client.RoleAdmin
	assert.Equal(t, "admin", string(role))
}
