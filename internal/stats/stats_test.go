package stats

import (
	"testing"
	"time"

	"fitcycle/server/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)

func session(completedAt time.Time, logs ...domain.WorkoutExerciseLog) domain.WorkoutSession {
	return domain.WorkoutSession{
		StartedAt:   completedAt.Add(-time.Hour),
		CompletedAt: completedAt,
		Day:         completedAt.Weekday(),
		Exercises:   logs,
	}
}

func exlog(name string, sets, reps int, weight float64) domain.WorkoutExerciseLog {
	return domain.WorkoutExerciseLog{ExerciseID: name, ExerciseName: name, Sets: sets, Reps: reps, Weight: weight}
}

func TestCompute_Empty(t *testing.T) {
	summary := Compute(nil, now)

	assert.Zero(t, summary.TotalWorkouts)
	assert.Zero(t, summary.TotalSets)
	assert.Zero(t, summary.TotalReps)
	require.Len(t, summary.Weekly, WeeklyBuckets)
	for _, b := range summary.Weekly {
		assert.Zero(t, b.Count)
	}
	assert.Empty(t, summary.TopExercises)
	assert.Empty(t, summary.WeightProgression)
}

func TestCompute_TotalsIgnoreWeight(t *testing.T) {
	sessions := []domain.WorkoutSession{
		session(now.Add(-time.Hour), exlog("Squat", 3, 10, 100), exlog("Plank", 2, 1, 0)),
		session(now.Add(-48*time.Hour), exlog("Bench Press", 4, 8, 0)),
	}

	summary := Compute(sessions, now)

	assert.Equal(t, 2, summary.TotalWorkouts)
	assert.Equal(t, 3+2+4, summary.TotalSets)
	assert.Equal(t, 3*10+2*1+4*8, summary.TotalReps)

	for i := range sessions {
		for j := range sessions[i].Exercises {
			sessions[i].Exercises[j].Weight = 999
		}
	}
	again := Compute(sessions, now)
	assert.Equal(t, summary.TotalSets, again.TotalSets)
	assert.Equal(t, summary.TotalReps, again.TotalReps)
}

func TestCompute_WeeklyBuckets(t *testing.T) {
	sessions := []domain.WorkoutSession{
		session(now.Add(-time.Minute)),
		session(now.Add(-7 * 24 * time.Hour)),            // bucket start is inclusive
		session(now.Add(-7*24*time.Hour - time.Second)),  // one week ago
		session(now.Add(-20 * 24 * time.Hour)),           // two weeks ago
		session(now.Add(-28*24*time.Hour - time.Second)), // outside the window
		session(now.Add(time.Hour)),                      // bucket end is exclusive
	}

	summary := Compute(sessions, now)

	require.Len(t, summary.Weekly, 4)
	assert.Equal(t, "3 weeks ago", summary.Weekly[0].Label)
	assert.Equal(t, "2 weeks ago", summary.Weekly[1].Label)
	assert.Equal(t, "1 weeks ago", summary.Weekly[2].Label)
	assert.Equal(t, "this week", summary.Weekly[3].Label)

	assert.Equal(t, 0, summary.Weekly[0].Count)
	assert.Equal(t, 1, summary.Weekly[1].Count)
	assert.Equal(t, 1, summary.Weekly[2].Count)
	assert.Equal(t, 2, summary.Weekly[3].Count)

	assert.Equal(t, now, summary.Weekly[3].End)
	assert.Equal(t, now.Add(-28*24*time.Hour), summary.Weekly[0].Start)
}

func TestCompute_TopExercisesStableTies(t *testing.T) {
	// Newest first; Row is met before Curl so it wins the tie.
	sessions := []domain.WorkoutSession{
		session(now.Add(-1*time.Hour), exlog("Row", 1, 1, 0), exlog("Curl", 1, 1, 0), exlog("Squat", 1, 1, 0)),
		session(now.Add(-2*time.Hour), exlog("Curl", 1, 1, 0), exlog("Squat", 1, 1, 0), exlog("Row", 1, 1, 0)),
		session(now.Add(-3*time.Hour), exlog("Squat", 1, 1, 0), exlog("Dips", 1, 1, 0), exlog("Press", 1, 1, 0)),
		session(now.Add(-4*time.Hour), exlog("Lunge", 1, 1, 0), exlog("Fly", 1, 1, 0)),
	}

	summary := Compute(sessions, now)

	require.Len(t, summary.TopExercises, TopExercisesLimit)
	assert.Equal(t, []ExerciseCount{
		{ExerciseName: "Squat", Count: 3},
		{ExerciseName: "Row", Count: 2},
		{ExerciseName: "Curl", Count: 2},
		{ExerciseName: "Dips", Count: 1},
		{ExerciseName: "Press", Count: 1},
	}, summary.TopExercises)
}

func TestCompute_WeightProgressionUsesSessionMax(t *testing.T) {
	monday := time.Date(2024, 6, 10, 18, 0, 0, 0, time.UTC)
	sessions := []domain.WorkoutSession{
		session(monday, exlog("Squat", 3, 10, 60), exlog("Squat", 1, 10, 80)),
	}

	summary := Compute(sessions, now)

	require.Len(t, summary.WeightProgression, 1)
	series := summary.WeightProgression[0]
	assert.Equal(t, "Squat", series.ExerciseName)
	assert.Equal(t, []ProgressionPoint{{Date: monday, Weight: 80}}, series.Points)
}

func TestCompute_WeightProgressionAscendingAndOmitsZero(t *testing.T) {
	sessions := []domain.WorkoutSession{
		session(now.Add(-1*24*time.Hour), exlog("Squat", 3, 5, 110), exlog("Plank", 3, 1, 0)),
		session(now.Add(-2*24*time.Hour), exlog("Squat", 3, 5, 0)),
		session(now.Add(-3*24*time.Hour), exlog("Squat", 3, 5, 100), exlog("Plank", 3, 1, 0)),
	}

	summary := Compute(sessions, now)

	require.Len(t, summary.WeightProgression, 1, "all-zero exercise must be omitted")
	points := summary.WeightProgression[0].Points
	require.Len(t, points, 2, "zero-weight session contributes no point")
	assert.Equal(t, 100.0, points[0].Weight)
	assert.Equal(t, 110.0, points[1].Weight)
	assert.True(t, points[0].Date.Before(points[1].Date))
}

func TestCompute_WeightProgressionLimitedToTenExercises(t *testing.T) {
	var logs []domain.WorkoutExerciseLog
	for i := 0; i < 12; i++ {
		logs = append(logs, exlog(string(rune('A'+i)), 1, 1, 10))
	}
	// A and B are logged again so they rank first; K and L fall off the end.
	sessions := []domain.WorkoutSession{
		session(now.Add(-time.Hour), logs...),
		session(now.Add(-2*time.Hour), exlog("B", 1, 1, 10), exlog("A", 1, 1, 10)),
	}

	summary := Compute(sessions, now)

	require.Len(t, summary.WeightProgression, ProgressionExercises)
	names := make([]string, 0, len(summary.WeightProgression))
	for _, s := range summary.WeightProgression {
		names = append(names, s.ExerciseName)
	}
	assert.Equal(t, "A", names[0])
	assert.Equal(t, "B", names[1])
	assert.NotContains(t, names, "K")
	assert.NotContains(t, names, "L")
}
