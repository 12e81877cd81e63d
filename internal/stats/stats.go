// Package stats derives workout summaries from a user's session history.
// Nothing here is persisted: summaries are recomputed on every request.
package stats

import (
	"fmt"
	"sort"
	"time"

	"fitcycle/server/internal/domain"
)

const (
	WeeklyBuckets        = 4
	TopExercisesLimit    = 5
	ProgressionExercises = 10

	week = 7 * 24 * time.Hour
)

type Summary struct {
	TotalWorkouts     int                 `json:"totalWorkouts"`
	TotalSets         int                 `json:"totalSets"`
	TotalReps         int                 `json:"totalReps"`
	Weekly            []WeekBucket        `json:"weekly"`
	TopExercises      []ExerciseCount     `json:"topExercises"`
	WeightProgression []ProgressionSeries `json:"weightProgression"`
}

// WeekBucket counts sessions completed in [Start, End).
type WeekBucket struct {
	Label string    `json:"label"`
	Count int       `json:"count"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type ExerciseCount struct {
	ExerciseName string `json:"exerciseName"`
	Count        int    `json:"count"`
}

type ProgressionPoint struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
}

type ProgressionSeries struct {
	ExerciseName string             `json:"exerciseName"`
	Points       []ProgressionPoint `json:"points"`
}

// Compute builds the summary for sessions, which are expected newest first
// (the order history is read in). Ties in exercise frequency keep the order
// in which names are first met while walking sessions in that order.
func Compute(sessions []domain.WorkoutSession, now time.Time) Summary {
	summary := Summary{
		TotalWorkouts: len(sessions),
		Weekly:        weeklyBuckets(sessions, now),
	}

	for i := range sessions {
		for _, l := range sessions[i].Exercises {
			summary.TotalSets += l.Sets
			summary.TotalReps += l.Sets * l.Reps
		}
	}

	ranked := rankExercises(sessions)
	summary.TopExercises = head(ranked, TopExercisesLimit)
	summary.WeightProgression = weightProgression(sessions, head(ranked, ProgressionExercises))
	return summary
}

func weeklyBuckets(sessions []domain.WorkoutSession, now time.Time) []WeekBucket {
	buckets := make([]WeekBucket, WeeklyBuckets)
	for offset := 0; offset < WeeklyBuckets; offset++ {
		end := now.Add(-time.Duration(offset) * week)
		start := end.Add(-week)

		count := 0
		for i := range sessions {
			c := sessions[i].CompletedAt
			if !c.Before(start) && c.Before(end) {
				count++
			}
		}

		// Oldest bucket first
		buckets[WeeklyBuckets-1-offset] = WeekBucket{
			Label: weekLabel(offset),
			Count: count,
			Start: start,
			End:   end,
		}
	}
	return buckets
}

func weekLabel(offset int) string {
	if offset == 0 {
		return "this week"
	}
	return fmt.Sprintf("%d weeks ago", offset)
}

// rankExercises counts logs per exercise name, most frequent first.
func rankExercises(sessions []domain.WorkoutSession) []ExerciseCount {
	index := make(map[string]int)
	var ranked []ExerciseCount
	for i := range sessions {
		for _, l := range sessions[i].Exercises {
			pos, ok := index[l.ExerciseName]
			if !ok {
				pos = len(ranked)
				index[l.ExerciseName] = pos
				ranked = append(ranked, ExerciseCount{ExerciseName: l.ExerciseName})
			}
			ranked[pos].Count++
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

func head(ranked []ExerciseCount, n int) []ExerciseCount {
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return append([]ExerciseCount{}, ranked...)
}

// weightProgression emits one point per session per exercise: the heaviest
// weight logged for it in that session. Zero weights are ignored and
// exercises without any weighted log are left out.
func weightProgression(sessions []domain.WorkoutSession, exercises []ExerciseCount) []ProgressionSeries {
	series := make([]ProgressionSeries, 0, len(exercises))
	for _, ex := range exercises {
		var points []ProgressionPoint
		for i := range sessions {
			peak := 0.0
			for _, l := range sessions[i].Exercises {
				if l.ExerciseName == ex.ExerciseName && l.Weight > peak {
					peak = l.Weight
				}
			}
			if peak > 0 {
				points = append(points, ProgressionPoint{Date: sessions[i].CompletedAt, Weight: peak})
			}
		}
		if len(points) == 0 {
			continue
		}

		sort.SliceStable(points, func(i, j int) bool {
			return points[i].Date.Before(points[j].Date)
		})
		series = append(series, ProgressionSeries{ExerciseName: ex.ExerciseName, Points: points})
	}
	return series
}
