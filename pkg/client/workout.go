package client

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// WorkoutSummary is what the user sees when a session ends.
type WorkoutSummary struct {
	Day         time.Weekday
	Duration    time.Duration
	Exercises   int
	TotalSets   int
	TotalReps   int
	TotalVolume float64 // sum of sets*reps*weight
	// Saved is false when the session could not be persisted.
	Saved     bool
	SessionID string
}

// Summarize computes the summary locally, without talking to the server.
func Summarize(session WorkoutSession) WorkoutSummary {
	summary := WorkoutSummary{
		Day:       session.Day,
		Duration:  session.Duration(),
		Exercises: len(session.Exercises),
	}
	for _, e := range session.Exercises {
		if len(e.SetDetails) > 0 {
			for _, set := range e.SetDetails {
				summary.TotalReps += set.Reps
				summary.TotalVolume += float64(set.Reps) * set.Weight
			}
			summary.TotalSets += len(e.SetDetails)
			continue
		}
		summary.TotalSets += e.Sets
		summary.TotalReps += e.Sets * e.Reps
		summary.TotalVolume += float64(e.Sets*e.Reps) * e.Weight
	}
	return summary
}

// CompleteWorkout finishes a session: it builds the summary and tries to
// save the session. A failed save is logged, never returned, so the
// caller can always show the summary.
func (c *Client) CompleteWorkout(ctx context.Context, session WorkoutSession) WorkoutSummary {
	summary := Summarize(session)

	saved, err := c.SaveWorkout(ctx, session)
	if err != nil {
		log.WithFields(log.Fields{
			"day":       session.Day,
			"exercises": len(session.Exercises),
		}).Warnf("failed to save workout session: %s", err)
		return summary
	}

	summary.Saved = true
	summary.SessionID = saved.ID
	return summary
}
