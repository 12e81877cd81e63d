package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// RoutineExercise is one exercise planned for a day. SetDetails, when
// present, overrides the flat sets/reps/weight on the server.
type RoutineExercise struct {
	ExerciseID string     `json:"exerciseId"`
	Sets       int        `json:"sets"`
	Reps       int        `json:"reps"`
	Weight     float64    `json:"weight"`
	SetDetails SetDetails `json:"setDetails,omitempty"`
}

type DayRoutineInput struct {
	MuscleGroupIDs []string          `json:"muscleGroupIds"`
	Exercises      []RoutineExercise `json:"exercises"`
}

// MeasurementLog is the user's measurement history plus the fields ever tracked.
type MeasurementLog struct {
	Measurements  []BodyMeasurement `json:"measurements"`
	TrackedFields []string          `json:"trackedFields"`
}

func dayPath(day time.Weekday) string {
	return "/routines/" + strconv.Itoa(int(day))
}

// WeekRoutine returns Monday through Friday, in that order.
func (c *Client) WeekRoutine(ctx context.Context) ([]DayRoutine, error) {
	var week []DayRoutine
	if err := c.do(ctx, http.MethodGet, "/routines", nil, &week); err != nil {
		return nil, err
	}
	return week, nil
}

func (c *Client) DayRoutine(ctx context.Context, day time.Weekday) (*DayRoutine, error) {
	var routine DayRoutine
	if err := c.do(ctx, http.MethodGet, dayPath(day), nil, &routine); err != nil {
		return nil, err
	}
	return &routine, nil
}

// SetDayRoutine replaces the whole configuration of a weekday.
func (c *Client) SetDayRoutine(ctx context.Context, day time.Weekday, input DayRoutineInput) (*DayRoutine, error) {
	var routine DayRoutine
	if err := c.do(ctx, http.MethodPut, dayPath(day), input, &routine); err != nil {
		return nil, err
	}
	return &routine, nil
}

// SaveWorkout persists a finished session. Use CompleteWorkout when a
// failed save must not interrupt the caller.
func (c *Client) SaveWorkout(ctx context.Context, session WorkoutSession) (*WorkoutSession, error) {
	var saved WorkoutSession
	if err := c.do(ctx, http.MethodPost, "/workouts", session, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// WorkoutHistory lists sessions newest first. A limit of 0 uses the server default.
func (c *Client) WorkoutHistory(ctx context.Context, limit int) ([]WorkoutSession, error) {
	path := "/workouts"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var sessions []WorkoutSession
	if err := c.do(ctx, http.MethodGet, path, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) WorkoutStats(ctx context.Context) (*Stats, error) {
	var summary Stats
	if err := c.do(ctx, http.MethodGet, "/workouts/stats", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) ExerciseProgress(ctx context.Context, exerciseID string) ([]ExerciseProgressEntry, error) {
	var entries []ExerciseProgressEntry
	path := "/workouts/exercise/" + url.PathEscape(exerciseID) + "/progress"
	if err := c.do(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) CreateMeasurement(ctx context.Context, m BodyMeasurement) (*BodyMeasurement, error) {
	var created BodyMeasurement
	if err := c.do(ctx, http.MethodPost, "/measurements", m, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) Measurements(ctx context.Context) (*MeasurementLog, error) {
	var measurementLog MeasurementLog
	if err := c.do(ctx, http.MethodGet, "/measurements", nil, &measurementLog); err != nil {
		return nil, err
	}
	return &measurementLog, nil
}

func (c *Client) DeleteMeasurement(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/measurements/"+url.PathEscape(id), nil, nil)
}
