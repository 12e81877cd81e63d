package domain

import (
	"time"
)

// Weekdays lists the days a routine may be configured for, in display order.
var Weekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
}

// IsValidDay reports whether d is a weekday number in the Sunday=0..Saturday=6 range.
func IsValidDay(d time.Weekday) bool {
	return d >= time.Sunday && d <= time.Saturday
}

// IsRoutineDay reports whether a routine can be stored for d (Monday to Friday).
func IsRoutineDay(d time.Weekday) bool {
	return d >= time.Monday && d <= time.Friday
}

// DayMuscleGroup marks a muscle group as active for one user's weekday.
// Unique on (UserID, Day, MuscleGroupID).
type DayMuscleGroup struct {
	UserID        string       `json:"userId"`
	Day           time.Weekday `json:"day"`
	MuscleGroupID string       `json:"muscleGroupId"`
	Position      int          `json:"position"`
}

// DayExercise assigns an exercise with its target volume to one user's weekday.
type DayExercise struct {
	UserID     string       `json:"userId"`
	Day        time.Weekday `json:"day"`
	ExerciseID string       `json:"exerciseId"`
	Sets       int          `json:"sets"`
	Reps       int          `json:"reps"`
	Weight     float64      `json:"weight"`
	SetDetails SetDetails   `json:"setDetails,omitempty"`
	Position   int          `json:"position"`
}

// ApplySetDetails overwrites the flat summary when set details are present.
func (e *DayExercise) ApplySetDetails() {
	if sets, reps, weight, ok := e.SetDetails.Summarize(); ok {
		e.Sets, e.Reps, e.Weight = sets, reps, weight
	}
}

// RoutineExercise is the read view of a DayExercise joined with the catalog.
// MuscleGroupName is resolved from the exercise's current muscle group at
// read time, so re-categorizing an exercise changes how routines display.
type RoutineExercise struct {
	ExerciseID      string     `json:"exerciseId"`
	ExerciseName    string     `json:"exerciseName"`
	MuscleGroupID   string     `json:"muscleGroupId"`
	MuscleGroupName string     `json:"muscleGroupName"`
	ImageURL        string     `json:"imageUrl,omitempty"`
	Sets            int        `json:"sets"`
	Reps            int        `json:"reps"`
	Weight          float64    `json:"weight"`
	SetDetails      SetDetails `json:"setDetails"`
}

// DayRoutine is the aggregated routine of one user for one weekday.
type DayRoutine struct {
	Day          time.Weekday      `json:"day"`
	MuscleGroups []MuscleGroup     `json:"muscleGroups"`
	Exercises    []RoutineExercise `json:"exercises"`
}

// EmptyDayRoutine returns a routine with non-nil empty lists so it encodes as [].
func EmptyDayRoutine(day time.Weekday) DayRoutine {
	return DayRoutine{
		Day:          day,
		MuscleGroups: []MuscleGroup{},
		Exercises:    []RoutineExercise{},
	}
}
