package client

import (
	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/stats"
)

// Wire types shared with the server, re-exported so callers outside this
// module can name them.
type (
	Role                  = domain.Role
	MuscleGroup           = domain.MuscleGroup
	Exercise              = domain.Exercise
	SetDetail             = domain.SetDetail
	SetDetails            = domain.SetDetails
	DayRoutine            = domain.DayRoutine
	PlannedExercise       = domain.RoutineExercise
	WorkoutSession        = domain.WorkoutSession
	WorkoutExerciseLog    = domain.WorkoutExerciseLog
	ExerciseProgressEntry = domain.ExerciseProgressEntry
	BodyMeasurement       = domain.BodyMeasurement

	Stats             = stats.Summary
	WeekBucket        = stats.WeekBucket
	ExerciseCount     = stats.ExerciseCount
	ProgressionSeries = stats.ProgressionSeries
	ProgressionPoint  = stats.ProgressionPoint
)

const (
	RoleStandard  = domain.RoleStandard
	RoleAdmin     = domain.RoleAdmin
	RoleSuperuser = domain.RoleSuperuser
)
