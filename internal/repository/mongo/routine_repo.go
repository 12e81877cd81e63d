package mongo

import (
	"context"
	"fmt"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	dayMuscleGroupCollectionName = "day_muscle_groups"
	dayExerciseCollectionName    = "day_exercises"
)

type dayMuscleGroupDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        primitive.ObjectID `bson:"userId"`
	Day           int                `bson:"day"`
	MuscleGroupID primitive.ObjectID `bson:"muscleGroupId"`
	Position      int                `bson:"position"`
}

type dayExerciseDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     primitive.ObjectID `bson:"userId"`
	Day        int                `bson:"day"`
	ExerciseID primitive.ObjectID `bson:"exerciseId"`
	Sets       int                `bson:"sets"`
	Reps       int                `bson:"reps"`
	Weight     float64            `bson:"weight"`
	SetDetails domain.SetDetails  `bson:"setDetails,omitempty"`
	Position   int                `bson:"position"`
}

// mongoRoutineRepository keeps the two row kinds of a day routine in
// separate collections, keyed by (userId, day).
type mongoRoutineRepository struct {
	groups    *mongo.Collection
	exercises *mongo.Collection
}

// NewMongoRoutineRepository creates a new routine repository.
func NewMongoRoutineRepository(db *mongo.Database) repository.RoutineRepository {
	return &mongoRoutineRepository{
		groups:    db.Collection(dayMuscleGroupCollectionName),
		exercises: db.Collection(dayExerciseCollectionName),
	}
}

func (r *mongoRoutineRepository) GetDay(ctx context.Context, userID string, day time.Weekday) ([]domain.DayMuscleGroup, []domain.DayExercise, error) {
	uid, err := objectID(userID)
	if err != nil {
		return nil, nil, err
	}
	filter := bson.M{"userId": uid, "day": int(day)}
	byPosition := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})

	groupCursor, err := r.groups.Find(ctx, filter, byPosition)
	if err != nil {
		return nil, nil, err
	}
	var groupDocs []dayMuscleGroupDocument
	if err = groupCursor.All(ctx, &groupDocs); err != nil {
		return nil, nil, err
	}

	exerciseCursor, err := r.exercises.Find(ctx, filter, byPosition)
	if err != nil {
		return nil, nil, err
	}
	var exerciseDocs []dayExerciseDocument
	if err = exerciseCursor.All(ctx, &exerciseDocs); err != nil {
		return nil, nil, err
	}

	groups := make([]domain.DayMuscleGroup, 0, len(groupDocs))
	for _, d := range groupDocs {
		groups = append(groups, domain.DayMuscleGroup{
			UserID:        userID,
			Day:           day,
			MuscleGroupID: d.MuscleGroupID.Hex(),
			Position:      d.Position,
		})
	}
	exercises := make([]domain.DayExercise, 0, len(exerciseDocs))
	for _, d := range exerciseDocs {
		exercises = append(exercises, domain.DayExercise{
			UserID:     userID,
			Day:        day,
			ExerciseID: d.ExerciseID.Hex(),
			Sets:       d.Sets,
			Reps:       d.Reps,
			Weight:     d.Weight,
			SetDetails: d.SetDetails,
			Position:   d.Position,
		})
	}
	return groups, exercises, nil
}

// ReplaceDay deletes then inserts. The two steps are not atomic; concurrent
// writers to the same day end up with last-write-wins.
func (r *mongoRoutineRepository) ReplaceDay(ctx context.Context, userID string, day time.Weekday, groups []domain.DayMuscleGroup, exercises []domain.DayExercise) error {
	uid, err := objectID(userID)
	if err != nil {
		return err
	}

	groupDocs := make([]interface{}, 0, len(groups))
	for _, g := range groups {
		gid, err := primitive.ObjectIDFromHex(g.MuscleGroupID)
		if err != nil {
			return repository.ErrInvalidID
		}
		groupDocs = append(groupDocs, dayMuscleGroupDocument{
			ID:            primitive.NewObjectID(),
			UserID:        uid,
			Day:           int(day),
			MuscleGroupID: gid,
			Position:      g.Position,
		})
	}
	exerciseDocs := make([]interface{}, 0, len(exercises))
	for _, e := range exercises {
		eid, err := primitive.ObjectIDFromHex(e.ExerciseID)
		if err != nil {
			return repository.ErrInvalidID
		}
		exerciseDocs = append(exerciseDocs, dayExerciseDocument{
			ID:         primitive.NewObjectID(),
			UserID:     uid,
			Day:        int(day),
			ExerciseID: eid,
			Sets:       e.Sets,
			Reps:       e.Reps,
			Weight:     e.Weight,
			SetDetails: e.SetDetails,
			Position:   e.Position,
		})
	}

	filter := bson.M{"userId": uid, "day": int(day)}
	if _, err = r.groups.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("clear day muscle groups: %w", err)
	}
	if _, err = r.exercises.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("clear day exercises: %w", err)
	}

	if len(groupDocs) > 0 {
		if _, err = r.groups.InsertMany(ctx, groupDocs); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return repository.ErrDuplicate
			}
			return fmt.Errorf("insert day muscle groups: %w", err)
		}
	}
	if len(exerciseDocs) > 0 {
		if _, err = r.exercises.InsertMany(ctx, exerciseDocs); err != nil {
			return fmt.Errorf("insert day exercises: %w", err)
		}
	}
	return nil
}

func dayMuscleGroupIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "day", Value: 1},
				{Key: "muscleGroupId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}
}

func dayExerciseIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "day", Value: 1}, {Key: "position", Value: 1}}},
	}
}
