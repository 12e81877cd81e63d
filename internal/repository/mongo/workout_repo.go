// internal/repository/mongo/workout_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// Exercise logs are embedded in the session document. ExerciseID is kept as
// the client sent it, the log is a snapshot and need not resolve.
type workoutExerciseLogDocument struct {
	ExerciseID      string            `bson:"exerciseId"`
	ExerciseName    string            `bson:"exerciseName"`
	MuscleGroupName string            `bson:"muscleGroupName,omitempty"`
	Sets            int               `bson:"sets"`
	Reps            int               `bson:"reps"`
	Weight          float64           `bson:"weight"`
	SetDetails      domain.SetDetails `bson:"setDetails,omitempty"`
}

type workoutDocument struct {
	ID          primitive.ObjectID           `bson:"_id,omitempty"`
	UserID      primitive.ObjectID           `bson:"userId"`
	Day         int                          `bson:"day"`
	StartedAt   time.Time                    `bson:"startedAt"`
	CompletedAt time.Time                    `bson:"completedAt"`
	Exercises   []workoutExerciseLogDocument `bson:"exercises"`
	CreatedAt   time.Time                    `bson:"createdAt"`
}

func (d *workoutDocument) toDomain() domain.WorkoutSession {
	logs := make([]domain.WorkoutExerciseLog, 0, len(d.Exercises))
	for _, l := range d.Exercises {
		logs = append(logs, domain.WorkoutExerciseLog{
			ExerciseID:      l.ExerciseID,
			ExerciseName:    l.ExerciseName,
			MuscleGroupName: l.MuscleGroupName,
			Sets:            l.Sets,
			Reps:            l.Reps,
			Weight:          l.Weight,
			SetDetails:      l.SetDetails,
		})
	}
	return domain.WorkoutSession{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		Day:         time.Weekday(d.Day),
		StartedAt:   d.StartedAt.UTC(),
		CompletedAt: d.CompletedAt.UTC(),
		Exercises:   logs,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a completed session.
func (r *mongoWorkoutRepository) Create(ctx context.Context, session *domain.WorkoutSession) (string, error) {
	uid, err := objectID(session.UserID)
	if err != nil {
		return "", err
	}
	if session.StartedAt.IsZero() || session.CompletedAt.IsZero() {
		return "", errors.New("workout requires startedAt and completedAt")
	}

	logs := make([]workoutExerciseLogDocument, 0, len(session.Exercises))
	for _, l := range session.Exercises {
		logs = append(logs, workoutExerciseLogDocument{
			ExerciseID:      l.ExerciseID,
			ExerciseName:    l.ExerciseName,
			MuscleGroupName: l.MuscleGroupName,
			Sets:            l.Sets,
			Reps:            l.Reps,
			Weight:          l.Weight,
			SetDetails:      l.SetDetails,
		})
	}

	now := time.Now().UTC()
	doc := workoutDocument{
		ID:          primitive.NewObjectID(),
		UserID:      uid,
		Day:         int(session.Day),
		StartedAt:   session.StartedAt.UTC(),
		CompletedAt: session.CompletedAt.UTC(),
		Exercises:   logs,
		CreatedAt:   now,
	}
	if _, err = r.collection.InsertOne(ctx, doc); err != nil {
		return "", err
	}

	session.ID = doc.ID.Hex()
	session.CreatedAt = now
	return session.ID, nil
}

func (r *mongoWorkoutRepository) find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]domain.WorkoutSession, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []workoutDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	sessions := make([]domain.WorkoutSession, 0, len(docs))
	for i := range docs {
		sessions = append(sessions, docs[i].toDomain())
	}
	return sessions, nil
}

// ListByUser retrieves the newest sessions first.
func (r *mongoWorkoutRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.WorkoutSession, error) {
	uid, err := objectID(userID)
	if err != nil {
		return []domain.WorkoutSession{}, nil
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"userId": uid}, findOptions)
}

// ListByExercise retrieves sessions that logged exerciseID, oldest first.
func (r *mongoWorkoutRepository) ListByExercise(ctx context.Context, userID, exerciseID string) ([]domain.WorkoutSession, error) {
	uid, err := objectID(userID)
	if err != nil {
		return []domain.WorkoutSession{}, nil
	}
	filter := bson.M{"userId": uid, "exercises.exerciseId": exerciseID}
	findOptions := options.Find().SetSort(bson.D{{Key: "completedAt", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, filter, findOptions)
}

func workoutIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "completedAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "exercises.exerciseId", Value: 1}}},
	}
}
