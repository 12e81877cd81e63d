package mongo

import (
	"context"
	"time"

	"fitcycle/server/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary: Connect succeeds even when the server is unreachable.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewStore wires every Mongo-backed repository onto one database.
func NewStore(db *mongo.Database) *repository.Store {
	return &repository.Store{
		Users:        NewMongoUserRepository(db),
		MuscleGroups: NewMongoMuscleGroupRepository(db),
		Exercises:    NewMongoExerciseRepository(db),
		Routines:     NewMongoRoutineRepository(db),
		Workouts:     NewMongoWorkoutRepository(db),
		Measurements: NewMongoMeasurementRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection. Failures are logged,
// not fatal: the service works without them, only slower.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	ensure := func(collection string, indexes []mongo.IndexModel) {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
			log.Warnf("failed to create indexes for collection %s: %s", collection, err)
		}
	}
	ensure(userCollectionName, userIndexes())
	ensure(muscleGroupCollectionName, muscleGroupIndexes())
	ensure(exerciseCollectionName, exerciseIndexes())
	ensure(dayMuscleGroupCollectionName, dayMuscleGroupIndexes())
	ensure(dayExerciseCollectionName, dayExerciseIndexes())
	ensure(workoutCollectionName, workoutIndexes())
	ensure(measurementCollectionName, measurementIndexes())
}

// objectID converts a hex id; malformed ids are reported as not found so
// callers cannot distinguish them from ids that never existed.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return oid, nil
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}
