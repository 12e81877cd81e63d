// internal/repository/mongo/exercise_repo.go
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

const (
	muscleGroupCollectionName = "muscle_groups"
	exerciseCollectionName    = "exercises"
)

type muscleGroupDocument struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

type exerciseDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	MuscleGroupID primitive.ObjectID `bson:"muscleGroupId"`
	ImageURL      string             `bson:"imageUrl,omitempty"`
	CreatedBy     primitive.ObjectID `bson:"createdBy,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d *exerciseDocument) toDomain() domain.Exercise {
	return domain.Exercise{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		MuscleGroupID: d.MuscleGroupID.Hex(),
		ImageURL:      d.ImageURL,
		CreatedBy:     hexOrEmpty(d.CreatedBy),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type mongoMuscleGroupRepository struct {
	collection *mongo.Collection
}

// NewMongoMuscleGroupRepository creates a repository over the muscle_groups collection.
func NewMongoMuscleGroupRepository(db *mongo.Database) repository.MuscleGroupRepository {
	return &mongoMuscleGroupRepository{
		collection: db.Collection(muscleGroupCollectionName),
	}
}

func (r *mongoMuscleGroupRepository) Create(ctx context.Context, group *domain.MuscleGroup) (string, error) {
	if group.Name == "" {
		return "", errors.New("muscle group name is required")
	}
	doc := muscleGroupDocument{ID: primitive.NewObjectID(), Name: group.Name}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrDuplicate
		}
		return "", err
	}
	group.ID = doc.ID.Hex()
	return group.ID, nil
}

// List returns the groups in insertion order, which is the seed order.
func (r *mongoMuscleGroupRepository) List(ctx context.Context) ([]domain.MuscleGroup, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []muscleGroupDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	groups := make([]domain.MuscleGroup, 0, len(docs))
	for _, d := range docs {
		groups = append(groups, domain.MuscleGroup{ID: d.ID.Hex(), Name: d.Name})
	}
	return groups, nil
}

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new exercise repository.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

func (r *mongoExerciseRepository) toDocument(exercise *domain.Exercise) (exerciseDocument, error) {
	groupID, err := primitive.ObjectIDFromHex(exercise.MuscleGroupID)
	if err != nil {
		return exerciseDocument{}, repository.ErrInvalidID
	}
	doc := exerciseDocument{
		Name:          exercise.Name,
		MuscleGroupID: groupID,
		ImageURL:      exercise.ImageURL,
	}
	if exercise.CreatedBy != "" {
		if doc.CreatedBy, err = primitive.ObjectIDFromHex(exercise.CreatedBy); err != nil {
			return exerciseDocument{}, repository.ErrInvalidID
		}
	}
	return doc, nil
}

// Create inserts a new exercise into the catalog.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (string, error) {
	if exercise.Name == "" {
		return "", errors.New("exercise name is required")
	}
	doc, err := r.toDocument(exercise)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err = r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrDuplicate
		}
		return "", err
	}

	exercise.ID = doc.ID.Hex()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now
	return exercise.ID, nil
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc exerciseDocument
	if err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	exercise := doc.toDomain()
	return &exercise, nil
}

// List retrieves exercises sorted by name, optionally for one muscle group.
func (r *mongoExerciseRepository) List(ctx context.Context, muscleGroupID string) ([]domain.Exercise, error) {
	filter := bson.M{}
	if muscleGroupID != "" {
		groupID, err := primitive.ObjectIDFromHex(muscleGroupID)
		if err != nil {
			// An unknown group simply has no exercises
			return []domain.Exercise{}, nil
		}
		filter["muscleGroupId"] = groupID
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []exerciseDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	exercises := make([]domain.Exercise, 0, len(docs))
	for i := range docs {
		exercises = append(exercises, docs[i].toDomain())
	}
	return exercises, nil
}

// Update modifies name, muscle group and image of an existing exercise.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	oid, err := objectID(exercise.ID)
	if err != nil {
		return err
	}
	doc, err := r.toDocument(exercise)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":          doc.Name,
			"muscleGroupId": doc.MuscleGroupID,
			"imageUrl":      doc.ImageURL,
			"updatedAt":     now,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	exercise.UpdatedAt = now
	return nil
}

func muscleGroupIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}

func exerciseIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "muscleGroupId", Value: 1}, {Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}
}
