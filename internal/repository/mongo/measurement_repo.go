package mongo

import (
	"context"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const measurementCollectionName = "measurements"

type measurementDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     primitive.ObjectID `bson:"userId"`
	MeasuredAt time.Time          `bson:"measuredAt"`
	Weight     *float64           `bson:"weight,omitempty"`
	Height     *float64           `bson:"height,omitempty"`
	Chest      *float64           `bson:"chest,omitempty"`
	Waist      *float64           `bson:"waist,omitempty"`
	Hips       *float64           `bson:"hips,omitempty"`
	BicepLeft  *float64           `bson:"bicepLeft,omitempty"`
	BicepRight *float64           `bson:"bicepRight,omitempty"`
	ThighLeft  *float64           `bson:"thighLeft,omitempty"`
	ThighRight *float64           `bson:"thighRight,omitempty"`
	CalfLeft   *float64           `bson:"calfLeft,omitempty"`
	CalfRight  *float64           `bson:"calfRight,omitempty"`
	Neck       *float64           `bson:"neck,omitempty"`
	BodyFat    *float64           `bson:"bodyFat,omitempty"`
	Notes      string             `bson:"notes,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

type mongoMeasurementRepository struct {
	collection *mongo.Collection
}

// NewMongoMeasurementRepository creates a repository over the measurements collection.
func NewMongoMeasurementRepository(db *mongo.Database) repository.MeasurementRepository {
	return &mongoMeasurementRepository{
		collection: db.Collection(measurementCollectionName),
	}
}

func (r *mongoMeasurementRepository) Create(ctx context.Context, m *domain.BodyMeasurement) (string, error) {
	uid, err := objectID(m.UserID)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	doc := measurementDocument{
		ID:         primitive.NewObjectID(),
		UserID:     uid,
		MeasuredAt: m.MeasuredAt.UTC(),
		Weight:     m.Weight,
		Height:     m.Height,
		Chest:      m.Chest,
		Waist:      m.Waist,
		Hips:       m.Hips,
		BicepLeft:  m.BicepLeft,
		BicepRight: m.BicepRight,
		ThighLeft:  m.ThighLeft,
		ThighRight: m.ThighRight,
		CalfLeft:   m.CalfLeft,
		CalfRight:  m.CalfRight,
		Neck:       m.Neck,
		BodyFat:    m.BodyFat,
		Notes:      m.Notes,
		CreatedAt:  now,
	}
	if _, err = r.collection.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	m.ID = doc.ID.Hex()
	m.CreatedAt = now
	return m.ID, nil
}

func (r *mongoMeasurementRepository) ListByUser(ctx context.Context, userID string) ([]domain.BodyMeasurement, error) {
	uid, err := objectID(userID)
	if err != nil {
		return []domain.BodyMeasurement{}, nil
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "measuredAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": uid}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []measurementDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	entries := make([]domain.BodyMeasurement, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, domain.BodyMeasurement{
			ID:         d.ID.Hex(),
			UserID:     userID,
			MeasuredAt: d.MeasuredAt.UTC(),
			Weight:     d.Weight,
			Height:     d.Height,
			Chest:      d.Chest,
			Waist:      d.Waist,
			Hips:       d.Hips,
			BicepLeft:  d.BicepLeft,
			BicepRight: d.BicepRight,
			ThighLeft:  d.ThighLeft,
			ThighRight: d.ThighRight,
			CalfLeft:   d.CalfLeft,
			CalfRight:  d.CalfRight,
			Neck:       d.Neck,
			BodyFat:    d.BodyFat,
			Notes:      d.Notes,
			CreatedAt:  d.CreatedAt.UTC(),
		})
	}
	return entries, nil
}

// Delete removes the entry only when it is owned by userID; otherwise it
// reports ErrNotFound so foreign ids are indistinguishable from missing ones.
func (r *mongoMeasurementRepository) Delete(ctx context.Context, id, userID string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	uid, err := objectID(userID)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "userId": uid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func measurementIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "measuredAt", Value: -1}}},
	}
}
