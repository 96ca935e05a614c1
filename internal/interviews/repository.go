package interviews

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
)

// Repository persists interviews. Lookups return nil, nil on absence.
type Repository interface {
	Insert(ctx context.Context, iv *models.Interview) error
	List(ctx context.Context) ([]*models.Interview, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]*models.Interview, error)
	Get(ctx context.Context, id string) (*models.Interview, error)
	GetByCallRef(ctx context.Context, callRef string) (*models.Interview, error)
	// SetStatus writes to when the stored status equals from; an empty from
	// matches any status. It returns false when nothing matched.
	SetStatus(ctx context.Context, id string, from, to models.Status) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// MongoRepo implements Repository on the interviews collection.
type MongoRepo struct {
	col *mongo.Collection
}

// NewMongoRepo ensures the candidate index used by ListByCandidate and the
// unique call reference index.
func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "candidateId", Value: 1}}, Options: options.Index().SetName("by_candidate")},
		{Keys: bson.D{{Key: "callRef", Value: 1}}, Options: options.Index().SetUnique(true).SetName("by_call_ref")},
	}
	if _, err := col.Indexes().CreateMany(ctx, idx); err != nil {
		return nil, fmt.Errorf("create interviews indexes: %w", err)
	}
	return &MongoRepo{col: col}, nil
}

func (m *MongoRepo) Insert(ctx context.Context, iv *models.Interview) error {
	if _, err := m.col.InsertOne(ctx, iv); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("call reference %q already used: %w", iv.CallRef, models.ErrConflict)
		}
		return err
	}
	return nil
}

func (m *MongoRepo) find(ctx context.Context, filter bson.M) ([]*models.Interview, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []*models.Interview{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*models.Interview, error) {
	return m.find(ctx, bson.M{})
}

func (m *MongoRepo) ListByCandidate(ctx context.Context, candidateID string) ([]*models.Interview, error) {
	return m.find(ctx, bson.M{"candidateId": candidateID})
}

func (m *MongoRepo) findOne(ctx context.Context, filter bson.M) (*models.Interview, error) {
	var iv models.Interview
	if err := m.col.FindOne(ctx, filter).Decode(&iv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &iv, nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*models.Interview, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *MongoRepo) GetByCallRef(ctx context.Context, callRef string) (*models.Interview, error) {
	return m.findOne(ctx, bson.M{"callRef": callRef})
}

func (m *MongoRepo) SetStatus(ctx context.Context, id string, from, to models.Status) (bool, error) {
	filter := bson.M{"_id": id}
	if from != "" {
		filter["status"] = from
	}
	res, err := m.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
