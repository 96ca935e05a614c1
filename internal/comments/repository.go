package comments

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
)

// Repository stores immutable comments. There is no update or delete.
type Repository interface {
	Insert(ctx context.Context, c *models.Comment) error
	ListByInterview(ctx context.Context, interviewID string) ([]*models.Comment, error)
}

type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "interviewId", Value: 1}, {Key: "createdAt", Value: 1}},
		Options: options.Index().SetName("by_interview"),
	}
	if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
		return nil, fmt.Errorf("create comments index: %w", err)
	}
	return &MongoRepo{col: col}, nil
}

func (m *MongoRepo) Insert(ctx context.Context, c *models.Comment) error {
	_, err := m.col.InsertOne(ctx, c)
	return err
}

func (m *MongoRepo) ListByInterview(ctx context.Context, interviewID string) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{"interviewId": interviewID}, opts)
	if err != nil {
		return nil, err
	}
	out := []*models.Comment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MemoryRepo keeps comments in insertion order.
type MemoryRepo struct {
	mu   sync.RWMutex
	rows []*models.Comment
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) Insert(ctx context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *MemoryRepo) ListByInterview(ctx context.Context, interviewID string) ([]*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*models.Comment{}
	for _, c := range m.rows {
		if c.InterviewID == interviewID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
