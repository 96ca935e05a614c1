package users

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

// Profile carries the identity-provider fields written by a sync.
// A nil Image clears the stored avatar; a nil Role keeps the stored one
// (or the candidate default on insert).
type Profile struct {
	Identity string
	Email    string
	Name     string
	Image    *string
	Role     *models.Role
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Name  *string
	Image *string
	Email *string
}

// Empty reports whether the patch carries no fields.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Image == nil && p.Email == nil
}

// UserRepository defines persistence operations for users
type UserRepository interface {
	// UpsertByIdentity atomically creates or updates the user keyed by identity.
	UpsertByIdentity(ctx context.Context, p Profile) (u *models.User, created bool, err error)
	// PatchByIdentity applies p and returns false when no user matched.
	PatchByIdentity(ctx context.Context, identity string, p Patch) (bool, error)
	DeleteByIdentity(ctx context.Context, identity string) (bool, error)
	GetByIdentity(ctx context.Context, identity string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

// MongoUserRepository implements UserRepository using MongoDB
type MongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a new repository for the given collection and
// ensures the unique identity index that keeps concurrent syncs from
// producing duplicate rows.
func NewMongoUserRepository(ctx context.Context, col *mongo.Collection) (*MongoUserRepository, error) {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "identity", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("by_identity"),
	}
	if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
		return nil, fmt.Errorf("create users index: %w", err)
	}
	return &MongoUserRepository{col: col}, nil
}

func (r *MongoUserRepository) UpsertByIdentity(ctx context.Context, p Profile) (*models.User, bool, error) {
	u, created, err := r.upsert(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		// a concurrent sync inserted the same identity first; the row exists now
		u, created, err = r.upsert(ctx, p)
	}
	return u, created, err
}

func (r *MongoUserRepository) upsert(ctx context.Context, p Profile) (*models.User, bool, error) {
	// BSON dates carry millisecond precision; truncating lets createdAt identify the insert.
	now := time.Now().UTC().Truncate(time.Millisecond)
	set := bson.M{
		"email":     p.Email,
		"name":      p.Name,
		"updatedAt": now,
	}
	setOnInsert := bson.M{"createdAt": now}
	if p.Role != nil {
		set["role"] = *p.Role
	} else {
		setOnInsert["role"] = models.RoleCandidate
	}
	update := bson.M{"$set": set, "$setOnInsert": setOnInsert}
	if p.Image != nil {
		set["image"] = *p.Image
	} else {
		update["$unset"] = bson.M{"image": ""}
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var u models.User
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"identity": p.Identity}, update, opts).Decode(&u); err != nil {
		return nil, false, err
	}
	return &u, u.CreatedAt.Equal(now), nil
}

func (r *MongoUserRepository) PatchByIdentity(ctx context.Context, identity string, p Patch) (bool, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Image != nil {
		set["image"] = *p.Image
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"identity": identity}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoUserRepository) DeleteByIdentity(ctx context.Context, identity string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"identity": identity})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoUserRepository) GetByIdentity(ctx context.Context, identity string) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"identity": identity}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]*models.User, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	out := []*models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
