package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by the MongoDB repositories and index setup.
const (
	CollectionCategories = "categories"
	CollectionProducts   = "products"
	CollectionUsers      = "users"
	CollectionOrders     = "orders"
	CollectionOrderItems = "orderitems"
)

// mongoCollection implements the lookups every MongoDB repository shares.
// Documents are keyed by string _id.
type mongoCollection[T any] struct {
	coll *mongo.Collection
	kind string
}

func newMongoCollection[T any](db *mongo.Database, name, kind string) mongoCollection[T] {
	return mongoCollection[T]{coll: db.Collection(name), kind: kind}
}

func (c mongoCollection[T]) find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := c.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s documents: %w", c.kind, err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s documents: %w", c.kind, err)
	}
	return out, nil
}

func (c mongoCollection[T]) findOne(ctx context.Context, filter any, what string) (*T, error) {
	var doc T
	if err := c.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s with %s: %w", c.kind, what, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s by %s: %w", c.kind, what, err)
	}
	return &doc, nil
}

func (c mongoCollection[T]) getByID(ctx context.Context, id string) (*T, error) {
	return c.findOne(ctx, bson.M{"_id": id}, "ID "+id)
}

func (c mongoCollection[T]) getByIDs(ctx context.Context, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	return c.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (c mongoCollection[T]) insert(ctx context.Context, doc *T) error {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", c.kind, ErrDuplicate)
		}
		return fmt.Errorf("failed to create %s: %w", c.kind, err)
	}
	return nil
}

func (c mongoCollection[T]) replace(ctx context.Context, id string, doc *T) error {
	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", c.kind, ErrDuplicate)
		}
		return fmt.Errorf("failed to update %s: %w", c.kind, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s with ID %s for update: %w", c.kind, id, ErrNotFound)
	}
	return nil
}

func (c mongoCollection[T]) delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", c.kind, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s with ID %s for deletion: %w", c.kind, id, ErrNotFound)
	}
	return nil
}

func (c mongoCollection[T]) count(ctx context.Context, filter any) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s documents: %w", c.kind, err)
	}
	return n, nil
}

// EnsureMongoIndexes creates the indexes the repositories rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionOrders: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "dateOrdered", Value: -1}}},
			{Keys: bson.D{{Key: "dateOrdered", Value: -1}}},
		},
		CollectionProducts: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "isFeatured", Value: 1}}},
		},
	}
	for name, idx := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}
