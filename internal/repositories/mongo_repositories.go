package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eshop/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var newestFirst = options.Find().SetSort(bson.D{{Key: "dateOrdered", Value: -1}})

// MongoCategoryRepository is a MongoDB implementation of CategoryRepository.
type MongoCategoryRepository struct {
	c mongoCollection[models.Category]
}

func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{c: newMongoCollection[models.Category](db, CollectionCategories, "category")}
}

func (r *MongoCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	return r.c.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *MongoCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.c.getByID(ctx, id)
}

func (r *MongoCategoryRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	return r.c.getByIDs(ctx, ids)
}

func (r *MongoCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	return r.c.insert(ctx, category)
}

func (r *MongoCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.c.replace(ctx, category.ID, category)
}

func (r *MongoCategoryRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	c mongoCollection[models.Product]
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{c: newMongoCollection[models.Product](db, CollectionProducts, "product")}
}

func (r *MongoProductRepository) GetAll(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	q := bson.M{}
	if len(filter.CategoryIDs) > 0 {
		q["category"] = bson.M{"$in": filter.CategoryIDs}
	}
	return r.c.find(ctx, q, options.Find().SetSort(bson.D{{Key: "dateCreated", Value: -1}}))
}

func (r *MongoProductRepository) GetFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "dateCreated", Value: -1}}).
		SetLimit(int64(limit))
	return r.c.find(ctx, bson.M{"isFeatured": true}, opts)
}

func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return r.c.getByID(ctx, id)
}

func (r *MongoProductRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	return r.c.getByIDs(ctx, ids)
}

func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	return r.c.insert(ctx, product)
}

func (r *MongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.c.replace(ctx, product.ID, product)
}

func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

func (r *MongoProductRepository) Count(ctx context.Context) (int64, error) {
	return r.c.count(ctx, bson.M{})
}

// MongoUserRepository is a MongoDB implementation of UserRepository.
// Email uniqueness relies on the index created by EnsureMongoIndexes.
type MongoUserRepository struct {
	c mongoCollection[models.User]
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{c: newMongoCollection[models.User](db, CollectionUsers, "user")}
}

func (r *MongoUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	return r.c.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.c.getByID(ctx, id)
}

func (r *MongoUserRepository) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	return r.c.getByIDs(ctx, ids)
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.c.findOne(ctx, bson.M{"email": email}, "email "+email)
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	return r.c.insert(ctx, user)
}

func (r *MongoUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.c.replace(ctx, user.ID, user)
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

func (r *MongoUserRepository) Count(ctx context.Context) (int64, error) {
	return r.c.count(ctx, bson.M{})
}

// MongoOrderRepository is a MongoDB implementation of OrderRepository.
type MongoOrderRepository struct {
	c mongoCollection[models.Order]
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{c: newMongoCollection[models.Order](db, CollectionOrders, "order")}
}

func (r *MongoOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	return r.c.find(ctx, bson.M{}, newestFirst)
}

func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return r.c.getByID(ctx, id)
}

func (r *MongoOrderRepository) GetByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	return r.c.find(ctx, bson.M{"user": userID}, newestFirst)
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.DateOrdered.IsZero() {
		order.DateOrdered = time.Now().UTC()
	}
	return r.c.insert(ctx, order)
}

func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, status string) (*models.Order, error) {
	var order models.Order
	err := r.c.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("order with ID %s for status update: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update status of order %s: %w", id, err)
	}
	return &order, nil
}

func (r *MongoOrderRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

func (r *MongoOrderRepository) Count(ctx context.Context) (int64, error) {
	return r.c.count(ctx, bson.M{})
}

// TotalSales groups every order into one bucket and sums totalPrice.
func (r *MongoOrderRepository) TotalSales(ctx context.Context) (float64, bool, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalsales", Value: bson.D{{Key: "$sum", Value: "$totalPrice"}}},
		}}},
	}
	cur, err := r.c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, false, fmt.Errorf("failed to aggregate total sales: %w", err)
	}
	var groups []struct {
		TotalSales float64 `bson:"totalsales"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return 0, false, fmt.Errorf("failed to decode total sales: %w", err)
	}
	if len(groups) == 0 {
		return 0, false, nil
	}
	return groups[0].TotalSales, true, nil
}

// MongoOrderItemRepository is a MongoDB implementation of OrderItemRepository.
type MongoOrderItemRepository struct {
	c        mongoCollection[models.OrderItem]
	products *mongo.Collection
}

func NewMongoOrderItemRepository(db *mongo.Database) *MongoOrderItemRepository {
	return &MongoOrderItemRepository{
		c:        newMongoCollection[models.OrderItem](db, CollectionOrderItems, "order item"),
		products: db.Collection(CollectionProducts),
	}
}

// Create persists an order item after checking that its product exists.
func (r *MongoOrderItemRepository) Create(ctx context.Context, item *models.OrderItem) error {
	if item.Quantity <= 0 {
		return fmt.Errorf("quantity %d for product %s: %w", item.Quantity, item.ProductID, ErrInvalidReference)
	}
	n, err := r.products.CountDocuments(ctx, bson.M{"_id": item.ProductID}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to look up product %s: %w", item.ProductID, err)
	}
	if n == 0 {
		return fmt.Errorf("product %s: %w", item.ProductID, ErrInvalidReference)
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	return r.c.insert(ctx, item)
}

func (r *MongoOrderItemRepository) GetByID(ctx context.Context, id string) (*models.OrderItem, error) {
	return r.c.getByID(ctx, id)
}

func (r *MongoOrderItemRepository) GetByIDs(ctx context.Context, ids []string) ([]models.OrderItem, error) {
	return r.c.getByIDs(ctx, ids)
}

func (r *MongoOrderItemRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}
