package repositories

import (
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Store groups the repositories of one backing database.
type Store struct {
	Categories CategoryRepository
	Products   ProductRepository
	Users      UserRepository
	Orders     OrderRepository
	OrderItems OrderItemRepository
}

// NewGORMStore builds a Store on a SQL database.
func NewGORMStore(db *gorm.DB) *Store {
	return &Store{
		Categories: NewGORMCategoryRepository(db),
		Products:   NewGORMProductRepository(db),
		Users:      NewGORMUserRepository(db),
		Orders:     NewGORMOrderRepository(db),
		OrderItems: NewGORMOrderItemRepository(db),
	}
}

// NewMongoStore builds a Store on a MongoDB database.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Categories: NewMongoCategoryRepository(db),
		Products:   NewMongoProductRepository(db),
		Users:      NewMongoUserRepository(db),
		Orders:     NewMongoOrderRepository(db),
		OrderItems: NewMongoOrderItemRepository(db),
	}
}
