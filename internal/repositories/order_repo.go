package repositories

import (
	"context"

	"eshop/internal/models"
)

// OrderRepository defines the interface for order data access.
// Listings are sorted by date ordered, newest first.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id string, status string) (*models.Order, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// TotalSales sums totalPrice over all orders. ok is false when there
	// is nothing to aggregate.
	TotalSales(ctx context.Context) (total float64, ok bool, err error)
}

// OrderItemRepository defines the interface for order item data access.
// Create rejects a non-positive quantity or an unknown product with
// ErrInvalidReference.
type OrderItemRepository interface {
	Create(ctx context.Context, item *models.OrderItem) error
	GetByID(ctx context.Context, id string) (*models.OrderItem, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.OrderItem, error)
	Delete(ctx context.Context, id string) error
}
