package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// GetAll returns all orders, newest first.
func (r *GORMOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.db.WithContext(ctx).Order("date_ordered DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID returns an order by its ID.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByUserID returns the orders placed by one user, newest first.
func (r *GORMOrderRepository) GetByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date_ordered DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// Create adds a new order.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.DateOrdered.IsZero() {
		order.DateOrdered = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateStatus sets the status of an order and returns the updated record.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, status string) (*models.Order, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("order with ID %s for status update: %w", id, ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

// Delete removes an order. Its items are left to the caller.
func (r *GORMOrderRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the number of orders.
func (r *GORMOrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

type salesRow struct {
	TotalSales float64
	OrderCount int64
}

// TotalSales sums total_price over all orders in one query.
func (r *GORMOrderRepository) TotalSales(ctx context.Context) (float64, bool, error) {
	var row salesRow
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0) AS total_sales, COUNT(*) AS order_count").
		Scan(&row).Error
	if err != nil {
		return 0, false, fmt.Errorf("failed to aggregate total sales: %w", err)
	}
	if row.OrderCount == 0 {
		return 0, false, nil
	}
	return row.TotalSales, true, nil
}

// GORMOrderItemRepository is a GORM implementation of OrderItemRepository.
type GORMOrderItemRepository struct {
	db *gorm.DB
}

// NewGORMOrderItemRepository creates a new instance of GORMOrderItemRepository.
func NewGORMOrderItemRepository(db *gorm.DB) *GORMOrderItemRepository {
	return &GORMOrderItemRepository{db: db}
}

// Create persists an order item after checking that its product exists.
func (r *GORMOrderItemRepository) Create(ctx context.Context, item *models.OrderItem) error {
	if item.Quantity <= 0 {
		return fmt.Errorf("quantity %d for product %s: %w", item.Quantity, item.ProductID, ErrInvalidReference)
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", item.ProductID).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to look up product %s: %w", item.ProductID, err)
	}
	if n == 0 {
		return fmt.Errorf("product %s: %w", item.ProductID, ErrInvalidReference)
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	return nil
}

func (r *GORMOrderItemRepository) GetByID(ctx context.Context, id string) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order item with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order item by ID %s: %w", id, err)
	}
	return &item, nil
}

func (r *GORMOrderItemRepository) GetByIDs(ctx context.Context, ids []string) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get order items by IDs: %w", err)
	}
	return items, nil
}

func (r *GORMOrderItemRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.OrderItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order item with ID %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}
