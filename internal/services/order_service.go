package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eshop/internal/models"
	"eshop/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// OrderEventPublisher publishes order events. *rabbitmq.Client implements it.
type OrderEventPublisher interface {
	PublishEvent(routingKey string, event any) error
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orders     repositories.OrderRepository
	orderItems repositories.OrderItemRepository
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	users      repositories.UserRepository
	publisher  OrderEventPublisher // nil disables events
	validate   *validator.Validate
	workers    int
}

// NewOrderService creates a new OrderService. workers bounds the number of
// concurrent store calls issued by one batch.
func NewOrderService(store *repositories.Store, publisher OrderEventPublisher, workers int) *OrderService {
	if workers <= 0 {
		workers = 1
	}
	return &OrderService{
		orders:     store.Orders,
		orderItems: store.OrderItems,
		products:   store.Products,
		categories: store.Categories,
		users:      store.Users,
		publisher:  publisher,
		validate:   models.NewValidator(),
		workers:    workers,
	}
}

// CreateOrder places an order: it creates one order item per requested line,
// prices every item from its product's current price, and saves the order
// with the computed total. Items created before a failure are deleted again.
func (s *OrderService) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	if len(req.OrderItems) == 0 {
		return nil, fmt.Errorf("%w: an order needs at least one item", ErrValidation)
	}

	itemIDs, err := s.createOrderItems(ctx, req.OrderItems)
	if err != nil {
		return nil, err
	}

	total, err := s.totalPrice(ctx, itemIDs)
	if err != nil {
		s.discardOrderItems(ctx, itemIDs)
		return nil, err
	}

	order := &models.Order{
		OrderItemIDs:     itemIDs,
		ShippingAddress:  req.ShippingAddress,
		ShippingAddress2: req.ShippingAddress2,
		City:             req.City,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
		Status:           req.Status,
		TotalPrice:       total,
		UserID:           req.User,
		DateOrdered:      time.Now().UTC(),
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}

	if err := s.validate.Struct(order); err != nil {
		s.discardOrderItems(ctx, itemIDs)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreation, err)
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.discardOrderItems(ctx, itemIDs)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreation, err)
	}

	log.WithFields(log.Fields{
		"order_id": order.ID,
		"items":    len(itemIDs),
		"total":    order.TotalPrice,
	}).Info("Order created")

	s.publish(models.OrderEvent{
		Type:       models.EventOrderCreated,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		ItemCount:  len(itemIDs),
	})
	return order, nil
}

// createOrderItems creates every line concurrently and returns the item IDs
// in request order. Siblings of a failed creation run to completion and are
// then deleted.
func (s *OrderService) createOrderItems(ctx context.Context, lines []models.OrderLineRequest) ([]string, error) {
	ids := make([]string, len(lines))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, line := range lines {
		g.Go(func() error {
			item := &models.OrderItem{Quantity: line.Quantity, ProductID: line.Product}
			if err := s.orderItems.Create(ctx, item); err != nil {
				return fmt.Errorf("failed to create order item for product %s: %w", line.Product, err)
			}
			ids[i] = item.ID
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		created := make([]string, 0, len(ids))
		for _, id := range ids {
			if id != "" {
				created = append(created, id)
			}
		}
		s.discardOrderItems(ctx, created)
		return nil, err
	}
	return ids, nil
}

// totalPrice fetches every item with its product concurrently and sums
// quantity times the product's current price.
func (s *OrderService) totalPrice(ctx context.Context, itemIDs []string) (float64, error) {
	subtotals := make([]decimal.Decimal, len(itemIDs))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, id := range itemIDs {
		g.Go(func() error {
			item, err := s.orderItems.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load order item %s: %w", id, err)
			}
			product, err := s.products.GetByID(ctx, item.ProductID)
			if err != nil {
				return fmt.Errorf("failed to price order item %s: %w", id, err)
			}
			subtotals[i] = decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := decimal.Zero
	for _, st := range subtotals {
		total = total.Add(st)
	}
	return total.InexactFloat64(), nil
}

// discardOrderItems deletes order items left behind by a failed creation.
// It runs even if ctx was cancelled; failures are only logged.
func (s *OrderService) discardOrderItems(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(s.workers)
	for _, id := range ids {
		g.Go(func() error {
			if err := s.orderItems.Delete(ctx, id); err != nil && !errors.Is(err, repositories.ErrNotFound) {
				log.WithError(err).WithField("order_item_id", id).Error("Failed to discard order item")
			}
			return nil
		})
	}
	_ = g.Wait()
}

// UpdateOrderStatus changes only the status of an order.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: invalid order status %q, expected one of %s",
			ErrValidation, status, strings.Join(models.OrderStatuses, ", "))
	}

	order, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}

	s.publish(models.OrderEvent{
		Type:    models.EventOrderStatusUpdated,
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  order.Status,
	})
	return order, nil
}

// DeleteOrder removes an order and the order items it owns. The items go
// first so an interrupted delete never leaves unreachable items behind.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for _, itemID := range order.OrderItemIDs {
		g.Go(func() error {
			err := s.orderItems.Delete(ctx, itemID)
			if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("failed to delete order item %s: %w", itemID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}

	log.WithField("order_id", id).Info("Order deleted")
	s.publish(models.OrderEvent{
		Type:    models.EventOrderDeleted,
		OrderID: id,
		UserID:  order.UserID,
	})
	return nil
}

func (s *OrderService) publish(event models.OrderEvent) {
	if s.publisher == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()
	if err := s.publisher.PublishEvent(event.Type, event); err != nil {
		log.WithError(err).WithField("order_id", event.OrderID).Warn("Failed to publish order event")
	}
}
