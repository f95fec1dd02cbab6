package services

import (
	"context"
	"errors"
	"fmt"

	"eshop/internal/models"

	"golang.org/x/sync/errgroup"
)

var errOrderListUnavailable = errors.New("order list unavailable")

// ListOrders returns every order, newest first, with the user reduced to
// its name.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		return nil, errOrderListUnavailable
	}
	if err := s.attachUsers(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder returns one order with its user and every item resolved down to
// the product and the product's category.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	orders := []models.Order{*order}
	if err := s.populate(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// ListUserOrders returns the orders placed by userID, newest first, resolved
// like GetOrder.
func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orders.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	if orders == nil {
		return nil, errOrderListUnavailable
	}
	if err := s.populate(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CountOrders returns the number of stored orders.
func (s *OrderService) CountOrders(ctx context.Context) (int64, error) {
	n, err := s.orders.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

// TotalSales sums the total price of all orders.
func (s *OrderService) TotalSales(ctx context.Context) (float64, error) {
	total, ok, err := s.orders.TotalSales(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to compute total sales: %w", err)
	}
	if !ok {
		return 0, ErrNoSales
	}
	return total, nil
}

// populate resolves users and items of orders in place. The user lookup and
// the item chain touch different fields and run side by side.
func (s *OrderService) populate(ctx context.Context, orders []models.Order) error {
	var g errgroup.Group
	g.Go(func() error { return s.attachUsers(ctx, orders) })
	g.Go(func() error { return s.attachOrderItems(ctx, orders) })
	return g.Wait()
}

func (s *OrderService) attachUsers(ctx context.Context, orders []models.Order) error {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.UserID)
	}
	users, err := s.users.GetByIDs(ctx, distinct(ids))
	if err != nil {
		return fmt.Errorf("failed to load order users: %w", err)
	}

	byID := make(map[string]models.UserSummary, len(users))
	for _, u := range users {
		byID[u.ID] = models.UserSummary{ID: u.ID, Name: u.Name}
	}
	for i := range orders {
		if u, ok := byID[orders[i].UserID]; ok {
			orders[i].User = &u
		}
	}
	return nil
}

// attachOrderItems fills OrderItems in OrderItemIDs order. Items, products
// and categories are each fetched with one batched lookup; references that
// no longer resolve are left out.
func (s *OrderService) attachOrderItems(ctx context.Context, orders []models.Order) error {
	var itemIDs []string
	for _, o := range orders {
		itemIDs = append(itemIDs, o.OrderItemIDs...)
	}
	items, err := s.orderItems.GetByIDs(ctx, distinct(itemIDs))
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}

	productIDs := make([]string, 0, len(items))
	for _, it := range items {
		productIDs = append(productIDs, it.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, distinct(productIDs))
	if err != nil {
		return fmt.Errorf("failed to load order products: %w", err)
	}

	categoryIDs := make([]string, 0, len(products))
	for _, p := range products {
		categoryIDs = append(categoryIDs, p.CategoryID)
	}
	categories, err := s.categories.GetByIDs(ctx, distinct(categoryIDs))
	if err != nil {
		return fmt.Errorf("failed to load product categories: %w", err)
	}

	categoryByID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}
	productByID := make(map[string]models.Product, len(products))
	for _, p := range products {
		if c, ok := categoryByID[p.CategoryID]; ok {
			p.Category = &c
		}
		productByID[p.ID] = p
	}
	itemByID := make(map[string]models.OrderItem, len(items))
	for _, it := range items {
		if p, ok := productByID[it.ProductID]; ok {
			it.Product = &p
		}
		itemByID[it.ID] = it
	}

	for i := range orders {
		resolved := make([]models.OrderItem, 0, len(orders[i].OrderItemIDs))
		for _, id := range orders[i].OrderItemIDs {
			if it, ok := itemByID[id]; ok {
				resolved = append(resolved, it)
			}
		}
		orders[i].OrderItems = resolved
	}
	return nil
}

// distinct drops empty and repeated IDs, keeping first-seen order.
func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
