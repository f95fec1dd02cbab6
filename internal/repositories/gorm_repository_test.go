package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"eshop/internal/database"
	"eshop/internal/models"
	"eshop/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a private in-memory SQLite database per test.
func newTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.OpenGORM(database.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repositories.NewGORMStore(db)
}

func seedProduct(t *testing.T, store *repositories.Store, price float64) *models.Product {
	t.Helper()
	ctx := context.Background()
	category := &models.Category{Name: "Misc"}
	require.NoError(t, store.Categories.Create(ctx, category))
	product := &models.Product{Name: "Thing", Description: "A thing", Price: price, CategoryID: category.ID, Images: []string{}}
	require.NoError(t, store.Products.Create(ctx, product))
	return product
}

func newOrder(userID string, total float64, at time.Time) *models.Order {
	return &models.Order{
		OrderItemIDs:    []string{},
		ShippingAddress: "Main St 1",
		City:            "Oslo",
		Country:         "Norway",
		Phone:           "+4700000000",
		Status:          models.OrderStatusPending,
		TotalPrice:      total,
		UserID:          userID,
		DateOrdered:     at,
	}
}

func TestOrderItemRepository_CreateChecksProduct(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	product := seedProduct(t, store, 5)

	item := &models.OrderItem{ProductID: product.ID, Quantity: 2}
	require.NoError(t, store.OrderItems.Create(ctx, item))
	assert.NotEmpty(t, item.ID)

	got, err := store.OrderItems.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	err = store.OrderItems.Create(ctx, &models.OrderItem{ProductID: "no-such-product", Quantity: 1})
	assert.True(t, errors.Is(err, repositories.ErrInvalidReference))

	err = store.OrderItems.Create(ctx, &models.OrderItem{ProductID: product.ID, Quantity: 0})
	assert.True(t, errors.Is(err, repositories.ErrInvalidReference))
}

func TestOrderItemRepository_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	product := seedProduct(t, store, 5)

	item := &models.OrderItem{ProductID: product.ID, Quantity: 1}
	require.NoError(t, store.OrderItems.Create(ctx, item))
	require.NoError(t, store.OrderItems.Delete(ctx, item.ID))

	_, err := store.OrderItems.GetByID(ctx, item.ID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
	assert.True(t, errors.Is(store.OrderItems.Delete(ctx, item.ID), repositories.ErrNotFound))

	// the product is not owned by the item
	_, err = store.Products.GetByID(ctx, product.ID)
	assert.NoError(t, err)
}

func TestOrderRepository_KeepsItemIDOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	order := newOrder("u1", 10, time.Now().UTC())
	order.OrderItemIDs = []string{"i3", "i1", "i2"}
	require.NoError(t, store.Orders.Create(ctx, order))

	got, err := store.Orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"i3", "i1", "i2"}, got.OrderItemIDs)
}

func TestOrderRepository_CountAfterCreatesAndDeletes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		o := newOrder("u1", 1, time.Now().UTC())
		require.NoError(t, store.Orders.Create(ctx, o))
		ids = append(ids, o.ID)
	}
	require.NoError(t, store.Orders.Delete(ctx, ids[0]))
	require.NoError(t, store.Orders.Delete(ctx, ids[3]))

	n, err := store.Orders.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	assert.True(t, errors.Is(store.Orders.Delete(ctx, ids[0]), repositories.ErrNotFound))
}

func TestOrderRepository_GetByUserIDNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	older := newOrder("u1", 1, base)
	newer := newOrder("u1", 2, base.Add(time.Hour))
	other := newOrder("u2", 3, base.Add(2*time.Hour))
	for _, o := range []*models.Order{older, newer, other} {
		require.NoError(t, store.Orders.Create(ctx, o))
	}

	orders, err := store.Orders.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)

	all, err := store.Orders.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, other.ID, all[0].ID)

	none, err := store.Orders.GetByUserID(ctx, "u9")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestOrderRepository_TotalSales(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Orders.TotalSales(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	for _, total := range []float64{10, 20, 30} {
		require.NoError(t, store.Orders.Create(ctx, newOrder("u1", total, time.Now().UTC())))
	}

	total, ok, err := store.Orders.TotalSales(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 60.0, total)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := newOrder("u1", 10, time.Now().UTC())
	second := newOrder("u1", 20, time.Now().UTC())
	require.NoError(t, store.Orders.Create(ctx, first))
	require.NoError(t, store.Orders.Create(ctx, second))

	updated, err := store.Orders.UpdateStatus(ctx, first.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
	assert.Equal(t, 10.0, updated.TotalPrice)

	_, err = store.Orders.UpdateStatus(ctx, "missing", models.OrderStatusDelivered)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	untouched, err := store.Orders.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, untouched.Status)
}

func TestProductRepository_FilterAndFeatured(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	kitchen := &models.Category{Name: "Kitchen"}
	garden := &models.Category{Name: "Garden"}
	require.NoError(t, store.Categories.Create(ctx, kitchen))
	require.NoError(t, store.Categories.Create(ctx, garden))

	products := []*models.Product{
		{Name: "Mug", Description: "d", CategoryID: kitchen.ID, IsFeatured: true, Images: []string{"a.png"}},
		{Name: "Pan", Description: "d", CategoryID: kitchen.ID},
		{Name: "Rake", Description: "d", CategoryID: garden.ID, IsFeatured: true},
	}
	for _, p := range products {
		require.NoError(t, store.Products.Create(ctx, p))
	}

	inKitchen, err := store.Products.GetAll(ctx, models.ProductFilter{CategoryIDs: []string{kitchen.ID}})
	require.NoError(t, err)
	assert.Len(t, inKitchen, 2)

	all, err := store.Products.GetAll(ctx, models.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	featured, err := store.Products.GetFeatured(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, featured, 1)

	mug, err := store.Products.GetByID(ctx, products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, mug.Images)

	err = store.Products.Update(ctx, &models.Product{ID: "missing", Name: "x"})
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestUserRepository_UniqueEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Users.Create(ctx, &models.User{Name: "Ada", Email: "ada@example.com"}))
	err := store.Users.Create(ctx, &models.User{Name: "Ada 2", Email: "ada@example.com"})
	assert.True(t, errors.Is(err, repositories.ErrDuplicate))

	_, err = store.Users.GetByEmail(ctx, "nobody@example.com")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}
