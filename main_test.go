package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"eshop/internal/database"
	"eshop/internal/models"
	"eshop/internal/repositories"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestHandleOrderEvent(t *testing.T) {
	body, err := json.Marshal(models.OrderEvent{
		Type:       models.EventOrderCreated,
		OrderID:    "order-1",
		Status:     models.OrderStatusPending,
		TotalPrice: 13,
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)

	assert.NoError(t, handleOrderEvent(amqp.Delivery{RoutingKey: models.EventOrderCreated, Body: body}))
	assert.Error(t, handleOrderEvent(amqp.Delivery{Body: []byte("not json")}))
	assert.Error(t, handleOrderEvent(amqp.Delivery{Body: []byte(`{"type":"order.created"}`)}))
}

func TestSeedStore(t *testing.T) {
	db, err := database.OpenGORM(database.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	store := repositories.NewGORMStore(db)
	ctx := context.Background()

	require.NoError(t, seedStore(ctx, store, "admin@example.com", "changeme"))

	n, err := store.Products.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	categories, err := store.Categories.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)

	admin, err := store.Users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	assert.Error(t, seedStore(ctx, store, "other@example.com", ""))
}
