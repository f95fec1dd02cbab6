package repositories_test

import (
	"context"
	"errors"
	"testing"

	"eshop/internal/models"
	"eshop/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockMongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func ns(coll string) string {
	return mtest.TestDb + "." + coll
}

func TestMongoOrderRepository_TotalSales(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("no orders", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(repositories.CollectionOrders), mtest.FirstBatch))

		total, ok, err := repositories.NewMongoOrderRepository(mt.DB).TotalSales(context.Background())
		require.NoError(mt, err)
		assert.False(mt, ok)
		assert.Zero(mt, total)
	})

	mt.Run("summed", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(repositories.CollectionOrders), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: nil}, {Key: "totalsales", Value: 60.0}}))

		total, ok, err := repositories.NewMongoOrderRepository(mt.DB).TotalSales(context.Background())
		require.NoError(mt, err)
		assert.True(mt, ok)
		assert.Equal(mt, 60.0, total)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "aggregate", started.CommandName)
	})

	mt.Run("server error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 1, Message: "boom", Name: "InternalError"}))

		_, _, err := repositories.NewMongoOrderRepository(mt.DB).TotalSales(context.Background())
		assert.Error(mt, err)
	})
}

func TestMongoOrderRepository_UpdateStatus(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: "o1"},
			{Key: "orderItems", Value: bson.A{"i1", "i2"}},
			{Key: "status", Value: models.OrderStatusShipped},
			{Key: "totalPrice", Value: 13.0},
			{Key: "user", Value: "u1"},
		}}))

		order, err := repositories.NewMongoOrderRepository(mt.DB).UpdateStatus(context.Background(), "o1", models.OrderStatusShipped)
		require.NoError(mt, err)
		assert.Equal(mt, "o1", order.ID)
		assert.Equal(mt, models.OrderStatusShipped, order.Status)
		assert.Equal(mt, []string{"i1", "i2"}, order.OrderItemIDs)
		assert.Equal(mt, 13.0, order.TotalPrice)
	})

	mt.Run("no document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repositories.NewMongoOrderRepository(mt.DB).UpdateStatus(context.Background(), "missing", models.OrderStatusDelivered)
		assert.True(mt, errors.Is(err, repositories.ErrNotFound))
	})
}

func TestMongoOrderRepository_GetByID(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(repositories.CollectionOrders), mtest.FirstBatch))

		_, err := repositories.NewMongoOrderRepository(mt.DB).GetByID(context.Background(), "missing")
		assert.True(mt, errors.Is(err, repositories.ErrNotFound))
	})

	mt.Run("delete of missing order", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repositories.NewMongoOrderRepository(mt.DB).Delete(context.Background(), "missing")
		assert.True(mt, errors.Is(err, repositories.ErrNotFound))
	})
}

func TestMongoOrderItemRepository_Create(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("unknown product", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(repositories.CollectionProducts), mtest.FirstBatch))

		item := &models.OrderItem{ProductID: "no-such-product", Quantity: 1}
		err := repositories.NewMongoOrderItemRepository(mt.DB).Create(context.Background(), item)
		assert.True(mt, errors.Is(err, repositories.ErrInvalidReference))
		assert.Empty(mt, item.ID)
	})

	mt.Run("zero quantity is rejected without a lookup", func(mt *mtest.T) {
		err := repositories.NewMongoOrderItemRepository(mt.DB).Create(context.Background(),
			&models.OrderItem{ProductID: "p1", Quantity: 0})
		assert.True(mt, errors.Is(err, repositories.ErrInvalidReference))
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("known product", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(repositories.CollectionProducts), mtest.FirstBatch,
				bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: int64(1)}}),
			mtest.CreateSuccessResponse(),
		)

		item := &models.OrderItem{ProductID: "p1", Quantity: 2}
		require.NoError(mt, repositories.NewMongoOrderItemRepository(mt.DB).Create(context.Background(), item))
		assert.NotEmpty(mt, item.ID)
	})
}

func TestMongoOrderItemRepository_GetByIDs(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("batched lookup", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(repositories.CollectionOrderItems), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "i1"}, {Key: "quantity", Value: 2}, {Key: "product", Value: "p1"}},
			bson.D{{Key: "_id", Value: "i2"}, {Key: "quantity", Value: 1}, {Key: "product", Value: "p2"}},
		))

		items, err := repositories.NewMongoOrderItemRepository(mt.DB).GetByIDs(context.Background(), []string{"i1", "i2"})
		require.NoError(mt, err)
		require.Len(mt, items, 2)
		assert.Equal(mt, "p1", items[0].ProductID)
		assert.Equal(mt, 1, items[1].Quantity)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
	})

	mt.Run("no ids skips the query", func(mt *mtest.T) {
		items, err := repositories.NewMongoOrderItemRepository(mt.DB).GetByIDs(context.Background(), nil)
		require.NoError(mt, err)
		assert.NotNil(mt, items)
		assert.Empty(mt, items)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestMongoUserRepository_DuplicateEmail(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("duplicate key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error collection: users index: email_1",
		}))

		err := repositories.NewMongoUserRepository(mt.DB).Create(context.Background(),
			&models.User{Name: "Ada", Email: "ada@example.com"})
		assert.True(mt, errors.Is(err, repositories.ErrDuplicate))
	})

	mt.Run("count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(repositories.CollectionUsers), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: int64(3)}}))

		n, err := repositories.NewMongoUserRepository(mt.DB).Count(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})
}
