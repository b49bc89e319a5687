//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kzl/storefront-api/internal/model"
	"github.com/kzl/storefront-api/internal/stock"
)

// These tests exercise the transactional stock mutations and therefore need
// TEST_MONGO_URI to point at a replica-set mongod; standalone servers reject
// multi-document transactions.

func seedOrderAndProduct(t *testing.T, initialStock, orderQty int) (OrderRepository, ProductRepository, *model.Order, *model.Product) {
	t.Helper()
	cleanupCollections(t, ordersCollection, productsCollection)

	products := NewProductRepository(testMongo)
	orders := NewOrderRepository(testMongo)
	ctx := context.Background()

	product := &model.Product{Name: "Rice 5kg", Price: 12500, Quantity: initialStock}
	require.NoError(t, products.Create(ctx, product))

	order := &model.Order{
		ProductID: product.ID, ProductName: product.Name, Price: product.Price,
		Quantity: orderQty, UserID: "u1", UserName: "Aye Aye",
		Status: model.OrderStatusPlaced,
	}
	require.NoError(t, orders.Create(ctx, order))
	return orders, products, order, product
}

func productQuantity(t *testing.T, products ProductRepository, id string) int {
	t.Helper()
	p, err := products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func TestOrderRepo_ConfirmDebitsStock(t *testing.T) {
	orders, products, order, product := seedOrderAndProduct(t, 10, 4)
	ctx := context.Background()

	require.NoError(t, orders.UpdateStatus(ctx, order.ID, model.OrderStatusReceived))
	assert.Equal(t, 6, productQuantity(t, products, product.ID))

	found, err := orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusReceived, found.Status)

	// Second confirmation does not debit again.
	require.NoError(t, orders.UpdateStatus(ctx, order.ID, model.OrderStatusReceived))
	assert.Equal(t, 6, productQuantity(t, products, product.ID))
}

func TestOrderRepo_ConfirmInsufficientStockRollsBack(t *testing.T) {
	orders, products, order, product := seedOrderAndProduct(t, 3, 4)
	ctx := context.Background()

	err := orders.UpdateStatus(ctx, order.ID, model.OrderStatusReceived)
	require.ErrorIs(t, err, stock.ErrInsufficientStock)

	assert.Equal(t, 3, productQuantity(t, products, product.ID))
	found, _ := orders.GetByID(ctx, order.ID)
	assert.Equal(t, model.OrderStatusPlaced, found.Status)
}

func TestOrderRepo_Lifecycle(t *testing.T) {
	orders, products, order, product := seedOrderAndProduct(t, 10, 4)
	ctx := context.Background()

	require.NoError(t, orders.UpdateStatus(ctx, order.ID, model.OrderStatusReceived))
	assert.Equal(t, 6, productQuantity(t, products, product.ID))

	require.NoError(t, orders.UpdateQuantity(ctx, order.ID, 6))
	assert.Equal(t, 4, productQuantity(t, products, product.ID))

	require.NoError(t, orders.UpdateStatus(ctx, order.ID, model.OrderStatusCancelled))
	assert.Equal(t, 10, productQuantity(t, products, product.ID))

	require.NoError(t, orders.Delete(ctx, order.ID))
	assert.Equal(t, 10, productQuantity(t, products, product.ID))

	found, err := orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestOrderRepo_DeleteConfirmedRestocks(t *testing.T) {
	orders, products, order, product := seedOrderAndProduct(t, 10, 4)
	ctx := context.Background()

	require.NoError(t, orders.UpdateStatus(ctx, order.ID, model.OrderStatusReceived))
	require.NoError(t, orders.Delete(ctx, order.ID))
	assert.Equal(t, 10, productQuantity(t, products, product.ID))
}

func TestOrderRepo_ConfirmAfterProductDeleted(t *testing.T) {
	orders, products, order, product := seedOrderAndProduct(t, 10, 4)
	ctx := context.Background()

	require.NoError(t, products.Delete(ctx, product.ID))
	err := orders.UpdateStatus(ctx, order.ID, model.OrderStatusReceived)
	assert.ErrorIs(t, err, stock.ErrProductNotFound)
}

func TestOrderRepo_UnknownOrder(t *testing.T) {
	cleanupCollections(t, ordersCollection, productsCollection)
	orders := NewOrderRepository(testMongo)

	err := orders.UpdateStatus(context.Background(), "missing", model.OrderStatusReceived)
	assert.ErrorIs(t, err, stock.ErrOrderNotFound)
}

func TestOrderRepo_ConcurrentConfirmations(t *testing.T) {
	cleanupCollections(t, ordersCollection, productsCollection)

	products := NewProductRepository(testMongo)
	orders := NewOrderRepository(testMongo)
	ctx := context.Background()

	product := &model.Product{Name: "Rice 5kg", Price: 12500, Quantity: 10}
	require.NoError(t, products.Create(ctx, product))

	ids := make([]string, 2)
	for i := range ids {
		order := &model.Order{
			ProductID: product.ID, ProductName: product.Name, Price: product.Price,
			Quantity: 6, UserID: "u1", UserName: "Aye Aye",
			Status: model.OrderStatusPlaced,
		}
		require.NoError(t, orders.Create(ctx, order))
		ids[i] = order.ID
	}

	errs := make(chan error, len(ids))
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(orderID string) {
			defer wg.Done()
			errs <- orders.UpdateStatus(ctx, orderID, model.OrderStatusReceived)
		}(id)
	}
	wg.Wait()
	close(errs)

	var confirmed, rejected int
	for err := range errs {
		if err == nil {
			confirmed++
		} else {
			require.ErrorIs(t, err, stock.ErrInsufficientStock)
			rejected++
		}
	}
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 4, productQuantity(t, products, product.ID))
}
