package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kzl/storefront-api/internal/dto"
	"github.com/kzl/storefront-api/internal/model"
)

func newCartFixture() (*CartService, *mockProductRepo) {
	products := newMockProductRepo()
	products.seed(model.Product{ID: "p1", Name: "Rice 5kg", Price: 12500, Quantity: 10, ImageURL: "/img/rice.jpg"})
	products.seed(model.Product{ID: "p2", Name: "Cooking Oil", Price: 8000, Quantity: 5})
	return NewCartService(newMockCartRepo(), products), products
}

func TestCartService_AddItem_SnapshotsAndTotals(t *testing.T) {
	svc, _ := newCartFixture()
	ctx := context.Background()

	resp, err := svc.AddItem(ctx, "u1", dto.AddCartItemRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Rice 5kg", resp.Items[0].Name)
	assert.Equal(t, int64(12500), resp.Items[0].Price)
	assert.Equal(t, "/img/rice.jpg", resp.Items[0].ImageURL)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(25000)), "total = %s", resp.Total)

	resp, err = svc.AddItem(ctx, "u1", dto.AddCartItemRequest{ProductID: "p2", Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(33000)), "total = %s", resp.Total)
}

func TestCartService_AddItem_MergesExistingLine(t *testing.T) {
	svc, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", dto.AddCartItemRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	resp, err := svc.AddItem(ctx, "u1", dto.AddCartItemRequest{ProductID: "p1", Quantity: 3})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	svc, _ := newCartFixture()
	_, err := svc.AddItem(context.Background(), "u1", dto.AddCartItemRequest{ProductID: uuid.NewString(), Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_UpdateItem(t *testing.T) {
	svc, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", dto.AddCartItemRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)

	resp, err := svc.UpdateItem(ctx, "u1", "p1", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Items[0].Quantity)

	_, err = svc.UpdateItem(ctx, "u1", "p2", 1)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	svc, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", dto.AddCartItemRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)

	resp, err := svc.RemoveItem(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.True(t, resp.Total.IsZero())

	_, err = svc.RemoveItem(ctx, "u1", "p1")
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_CartsAreIsolatedPerUser(t *testing.T) {
	svc, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", dto.AddCartItemRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "u2", dto.AddCartItemRequest{ProductID: "p2", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "u1"))

	resp, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)

	resp, err = svc.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
}

// Cart snapshots keep the price the customer saw even after an admin edit.
func TestCartService_PriceEditDoesNotRewriteCart(t *testing.T) {
	svc, products := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", dto.AddCartItemRequest{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	p, err := products.GetByID(ctx, "p1")
	require.NoError(t, err)
	p.Price = 99999
	require.NoError(t, products.Update(ctx, p))

	resp, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(12500), resp.Items[0].Price)
}
