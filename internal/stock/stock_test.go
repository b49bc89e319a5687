package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kzl/storefront-api/internal/model"
)

func order(status model.OrderStatus, qty int) *model.Order {
	return &model.Order{ID: "o1", ProductID: "p1", Quantity: qty, Status: status}
}

func product(qty int) *model.Product {
	return &model.Product{ID: "p1", Quantity: qty}
}

func TestStatusDelta_Confirm(t *testing.T) {
	delta, err := StatusDelta(order(model.OrderStatusPlaced, 4), product(10), model.OrderStatusReceived)
	require.NoError(t, err)
	assert.Equal(t, -4, delta)
}

func TestStatusDelta_ConfirmInsufficientStock(t *testing.T) {
	_, err := StatusDelta(order(model.OrderStatusPlaced, 5), product(2), model.OrderStatusReceived)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestStatusDelta_ConfirmExactStock(t *testing.T) {
	delta, err := StatusDelta(order(model.OrderStatusPlaced, 10), product(10), model.OrderStatusReceived)
	require.NoError(t, err)
	assert.Equal(t, -10, delta)
}

func TestStatusDelta_Unconfirm(t *testing.T) {
	delta, err := StatusDelta(order(model.OrderStatusReceived, 4), product(6), model.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, 4, delta)
}

func TestStatusDelta_PureStatusMove(t *testing.T) {
	delta, err := StatusDelta(order(model.OrderStatusProcessing, 4), product(10), model.OrderStatusShipping)
	require.NoError(t, err)
	assert.Zero(t, delta)
}

func TestStatusDelta_ReceivedToReceived(t *testing.T) {
	delta, err := StatusDelta(order(model.OrderStatusReceived, 4), product(6), model.OrderStatusReceived)
	require.NoError(t, err)
	assert.Zero(t, delta)
}

func TestStatusDelta_ConfirmMissingProduct(t *testing.T) {
	_, err := StatusDelta(order(model.OrderStatusPlaced, 4), nil, model.OrderStatusReceived)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestStatusDelta_UnconfirmMissingProduct(t *testing.T) {
	// Nothing to restock, but the status write must still go through.
	delta, err := StatusDelta(order(model.OrderStatusReceived, 4), nil, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Zero(t, delta)
}

func TestStatusDelta_NoProductReference(t *testing.T) {
	o := order(model.OrderStatusPlaced, 4)
	o.ProductID = ""
	delta, err := StatusDelta(o, nil, model.OrderStatusReceived)
	require.NoError(t, err)
	assert.Zero(t, delta)
}

func TestQuantityDelta_NotConfirmed(t *testing.T) {
	delta, err := QuantityDelta(order(model.OrderStatusPlaced, 4), product(10), 9)
	require.NoError(t, err)
	assert.Zero(t, delta)
}

func TestQuantityDelta_ConfirmedIncrease(t *testing.T) {
	// Stock 4 after confirming 6; raising to 8 consumes the remaining 2.
	delta, err := QuantityDelta(order(model.OrderStatusReceived, 6), product(4), 8)
	require.NoError(t, err)
	assert.Equal(t, -2, delta)
}

func TestQuantityDelta_ConfirmedDecrease(t *testing.T) {
	delta, err := QuantityDelta(order(model.OrderStatusReceived, 6), product(4), 4)
	require.NoError(t, err)
	assert.Equal(t, 2, delta)
}

func TestQuantityDelta_IncreaseExceedsStock(t *testing.T) {
	_, err := QuantityDelta(order(model.OrderStatusReceived, 6), product(1), 8)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestQuantityDelta_MissingProduct(t *testing.T) {
	_, err := QuantityDelta(order(model.OrderStatusReceived, 6), nil, 8)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestQuantityDelta_MissingProductReference(t *testing.T) {
	o := order(model.OrderStatusReceived, 6)
	o.ProductID = ""
	_, err := QuantityDelta(o, nil, 8)
	assert.ErrorIs(t, err, ErrOrderMissingProduct)
}

func TestDeleteDelta(t *testing.T) {
	assert.Equal(t, 4, DeleteDelta(order(model.OrderStatusReceived, 4), product(6)))
	assert.Zero(t, DeleteDelta(order(model.OrderStatusPlaced, 4), product(6)))
	assert.Zero(t, DeleteDelta(order(model.OrderStatusReceived, 4), nil))
}

// Walks the full lifecycle from the product's point of view: place, confirm,
// edit while confirmed, unconfirm, delete. Stock must end where it started.
func TestLifecycleProducesConsistentStock(t *testing.T) {
	p := product(10)
	o := order(model.OrderStatusPlaced, 4)

	// Placing never touches stock.
	assert.Equal(t, 10, p.Quantity)

	delta, err := StatusDelta(o, p, model.OrderStatusReceived)
	require.NoError(t, err)
	p.Quantity += delta
	o.Status = model.OrderStatusReceived
	assert.Equal(t, 6, p.Quantity)

	delta, err = QuantityDelta(o, p, 6)
	require.NoError(t, err)
	p.Quantity += delta
	o.Quantity = 6
	assert.Equal(t, 4, p.Quantity)

	delta, err = StatusDelta(o, p, model.OrderStatusProcessing)
	require.NoError(t, err)
	p.Quantity += delta
	o.Status = model.OrderStatusProcessing
	assert.Equal(t, 10, p.Quantity)

	p.Quantity += DeleteDelta(o, p)
	assert.Equal(t, 10, p.Quantity)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "INSUFFICIENT_STOCK", Kind(ErrInsufficientStock))
	assert.Equal(t, "ORDER_NOT_FOUND", Kind(ErrOrderNotFound))
	assert.Equal(t, "PRODUCT_NOT_FOUND", Kind(ErrProductNotFound))
	assert.Equal(t, "ORDER_MISSING_PRODUCT", Kind(ErrOrderMissingProduct))
	assert.Equal(t, "UNKNOWN_ERROR", Kind(assert.AnError))
}
