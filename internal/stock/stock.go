// Package stock holds the order/inventory consistency rules as pure
// functions of freshly-read (order, product) state. Callers run them inside
// the store's transaction runner; the runner owns re-read and retry on
// conflict, so nothing here may keep state between invocations.
//
// The invariant: product quantity equals initial stock minus the summed
// quantities of all orders currently in status "Order Received". Only
// transitions into or out of that status move stock.
package stock

import (
	"errors"

	"github.com/kzl/storefront-api/internal/model"
)

var (
	ErrInsufficientStock   = errors.New("INSUFFICIENT_STOCK")
	ErrProductNotFound     = errors.New("PRODUCT_NOT_FOUND")
	ErrOrderNotFound       = errors.New("ORDER_NOT_FOUND")
	ErrOrderMissingProduct = errors.New("ORDER_MISSING_PRODUCT")
)

// Kind maps an error to its wire tag, folding anything unrecognized
// (transaction failures included) into UNKNOWN_ERROR.
func Kind(err error) string {
	for _, known := range []error{
		ErrInsufficientStock, ErrProductNotFound, ErrOrderNotFound, ErrOrderMissingProduct,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "UNKNOWN_ERROR"
}

// StatusDelta returns the product stock adjustment (positive restocks,
// negative debits) required to move order to newStatus. product is nil when
// the referenced product no longer exists.
//
// Confirming against a missing product fails; unconfirming one silently
// skips the restock (there is nothing to restock) but the status write still
// proceeds. Orders without a product reference get plain status writes.
func StatusDelta(order *model.Order, product *model.Product, newStatus model.OrderStatus) (int, error) {
	confirm := order.Status != model.OrderStatusReceived && newStatus == model.OrderStatusReceived
	unconfirm := order.Status == model.OrderStatusReceived && newStatus != model.OrderStatusReceived

	if (!confirm && !unconfirm) || order.ProductID == "" {
		return 0, nil
	}
	if product == nil {
		if confirm {
			return 0, ErrProductNotFound
		}
		return 0, nil
	}
	if confirm {
		if product.Quantity < order.Quantity {
			return 0, ErrInsufficientStock
		}
		return -order.Quantity, nil
	}
	return order.Quantity, nil
}

// QuantityDelta returns the stock adjustment for editing the order's
// quantity to newQuantity. While the order is confirmed, stock moves by the
// quantity delta; otherwise only the order changes. Uses the current (not
// originally placed) quantity, so repeated edits stay consistent.
func QuantityDelta(order *model.Order, product *model.Product, newQuantity int) (int, error) {
	if order.ProductID == "" {
		return 0, ErrOrderMissingProduct
	}
	if product == nil {
		return 0, ErrProductNotFound
	}
	if order.Status != model.OrderStatusReceived {
		return 0, nil
	}
	delta := newQuantity - order.Quantity
	if delta > 0 && product.Quantity < delta {
		return 0, ErrInsufficientStock
	}
	return -delta, nil
}

// DeleteDelta returns the restock amount for deleting the order. Confirmed
// orders hand their quantity back; anything else, or a vanished product,
// means no stock effect.
func DeleteDelta(order *model.Order, product *model.Product) int {
	if order.Status != model.OrderStatusReceived || order.ProductID == "" || order.Quantity <= 0 {
		return 0
	}
	if product == nil {
		return 0
	}
	return order.Quantity
}
