package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kzl/storefront-api/internal/dto"
	"github.com/kzl/storefront-api/internal/model"
	"github.com/kzl/storefront-api/internal/repository"
	"github.com/kzl/storefront-api/internal/stock"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderAccessDenied = errors.New("access denied")
	ErrInvalidStatus     = errors.New("invalid order status")
)

const orderEventsQueue = "order-events"

// OrderService fronts the order/inventory consistency protocol. The
// transactional stock semantics live in the repository (via internal/stock);
// this layer does snapshots, authorization, cache invalidation, and event
// publishing.
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	productSvc  *ProductService
	amqpCh      *amqp.Channel
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	productSvc *ProductService,
	amqpCh *amqp.Channel,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		productSvc:  productSvc,
		amqpCh:      amqpCh,
	}
}

// Place creates an order in status "Order Placed", snapshotting product name
// and price. Stock is not checked or debited here: availability is only
// enforced at confirmation, which is the documented policy.
func (s *OrderService) Place(ctx context.Context, userID, userName string, req dto.PlaceOrderRequest) (*dto.OrderResponse, error) {
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	order := &model.Order{
		ProductID:   product.ID,
		ProductName: product.Name,
		Price:       product.Price,
		Quantity:    req.Quantity,
		UserID:      userID,
		UserName:    userName,
		Status:      model.OrderStatusPlaced,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.publish(ctx, order.ID, userID, model.OrderActionPlaced, "")
	resp := toOrderResponse(order)
	return &resp, nil
}

// Checkout turns every cart line into its own order, using the name/price
// snapshots taken when the item was added to the cart, then clears the cart.
func (s *OrderService) Checkout(ctx context.Context, userID, userName string) (*dto.OrderListResponse, error) {
	items, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	var orders []dto.OrderResponse
	for _, item := range items {
		order := &model.Order{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Price:       item.Price,
			Quantity:    item.Quantity,
			UserID:      userID,
			UserName:    userName,
			Status:      model.OrderStatusPlaced,
		}
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return nil, fmt.Errorf("create order: %w", err)
		}
		s.publish(ctx, order.ID, userID, model.OrderActionPlaced, "checkout")
		orders = append(orders, toOrderResponse(order))
	}

	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	return &dto.OrderListResponse{Orders: orders, Total: len(orders)}, nil
}

// SetStatus runs the confirm/unconfirm transition transactionally. Stock
// sentinel errors (INSUFFICIENT_STOCK and friends) come back unwrapped for
// the handler to map.
func (s *OrderService) SetStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return stock.ErrOrderNotFound
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}

	s.invalidateProduct(ctx, order.ProductID)
	s.publish(ctx, orderID, order.UserID, model.OrderActionStatusChanged, string(status))
	return nil
}

func (s *OrderService) SetQuantity(ctx context.Context, orderID string, quantity int) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return stock.ErrOrderNotFound
	}

	if err := s.orderRepo.UpdateQuantity(ctx, orderID, quantity); err != nil {
		return err
	}

	s.invalidateProduct(ctx, order.ProductID)
	s.publish(ctx, orderID, order.UserID, model.OrderActionQuantityChanged, fmt.Sprintf("%d", quantity))
	return nil
}

// Delete removes an order, restocking it first if it was confirmed.
func (s *OrderService) Delete(ctx context.Context, orderID string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return stock.ErrOrderNotFound
	}

	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return err
	}

	s.invalidateProduct(ctx, order.ProductID)
	s.publish(ctx, orderID, order.UserID, model.OrderActionDeleted, "")
	return nil
}

// DeleteOwn is Delete restricted to the requesting user's orders.
func (s *OrderService) DeleteOwn(ctx context.Context, orderID, userID string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return stock.ErrOrderNotFound
	}
	if order.UserID != userID {
		return ErrOrderAccessDenied
	}
	return s.Delete(ctx, orderID)
}

func (s *OrderService) ListByUser(ctx context.Context, userID string) (*dto.OrderListResponse, error) {
	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return toOrderListResponse(orders), nil
}

func (s *OrderService) ListAll(ctx context.Context) (*dto.OrderListResponse, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return toOrderListResponse(orders), nil
}

func (s *OrderService) invalidateProduct(ctx context.Context, productID string) {
	if s.productSvc != nil && productID != "" {
		s.productSvc.InvalidateCache(ctx, productID)
	}
}

func (s *OrderService) publish(ctx context.Context, orderID, userID, action, detail string) {
	if s.amqpCh == nil {
		return
	}
	event := model.OrderEvent{
		EventID: uuid.NewString(),
		OrderID: orderID,
		UserID:  userID,
		Action:  action,
		Detail:  detail,
	}
	msg, _ := json.Marshal(event)
	_ = s.amqpCh.PublishWithContext(ctx, "", orderEventsQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         msg,
		DeliveryMode: amqp.Persistent,
	})
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:          order.ID,
		ProductID:   order.ProductID,
		ProductName: order.ProductName,
		Price:       order.Price,
		Quantity:    order.Quantity,
		UserID:      order.UserID,
		UserName:    order.UserName,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

func toOrderListResponse(orders []model.Order) *dto.OrderListResponse {
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, toOrderResponse(&orders[i]))
	}
	return &dto.OrderListResponse{Orders: items, Total: len(items)}
}
