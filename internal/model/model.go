package model

import (
	"time"
)

// OrderStatus is the order pipeline state. Only OrderStatusReceived counts
// against product stock and toward confirmed-sales reporting.
type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "Order Placed"
	OrderStatusReceived   OrderStatus = "Order Received"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipping   OrderStatus = "Shipping"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusReceived, OrderStatusProcessing,
		OrderStatusShipping, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                    string     `bson:"_id"`
	Username              string     `bson:"username"`
	Email                 string     `bson:"email"`
	Password              string     `bson:"password"`
	Role                  string     `bson:"role"`
	ShopName              string     `bson:"shop_name"`
	PhoneNumber           string     `bson:"phone_number"`
	Address               string     `bson:"address"`
	Location              string     `bson:"location"`
	Township              string     `bson:"township"`
	LastSeenAnnouncements *time.Time `bson:"last_seen_announcements,omitempty"`
	CreatedAt             time.Time  `bson:"created_at"`
	UpdatedAt             time.Time  `bson:"updated_at"`
}

// Product prices are kyat amounts stored as int64 minor units.
type Product struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Price     int64     `bson:"price"`
	Quantity  int       `bson:"quantity"`
	Category  string    `bson:"category"`
	Township  string    `bson:"township"`
	ImageURL  string    `bson:"image_url"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Order snapshots product name/price and user name at creation time; later
// product edits never rewrite historical orders. ProductID may dangle if the
// product is deleted afterwards.
type Order struct {
	ID          string      `bson:"_id"`
	ProductID   string      `bson:"product_id"`
	ProductName string      `bson:"product_name"`
	Price       int64       `bson:"price"`
	Quantity    int         `bson:"quantity"`
	UserID      string      `bson:"user_id"`
	UserName    string      `bson:"user_name"`
	Status      OrderStatus `bson:"status"`
	CreatedAt   time.Time   `bson:"created_at"`
	UpdatedAt   time.Time   `bson:"updated_at"`
}

type Category struct {
	ID       string `bson:"_id"`
	Name     string `bson:"name"`
	ImageURL string `bson:"image_url"`
}

type Township struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

type Announcement struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Text      string    `bson:"text"`
	ImageURL  string    `bson:"image_url"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Settings is a singleton document keyed by a fixed id.
type Settings struct {
	ID        string    `bson:"_id"`
	ShopName  string    `bson:"shop_name"`
	LogoURL   string    `bson:"logo_url"`
	SplashURL string    `bson:"splash_url"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// CartItem lives in the per-user Redis cart, not in the shared store.
// Name and price are snapshots taken when the item was added.
type CartItem struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Quantity  int       `json:"quantity"`
	ImageURL  string    `json:"image_url"`
	AddedAt   time.Time `json:"added_at"`
}

// Order event actions published to the order-events queue.
const (
	OrderActionPlaced          = "placed"
	OrderActionStatusChanged   = "status_changed"
	OrderActionQuantityChanged = "quantity_changed"
	OrderActionDeleted         = "deleted"
)

type OrderEvent struct {
	EventID string `json:"event_id"`
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
	Action  string `json:"action"`
	Detail  string `json:"detail,omitempty"`
}
