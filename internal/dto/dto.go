package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kzl/storefront-api/internal/model"
)

// --- Auth ---

type BootstrapStatusResponse struct {
	HasAdmin bool `json:"has_admin"`
}

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	ShopName    string `json:"shop_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Location    string `json:"location"`
	Township    string `json:"township" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	ShopName    string     `json:"shop_name"`
	PhoneNumber string     `json:"phone_number"`
	Address     string     `json:"address"`
	Location    string     `json:"location"`
	Township    string     `json:"township"`
	LastSeenAnnouncements *time.Time `json:"last_seen_announcements,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// --- Users (admin) ---

type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,min=3"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role" binding:"required,oneof=user admin"`
	ShopName    string `json:"shop_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Location    string `json:"location"`
	Township    string `json:"township"`
}

type UpdateUserRequest struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	Role        *string `json:"role" binding:"omitempty,oneof=user admin"`
	ShopName    *string `json:"shop_name"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	Location    *string `json:"location"`
	Township    *string `json:"township"`
}

type UpdateProfileRequest struct {
	ShopName    *string `json:"shop_name"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	Location    *string `json:"location"`
	Township    *string `json:"township"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

// --- Product ---

type CreateProductRequest struct {
	Name     string `json:"name" binding:"required"`
	Price    int64  `json:"price" binding:"min=0"`
	Quantity int    `json:"quantity" binding:"min=0"`
	Category string `json:"category"`
	Township string `json:"township"`
	ImageURL string `json:"image_url"`
}

type UpdateProductRequest struct {
	Name     *string `json:"name"`
	Price    *int64  `json:"price" binding:"omitempty,min=0"`
	Quantity *int    `json:"quantity" binding:"omitempty,min=0"`
	Category *string `json:"category"`
	Township *string `json:"township"`
	ImageURL *string `json:"image_url"`
}

type ListProductsRequest struct {
	Category string `form:"category"`
	Township string `form:"township"`
	Search   string `form:"search"`
}

type ProductResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Quantity  int       `json:"quantity"`
	Category  string    `json:"category"`
	Township  string    `json:"township"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

// --- Cart ---

type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CartItemResponse struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Quantity  int       `json:"quantity"`
	ImageURL  string    `json:"image_url"`
	AddedAt   time.Time `json:"added_at"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

// --- Order ---

type PlaceOrderRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

type UpdateOrderQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// OrderMutationResponse is the structured result of the four consistency
// protocol operations.
type OrderMutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type OrderResponse struct {
	ID          string            `json:"id"`
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	Price       int64             `json:"price"`
	Quantity    int               `json:"quantity"`
	UserID      string            `json:"user_id"`
	UserName    string            `json:"user_name"`
	Status      model.OrderStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

// --- Catalog ---

type CreateCategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	ImageURL string `json:"image_url"`
}

type UpdateCategoryRequest struct {
	Name     *string `json:"name"`
	ImageURL *string `json:"image_url"`
}

type CreateTownshipRequest struct {
	Name string `json:"name" binding:"required"`
}

// --- Announcements ---

type CreateAnnouncementRequest struct {
	Title    string `json:"title"`
	Text     string `json:"text"`
	ImageURL string `json:"image_url"`
}

type UpdateAnnouncementRequest struct {
	Title    *string `json:"title"`
	Text     *string `json:"text"`
	ImageURL *string `json:"image_url"`
}

type AnnouncementResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UnseenAnnouncementsResponse struct {
	Announcements []AnnouncementResponse `json:"announcements"`
	Count         int                    `json:"count"`
}

// --- Settings ---

type UpdateSettingsRequest struct {
	ShopName  string `json:"shop_name"`
	LogoURL   string `json:"logo_url"`
	SplashURL string `json:"splash_url"`
}

type SettingsResponse struct {
	ShopName  string `json:"shop_name"`
	LogoURL   string `json:"logo_url"`
	SplashURL string `json:"splash_url"`
}

// --- Reports ---

type OrderReportRequest struct {
	From    string `form:"from"`
	To      string `form:"to"`
	UserID  string `form:"user_id"`
	GroupBy string `form:"group_by,default=date" binding:"oneof=date user"`
}

type ReportGroupResponse struct {
	Key    string          `json:"key"`
	Orders []OrderResponse `json:"orders"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type OrderReportResponse struct {
	Groups      []ReportGroupResponse `json:"groups"`
	TotalOrders int                   `json:"total_orders"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
}
