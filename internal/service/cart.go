package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kzl/storefront-api/internal/dto"
	"github.com/kzl/storefront-api/internal/model"
	"github.com/kzl/storefront-api/internal/repository"
)

var ErrCartItemNotFound = errors.New("cart item not found")

type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *CartService) Get(ctx context.Context, userID string) (*dto.CartResponse, error) {
	items, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return toCartResponse(items), nil
}

// AddItem snapshots the product's current name and price into the cart line.
// Adding a product already in the cart bumps its quantity.
func (s *CartService) AddItem(ctx context.Context, userID string, req dto.AddCartItemRequest) (*dto.CartResponse, error) {
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	items, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	line := model.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  req.Quantity,
		ImageURL:  product.ImageURL,
		AddedAt:   time.Now().UTC(),
	}
	for _, existing := range items {
		if existing.ProductID == product.ID {
			line = existing
			line.Quantity += req.Quantity
			break
		}
	}

	if err := s.cartRepo.Put(ctx, userID, line); err != nil {
		return nil, fmt.Errorf("put cart item: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*dto.CartResponse, error) {
	items, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	for _, item := range items {
		if item.ProductID == productID {
			item.Quantity = quantity
			if err := s.cartRepo.Put(ctx, userID, item); err != nil {
				return nil, fmt.Errorf("put cart item: %w", err)
			}
			return s.Get(ctx, userID)
		}
	}
	return nil, ErrCartItemNotFound
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*dto.CartResponse, error) {
	items, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	found := false
	for _, item := range items {
		if item.ProductID == productID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrCartItemNotFound
	}

	if err := s.cartRepo.Remove(ctx, userID, productID); err != nil {
		return nil, fmt.Errorf("remove cart item: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func toCartResponse(items []model.CartItem) *dto.CartResponse {
	resp := &dto.CartResponse{Items: make([]dto.CartItemResponse, 0, len(items)), Total: decimal.Zero}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.CartItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
			AddedAt:   item.AddedAt,
		})
		lineTotal := decimal.NewFromInt(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		resp.Total = resp.Total.Add(lineTotal)
	}
	return resp
}
