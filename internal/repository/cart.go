package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kzl/storefront-api/internal/model"
)

// Carts are per-user working state, not shared catalog data, so they live in
// Redis rather than the document store: a hash per user keyed by product id,
// matching the client-local cart the shop UI keeps until checkout.
const cartTTL = 30 * 24 * time.Hour

type CartRepository interface {
	Get(ctx context.Context, userID string) ([]model.CartItem, error)
	Put(ctx context.Context, userID string, item model.CartItem) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

type redisCartRepo struct {
	client *redis.Client
}

func NewCartRepository(client *redis.Client) CartRepository {
	return &redisCartRepo{client: client}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

func (r *redisCartRepo) Get(ctx context.Context, userID string) ([]model.CartItem, error) {
	entries, err := r.client.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	items := make([]model.CartItem, 0, len(entries))
	for _, raw := range entries {
		var item model.CartItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("decode cart item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Put inserts or replaces the line for the item's product.
func (r *redisCartRepo) Put(ctx context.Context, userID string, item model.CartItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode cart item: %w", err)
	}
	key := cartKey(userID)
	if err := r.client.HSet(ctx, key, item.ProductID, data).Err(); err != nil {
		return fmt.Errorf("put cart item: %w", err)
	}
	r.client.Expire(ctx, key, cartTTL)
	return nil
}

func (r *redisCartRepo) Remove(ctx context.Context, userID, productID string) error {
	if err := r.client.HDel(ctx, cartKey(userID), productID).Err(); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (r *redisCartRepo) Clear(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
