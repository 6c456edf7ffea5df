package storage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

const stockKeyPrefix = "stock:"

// RedisAdapter keeps the cart slot and the catalog's stock cache.
type RedisAdapter struct {
	client   *redis.Client
	cartKey  string
	stockTTL time.Duration
}

func NewRedisAdapter(client *redis.Client, cartKey string, stockTTL time.Duration) *RedisAdapter {
	if cartKey == "" {
		cartKey = DefaultCartKey
	}
	return &RedisAdapter{client: client, cartKey: cartKey, stockTTL: stockTTL}
}

func (r *RedisAdapter) Load(ctx context.Context) (domain.Cart, error) {
	raw, err := r.client.Get(ctx, r.cartKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}

	return decodeCart(raw)
}

func (r *RedisAdapter) Save(ctx context.Context, cart domain.Cart) error {
	raw, err := encodeCart(cart)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.cartKey, raw, 0).Err()
}

func (r *RedisAdapter) GetStock(ctx context.Context, productID int) (int, bool, error) {
	amount, err := r.client.Get(ctx, stockKey(productID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return amount, true, nil
}

func (r *RedisAdapter) SetStock(ctx context.Context, productID int, amount int) error {
	return r.client.Set(ctx, stockKey(productID), amount, r.stockTTL).Err()
}

func (r *RedisAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func stockKey(productID int) string {
	return stockKeyPrefix + strconv.Itoa(productID)
}
