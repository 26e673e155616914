package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flow-seal-proxy/internal/core/cache"
	"flow-seal-proxy/internal/core/logger"
	"flow-seal-proxy/internal/features/orders/domain"
	"flow-seal-proxy/internal/features/orders/ports"

	"go.uber.org/zap"
)

const orderCacheKeyPrefix = "order_by_name:"

// CachedOrderProvider decorates an OrderProvider with a cache of order-name lookups.
// A name always maps to the same order within a shop, so hits are served without
// calling Shopify. Lookups by id always go to the wrapped provider.
type CachedOrderProvider struct {
	next  ports.OrderProvider
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedOrderProvider creates a new CachedOrderProvider.
func NewCachedOrderProvider(next ports.OrderProvider, c cache.Cache, ttl time.Duration) *CachedOrderProvider {
	return &CachedOrderProvider{
		next:  next,
		cache: c,
		ttl:   ttl,
	}
}

// FindOrderByName serves the lookup from the cache, falling back to the wrapped provider.
// Cache failures are logged and never fail the lookup. Misses are not cached.
func (p *CachedOrderProvider) FindOrderByName(ctx context.Context, shop, token, name string) (*domain.Order, error) {
	key := orderCacheKey(shop, name)
	log := logger.Named("order_cache")

	if order, err := p.get(ctx, key); err == nil {
		log.Debug("Order cache hit", zap.String("key", key))
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn("Order cache read failed", zap.String("key", key), zap.Error(err))
	}

	order, err := p.next.FindOrderByName(ctx, shop, token, name)
	if err != nil || order == nil {
		return order, err
	}

	if err := p.set(ctx, key, order); err != nil {
		log.Warn("Order cache write failed", zap.String("key", key), zap.Error(err))
	}
	return order, nil
}

// GetOrderByID delegates to the wrapped provider.
func (p *CachedOrderProvider) GetOrderByID(ctx context.Context, shop, token, id string) (*domain.Order, error) {
	return p.next.GetOrderByID(ctx, shop, token, id)
}

func (p *CachedOrderProvider) get(ctx context.Context, key string) (*domain.Order, error) {
	data, err := p.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		if delErr := p.cache.Delete(ctx, key); delErr != nil {
			logger.Named("order_cache").Warn("Order cache evict failed", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to unmarshal cached order: %w", err)
	}
	return &order, nil
}

func (p *CachedOrderProvider) set(ctx context.Context, key string, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}
	return p.cache.Set(ctx, key, data, p.ttl)
}

func orderCacheKey(shop, name string) string {
	return orderCacheKeyPrefix + shop + ":" + domain.NormalizeOrderName(name)
}
