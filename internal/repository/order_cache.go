package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/domain"
)

const orderCachePrefix = "order:"

// cachedOrderRepository is a read-through Redis cache in front of another
// OrderRepository. Cache problems never fail the request; reads fall back
// to the inner repository.
type cachedOrderRepository struct {
	inner  OrderRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedOrderRepository wraps inner with a Redis snapshot cache.
func NewCachedOrderRepository(inner OrderRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) OrderRepository {
	return &cachedOrderRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (r *cachedOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if err := r.inner.Create(ctx, order); err != nil {
		return err
	}
	r.store(ctx, order)
	return nil
}

func (r *cachedOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	if err := r.inner.Update(ctx, order); err != nil {
		return err
	}
	r.store(ctx, order)
	return nil
}

func (r *cachedOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	raw, err := r.client.Get(ctx, cacheKey(id)).Bytes()
	if err == nil {
		var order domain.Order
		if unmarshalErr := json.Unmarshal(raw, &order); unmarshalErr == nil {
			return &order, nil
		}
		// fall through to the database on a corrupt entry
	} else if err != redis.Nil {
		r.logger.Warn("order cache read failed", zap.Int64("order_id", id), zap.Error(err))
	}

	order, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, order)
	return order, nil
}

func (r *cachedOrderRepository) store(ctx context.Context, order *domain.Order) {
	raw, err := json.Marshal(order)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, cacheKey(order.ID), raw, r.ttl).Err(); err != nil {
		r.logger.Warn("order cache write failed", zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

func cacheKey(id int64) string {
	return orderCachePrefix + strconv.FormatInt(id, 10)
}
