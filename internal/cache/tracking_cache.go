// Package cache keeps short-lived copies of tracked parcels in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/parcel-service/internal/domain"
)

const keyPrefix = "parcel:tracking:"

// TrackingCache stores parcels keyed by tracking ID.
type TrackingCache interface {
	Get(ctx context.Context, trackingID string) (*domain.Parcel, bool, error)
	Set(ctx context.Context, parcel *domain.Parcel) error
	Invalidate(ctx context.Context, trackingID string) error
}

type redisTrackingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTrackingCache returns a Redis-backed cache. A nil client yields a no-op cache.
func NewRedisTrackingCache(client *redis.Client, ttl time.Duration) TrackingCache {
	if client == nil {
		return Noop{}
	}
	return &redisTrackingCache{client: client, ttl: ttl}
}

func (c *redisTrackingCache) Get(ctx context.Context, trackingID string) (*domain.Parcel, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+trackingID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", trackingID, err)
	}

	var parcel domain.Parcel
	if err := json.Unmarshal(raw, &parcel); err != nil {
		return nil, false, fmt.Errorf("cache decode %s: %w", trackingID, err)
	}
	return &parcel, true, nil
}

func (c *redisTrackingCache) Set(ctx context.Context, parcel *domain.Parcel) error {
	raw, err := json.Marshal(parcel)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", parcel.TrackingID, err)
	}
	return c.client.Set(ctx, keyPrefix+parcel.TrackingID, raw, c.ttl).Err()
}

func (c *redisTrackingCache) Invalidate(ctx context.Context, trackingID string) error {
	return c.client.Del(ctx, keyPrefix+trackingID).Err()
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (*domain.Parcel, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, *domain.Parcel) error                 { return nil }
func (Noop) Invalidate(context.Context, string) error                  { return nil }
