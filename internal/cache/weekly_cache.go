package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/barmetrics/backend-go/internal/config"
	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	weeklyKeyPrefix     = "cmv:weekly"
	weeklyScanBatchSize = 100
)

// WeeklyCache fronts weekly record listings. Batch runs touch every venue,
// so invalidation clears the whole prefix.
type WeeklyCache interface {
	GetList(ctx context.Context, filter domain.WeeklyFilter) ([]domain.WeeklyCMV, bool, error)
	SetList(ctx context.Context, filter domain.WeeklyFilter, records []domain.WeeklyCMV) error
	InvalidateAll(ctx context.Context) error
}

type redisWeeklyCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopWeeklyCache struct{}

func NewWeeklyCache(cfg config.CacheConfig) (WeeklyCache, error) {
	if !cfg.Enabled {
		return &noopWeeklyCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisWeeklyCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopWeeklyCache() WeeklyCache {
	return &noopWeeklyCache{}
}

func (c *redisWeeklyCache) GetList(ctx context.Context, filter domain.WeeklyFilter) ([]domain.WeeklyCMV, bool, error) {
	key := buildWeeklyKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var records []domain.WeeklyCMV
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, false, fmt.Errorf("decode weekly cache: %w", err)
	}

	return records, true, nil
}

func (c *redisWeeklyCache) SetList(ctx context.Context, filter domain.WeeklyFilter, records []domain.WeeklyCMV) error {
	key := buildWeeklyKey(filter)
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode weekly cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisWeeklyCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, weeklyKeyPrefix, weeklyScanBatchSize)
}

func (n *noopWeeklyCache) GetList(ctx context.Context, filter domain.WeeklyFilter) ([]domain.WeeklyCMV, bool, error) {
	return nil, false, nil
}

func (n *noopWeeklyCache) SetList(ctx context.Context, filter domain.WeeklyFilter, records []domain.WeeklyCMV) error {
	return nil
}

func (n *noopWeeklyCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// buildWeeklyKey derives the cache key from the filter. The filter's fields
// are small integers, so the key stays readable instead of hashed.
func buildWeeklyKey(filter domain.WeeklyFilter) string {
	return fmt.Sprintf("%s:v%d:y%d:w%d", weeklyKeyPrefix, filter.VenueID, filter.Year, filter.Week)
}
