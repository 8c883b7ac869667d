package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-kiosk/kiosk-svc/internal/catalog"
	"ai-kiosk/rediskeys"

	"github.com/redis/go-redis/v9"
)

// RedisCatalogCache keeps the whole catalog as one JSON value.
type RedisCatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCatalogCache(rdb *redis.Client, ttl time.Duration) *RedisCatalogCache {
	return &RedisCatalogCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCatalogCache) Get(ctx context.Context) (catalog.Data, bool, error) {
	raw, err := c.rdb.Get(ctx, rediskeys.Catalog).Bytes()
	if errors.Is(err, redis.Nil) {
		return catalog.Data{}, false, nil
	}
	if err != nil {
		return catalog.Data{}, false, err
	}

	var data catalog.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return catalog.Data{}, false, fmt.Errorf("decode cached catalog: %w", err)
	}
	return data, true, nil
}

func (c *RedisCatalogCache) Set(ctx context.Context, data catalog.Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, rediskeys.Catalog, raw, c.ttl).Err()
}

func (c *RedisCatalogCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, rediskeys.Catalog).Err()
}

type RedisPopularity struct {
	rdb *redis.Client
}

func NewRedisPopularity(rdb *redis.Client) *RedisPopularity {
	return &RedisPopularity{rdb: rdb}
}

func (p *RedisPopularity) TopItems(ctx context.Context, storeName string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	return p.rdb.ZRevRange(ctx, rediskeys.Popular(storeName), 0, int64(limit-1)).Result()
}
