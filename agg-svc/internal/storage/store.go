package storage

import (
	"context"
	"time"

	"ai-kiosk/rediskeys"

	"github.com/redis/go-redis/v9"
)

const (
	dailyTTL     = 90 * 24 * time.Hour
	processedTTL = 24 * time.Hour
)

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// MarkProcessed returns false when the event id was already recorded.
func (s *Store) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return true, nil
	}
	return s.rdb.SetNX(ctx, rediskeys.Event(eventID), 1, processedTTL).Result()
}

// UnmarkProcessed forgets an event id so a redelivery is counted again.
func (s *Store) UnmarkProcessed(ctx context.Context, eventID string) error {
	if eventID == "" {
		return nil
	}
	return s.rdb.Del(ctx, rediskeys.Event(eventID)).Err()
}

func (s *Store) IncrementPopularity(ctx context.Context, store, item string, quantity int) error {
	return s.rdb.ZIncrBy(ctx, rediskeys.Popular(store), float64(quantity), item).Err()
}

func (s *Store) RecordCompletion(ctx context.Context, day time.Time, total float64) error {
	pipe := s.rdb.TxPipeline()
	pipe.Incr(ctx, rediskeys.Completed(day))
	pipe.Expire(ctx, rediskeys.Completed(day), dailyTTL)
	pipe.IncrByFloat(ctx, rediskeys.Revenue(day), total)
	pipe.Expire(ctx, rediskeys.Revenue(day), dailyTTL)
	_, err := pipe.Exec(ctx)
	return err
}
