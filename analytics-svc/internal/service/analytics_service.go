package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"ai-kiosk/analytics-svc/internal/domain"
	"ai-kiosk/rediskeys"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultLimit = 10
	MaxDays      = 90
)

var ErrInvalidRange = errors.New("invalid range")

// AnalyticsService reads the counters agg-svc maintains. It never writes.
type AnalyticsService struct {
	rdb *redis.Client
}

func NewAnalyticsService(rdb *redis.Client) *AnalyticsService {
	return &AnalyticsService{rdb: rdb}
}

func (s *AnalyticsService) TopItems(ctx context.Context, store string, limit int) ([]domain.ItemPopularity, error) {
	limit = clampLimit(limit)
	result, err := s.rdb.ZRevRangeWithScores(ctx, rediskeys.Popular(store), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	items := make([]domain.ItemPopularity, 0, len(result))
	for _, member := range result {
		items = append(items, domain.ItemPopularity{
			Store: store,
			Item:  member.Member.(string),
			Units: member.Score,
		})
	}
	return items, nil
}

// TopOverall merges every store's set. Ties are ordered by store then item name.
func (s *AnalyticsService) TopOverall(ctx context.Context, limit int) ([]domain.ItemPopularity, error) {
	limit = clampLimit(limit)

	var all []domain.ItemPopularity
	iter := s.rdb.Scan(ctx, 0, rediskeys.PopularPattern(), 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		result, err := s.rdb.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
		if err != nil {
			return nil, err
		}
		store := rediskeys.StoreFromPopular(key)
		for _, member := range result {
			all = append(all, domain.ItemPopularity{Store: store, Item: member.Member.(string), Units: member.Score})
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Units != all[j].Units {
			return all[i].Units > all[j].Units
		}
		if all[i].Store != all[j].Store {
			return all[i].Store < all[j].Store
		}
		return all[i].Item < all[j].Item
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Daily returns one summary per day, oldest first, ending at end.
func (s *AnalyticsService) Daily(ctx context.Context, end time.Time, days int) ([]domain.DailySummary, error) {
	if days < 1 || days > MaxDays {
		return nil, ErrInvalidRange
	}

	keys := make([]string, 0, 2*days)
	dates := make([]string, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)
		dates = append(dates, day.Format(rediskeys.DateLayout))
		keys = append(keys, rediskeys.Completed(day), rediskeys.Revenue(day))
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.DailySummary, 0, days)
	for i, date := range dates {
		summary := domain.DailySummary{Date: date}
		if raw, ok := values[2*i].(string); ok {
			summary.CompletedOrders, _ = strconv.ParseInt(raw, 10, 64)
		}
		if raw, ok := values[2*i+1].(string); ok {
			summary.Revenue, _ = strconv.ParseFloat(raw, 64)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return DefaultLimit
	}
	return limit
}
