package service

import (
	"context"
	"time"

	"ai-kiosk/analytics-svc/internal/domain"
)

type AnalyticsInterface interface {
	TopItems(ctx context.Context, store string, limit int) ([]domain.ItemPopularity, error)
	TopOverall(ctx context.Context, limit int) ([]domain.ItemPopularity, error)
	Daily(ctx context.Context, end time.Time, days int) ([]domain.DailySummary, error)
}

var _ AnalyticsInterface = (*AnalyticsService)(nil)
