package mocks

import (
	"context"
	"time"

	"ai-kiosk/analytics-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type AnalyticsInterface struct {
	mock.Mock
}

func (_m *AnalyticsInterface) TopItems(ctx context.Context, store string, limit int) ([]domain.ItemPopularity, error) {
	ret := _m.Called(ctx, store, limit)
	items, _ := ret.Get(0).([]domain.ItemPopularity)
	return items, ret.Error(1)
}

func (_m *AnalyticsInterface) TopOverall(ctx context.Context, limit int) ([]domain.ItemPopularity, error) {
	ret := _m.Called(ctx, limit)
	items, _ := ret.Get(0).([]domain.ItemPopularity)
	return items, ret.Error(1)
}

func (_m *AnalyticsInterface) Daily(ctx context.Context, end time.Time, days int) ([]domain.DailySummary, error) {
	ret := _m.Called(ctx, end, days)
	summaries, _ := ret.Get(0).([]domain.DailySummary)
	return summaries, ret.Error(1)
}
