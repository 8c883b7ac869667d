package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

type StoreInterface struct {
	mock.Mock
}

func NewStoreInterface(t *testing.T) *StoreInterface {
	m := &StoreInterface{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *StoreInterface) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	ret := _m.Called(ctx, eventID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *StoreInterface) UnmarkProcessed(ctx context.Context, eventID string) error {
	ret := _m.Called(ctx, eventID)
	return ret.Error(0)
}

func (_m *StoreInterface) IncrementPopularity(ctx context.Context, store, item string, quantity int) error {
	ret := _m.Called(ctx, store, item, quantity)
	return ret.Error(0)
}

func (_m *StoreInterface) RecordCompletion(ctx context.Context, day time.Time, total float64) error {
	ret := _m.Called(ctx, day, total)
	return ret.Error(0)
}
