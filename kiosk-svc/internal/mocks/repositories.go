package mocks

import (
	"context"
	"time"

	"ai-kiosk/kiosk-svc/internal/catalog"
	"ai-kiosk/kiosk-svc/internal/domain"
	"ai-kiosk/kiosk-svc/internal/llm"

	"github.com/stretchr/testify/mock"
)

type CatalogRepository struct {
	mock.Mock
}

func (_m *CatalogRepository) ListStores(ctx context.Context) ([]domain.Store, error) {
	ret := _m.Called(ctx)
	stores, _ := ret.Get(0).([]domain.Store)
	return stores, ret.Error(1)
}

func (_m *CatalogRepository) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx)
	items, _ := ret.Get(0).([]domain.MenuItem)
	return items, ret.Error(1)
}

func (_m *CatalogRepository) ListStoreMenu(ctx context.Context, storeID int) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx, storeID)
	items, _ := ret.Get(0).([]domain.MenuItem)
	return items, ret.Error(1)
}

func (_m *CatalogRepository) CreateStore(ctx context.Context, store *domain.Store) error {
	return _m.Called(ctx, store).Error(0)
}

func (_m *CatalogRepository) DeleteStore(ctx context.Context, id int) (int64, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *CatalogRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return _m.Called(ctx, item).Error(0)
}

func NewCatalogRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *CatalogRepository {
	m := &CatalogRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type CatalogCache struct {
	mock.Mock
}

func (_m *CatalogCache) Get(ctx context.Context) (catalog.Data, bool, error) {
	ret := _m.Called(ctx)
	data, _ := ret.Get(0).(catalog.Data)
	return data, ret.Bool(1), ret.Error(2)
}

func (_m *CatalogCache) Set(ctx context.Context, data catalog.Data) error {
	return _m.Called(ctx, data).Error(0)
}

func (_m *CatalogCache) Invalidate(ctx context.Context) error {
	return _m.Called(ctx).Error(0)
}

type OrderRepository struct {
	mock.Mock
}

func (_m *OrderRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	ret := _m.Called(ctx, id)
	order, _ := ret.Get(0).(*domain.Order)
	return order, ret.Error(1)
}

func (_m *OrderRepository) AddLine(ctx context.Context, orderID int, item domain.MenuItem, quantity int) (*domain.Order, error) {
	ret := _m.Called(ctx, orderID, item, quantity)
	order, _ := ret.Get(0).(*domain.Order)
	return order, ret.Error(1)
}

func (_m *OrderRepository) RemoveLine(ctx context.Context, orderID, menuItemID int) (*domain.Order, error) {
	ret := _m.Called(ctx, orderID, menuItemID)
	order, _ := ret.Get(0).(*domain.Order)
	return order, ret.Error(1)
}

func (_m *OrderRepository) CompleteOrder(ctx context.Context, orderID int, qr []byte, pickupAt time.Time) error {
	return _m.Called(ctx, orderID, qr, pickupAt).Error(0)
}

func (_m *OrderRepository) CancelOrder(ctx context.Context, orderID int) error {
	return _m.Called(ctx, orderID).Error(0)
}

func (_m *OrderRepository) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	ret := _m.Called(ctx, orderID)
	qr, _ := ret.Get(0).([]byte)
	return qr, ret.Error(1)
}

type EventPublisher struct {
	mock.Mock
}

func (_m *EventPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	return _m.Called(ctx, event).Error(0)
}

type PopularityReader struct {
	mock.Mock
}

func (_m *PopularityReader) TopItems(ctx context.Context, storeName string, limit int) ([]string, error) {
	ret := _m.Called(ctx, storeName, limit)
	items, _ := ret.Get(0).([]string)
	return items, ret.Error(1)
}

type QRGenerator struct {
	mock.Mock
}

func (_m *QRGenerator) Generate(orderID int) ([]byte, error) {
	ret := _m.Called(orderID)
	qr, _ := ret.Get(0).([]byte)
	return qr, ret.Error(1)
}

type ChatModel struct {
	mock.Mock
}

func (_m *ChatModel) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	ret := _m.Called(ctx, messages)
	return ret.String(0), ret.Error(1)
}
