package mocks

import (
	"context"

	"ai-kiosk/kiosk-svc/internal/catalog"
	"ai-kiosk/kiosk-svc/internal/domain"
	"ai-kiosk/kiosk-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

type CatalogServiceInterface struct {
	mock.Mock
}

func (_m *CatalogServiceInterface) Index(ctx context.Context) (*catalog.Index, error) {
	ret := _m.Called(ctx)
	index, _ := ret.Get(0).(*catalog.Index)
	return index, ret.Error(1)
}

func (_m *CatalogServiceInterface) ListStores(ctx context.Context) ([]domain.Store, error) {
	ret := _m.Called(ctx)
	stores, _ := ret.Get(0).([]domain.Store)
	return stores, ret.Error(1)
}

func (_m *CatalogServiceInterface) CreateStore(ctx context.Context, store *domain.Store) error {
	return _m.Called(ctx, store).Error(0)
}

func (_m *CatalogServiceInterface) DeleteStore(ctx context.Context, id int) (int64, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *CatalogServiceInterface) ListMenu(ctx context.Context, storeID int) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx, storeID)
	items, _ := ret.Get(0).([]domain.MenuItem)
	return items, ret.Error(1)
}

func (_m *CatalogServiceInterface) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return _m.Called(ctx, item).Error(0)
}

type CartServiceInterface struct {
	mock.Mock
}

func (_m *CartServiceInterface) AddItem(ctx context.Context, index *catalog.Index, req service.AddItemRequest) (service.CartResult, error) {
	ret := _m.Called(ctx, index, req)
	return ret.Get(0).(service.CartResult), ret.Error(1)
}

func (_m *CartServiceInterface) AddItems(ctx context.Context, index *catalog.Index, current domain.OrderSnapshot, reqs []service.AddItemRequest) (service.CartResult, error) {
	ret := _m.Called(ctx, index, current, reqs)
	return ret.Get(0).(service.CartResult), ret.Error(1)
}

func (_m *CartServiceInterface) RemoveItem(ctx context.Context, item domain.MenuItem, current domain.OrderSnapshot) (service.CartResult, error) {
	ret := _m.Called(ctx, item, current)
	return ret.Get(0).(service.CartResult), ret.Error(1)
}

func (_m *CartServiceInterface) Finalize(ctx context.Context, current domain.OrderSnapshot) (service.CartResult, error) {
	ret := _m.Called(ctx, current)
	return ret.Get(0).(service.CartResult), ret.Error(1)
}

func (_m *CartServiceInterface) Cancel(ctx context.Context, current domain.OrderSnapshot) (service.CartResult, error) {
	ret := _m.Called(ctx, current)
	return ret.Get(0).(service.CartResult), ret.Error(1)
}

func (_m *CartServiceInterface) Summary(ctx context.Context, current domain.OrderSnapshot) (service.CartResult, error) {
	ret := _m.Called(ctx, current)
	return ret.Get(0).(service.CartResult), ret.Error(1)
}

func (_m *CartServiceInterface) Get(ctx context.Context, orderID int) (*domain.Order, error) {
	ret := _m.Called(ctx, orderID)
	order, _ := ret.Get(0).(*domain.Order)
	return order, ret.Error(1)
}

func (_m *CartServiceInterface) QRCode(ctx context.Context, orderID int) ([]byte, error) {
	ret := _m.Called(ctx, orderID)
	qr, _ := ret.Get(0).([]byte)
	return qr, ret.Error(1)
}

type DialogueServiceInterface struct {
	mock.Mock
}

func (_m *DialogueServiceInterface) HandleTurn(ctx context.Context, req domain.TurnRequest) (domain.TurnResponse, error) {
	ret := _m.Called(ctx, req)
	return ret.Get(0).(domain.TurnResponse), ret.Error(1)
}

func (_m *DialogueServiceInterface) HandleCommand(ctx context.Context, req domain.CommandRequest) (domain.CommandResponse, error) {
	ret := _m.Called(ctx, req)
	return ret.Get(0).(domain.CommandResponse), ret.Error(1)
}
