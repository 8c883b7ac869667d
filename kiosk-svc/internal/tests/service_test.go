package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-kiosk/kiosk-svc/internal/catalog"
	"ai-kiosk/kiosk-svc/internal/domain"
	"ai-kiosk/kiosk-svc/internal/mocks"
	"ai-kiosk/kiosk-svc/internal/nlu"
	"ai-kiosk/kiosk-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testLogger = zap.NewNop().Sugar()

func testData() catalog.Data {
	return catalog.Data{
		Stores: []domain.Store{
			{ID: 1, Name: "김밥천국 중앙점"},
			{ID: 2, Name: "스타벅스 강남점"},
			{ID: 3, Name: "맘스터치 강남점"},
		},
		Items: []domain.MenuItem{
			{ID: 1, StoreID: 1, Name: "참치김밥", Price: domain.Won(4500)},
			{ID: 2, StoreID: 1, Name: "라볶이", Price: domain.Won(6000)},
			{ID: 10, StoreID: 2, Name: "아메리카노", Price: domain.Won(4100)},
			{ID: 11, StoreID: 2, Name: "카페라떼", Price: domain.Won(4600)},
			{ID: 20, StoreID: 3, Name: "싸이버거", Price: domain.Won(4000)},
		},
	}
}

func testIndex() *catalog.Index {
	return catalog.NewIndex(testData(), nlu.DefaultLexicon().Categories)
}

func burgerOrder(id, quantity int) *domain.Order {
	return &domain.Order{
		ID:        id,
		StoreID:   3,
		StoreName: "맘스터치 강남점",
		Status:    domain.OrderPending,
		Lines: []domain.OrderLine{
			{ID: 1, OrderID: id, MenuItemID: 20, Name: "싸이버거", Price: domain.Won(4000), Quantity: quantity},
		},
	}
}

func itemWithID(id int) interface{} {
	return mock.MatchedBy(func(item domain.MenuItem) bool { return item.ID == id })
}

func TestCatalogService_Index(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*mocks.CatalogRepository, *mocks.CatalogCache)
		wantItems int
		wantErr   error
	}{
		{
			name: "cache hit skips the repository",
			setup: func(repo *mocks.CatalogRepository, cache *mocks.CatalogCache) {
				cache.On("Get", mock.Anything).Return(testData(), true, nil).Once()
			},
			wantItems: 5,
		},
		{
			name: "cache miss loads and stores",
			setup: func(repo *mocks.CatalogRepository, cache *mocks.CatalogCache) {
				data := testData()
				cache.On("Get", mock.Anything).Return(catalog.Data{}, false, nil).Once()
				repo.On("ListStores", mock.Anything).Return(data.Stores, nil).Once()
				repo.On("ListMenuItems", mock.Anything).Return(data.Items, nil).Once()
				cache.On("Set", mock.Anything, data).Return(nil).Once()
			},
			wantItems: 5,
		},
		{
			name: "cache failures fall back to the repository",
			setup: func(repo *mocks.CatalogRepository, cache *mocks.CatalogCache) {
				data := testData()
				cache.On("Get", mock.Anything).Return(catalog.Data{}, false, errors.New("redis down")).Once()
				repo.On("ListStores", mock.Anything).Return(data.Stores, nil).Once()
				repo.On("ListMenuItems", mock.Anything).Return(data.Items, nil).Once()
				cache.On("Set", mock.Anything, data).Return(errors.New("redis down")).Once()
			},
			wantItems: 5,
		},
		{
			name: "repository error",
			setup: func(repo *mocks.CatalogRepository, cache *mocks.CatalogCache) {
				cache.On("Get", mock.Anything).Return(catalog.Data{}, false, nil).Once()
				repo.On("ListStores", mock.Anything).Return(nil, assert.AnError).Once()
			},
			wantErr: service.ErrUpstream,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := new(mocks.CatalogRepository)
			cache := new(mocks.CatalogCache)
			testCase.setup(repo, cache)
			svc := service.NewCatalogService(repo, cache, nlu.DefaultLexicon().Categories, testLogger)

			index, err := svc.Index(context.Background())

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				require.NoError(t, err)
				assert.Len(t, index.Items(), testCase.wantItems)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestCatalogService_WritesInvalidateCache(t *testing.T) {
	repo := new(mocks.CatalogRepository)
	cache := new(mocks.CatalogCache)
	svc := service.NewCatalogService(repo, cache, nil, testLogger)
	ctx := context.Background()

	store := &domain.Store{Name: "  버거킹 역삼점 "}
	repo.On("CreateStore", mock.Anything, store).Return(nil).Once()
	item := &domain.MenuItem{StoreID: 3, Name: "와퍼", Price: domain.Won(7100)}
	repo.On("CreateMenuItem", mock.Anything, item).Return(nil).Once()
	repo.On("DeleteStore", mock.Anything, 3).Return(int64(1), nil).Once()
	repo.On("DeleteStore", mock.Anything, 99).Return(int64(0), nil).Once()
	cache.On("Invalidate", mock.Anything).Return(nil).Times(3)

	require.NoError(t, svc.CreateStore(ctx, store))
	assert.Equal(t, "버거킹 역삼점", store.Name)
	require.NoError(t, svc.CreateMenuItem(ctx, item))
	rows, err := svc.DeleteStore(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	rows, err = svc.DeleteStore(ctx, 99)
	require.NoError(t, err)
	assert.Zero(t, rows)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_Validation(t *testing.T) {
	tests := []struct {
		name string
		run  func(*service.CatalogService) error
	}{
		{
			name: "empty store name",
			run: func(svc *service.CatalogService) error {
				return svc.CreateStore(context.Background(), &domain.Store{Name: "   "})
			},
		},
		{
			name: "menu item without store",
			run: func(svc *service.CatalogService) error {
				return svc.CreateMenuItem(context.Background(), &domain.MenuItem{Name: "와퍼"})
			},
		},
		{
			name: "negative price",
			run: func(svc *service.CatalogService) error {
				return svc.CreateMenuItem(context.Background(), &domain.MenuItem{StoreID: 1, Name: "와퍼", Price: -100})
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := new(mocks.CatalogRepository)
			svc := service.NewCatalogService(repo, nil, nil, testLogger)

			err := testCase.run(svc)

			assert.ErrorIs(t, err, service.ErrInvalidInput)
			repo.AssertNotCalled(t, "CreateStore", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "CreateMenuItem", mock.Anything, mock.Anything)
		})
	}
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local)
}

func newCart(orders *mocks.OrderRepository, qr *mocks.QRGenerator, publisher service.EventPublisher) *service.CartService {
	return service.NewCartService(orders, qr, publisher, 15*time.Minute, testLogger).WithClock(fixedClock)
}

func TestCartService_AddItem(t *testing.T) {
	tests := []struct {
		name        string
		request     service.AddItemRequest
		setup       func(*mocks.OrderRepository)
		wantTotal   domain.Money
		wantMessage string
		wantErr     error
	}{
		{
			name:    "first item creates an order",
			request: service.AddItemRequest{ItemName: "싸이버거", Current: domain.EmptySnapshot("")},
			setup: func(orders *mocks.OrderRepository) {
				orders.On("AddLine", mock.Anything, 0, itemWithID(20), 1).Return(burgerOrder(42, 1), nil).Once()
			},
			wantTotal:   domain.Won(4000),
			wantMessage: "싸이버거 1개 주문 목록에 추가했습니다. 현재 총 4000원입니다. 더 주문하시겠어요? (주문 확인, 결제, 취소 가능)",
		},
		{
			name:    "same store reuses the order",
			request: service.AddItemRequest{ItemName: "싸이버거", Quantity: 1, Current: burgerOrder(42, 1).Snapshot()},
			setup: func(orders *mocks.OrderRepository) {
				orders.On("GetOrder", mock.Anything, 42).Return(burgerOrder(42, 1), nil).Once()
				orders.On("AddLine", mock.Anything, 42, itemWithID(20), 1).Return(burgerOrder(42, 2), nil).Once()
			},
			wantTotal:   domain.Won(8000),
			wantMessage: "싸이버거 1개 주문 목록에 추가했습니다. 현재 총 8000원입니다. 더 주문하시겠어요? (주문 확인, 결제, 취소 가능)",
		},
		{
			name:    "another store starts a new order",
			request: service.AddItemRequest{ItemName: "싸이버거", Quantity: 2, Current: domain.OrderSnapshot{OrderID: 7, StoreName: "김밥천국 중앙점"}},
			setup: func(orders *mocks.OrderRepository) {
				orders.On("GetOrder", mock.Anything, 7).Return(&domain.Order{ID: 7, StoreID: 1, Status: domain.OrderPending}, nil).Once()
				orders.On("AddLine", mock.Anything, 0, itemWithID(20), 2).Return(burgerOrder(43, 2), nil).Once()
			},
			wantTotal:   domain.Won(8000),
			wantMessage: "맘스터치 강남점에서 새 주문을 시작합니다. 싸이버거 2개 주문 목록에 추가했습니다. 현재 총 8000원입니다. 더 주문하시겠어요? (주문 확인, 결제, 취소 가능)",
		},
		{
			name:    "completed order is not reused",
			request: service.AddItemRequest{ItemName: "싸이버거", Current: domain.OrderSnapshot{OrderID: 42}},
			setup: func(orders *mocks.OrderRepository) {
				done := burgerOrder(42, 1)
				done.Status = domain.OrderCompleted
				orders.On("GetOrder", mock.Anything, 42).Return(done, nil).Once()
				orders.On("AddLine", mock.Anything, 0, itemWithID(20), 1).Return(burgerOrder(44, 1), nil).Once()
			},
			wantTotal:   domain.Won(4000),
			wantMessage: "싸이버거 1개 주문 목록에 추가했습니다. 현재 총 4000원입니다. 더 주문하시겠어요? (주문 확인, 결제, 취소 가능)",
		},
		{
			name:    "partial name matches",
			request: service.AddItemRequest{ItemName: "라떼", Current: domain.EmptySnapshot("")},
			setup: func(orders *mocks.OrderRepository) {
				orders.On("AddLine", mock.Anything, 0, itemWithID(11), 1).Return(&domain.Order{
					ID: 50, StoreID: 2, StoreName: "스타벅스 강남점", Status: domain.OrderPending,
					Lines: []domain.OrderLine{{MenuItemID: 11, Name: "카페라떼", Price: domain.Won(4600), Quantity: 1}},
				}, nil).Once()
			},
			wantTotal:   domain.Won(4600),
			wantMessage: "카페라떼 1개 주문 목록에 추가했습니다. 현재 총 4600원입니다. 더 주문하시겠어요? (주문 확인, 결제, 취소 가능)",
		},
		{
			name:    "unknown item",
			request: service.AddItemRequest{ItemName: "불고기피자", Current: domain.EmptySnapshot("")},
			setup:   func(orders *mocks.OrderRepository) {},
			wantErr: service.ErrItemNotFound,
		},
		{
			name:    "store filter excludes other stores",
			request: service.AddItemRequest{ItemName: "싸이버거", StoreName: "스타벅스", Current: domain.EmptySnapshot("")},
			setup:   func(orders *mocks.OrderRepository) {},
			wantErr: service.ErrItemNotFound,
		},
		{
			name:    "storage failure",
			request: service.AddItemRequest{ItemName: "싸이버거", Current: domain.EmptySnapshot("")},
			setup: func(orders *mocks.OrderRepository) {
				orders.On("AddLine", mock.Anything, 0, itemWithID(20), 1).Return(nil, assert.AnError).Once()
			},
			wantErr: service.ErrUpstream,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			orders := new(mocks.OrderRepository)
			testCase.setup(orders)
			cart := newCart(orders, nil, nil)

			result, err := cart.AddItem(context.Background(), testIndex(), testCase.request)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, testCase.wantTotal, result.Snapshot.TotalPrice)
				assert.Equal(t, testCase.wantMessage, result.Message)
			}
			orders.AssertExpectations(t)
		})
	}
}

func TestCartService_AddItemPublishesEvent(t *testing.T) {
	orders := new(mocks.OrderRepository)
	publisher := new(mocks.EventPublisher)
	orders.On("AddLine", mock.Anything, 0, itemWithID(20), 2).Return(burgerOrder(42, 2), nil).Once()
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(event domain.OrderEvent) bool {
		return event.Type == domain.EventItemAdded &&
			event.OrderID == 42 &&
			event.ItemName == "싸이버거" &&
			event.Quantity == 2 &&
			event.TotalPrice == domain.Won(8000) &&
			event.ID != ""
	})).Return(errors.New("broker down")).Once()

	result, err := newCart(orders, nil, publisher).AddItem(context.Background(), testIndex(),
		service.AddItemRequest{ItemName: "싸이버거", Quantity: 2, Current: domain.EmptySnapshot("")})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Snapshot.Items[0].Quantity)
	publisher.AssertExpectations(t)
}

func kimbapOrder(id int, lines ...domain.OrderLine) *domain.Order {
	return &domain.Order{ID: id, StoreID: 1, StoreName: "김밥천국 중앙점", Status: domain.OrderPending, Lines: lines}
}

func TestCartService_AddItems(t *testing.T) {
	tuna := domain.OrderLine{MenuItemID: 1, Name: "참치김밥", Price: domain.Won(4500), Quantity: 2}
	rabokki := domain.OrderLine{MenuItemID: 2, Name: "라볶이", Price: domain.Won(6000), Quantity: 1}

	tests := []struct {
		name        string
		requests    []service.AddItemRequest
		setup       func(*mocks.OrderRepository)
		wantLines   int
		wantTotal   domain.Money
		wantMessage string
		wantErr     error
	}{
		{
			name: "each item lands in the same order",
			requests: []service.AddItemRequest{
				{ItemName: "참치김밥", Quantity: 2},
				{ItemName: "라볶이", Quantity: 1},
			},
			setup: func(orders *mocks.OrderRepository) {
				orders.On("AddLine", mock.Anything, 0, itemWithID(1), 2).Return(kimbapOrder(60, tuna), nil).Once()
				orders.On("GetOrder", mock.Anything, 60).Return(kimbapOrder(60, tuna), nil).Once()
				orders.On("AddLine", mock.Anything, 60, itemWithID(2), 1).Return(kimbapOrder(60, tuna, rabokki), nil).Once()
			},
			wantLines:   2,
			wantTotal:   domain.Won(15000),
			wantMessage: "참치김밥 2개, 라볶이 1개 주문 목록에 추가했습니다. 현재 총 15000원입니다. 더 주문하시겠어요? (주문 확인, 결제, 취소 가능)",
		},
		{
			name: "unknown item writes nothing",
			requests: []service.AddItemRequest{
				{ItemName: "참치김밥", Quantity: 2},
				{ItemName: "불고기피자", Quantity: 1},
			},
			setup:   func(orders *mocks.OrderRepository) {},
			wantErr: service.ErrItemNotFound,
		},
		{
			name:    "no items",
			setup:   func(orders *mocks.OrderRepository) {},
			wantErr: service.ErrItemNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			orders := new(mocks.OrderRepository)
			testCase.setup(orders)

			result, err := newCart(orders, nil, nil).AddItems(context.Background(), testIndex(), domain.EmptySnapshot(""), testCase.requests)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				require.NoError(t, err)
				assert.Len(t, result.Snapshot.Items, testCase.wantLines)
				assert.Equal(t, testCase.wantTotal, result.Snapshot.TotalPrice)
				assert.Equal(t, testCase.wantMessage, result.Message)
			}
			orders.AssertExpectations(t)
		})
	}
}

func TestCartService_Finalize(t *testing.T) {
	pickupAt := fixedClock().Add(15 * time.Minute)

	tests := []struct {
		name        string
		current     domain.OrderSnapshot
		setup       func(*mocks.OrderRepository, *mocks.QRGenerator)
		wantMessage string
		wantErr     error
	}{
		{
			name:    "completes the order",
			current: burgerOrder(42, 2).Snapshot(),
			setup: func(orders *mocks.OrderRepository, qr *mocks.QRGenerator) {
				orders.On("GetOrder", mock.Anything, 42).Return(burgerOrder(42, 2), nil).Once()
				qr.On("Generate", 42).Return([]byte("png"), nil).Once()
				orders.On("CompleteOrder", mock.Anything, 42, []byte("png"), pickupAt).Return(nil).Once()
			},
			wantMessage: "총 8000원 결제가 완료되었습니다. 주문 번호는 42번, 픽업 시간은 12시 15분입니다.",
		},
		{
			name:    "qr failure still completes",
			current: burgerOrder(42, 1).Snapshot(),
			setup: func(orders *mocks.OrderRepository, qr *mocks.QRGenerator) {
				orders.On("GetOrder", mock.Anything, 42).Return(burgerOrder(42, 1), nil).Once()
				qr.On("Generate", 42).Return(nil, errors.New("encode")).Once()
				orders.On("CompleteOrder", mock.Anything, 42, []byte(nil), pickupAt).Return(nil).Once()
			},
			wantMessage: "총 4000원 결제가 완료되었습니다. 주문 번호는 42번, 픽업 시간은 12시 15분입니다.",
		},
		{
			name:    "no order",
			current: domain.EmptySnapshot(""),
			setup:   func(orders *mocks.OrderRepository, qr *mocks.QRGenerator) {},
			wantErr: service.ErrNoActiveOrder,
		},
		{
			name:    "order already completed",
			current: domain.OrderSnapshot{OrderID: 42},
			setup: func(orders *mocks.OrderRepository, qr *mocks.QRGenerator) {
				done := burgerOrder(42, 1)
				done.Status = domain.OrderCompleted
				orders.On("GetOrder", mock.Anything, 42).Return(done, nil).Once()
			},
			wantErr: service.ErrNoActiveOrder,
		},
		{
			name:    "order vanished",
			current: domain.OrderSnapshot{OrderID: 42},
			setup: func(orders *mocks.OrderRepository, qr *mocks.QRGenerator) {
				orders.On("GetOrder", mock.Anything, 42).Return(nil, domain.ErrNotFound).Once()
			},
			wantErr: service.ErrNoActiveOrder,
		},
		{
			name:    "empty order",
			current: domain.OrderSnapshot{OrderID: 42},
			setup: func(orders *mocks.OrderRepository, qr *mocks.QRGenerator) {
				orders.On("GetOrder", mock.Anything, 42).Return(&domain.Order{ID: 42, StoreID: 3, Status: domain.OrderPending}, nil).Once()
			},
			wantErr: service.ErrNothingToPay,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			orders := new(mocks.OrderRepository)
			qr := new(mocks.QRGenerator)
			testCase.setup(orders, qr)

			result, err := newCart(orders, qr, nil).Finalize(context.Background(), testCase.current)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				orders.AssertNotCalled(t, "CompleteOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				want := domain.EmptySnapshot(domain.OrderCompleted)
				want.PickupTime = "12:15"
				assert.Equal(t, want, result.Snapshot)
				assert.Equal(t, testCase.wantMessage, result.Message)
			}
			orders.AssertExpectations(t)
			qr.AssertExpectations(t)
		})
	}
}

func TestCartService_CancelAndRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel", func(t *testing.T) {
		orders := new(mocks.OrderRepository)
		orders.On("GetOrder", mock.Anything, 42).Return(burgerOrder(42, 1), nil).Once()
		orders.On("CancelOrder", mock.Anything, 42).Return(nil).Once()

		result, err := newCart(orders, nil, nil).Cancel(ctx, burgerOrder(42, 1).Snapshot())

		require.NoError(t, err)
		assert.Equal(t, domain.OrderCancelled, result.Snapshot.Status)
		assert.Empty(t, result.Snapshot.Items)
		orders.AssertExpectations(t)
	})

	t.Run("remove line", func(t *testing.T) {
		orders := new(mocks.OrderRepository)
		emptied := burgerOrder(42, 1)
		emptied.Lines = nil
		orders.On("GetOrder", mock.Anything, 42).Return(burgerOrder(42, 1), nil).Once()
		orders.On("RemoveLine", mock.Anything, 42, 20).Return(emptied, nil).Once()

		item := domain.MenuItem{ID: 20, Name: "싸이버거"}
		result, err := newCart(orders, nil, nil).RemoveItem(ctx, item, burgerOrder(42, 1).Snapshot())

		require.NoError(t, err)
		assert.Equal(t, "싸이버거을(를) 주문 목록에서 제외했습니다. 현재 총 0원입니다. 더 주문하시겠어요?", result.Message)
		assert.Zero(t, result.Snapshot.TotalPrice)
		orders.AssertExpectations(t)
	})

	t.Run("remove item not in order", func(t *testing.T) {
		orders := new(mocks.OrderRepository)
		orders.On("GetOrder", mock.Anything, 42).Return(burgerOrder(42, 1), nil).Once()

		_, err := newCart(orders, nil, nil).RemoveItem(ctx, domain.MenuItem{ID: 10, Name: "아메리카노"}, burgerOrder(42, 1).Snapshot())

		assert.ErrorIs(t, err, service.ErrItemNotFound)
		orders.AssertNotCalled(t, "RemoveLine", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCartService_Summary(t *testing.T) {
	orders := new(mocks.OrderRepository)
	orders.On("GetOrder", mock.Anything, 42).Return(burgerOrder(42, 2), nil).Once()
	cart := newCart(orders, nil, nil)

	result, err := cart.Summary(context.Background(), burgerOrder(42, 2).Snapshot())
	require.NoError(t, err)
	assert.Equal(t, "현재 주문하신 내역은 싸이버거 2개이며, 총 8000원입니다. 더 주문하시겠어요? (결제, 취소 가능)", result.Message)

	result, err = cart.Summary(context.Background(), domain.EmptySnapshot(""))
	require.NoError(t, err)
	assert.Equal(t, "현재 주문하신 내역이 없습니다.", result.Message)
	orders.AssertExpectations(t)
}

func TestCartService_QRCodeRegenerates(t *testing.T) {
	orders := new(mocks.OrderRepository)
	qr := new(mocks.QRGenerator)
	orders.On("GetQRCode", mock.Anything, 42).Return([]byte(nil), nil).Once()
	qr.On("Generate", 42).Return([]byte("fresh"), nil).Once()

	code, err := newCart(orders, qr, nil).QRCode(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), code)
}

func TestDefaultQRGenerator(t *testing.T) {
	gen := service.DefaultQRGenerator{BaseURL: "http://kiosk.local/"}

	assert.Equal(t, "http://kiosk.local/pickup.html?order_id=7", gen.PickupURL(7))
	png, err := gen.Generate(7)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
	assert.Equal(t, "/api/orders/7/qrcode", service.QRLink(7))
}
