package service

import (
	"context"
	"time"

	"ai-kiosk/kiosk-svc/internal/catalog"
	"ai-kiosk/kiosk-svc/internal/domain"
)

type CatalogRepository interface {
	ListStores(ctx context.Context) ([]domain.Store, error)
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	ListStoreMenu(ctx context.Context, storeID int) ([]domain.MenuItem, error)
	CreateStore(ctx context.Context, store *domain.Store) error
	DeleteStore(ctx context.Context, id int) (int64, error)
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
}

// CatalogCache stores the whole catalog as one entry. Get reports a miss with ok=false.
type CatalogCache interface {
	Get(ctx context.Context) (data catalog.Data, ok bool, err error)
	Set(ctx context.Context, data catalog.Data) error
	Invalidate(ctx context.Context) error
}

type OrderRepository interface {
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	// AddLine creates the order when orderID is 0 and merges quantity into an existing line.
	AddLine(ctx context.Context, orderID int, item domain.MenuItem, quantity int) (*domain.Order, error)
	RemoveLine(ctx context.Context, orderID, menuItemID int) (*domain.Order, error)
	CompleteOrder(ctx context.Context, orderID int, qr []byte, pickupAt time.Time) error
	CancelOrder(ctx context.Context, orderID int) error
	GetQRCode(ctx context.Context, orderID int) ([]byte, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
}

// PopularityReader returns the best-selling item names of a store, most popular first.
type PopularityReader interface {
	TopItems(ctx context.Context, storeName string, limit int) ([]string, error)
}

type CatalogServiceInterface interface {
	Index(ctx context.Context) (*catalog.Index, error)
	ListStores(ctx context.Context) ([]domain.Store, error)
	CreateStore(ctx context.Context, store *domain.Store) error
	DeleteStore(ctx context.Context, id int) (int64, error)
	ListMenu(ctx context.Context, storeID int) ([]domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
}

type CartServiceInterface interface {
	AddItem(ctx context.Context, index *catalog.Index, req AddItemRequest) (CartResult, error)
	AddItems(ctx context.Context, index *catalog.Index, current domain.OrderSnapshot, reqs []AddItemRequest) (CartResult, error)
	RemoveItem(ctx context.Context, item domain.MenuItem, current domain.OrderSnapshot) (CartResult, error)
	Finalize(ctx context.Context, current domain.OrderSnapshot) (CartResult, error)
	Cancel(ctx context.Context, current domain.OrderSnapshot) (CartResult, error)
	Summary(ctx context.Context, current domain.OrderSnapshot) (CartResult, error)
	Get(ctx context.Context, orderID int) (*domain.Order, error)
	QRCode(ctx context.Context, orderID int) ([]byte, error)
}

type DialogueServiceInterface interface {
	HandleTurn(ctx context.Context, req domain.TurnRequest) (domain.TurnResponse, error)
	HandleCommand(ctx context.Context, req domain.CommandRequest) (domain.CommandResponse, error)
}
