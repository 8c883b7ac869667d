package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-kiosk/kiosk-svc/internal/catalog"
	"ai-kiosk/kiosk-svc/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultPickupDelay = 15 * time.Minute

type AddItemRequest struct {
	ItemName  string
	StoreName string
	Quantity  int
	Current   domain.OrderSnapshot
}

// CartResult is the snapshot the caller keeps plus the reply to show.
type CartResult struct {
	Snapshot domain.OrderSnapshot
	Message  string
}

// CartService mutates orders. Each call runs as one repository transaction and
// returns a snapshot recomputed from the stored lines.
type CartService struct {
	orders      OrderRepository
	qr          QRGenerator
	publisher   EventPublisher
	pickupDelay time.Duration
	now         func() time.Time
	logger      *zap.SugaredLogger
}

func NewCartService(orders OrderRepository, qr QRGenerator, publisher EventPublisher, pickupDelay time.Duration, logger *zap.SugaredLogger) *CartService {
	if pickupDelay <= 0 {
		pickupDelay = DefaultPickupDelay
	}
	return &CartService{
		orders:      orders,
		qr:          qr,
		publisher:   publisher,
		pickupDelay: pickupDelay,
		now:         time.Now,
		logger:      logger,
	}
}

// WithClock replaces the time source; used by tests.
func (s *CartService) WithClock(now func() time.Time) *CartService {
	s.now = now
	return s
}

func (s *CartService) AddItem(ctx context.Context, index *catalog.Index, req AddItemRequest) (CartResult, error) {
	item, err := resolveItem(index, req)
	if err != nil {
		return CartResult{}, err
	}
	added, err := s.addLine(ctx, item, req.Quantity, req.Current)
	if err != nil {
		return CartResult{}, err
	}
	return added.result(), nil
}

// AddItems adds several items in one turn, each continuing from the order the
// previous one left. Every item is resolved before the first line is written.
func (s *CartService) AddItems(ctx context.Context, index *catalog.Index, current domain.OrderSnapshot, reqs []AddItemRequest) (CartResult, error) {
	if len(reqs) == 0 {
		return CartResult{}, ErrItemNotFound
	}
	items := make([]domain.MenuItem, len(reqs))
	for i, req := range reqs {
		item, err := resolveItem(index, req)
		if err != nil {
			return CartResult{}, err
		}
		items[i] = item
	}

	var all addedLine
	for i, item := range items {
		added, err := s.addLine(ctx, item, reqs[i].Quantity, current)
		if err != nil {
			return CartResult{}, err
		}
		current = added.order.Snapshot()
		all.order = added.order
		all.parts = append(all.parts, added.parts...)
		if added.switched {
			all.switched = true
		}
	}
	return all.result(), nil
}

func resolveItem(index *catalog.Index, req AddItemRequest) (domain.MenuItem, error) {
	item, ok := index.FindItemByName(req.ItemName, catalog.MatchExact, req.StoreName)
	if !ok {
		item, ok = index.FindItemByName(req.ItemName, catalog.MatchSubstring, req.StoreName)
	}
	if !ok {
		return domain.MenuItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, req.ItemName)
	}
	return item, nil
}

type addedLine struct {
	order    *domain.Order
	parts    []string
	switched bool
}

func (a addedLine) result() CartResult {
	message := fmt.Sprintf("%s 주문 목록에 추가했습니다. 현재 총 %s원입니다. 더 주문하시겠어요? (주문 확인, 결제, 취소 가능)",
		strings.Join(a.parts, ", "), a.order.Total())
	if a.switched {
		message = fmt.Sprintf("%s에서 새 주문을 시작합니다. ", a.order.StoreName) + message
	}
	return CartResult{Snapshot: a.order.Snapshot(), Message: message}
}

func (s *CartService) addLine(ctx context.Context, item domain.MenuItem, quantity int, current domain.OrderSnapshot) (addedLine, error) {
	if quantity < 1 {
		quantity = 1
	}
	orderID, switched, err := s.reusableOrder(ctx, current, item.StoreID)
	if err != nil {
		return addedLine{}, err
	}

	order, err := s.orders.AddLine(ctx, orderID, item, quantity)
	if err != nil {
		return addedLine{}, fmt.Errorf("%w: add line: %v", ErrUpstream, err)
	}

	s.publish(ctx, domain.OrderEvent{
		Type:       domain.EventItemAdded,
		OrderID:    order.ID,
		StoreName:  order.StoreName,
		ItemName:   item.Name,
		Quantity:   quantity,
		TotalPrice: item.Price.Mul(quantity),
	})
	return addedLine{
		order:    order,
		parts:    []string{fmt.Sprintf("%s %d개", item.Name, quantity)},
		switched: switched,
	}, nil
}

// reusableOrder returns the caller's order when it is still open and belongs to
// storeID. Otherwise 0 is returned and a new order will be created; switched
// reports that an open order for another store was left behind.
func (s *CartService) reusableOrder(ctx context.Context, current domain.OrderSnapshot, storeID int) (int, bool, error) {
	if !current.HasOrder() {
		return 0, false, nil
	}
	order, err := s.orders.GetOrder(ctx, current.OrderID)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: load order: %v", ErrUpstream, err)
	}
	if !order.Status.Open() {
		return 0, false, nil
	}
	if order.StoreID != storeID {
		return 0, true, nil
	}
	return order.ID, false, nil
}

// activeOrder loads the caller's order if it can still be changed.
func (s *CartService) activeOrder(ctx context.Context, current domain.OrderSnapshot) (*domain.Order, error) {
	if !current.HasOrder() {
		return nil, ErrNoActiveOrder
	}
	order, err := s.orders.GetOrder(ctx, current.OrderID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrNoActiveOrder
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load order: %v", ErrUpstream, err)
	}
	if !order.Status.Open() {
		return nil, ErrNoActiveOrder
	}
	return order, nil
}

func (s *CartService) RemoveItem(ctx context.Context, item domain.MenuItem, current domain.OrderSnapshot) (CartResult, error) {
	order, err := s.activeOrder(ctx, current)
	if err != nil {
		return CartResult{}, err
	}
	line, ok := order.Line(item.ID)
	if !ok {
		return CartResult{}, fmt.Errorf("%w: %s is not in the order", ErrItemNotFound, item.Name)
	}

	updated, err := s.orders.RemoveLine(ctx, order.ID, line.MenuItemID)
	if err != nil {
		return CartResult{}, fmt.Errorf("%w: remove line: %v", ErrUpstream, err)
	}
	return CartResult{
		Snapshot: updated.Snapshot(),
		Message:  fmt.Sprintf("%s을(를) 주문 목록에서 제외했습니다. 현재 총 %s원입니다. 더 주문하시겠어요?", line.Name, updated.Total()),
	}, nil
}

// Finalize completes an open order with a positive total. Failing checks leave the order untouched.
func (s *CartService) Finalize(ctx context.Context, current domain.OrderSnapshot) (CartResult, error) {
	order, err := s.activeOrder(ctx, current)
	if err != nil {
		return CartResult{}, err
	}
	total := order.Total()
	if total <= 0 {
		return CartResult{}, ErrNothingToPay
	}

	var qr []byte
	if s.qr != nil {
		if qr, err = s.qr.Generate(order.ID); err != nil {
			s.logger.Warnw("qr generation failed", "order_id", order.ID, "error", err)
			qr = nil
		}
	}
	pickup := s.now().Add(s.pickupDelay)
	if err := s.orders.CompleteOrder(ctx, order.ID, qr, pickup); err != nil {
		return CartResult{}, fmt.Errorf("%w: complete order: %v", ErrUpstream, err)
	}

	s.publish(ctx, domain.OrderEvent{
		Type:       domain.EventOrderCompleted,
		OrderID:    order.ID,
		StoreName:  order.StoreName,
		TotalPrice: total,
	})

	snapshot := domain.EmptySnapshot(domain.OrderCompleted)
	snapshot.PickupTime = domain.PickupClock(pickup)
	return CartResult{
		Snapshot: snapshot,
		Message: fmt.Sprintf("총 %s원 결제가 완료되었습니다. 주문 번호는 %d번, 픽업 시간은 %d시 %d분입니다.",
			total, order.ID, pickup.Hour(), pickup.Minute()),
	}, nil
}

func (s *CartService) Cancel(ctx context.Context, current domain.OrderSnapshot) (CartResult, error) {
	order, err := s.activeOrder(ctx, current)
	if err != nil {
		return CartResult{}, err
	}
	if err := s.orders.CancelOrder(ctx, order.ID); err != nil {
		return CartResult{}, fmt.Errorf("%w: cancel order: %v", ErrUpstream, err)
	}

	s.publish(ctx, domain.OrderEvent{
		Type:       domain.EventOrderCancelled,
		OrderID:    order.ID,
		StoreName:  order.StoreName,
		TotalPrice: order.Total(),
	})

	return CartResult{
		Snapshot: domain.EmptySnapshot(domain.OrderCancelled),
		Message:  "주문이 취소되었습니다. 무엇을 도와드릴까요?",
	}, nil
}

func (s *CartService) Summary(ctx context.Context, current domain.OrderSnapshot) (CartResult, error) {
	order, err := s.activeOrder(ctx, current)
	if errors.Is(err, ErrNoActiveOrder) {
		return CartResult{Snapshot: current, Message: "현재 주문하신 내역이 없습니다."}, nil
	}
	if err != nil {
		return CartResult{}, err
	}
	if len(order.Lines) == 0 {
		return CartResult{Snapshot: order.Snapshot(), Message: "현재 주문하신 내역이 없습니다."}, nil
	}

	parts := make([]string, 0, len(order.Lines))
	for _, line := range order.Lines {
		parts = append(parts, fmt.Sprintf("%s %d개", line.Name, line.Quantity))
	}
	return CartResult{
		Snapshot: order.Snapshot(),
		Message: fmt.Sprintf("현재 주문하신 내역은 %s이며, 총 %s원입니다. 더 주문하시겠어요? (결제, 취소 가능)",
			strings.Join(parts, ", "), order.Total()),
	}, nil
}

func (s *CartService) Get(ctx context.Context, orderID int) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, orderID)
}

// QRCode returns the stored code, or a freshly generated one when none was stored.
func (s *CartService) QRCode(ctx context.Context, orderID int) ([]byte, error) {
	qr, err := s.orders.GetQRCode(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qr != nil {
		if regenerated, err := s.qr.Generate(orderID); err == nil {
			return regenerated, nil
		}
	}
	return qr, nil
}

// publish is best effort; failures are only logged.
func (s *CartService) publish(ctx context.Context, event domain.OrderEvent) {
	if s.publisher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warnw("order event publish failed", "type", event.Type, "order_id", event.OrderID, "error", err)
	}
}

var _ CartServiceInterface = (*CartService)(nil)
