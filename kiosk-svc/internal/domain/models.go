package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("not found")

type Store struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// MenuItem carries its store's name so lookups never need a second query.
type MenuItem struct {
	ID        int       `json:"id"`
	StoreID   int       `json:"store_id"`
	StoreName string    `json:"store_name"`
	Name      string    `json:"name"`
	Price     Money     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderStatus string

const (
	OrderPending         OrderStatus = "pending"
	OrderAwaitingPayment OrderStatus = "awaiting_payment"
	OrderCompleted       OrderStatus = "completed"
	OrderCancelled       OrderStatus = "cancelled"
)

// Open reports whether lines may still be added to an order in this status.
func (s OrderStatus) Open() bool {
	return s == OrderPending || s == OrderAwaitingPayment
}

// Order is the authoritative cart. StoreID is 0 when the store was deleted.
type Order struct {
	ID        int         `json:"id"`
	StoreID   int         `json:"store_id"`
	StoreName string      `json:"store_name"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	PickupAt  *time.Time  `json:"pickup_at,omitempty"`
	Lines     []OrderLine `json:"lines"`
}

type OrderLine struct {
	ID         int    `json:"id"`
	OrderID    int    `json:"order_id"`
	MenuItemID int    `json:"menu_item_id"`
	Name       string `json:"name"`
	Price      Money  `json:"price"`
	Quantity   int    `json:"quantity"`
}

// Total is always recomputed from the lines; it is never stored.
func (o *Order) Total() Money {
	var total Money
	for _, line := range o.Lines {
		total += line.Price.Mul(line.Quantity)
	}
	return total
}

func (o *Order) Line(menuItemID int) (OrderLine, bool) {
	for _, line := range o.Lines {
		if line.MenuItemID == menuItemID {
			return line, true
		}
	}
	return OrderLine{}, false
}

func (o *Order) Snapshot() OrderSnapshot {
	snapshot := OrderSnapshot{
		OrderID:    o.ID,
		StoreName:  o.StoreName,
		Items:      make([]SnapshotItem, 0, len(o.Lines)),
		TotalPrice: o.Total(),
		Status:     o.Status,
	}
	if o.PickupAt != nil {
		snapshot.PickupTime = PickupClock(*o.PickupAt)
	}
	for _, line := range o.Lines {
		snapshot.Items = append(snapshot.Items, SnapshotItem{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}
	return snapshot
}
