package domain

import "time"

type SnapshotItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    Money  `json:"price"`
}

// OrderSnapshot is the client-facing projection of an Order. The database rows stay authoritative.
// PickupTime ("HH:MM") survives on the cleared snapshot of a completed order.
type OrderSnapshot struct {
	OrderID    int            `json:"orderId,omitempty"`
	StoreName  string         `json:"storeName,omitempty"`
	Items      []SnapshotItem `json:"items"`
	TotalPrice Money          `json:"totalPrice"`
	Status     OrderStatus    `json:"status,omitempty"`
	PickupTime string         `json:"pickupTime,omitempty"`
}

// PickupClock formats a pickup time the way snapshots carry it.
func PickupClock(t time.Time) string {
	return t.Format("15:04")
}

// EmptySnapshot is returned after an order is finalized or cancelled.
func EmptySnapshot(status OrderStatus) OrderSnapshot {
	return OrderSnapshot{Items: []SnapshotItem{}, Status: status}
}

// HasOrder reports whether the snapshot references a persisted order.
func (s *OrderSnapshot) HasOrder() bool {
	return s != nil && s.OrderID > 0
}

// OrDefault turns a missing snapshot into an empty one, keeping whatever the caller sent otherwise.
func (s *OrderSnapshot) OrDefault() OrderSnapshot {
	if s == nil {
		return EmptySnapshot("")
	}
	out := *s
	if out.Items == nil {
		out.Items = []SnapshotItem{}
	}
	return out
}
