package domain

import "time"

type EventType string

const (
	EventItemAdded      EventType = "item_added"
	EventOrderCompleted EventType = "order_completed"
	EventOrderCancelled EventType = "order_cancelled"
)

// OrderEvent mirrors the JSON kiosk-svc publishes on the orders topic.
type OrderEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	OrderID    int       `json:"order_id"`
	StoreName  string    `json:"store_name"`
	ItemName   string    `json:"item_name,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	TotalPrice float64   `json:"total_price"`
	Timestamp  time.Time `json:"timestamp"`
}
