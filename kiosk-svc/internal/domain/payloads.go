package domain

import "time"

type CommandRequest struct {
	Message      string         `json:"message"`
	CurrentState *OrderSnapshot `json:"currentState"`
}

type CommandResponse struct {
	Reply        string        `json:"reply"`
	CurrentOrder OrderSnapshot `json:"currentOrder"`
}

type TurnRequest struct {
	Message           string            `json:"message"`
	History           []HistoryMessage  `json:"history"`
	CurrentState      *OrderSnapshot    `json:"currentState"`
	ConversationState ConversationState `json:"conversationState"`
}

type TurnResponse struct {
	Reply             string            `json:"reply"`
	CurrentOrder      OrderSnapshot     `json:"currentOrder"`
	ConversationState ConversationState `json:"conversationState"`
}

type EventType string

const (
	EventItemAdded      EventType = "item_added"
	EventOrderCompleted EventType = "order_completed"
	EventOrderCancelled EventType = "order_cancelled"
)

type OrderEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	OrderID    int       `json:"order_id"`
	StoreName  string    `json:"store_name"`
	ItemName   string    `json:"item_name,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	TotalPrice Money     `json:"total_price"`
	Timestamp  time.Time `json:"timestamp"`
}
