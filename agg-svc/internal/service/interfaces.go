package service

import (
	"context"
	"time"

	"ai-kiosk/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	UnmarkProcessed(ctx context.Context, eventID string) error
	IncrementPopularity(ctx context.Context, store, item string, quantity int) error
	RecordCompletion(ctx context.Context, day time.Time, total float64) error
}

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

var (
	_ StoreInterface = (*storage.Store)(nil)
	_ MessageReader  = (*kafka.Reader)(nil)
)
