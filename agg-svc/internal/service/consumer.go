package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-kiosk/agg-svc/internal/domain"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var ErrInvalidEvent = errors.New("invalid order event")

const readRetryDelay = time.Second

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	Logger *zap.SugaredLogger
}

func NewConsumer(reader MessageReader, store StoreInterface, logger *zap.SugaredLogger) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
		Logger: logger,
	}
}

// Start reads until ctx is cancelled. Bad messages are logged and skipped.
func (c *Consumer) Start(ctx context.Context) error {
	c.Logger.Infow("aggregation consumer starting")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if ctx.Err() != nil {
			c.Logger.Infow("aggregation consumer stopping")
			return nil
		}
		if err != nil {
			c.Logger.Warnw("failed to read message", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(readRetryDelay):
			}
			continue
		}

		if err := c.Handle(ctx, message); err != nil {
			c.Logger.Errorw("failed to handle message",
				"error", err,
				"partition", message.Partition,
				"offset", message.Offset,
			)
		}
	}
}

func (c *Consumer) Handle(ctx context.Context, message kafka.Message) error {
	var event domain.OrderEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return c.Process(ctx, event)
}

func (c *Consumer) Process(ctx context.Context, event domain.OrderEvent) error {
	switch event.Type {
	case domain.EventItemAdded:
		if event.StoreName == "" || event.ItemName == "" || event.Quantity <= 0 {
			return fmt.Errorf("%w: item_added for order %d without store, item or quantity", ErrInvalidEvent, event.OrderID)
		}
	case domain.EventOrderCompleted:
	case domain.EventOrderCancelled:
		c.Logger.Debugw("order cancelled", "order_id", event.OrderID, "store", event.StoreName)
		return nil
	default:
		c.Logger.Debugw("ignoring event", "type", event.Type)
		return nil
	}

	fresh, err := c.Store.MarkProcessed(ctx, event.ID)
	if err != nil {
		return err
	}
	if !fresh {
		c.Logger.Debugw("duplicate event", "id", event.ID)
		return nil
	}

	if err := c.apply(ctx, event); err != nil {
		if unmarkErr := c.Store.UnmarkProcessed(ctx, event.ID); unmarkErr != nil {
			c.Logger.Errorw("failed to release event id", "id", event.ID, "error", unmarkErr)
		}
		return err
	}
	return nil
}

func (c *Consumer) apply(ctx context.Context, event domain.OrderEvent) error {
	if event.Type == domain.EventItemAdded {
		if err := c.Store.IncrementPopularity(ctx, event.StoreName, event.ItemName, event.Quantity); err != nil {
			return err
		}
		c.Logger.Infow("popularity updated", "store", event.StoreName, "item", event.ItemName, "quantity", event.Quantity)
		return nil
	}

	day := event.Timestamp
	if day.IsZero() {
		day = time.Now()
	}
	if err := c.Store.RecordCompletion(ctx, day.Local(), event.TotalPrice); err != nil {
		return err
	}
	c.Logger.Infow("order completed", "order_id", event.OrderID, "store", event.StoreName, "total", event.TotalPrice)
	return nil
}
