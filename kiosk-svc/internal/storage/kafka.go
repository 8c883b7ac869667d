package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"ai-kiosk/kiosk-svc/internal/domain"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish keys messages by order id so one order's events stay in one partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(event.OrderID)),
		Value: value,
	})
}
