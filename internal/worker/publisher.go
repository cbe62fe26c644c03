package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/logger"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher is the Kafka-backed Queue. Messages are keyed by product id
// so events for one product land on one partition in order.
type Publisher struct {
	writer messageWriter
	logger *logger.Logger
}

func NewPublisher(brokers []string, topic string, logger *logger.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
		logger: logger.WithPrefix("publisher"),
	}
}

func (p *Publisher) Enqueue(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Value: value,
		Time:  event.Timestamp,
	}
	if event.ProductID != "" {
		msg.Key = []byte(event.ProductID)
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	p.logger.Debug("Published %s event %s", event.Type, event.ID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
