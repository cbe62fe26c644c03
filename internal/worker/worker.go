package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"storefront/internal/logger"

	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Worker consumes sync events from Kafka and hands them to a Handler.
type Worker struct {
	logger  *logger.Logger
	reader  messageReader
	handler Handler
}

func New(brokers []string, topic, groupID string, handler Handler, logger *logger.Logger) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		logger:  logger.WithPrefix("worker"),
		reader:  reader,
		handler: handler,
	}
}

// Start blocks until ctx is cancelled or the reader is closed.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Worker started, listening for events...")

	for {
		message, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				w.logger.Info("Worker stopped")
				return
			}
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))

		var event Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		if err := w.handler.Process(ctx, event); err != nil {
			w.logger.Error("Failed to process %s event %s: %v", event.Type, event.ID, err)
			continue
		}

		w.logger.Debug("Event %s processed successfully", event.ID)
	}
}

func (w *Worker) Stop() error {
	w.logger.Info("Stopping worker...")
	return w.reader.Close()
}
