package worker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
	EventSyncRequested  = "sync.requested"
)

// Event sources.
const (
	SourceWebhook   = "webhook"
	SourceAdmin     = "admin"
	SourceSchedule  = "schedule"
	SourceBootstrap = "bootstrap"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// Event is one unit of background sync work.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ProductID string    `json:"product_id,omitempty"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEvent(eventType, productID, source string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ProductID: productID,
		Source:    source,
		Timestamp: time.Now().UTC(),
	}
}

// Queue accepts events for asynchronous processing. Enqueue returns once
// the event is accepted, never after it is processed.
type Queue interface {
	Enqueue(ctx context.Context, event Event) error
}

// Handler executes a dequeued event.
type Handler interface {
	Process(ctx context.Context, event Event) error
}
