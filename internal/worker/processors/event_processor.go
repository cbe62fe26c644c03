package processors

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/worker"
)

var errMissingProductID = errors.New("missing product id")

type Syncer interface {
	RunFullCrawl(ctx context.Context) (int, error)
	SyncProduct(ctx context.Context, id string) error
	DeleteProduct(ctx context.Context, id string) error
}

// EventProcessor executes sync events against the sync engine.
type EventProcessor struct {
	syncer Syncer
	logger *logger.Logger
}

func NewEventProcessor(syncer Syncer, logger *logger.Logger) *EventProcessor {
	return &EventProcessor{
		syncer: syncer,
		logger: logger.WithPrefix("events"),
	}
}

func (ep *EventProcessor) Process(ctx context.Context, event worker.Event) error {
	ep.logger.Debug("Processing event: %+v", event)

	err := ep.dispatch(ctx, event)
	metrics.RecordEvent(event.Type, err)
	if err != nil {
		return fmt.Errorf("event %s (%s from %s): %w", event.ID, event.Type, event.Source, err)
	}

	ep.logger.Info("Processed %s event %s", event.Type, event.ID)
	return nil
}

func (ep *EventProcessor) dispatch(ctx context.Context, event worker.Event) error {
	switch event.Type {
	case worker.EventProductUpdated:
		if event.ProductID == "" {
			return errMissingProductID
		}
		return ep.syncer.SyncProduct(ctx, event.ProductID)
	case worker.EventProductDeleted:
		if event.ProductID == "" {
			return errMissingProductID
		}
		return ep.syncer.DeleteProduct(ctx, event.ProductID)
	case worker.EventSyncRequested:
		count, err := ep.syncer.RunFullCrawl(ctx)
		if err != nil {
			return err
		}
		ep.logger.Info("Crawl %s synced %d products", event.ID, count)
		return nil
	default:
		return fmt.Errorf("unknown event type %q", event.Type)
	}
}
