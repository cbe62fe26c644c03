package worker

import (
	"context"
	"fmt"

	"storefront/internal/logger"
)

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// SeedIfEmpty queues a full crawl when the store holds no products. It
// reports whether a crawl was queued.
func SeedIfEmpty(ctx context.Context, counter Counter, queue Queue, logger *logger.Logger) (bool, error) {
	total, err := counter.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count products: %w", err)
	}
	if total > 0 {
		logger.Info("Catalog holds %d products, skipping bootstrap crawl", total)
		return false, nil
	}

	event := NewEvent(EventSyncRequested, "", SourceBootstrap)
	if err := queue.Enqueue(ctx, event); err != nil {
		return false, fmt.Errorf("failed to queue bootstrap crawl: %w", err)
	}
	logger.Info("Catalog is empty, queued bootstrap crawl %s", event.ID)
	return true, nil
}
