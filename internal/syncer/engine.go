// Package syncer mirrors the remote catalog into the local store, either
// by crawling every page or by resynchronizing a single product.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/services/shopify"
)

// PageDelay is the pause between consecutive pages of a full crawl.
const PageDelay = 300 * time.Millisecond

type Catalog interface {
	FetchPage(ctx context.Context, cursor string) (*shopify.ProductPage, error)
	FetchProduct(ctx context.Context, id string) (*shopify.ProductNode, error)
}

type Store interface {
	Upsert(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

type Transformer interface {
	TransformProduct(node *shopify.ProductNode) (*models.Product, error)
}

type Validator interface {
	ValidateProduct(product *models.Product) error
}

type Engine struct {
	catalog     Catalog
	store       Store
	transformer Transformer
	validator   Validator
	logger      *logger.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

func New(catalog Catalog, store Store, transformer Transformer, validator Validator, logger *logger.Logger) *Engine {
	return &Engine{
		catalog:     catalog,
		store:       store,
		transformer: transformer,
		validator:   validator,
		logger:      logger.WithPrefix("sync"),
		sleep:       sleepContext,
	}
}

// RunFullCrawl walks every page of the remote catalog and upserts each
// product. Any failure aborts the crawl; the count of products already
// written is returned with the error. Concurrent crawls are not guarded
// against.
func (e *Engine) RunFullCrawl(ctx context.Context) (int, error) {
	start := time.Now()
	e.logger.Info("Starting full catalog crawl")

	count, err := e.crawl(ctx)
	metrics.RecordCrawl(err, time.Since(start))
	if err != nil {
		e.logger.Error("Full crawl failed after %d products: %v", count, err)
		return count, err
	}

	e.logger.Info("Full crawl complete: %d products in %s", count, time.Since(start).Round(time.Millisecond))
	return count, nil
}

func (e *Engine) crawl(ctx context.Context) (int, error) {
	var (
		count  int
		cursor string
	)
	for page := 1; ; page++ {
		result, err := e.catalog.FetchPage(ctx, cursor)
		if err != nil {
			return count, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}

		for i := range result.Nodes {
			if err := e.apply(ctx, &result.Nodes[i]); err != nil {
				return count, err
			}
			count++
		}
		e.logger.Debug("Page %d done, %d products so far", page, count)

		if !result.HasNextPage {
			return count, nil
		}
		cursor = result.EndCursor
		if err := e.sleep(ctx, PageDelay); err != nil {
			return count, fmt.Errorf("crawl interrupted: %w", err)
		}
	}
}

// SyncProduct refreshes one product. A product the API no longer knows is
// deleted locally.
func (e *Engine) SyncProduct(ctx context.Context, id string) error {
	node, err := e.catalog.FetchProduct(ctx, id)
	if errors.Is(err, shopify.ErrProductNotFound) {
		e.logger.Info("Product %s no longer exists remotely, deleting", id)
		return e.store.Delete(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch product %s: %w", id, err)
	}
	return e.apply(ctx, node)
}

// DeleteProduct removes a product whose deletion was announced remotely.
func (e *Engine) DeleteProduct(ctx context.Context, id string) error {
	return e.store.Delete(ctx, id)
}

func (e *Engine) apply(ctx context.Context, node *shopify.ProductNode) error {
	product, err := e.transformer.TransformProduct(node)
	if err != nil {
		return fmt.Errorf("failed to transform product %s: %w", node.ID, err)
	}
	if err := e.validator.ValidateProduct(product); err != nil {
		return err
	}
	if err := e.store.Upsert(ctx, product); err != nil {
		return err
	}
	metrics.ProductSynced()
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
