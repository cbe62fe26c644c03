package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/api"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/scheduler"
	"storefront/internal/services/shopify"
	"storefront/internal/services/validation"
	"storefront/internal/syncer"
	"storefront/internal/worker"
	"storefront/internal/worker/processors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.NewWithFile(cfg.LogLevel, cfg.LogFile)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL, database.Options{Verbose: logger.IsDebug()})
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := catalog.NewStore(db.DB)
	client := shopify.NewClient(cfg.ShopDomain, cfg.ShopifyAccessToken, cfg.ShopifyAPIVersion, cfg.ShopifyTimeout, logger)
	engine := syncer.New(client, store, shopify.NewTransformer(), validation.New(logger), logger)

	// Initialize sync queue
	var (
		queue      worker.Queue
		closeQueue func(context.Context) error
	)
	switch cfg.QueueBackend {
	case config.QueueBackendKafka:
		publisher := worker.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		queue = publisher
		closeQueue = func(context.Context) error { return publisher.Close() }
		logger.Info("Sync events go to Kafka topic %s", cfg.KafkaTopic)
	default:
		pool := worker.NewPool(processors.NewEventProcessor(engine, logger), cfg.QueueWorkers, cfg.QueueSize, logger)
		pool.Start(context.Background())
		queue = pool
		closeQueue = pool.Stop
	}

	// Daily crawl
	sched, err := scheduler.New(cfg.SyncSchedule, func() {
		event := worker.NewEvent(worker.EventSyncRequested, "", worker.SourceSchedule)
		if err := queue.Enqueue(context.Background(), event); err != nil {
			logger.Error("Failed to queue scheduled crawl: %v", err)
		}
	}, logger)
	if err != nil {
		logger.Fatal("Failed to start scheduler: %v", err)
	}
	sched.Start()

	if cfg.SyncOnEmpty {
		if _, err := worker.SeedIfEmpty(context.Background(), store, queue, logger); err != nil {
			logger.Error("Bootstrap check failed: %v", err)
		}
	}

	// Initialize API server
	server := api.New(cfg, logger, api.Dependencies{
		Products: catalog.NewQueryEngine(db.DB),
		Counter:  store,
		Queue:    queue,
	})

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
	sched.Stop()
	if err := closeQueue(ctx); err != nil {
		logger.Error("Queue shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
