package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
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

	db, err := database.New(cfg.DatabaseURL, database.Options{Verbose: logger.IsDebug()})
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	client := shopify.NewClient(cfg.ShopDomain, cfg.ShopifyAccessToken, cfg.ShopifyAPIVersion, cfg.ShopifyTimeout, logger)
	engine := syncer.New(client, catalog.NewStore(db.DB), shopify.NewTransformer(), validation.New(logger), logger)

	// Initialize worker
	w := worker.New(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, processors.NewEventProcessor(engine, logger), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start worker
	logger.Info("Starting worker on topic %s...", cfg.KafkaTopic)
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	<-ctx.Done()
	logger.Info("Shutting down worker...")
	if err := w.Stop(); err != nil {
		logger.Error("Failed to close reader: %v", err)
	}
	<-done
}
