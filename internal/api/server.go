package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/api/handlers"
	"storefront/internal/api/middleware"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/services/shopify"
	"storefront/internal/worker"

	"github.com/gin-gonic/gin"
)

// Version is reported by the health endpoint.
var Version = "dev"

// Dependencies are the components the HTTP surface delegates to.
type Dependencies struct {
	Products handlers.Lister
	Counter  handlers.Counter
	Queue    worker.Queue
}

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, deps Dependencies) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	// Initialize handlers
	productHandler := handlers.NewProductHandler(deps.Products, logger)
	webhookHandler := handlers.NewWebhookHandler(shopify.NewWebhookVerifier(cfg.WebhookSecret), deps.Queue, logger)
	adminHandler := handlers.NewAdminHandler(deps.Queue, logger)
	healthHandler := handlers.NewHealthHandler(deps.Counter, cfg.ShopDomain, Version, logger)

	if cfg.WebhookSecret == "" {
		logger.Warn("WEBHOOK_SECRET is not set, webhook signatures are not verified")
	}
	if cfg.AdminKey == "" {
		logger.Warn("ADMIN_KEY is not set, the admin sync endpoint is disabled")
	}

	// Routes
	router.GET("/", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.GET("/api/products", productHandler.List)

	webhooks := router.Group("/webhooks/products")
	{
		webhooks.POST("/update", webhookHandler.ProductUpdate)
		webhooks.POST("/delete", webhookHandler.ProductDelete)
	}

	admin := router.Group("/admin", middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/sync", adminHandler.Sync)
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
