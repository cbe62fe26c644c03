package handlers

import (
	"context"
	"net/http"

	"storefront/internal/logger"

	"github.com/gin-gonic/gin"
)

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type HealthHandler struct {
	counter Counter
	shop    string
	version string
	logger  *logger.Logger
}

func NewHealthHandler(counter Counter, shop, version string, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		counter: counter,
		shop:    shop,
		version: version,
		logger:  logger,
	}
}

// Check reports the product count, or -1 when the store cannot be read.
func (h *HealthHandler) Check(c *gin.Context) {
	products, err := h.counter.Count(c.Request.Context())
	if err != nil {
		h.logger.Error("Health check could not count products: %v", err)
		products = -1
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"shop":     h.shop,
		"products": products,
		"version":  h.version,
	})
}
