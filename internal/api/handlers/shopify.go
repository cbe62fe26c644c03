package handlers

import (
	"net/http"

	"storefront/internal/logger"
	"storefront/internal/services/shopify"
	"storefront/internal/worker"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives Shopify product webhooks. Requests are
// acknowledged as soon as the signature checks out; the resulting sync
// work runs on the queue and its failures are only logged.
type WebhookHandler struct {
	verifier *shopify.WebhookVerifier
	queue    worker.Queue
	logger   *logger.Logger
}

func NewWebhookHandler(verifier *shopify.WebhookVerifier, queue worker.Queue, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier: verifier,
		queue:    queue,
		logger:   logger.WithPrefix("webhook"),
	}
}

// ProductUpdate handles products/create and products/update.
func (h *WebhookHandler) ProductUpdate(c *gin.Context) {
	h.handle(c, worker.EventProductUpdated)
}

// ProductDelete handles products/delete.
func (h *WebhookHandler) ProductDelete(c *gin.Context) {
	h.handle(c, worker.EventProductDeleted)
}

func (h *WebhookHandler) handle(c *gin.Context, eventType string) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read payload"})
		return
	}

	if !h.verifier.Verify(payload, c.GetHeader(shopify.HMACHeader)) {
		h.logger.Warn("Rejected %s webhook with bad signature from %s", eventType, c.ClientIP())
		c.String(http.StatusUnauthorized, "Unauthorized")
		return
	}

	c.String(http.StatusOK, "OK")
	c.Writer.Flush()

	productID, err := shopify.ProductGID(payload)
	if err != nil {
		h.logger.Error("Failed to parse %s webhook: %v", eventType, err)
		return
	}
	if productID == "" {
		h.logger.Warn("Ignoring %s webhook without a product id", eventType)
		return
	}

	event := worker.NewEvent(eventType, productID, worker.SourceWebhook)
	if err := h.queue.Enqueue(c.Request.Context(), event); err != nil {
		h.logger.Error("Failed to queue %s for %s: %v", eventType, productID, err)
	}
}
