package handlers

import (
	"net/http"

	"storefront/internal/logger"
	"storefront/internal/worker"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	queue  worker.Queue
	logger *logger.Logger
}

func NewAdminHandler(queue worker.Queue, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		queue:  queue,
		logger: logger.WithPrefix("admin"),
	}
}

// Sync queues a full crawl and returns before it starts.
func (h *AdminHandler) Sync(c *gin.Context) {
	event := worker.NewEvent(worker.EventSyncRequested, "", worker.SourceAdmin)
	if err := h.queue.Enqueue(c.Request.Context(), event); err != nil {
		h.logger.Error("Failed to queue full crawl: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to queue sync"})
		return
	}

	h.logger.Info("Full crawl %s requested from %s", event.ID, c.ClientIP())
	c.JSON(http.StatusAccepted, gin.H{
		"message": "Full sync started",
		"job_id":  event.ID,
	})
}
