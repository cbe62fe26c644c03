package handlers

import (
	"context"
	"net/http"
	"strconv"

	"storefront/internal/catalog"
	"storefront/internal/logger"

	"github.com/gin-gonic/gin"
)

type Lister interface {
	List(ctx context.Context, q catalog.ListQuery) (*catalog.ListResult, error)
}

type ProductHandler struct {
	engine Lister
	logger *logger.Logger
}

func NewProductHandler(engine Lister, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		engine: engine,
		logger: logger,
	}
}

// List serves one page of a collection. Unparseable page and limit values
// fall back to their defaults before clamping.
func (h *ProductHandler) List(c *gin.Context) {
	collection := c.Query("collection")
	if collection == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "collection param required"})
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	pg := catalog.NewPagination(page, limit)

	result, err := h.engine.List(c.Request.Context(), catalog.ListQuery{
		CollectionID: collection,
		SortBy:       catalog.SortMode(c.DefaultQuery("sortBy", string(catalog.SortColor))),
		Order:        catalog.ParseDirection(c.Query("order")),
		OnlyInStock:  c.Query("instock") == "true",
		Limit:        pg.Limit,
		Offset:       pg.Offset(),
	})
	if err != nil {
		h.logger.Error("Failed to list collection %s: %v", collection, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    result.Total,
		"page":     pg.Page,
		"limit":    pg.Limit,
		"pages":    pg.Pages(result.Total),
		"products": result.Products,
	})
}
