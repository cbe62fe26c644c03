package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultLimit = 48
	MaxLimit     = 250
)

var ErrMissingCollection = errors.New("collection is required")

type SortMode string

const (
	SortColor  SortMode = "color"
	SortNumber SortMode = "number"
	SortName   SortMode = "name"
	SortPrice  SortMode = "price"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection treats anything other than "desc" as ascending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, string(Desc)) {
		return Desc
	}
	return Asc
}

func (d Direction) sql() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// ordering renders the ORDER BY terms of a sort mode for a direction.
type ordering func(dir Direction) []string

// sortStrategies is the closed set of listing orders. Nulls always sort
// last, and every order ends on id so pagination is stable.
var sortStrategies = map[SortMode]ordering{
	SortColor: func(dir Direction) []string {
		return []string{"color " + dir.sql() + " NULLS LAST", "title ASC NULLS LAST"}
	},
	SortNumber: func(dir Direction) []string {
		return []string{
			"number_num " + dir.sql() + " NULLS LAST",
			"number " + dir.sql() + " NULLS LAST",
			"title ASC NULLS LAST",
		}
	},
	SortName: func(dir Direction) []string {
		return []string{"title " + dir.sql() + " NULLS LAST"}
	},
	SortPrice: func(dir Direction) []string {
		return []string{"price_min " + dir.sql() + " NULLS LAST"}
	},
}

// Unrecognized modes sort by color ascending whatever the direction.
func fallbackOrdering(Direction) []string {
	return sortStrategies[SortColor](Asc)
}

// OrderClause returns the full ORDER BY expression for mode and dir.
func OrderClause(mode SortMode, dir Direction) string {
	strategy, ok := sortStrategies[mode]
	if !ok {
		strategy = fallbackOrdering
	}
	return strings.Join(append(strategy(dir), "id ASC"), ", ")
}

// Pagination is a clamped page/limit pair.
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination clamps page to >= 1 and limit to [1, MaxLimit]. Zero
// values mean "not given" and select the defaults.
func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pages returns ceil(total / limit).
func (p Pagination) Pages(total int64) int64 {
	limit := int64(p.Limit)
	return (total + limit - 1) / limit
}

type ListQuery struct {
	CollectionID string
	SortBy       SortMode
	Order        Direction
	OnlyInStock  bool
	Limit        int
	Offset       int
}

type ListResult struct {
	Total    int64
	Products []models.Product
}

// QueryEngine composes filter and sort criteria into listing reads.
type QueryEngine struct {
	db *gorm.DB
}

func NewQueryEngine(db *gorm.DB) *QueryEngine {
	return &QueryEngine{db: db}
}

// List returns the number of products matching the filters and the
// requested page of them.
func (e *QueryEngine) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	if q.CollectionID == "" {
		return nil, ErrMissingCollection
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	filtered := func() *gorm.DB {
		tx := e.db.WithContext(ctx).Model(&models.Product{}).
			Where(collectionContains(e.db.Dialector.Name(), q.CollectionID))
		if q.OnlyInStock {
			tx = tx.Where("available = ?", true)
		}
		return tx
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	products := []models.Product{}
	err := filtered().
		Order(OrderClause(q.SortBy, q.Order)).
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ListResult{Total: total, Products: products}, nil
}

// collectionContains matches rows whose collections set holds id.
func collectionContains(dialect, id string) clause.Expression {
	if dialect == "postgres" {
		data, _ := json.Marshal([]string{id})
		return gorm.Expr("collections @> ?::jsonb", string(data))
	}
	return gorm.Expr("EXISTS (SELECT 1 FROM json_each(products.collections) WHERE json_each.value = ?)", id)
}
