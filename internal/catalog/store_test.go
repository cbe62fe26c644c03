package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New("sqlite://"+filepath.Join(t.TempDir(), "catalog.db"), database.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func str(s string) *string { return &s }

func newProduct(id string, collections ...string) *models.Product {
	return &models.Product{
		ID:           id,
		Handle:       str("handle-" + id),
		Title:        str("Title " + id),
		Status:       str("ACTIVE"),
		PriceMin:     decimal.NewNullDecimal(decimal.RequireFromString("4.5")),
		PriceMax:     decimal.NewNullDecimal(decimal.RequireFromString("12")),
		Available:    true,
		InventoryQty: 3,
		Color:        str("red"),
		Number:       str("12"),
		Craft:        str(""),
		Metafields:   datatypes.JSONMap{"custom.color": "Red"},
		Collections:  datatypes.JSONSlice[string](collections),
	}
}

func TestUpsertInsertsAndReplaces(t *testing.T) {
	store := NewStore(newTestDB(t).DB)
	ctx := context.Background()

	p := newProduct("gid://shopify/Product/1", "c1")
	require.NoError(t, store.Upsert(ctx, p))

	got, err := store.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Title gid://shopify/Product/1", *got.Title)
	assert.True(t, got.Available)
	assert.Equal(t, []string{"c1"}, []string(got.Collections))
	assert.Equal(t, "Red", got.Metafields["custom.color"])
	assert.True(t, got.PriceMin.Decimal.Equal(decimal.RequireFromString("4.5")))

	// Full replacement: fields dropped to null/false/zero must be cleared.
	replacement := &models.Product{
		ID:          p.ID,
		Color:       str(""),
		Number:      str(""),
		Craft:       str(""),
		Metafields:  datatypes.JSONMap{},
		Collections: datatypes.JSONSlice[string]{"c2"},
	}
	require.NoError(t, store.Upsert(ctx, replacement))

	got, err = store.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Title)
	assert.Nil(t, got.Handle)
	assert.False(t, got.Available)
	assert.Equal(t, 0, got.InventoryQty)
	assert.False(t, got.PriceMin.Valid)
	assert.Equal(t, []string{"c2"}, []string(got.Collections))
	assert.Empty(t, got.Metafields)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpsertIsIdempotentExceptUpdatedAt(t *testing.T) {
	store := NewStore(newTestDB(t).DB)
	ctx := context.Background()

	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return clock }

	require.NoError(t, store.Upsert(ctx, newProduct("gid://shopify/Product/1", "c1")))
	first, err := store.Get(ctx, "gid://shopify/Product/1")
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	require.NoError(t, store.Upsert(ctx, newProduct("gid://shopify/Product/1", "c1")))
	second, err := store.Get(ctx, "gid://shopify/Product/1")
	require.NoError(t, err)

	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	first.UpdatedAt, second.UpdatedAt = time.Time{}, time.Time{}
	assert.Equal(t, first, second)
}

func TestDelete(t *testing.T) {
	store := NewStore(newTestDB(t).DB)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, newProduct("gid://shopify/Product/1")))
	require.NoError(t, store.Delete(ctx, "gid://shopify/Product/1"))

	_, err := store.Get(ctx, "gid://shopify/Product/1")
	assert.ErrorIs(t, err, ErrProductNotFound)

	// absent ids are a no-op
	assert.NoError(t, store.Delete(ctx, "gid://shopify/Product/1"))
	assert.NoError(t, store.Delete(ctx, "gid://shopify/Product/never"))
}

func TestCount(t *testing.T) {
	store := NewStore(newTestDB(t).DB)
	ctx := context.Background()

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Upsert(ctx, newProduct(fmt.Sprintf("gid://shopify/Product/%d", i))))
	}
	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestConcurrentUpsertsOfDistinctIDs(t *testing.T) {
	db := newTestDB(t)
	// sqlite serializes writers; one connection avoids SQLITE_BUSY.
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := NewStore(db.DB)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Upsert(ctx, newProduct(fmt.Sprintf("gid://shopify/Product/%d", i))))
		}(i)
	}
	wg.Wait()

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20), count)
}
