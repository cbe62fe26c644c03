// Package catalog persists canonical products and answers storefront
// listing queries over them.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrProductNotFound = errors.New("product not found")

// Store is the CatalogStore. Upserts replace whole rows; concurrent
// upserts of the same id resolve as "last commit wins" with no version
// check, so callers needing ordering must serialize themselves.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:  db,
		now: time.Now,
	}
}

// Upsert inserts the product or replaces every column of the existing row
// with the same id. UpdatedAt is always stamped with the current time.
func (s *Store) Upsert(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = s.now().UTC()

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(product).Error
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", product.ID, err)
	}
	return nil
}

// Delete removes the product; deleting an absent id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}
	return &product, nil
}
