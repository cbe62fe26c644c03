package validation

import (
	"errors"
	"fmt"

	"storefront/internal/logger"
	"storefront/internal/models"
)

var ErrInvalidProduct = errors.New("invalid product")

type Validator struct {
	logger *logger.Logger
}

func New(logger *logger.Logger) *Validator {
	return &Validator{
		logger: logger,
	}
}

// ValidateProduct checks the invariants a canonical record must hold
// before it may be written to the store.
func (v *Validator) ValidateProduct(product *models.Product) error {
	if product == nil {
		return fmt.Errorf("%w: nil product", ErrInvalidProduct)
	}
	if product.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidProduct)
	}
	if product.PriceMin.Valid != product.PriceMax.Valid {
		return fmt.Errorf("%w: %s has a partial price range", ErrInvalidProduct, product.ID)
	}
	if product.PriceMin.Valid && product.PriceMin.Decimal.GreaterThan(product.PriceMax.Decimal) {
		return fmt.Errorf("%w: %s price_min %s > price_max %s", ErrInvalidProduct,
			product.ID, product.PriceMin.Decimal, product.PriceMax.Decimal)
	}
	if product.Color == nil || product.Number == nil || product.Craft == nil {
		return fmt.Errorf("%w: %s has null classification fields", ErrInvalidProduct, product.ID)
	}

	v.logger.Debug("Validated product %s", product.ID)
	return nil
}
