package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product is the canonical, locally mirrored catalog item. One row per
// remote product; every upsert replaces the whole row.
type Product struct {
	ID           string                      `json:"id" gorm:"primaryKey;type:text"`
	Handle       *string                     `json:"handle"`
	Title        *string                     `json:"title" gorm:"index"`
	Vendor       *string                     `json:"vendor"`
	ProductType  *string                     `json:"product_type"`
	Status       *string                     `json:"status"`
	PriceMin     decimal.NullDecimal         `json:"price_min" gorm:"type:numeric"`
	PriceMax     decimal.NullDecimal         `json:"price_max" gorm:"type:numeric"`
	Available    bool                        `json:"available" gorm:"index"`
	InventoryQty int                         `json:"inventory_qty"`
	ImageSrc     *string                     `json:"image_src"`
	Color        *string                     `json:"color" gorm:"index"`
	Number       *string                     `json:"number"`
	NumberNum    *float64                    `json:"number_num" gorm:"type:numeric;index"`
	Craft        *string                     `json:"craft"`
	HandDye      bool                        `json:"hand_dye"`
	Metafields   datatypes.JSONMap           `json:"metafields"`
	Collections  datatypes.JSONSlice[string] `json:"collections"`
	UpdatedAt    time.Time                   `json:"updated_at" gorm:"autoUpdateTime:false"`
}

func (Product) TableName() string {
	return "products"
}

// InCollection reports whether the product belongs to the collection.
func (p *Product) InCollection(collectionID string) bool {
	for _, id := range p.Collections {
		if id == collectionID {
			return true
		}
	}
	return false
}
