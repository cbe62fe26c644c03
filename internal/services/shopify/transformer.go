package shopify

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Metafield keys carrying storefront classifications.
const (
	MetaColor   = "color"
	MetaNumber  = "number"
	MetaCraft   = "craft"
	MetaHandDye = "hand_dye"
)

var ErrMalformedNode = errors.New("malformed product node")

// Transformer maps remote product nodes onto the canonical Product. It is
// pure: the same node always yields the same record.
type Transformer struct{}

func NewTransformer() *Transformer {
	return &Transformer{}
}

// TransformProduct converts a GraphQL product node to our canonical format.
// UpdatedAt is left for the store to stamp.
func (t *Transformer) TransformProduct(node *ProductNode) (*models.Product, error) {
	if node == nil || node.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrMalformedNode)
	}

	variants := node.Variants.Nodes
	priceMin, priceMax := priceRange(variants)

	var (
		inventory int
		available bool
	)
	for _, v := range variants {
		if v.InventoryQuantity != nil {
			inventory += *v.InventoryQuantity
		}
		available = available || v.AvailableForSale
	}

	var imageSrc *string
	if node.FeaturedImage != nil && node.FeaturedImage.URL != "" {
		url := node.FeaturedImage.URL
		imageSrc = &url
	}

	numberRaw := metafieldValue(node, MetaNumber)

	return &models.Product{
		ID:           node.ID,
		Handle:       node.Handle,
		Title:        node.Title,
		Vendor:       node.Vendor,
		ProductType:  node.ProductType,
		Status:       node.Status,
		PriceMin:     priceMin,
		PriceMax:     priceMax,
		Available:    available,
		InventoryQty: inventory,
		ImageSrc:     imageSrc,
		Color:        normalized(metafieldValue(node, MetaColor)),
		Number:       normalized(numberRaw),
		NumberNum:    ParseNumber(numberRaw),
		Craft:        normalized(metafieldValue(node, MetaCraft)),
		HandDye:      metafieldValue(node, MetaHandDye) == "true",
		Metafields:   flattenMetafields(node.Metafields.Nodes),
		Collections:  collectionIDs(node.Collections.Nodes),
	}, nil
}

// priceRange returns the min and max of all positive variant prices.
func priceRange(variants []Variant) (decimal.NullDecimal, decimal.NullDecimal) {
	var lo, hi decimal.NullDecimal
	for _, v := range variants {
		price, err := decimal.NewFromString(strings.TrimSpace(v.Price))
		if err != nil || !price.IsPositive() {
			continue
		}
		if !lo.Valid || price.LessThan(lo.Decimal) {
			lo = decimal.NewNullDecimal(price)
		}
		if !hi.Valid || price.GreaterThan(hi.Decimal) {
			hi = decimal.NewNullDecimal(price)
		}
	}
	return lo, hi
}

// metafieldValue returns the first metafield whose key matches exactly,
// regardless of namespace, or "" when there is none.
func metafieldValue(node *ProductNode, key string) string {
	for _, m := range node.Metafields.Nodes {
		if m.Key == key {
			return m.Value
		}
	}
	return ""
}

func normalized(s string) *string {
	v := strings.ToLower(strings.TrimSpace(s))
	return &v
}

// ParseNumber keeps only ASCII digits and '.' from s and parses the rest.
// It returns nil when nothing numeric remains.
func ParseNumber(s string) *float64 {
	stripped := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	if stripped == "" {
		return nil
	}
	n, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return nil
	}
	return &n
}

func flattenMetafields(fields []Metafield) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for _, m := range fields {
		out[m.Namespace+"."+m.Key] = m.Value
	}
	return out
}

func collectionIDs(collections []Collection) datatypes.JSONSlice[string] {
	ids := make(datatypes.JSONSlice[string], 0, len(collections))
	seen := make(map[string]struct{}, len(collections))
	for _, c := range collections {
		if _, dup := seen[c.ID]; dup || c.ID == "" {
			continue
		}
		seen[c.ID] = struct{}{}
		ids = append(ids, c.ID)
	}
	return ids
}
