package shopify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func sampleNode() *ProductNode {
	return &ProductNode{
		ID:          "gid://shopify/Product/42",
		Handle:      strPtr("merino-red"),
		Title:       strPtr("Merino Red"),
		Vendor:      strPtr("Mill"),
		ProductType: strPtr("Yarn"),
		Status:      strPtr("ACTIVE"),
		FeaturedImage: &Image{
			URL: "https://cdn.example/merino.jpg",
		},
		Variants: VariantConn{Nodes: []Variant{
			{Price: "12.50", AvailableForSale: false, InventoryQuantity: intPtr(0)},
			{Price: "9.00", AvailableForSale: true, InventoryQuantity: intPtr(4)},
			{Price: "0.00", AvailableForSale: false, InventoryQuantity: nil},
			{Price: "n/a", AvailableForSale: false, InventoryQuantity: intPtr(3)},
		}},
		Collections: CollectionConn{Nodes: []Collection{
			{ID: "gid://shopify/Collection/1", Title: "Yarn"},
			{ID: "gid://shopify/Collection/2", Title: "Sale"},
			{ID: "gid://shopify/Collection/1", Title: "Yarn"},
		}},
		Metafields: MetafieldConn{Nodes: []Metafield{
			{Namespace: "custom", Key: "color", Value: "  Deep RED "},
			{Namespace: "legacy", Key: "color", Value: "blue"},
			{Namespace: "custom", Key: "number", Value: " No. 12.5b "},
			{Namespace: "custom", Key: "craft", Value: "Knitting"},
			{Namespace: "custom", Key: "hand_dye", Value: "true"},
			{Namespace: "seo", Key: "hidden", Value: "1"},
		}},
	}
}

func TestTransformProduct(t *testing.T) {
	p, err := NewTransformer().TransformProduct(sampleNode())
	require.NoError(t, err)

	assert.Equal(t, "gid://shopify/Product/42", p.ID)
	assert.Equal(t, "merino-red", *p.Handle)
	assert.Equal(t, "Merino Red", *p.Title)
	assert.Equal(t, "Mill", *p.Vendor)
	assert.Equal(t, "Yarn", *p.ProductType)
	assert.Equal(t, "ACTIVE", *p.Status)

	require.True(t, p.PriceMin.Valid)
	require.True(t, p.PriceMax.Valid)
	assert.Equal(t, "9", p.PriceMin.Decimal.String())
	assert.Equal(t, "12.5", p.PriceMax.Decimal.String())

	assert.True(t, p.Available)
	assert.Equal(t, 7, p.InventoryQty)
	assert.Equal(t, "https://cdn.example/merino.jpg", *p.ImageSrc)

	assert.Equal(t, "deep red", *p.Color)
	assert.Equal(t, "no. 12.5b", *p.Number)
	// the period after "No" survives stripping, leaving ".12.5"
	assert.Nil(t, p.NumberNum)
	assert.Equal(t, "knitting", *p.Craft)
	assert.True(t, p.HandDye)

	assert.Equal(t, "  Deep RED ", p.Metafields["custom.color"])
	assert.Equal(t, "blue", p.Metafields["legacy.color"])
	assert.Equal(t, "1", p.Metafields["seo.hidden"])
	assert.Len(t, p.Metafields, 6)

	assert.Equal(t, []string{"gid://shopify/Collection/1", "gid://shopify/Collection/2"}, []string(p.Collections))
	assert.True(t, p.UpdatedAt.IsZero())
}

func TestTransformProductEmptyNode(t *testing.T) {
	p, err := NewTransformer().TransformProduct(&ProductNode{ID: "gid://shopify/Product/1"})
	require.NoError(t, err)

	assert.False(t, p.PriceMin.Valid)
	assert.False(t, p.PriceMax.Valid)
	assert.False(t, p.Available)
	assert.Equal(t, 0, p.InventoryQty)
	assert.Nil(t, p.ImageSrc)
	assert.Nil(t, p.Title)

	// Missing classifications normalize to "", never nil.
	require.NotNil(t, p.Color)
	assert.Equal(t, "", *p.Color)
	require.NotNil(t, p.Number)
	assert.Equal(t, "", *p.Number)
	require.NotNil(t, p.Craft)
	assert.Equal(t, "", *p.Craft)
	assert.Nil(t, p.NumberNum)
	assert.False(t, p.HandDye)

	assert.NotNil(t, p.Metafields)
	assert.Empty(t, p.Metafields)
	assert.NotNil(t, p.Collections)
	assert.Empty(t, p.Collections)
}

func TestTransformProductMalformed(t *testing.T) {
	_, err := NewTransformer().TransformProduct(&ProductNode{})
	assert.ErrorIs(t, err, ErrMalformedNode)

	_, err = NewTransformer().TransformProduct(nil)
	assert.ErrorIs(t, err, ErrMalformedNode)
}

func TestHandDyeRequiresExactTrue(t *testing.T) {
	for value, want := range map[string]bool{
		"true":  true,
		"TRUE":  false,
		" true": false,
		"yes":   false,
		"":      false,
	} {
		node := &ProductNode{ID: "gid://shopify/Product/1", Metafields: MetafieldConn{Nodes: []Metafield{
			{Namespace: "custom", Key: "hand_dye", Value: value},
		}}}
		p, err := NewTransformer().TransformProduct(node)
		require.NoError(t, err)
		assert.Equal(t, want, p.HandDye, "value %q", value)
	}
}

func TestPriceRangeInvariant(t *testing.T) {
	cases := [][]string{
		{"5", "1", "3"},
		{"-4", "2"},
		{"abc", ""},
		{"100.01", "100.001"},
	}
	for _, prices := range cases {
		var variants []Variant
		for _, price := range prices {
			variants = append(variants, Variant{Price: price})
		}
		lo, hi := priceRange(variants)
		assert.Equal(t, lo.Valid, hi.Valid)
		if lo.Valid {
			assert.True(t, lo.Decimal.LessThanOrEqual(hi.Decimal), "%v", prices)
			assert.True(t, lo.Decimal.IsPositive())
		}
	}

	lo, hi := priceRange([]Variant{{Price: "-4"}, {Price: "2"}})
	assert.Equal(t, "2", lo.Decimal.String())
	assert.Equal(t, "2", hi.Decimal.String())
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want *float64
	}{
		{"", nil},
		{"abc", nil},
		{".", nil},
		{"1.2.3", nil},
		{"#42", floatPtr(42)},
		{"No. 7.5", nil},
		{"No 7.5", floatPtr(7.5)},
		{"No. 5", floatPtr(0.5)},
		{"0", floatPtr(0)},
		{"-3", floatPtr(3)},
		{"1,000", floatPtr(1000)},
	}
	for _, tc := range cases {
		got := ParseNumber(tc.in)
		if tc.want == nil {
			assert.Nil(t, got, "input %q", tc.in)
			continue
		}
		require.NotNil(t, got, "input %q", tc.in)
		assert.Equal(t, *tc.want, *got, "input %q", tc.in)
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestTransformIsDeterministic(t *testing.T) {
	tr := NewTransformer()
	a, err := tr.TransformProduct(sampleNode())
	require.NoError(t, err)
	b, err := tr.TransformProduct(sampleNode())
	require.NoError(t, err)

	assert.Equal(t, a, b)

	aJSON, err := json.Marshal(a)
	require.NoError(t, err)
	bJSON, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(aJSON), string(bJSON))
}

func TestFirstClassificationMatchWins(t *testing.T) {
	node := &ProductNode{ID: "gid://shopify/Product/1", Metafields: MetafieldConn{Nodes: []Metafield{
		{Namespace: "a", Key: "craft", Value: "Weaving"},
		{Namespace: "b", Key: "craft", Value: "Knitting"},
		{Namespace: "a", Key: "craft", Value: "Crochet"},
	}}}
	p, err := NewTransformer().TransformProduct(node)
	require.NoError(t, err)

	assert.Equal(t, "weaving", *p.Craft)
	// flattened map keeps the last value for a repeated namespace.key
	assert.Equal(t, "Crochet", p.Metafields["a.craft"])
	assert.Equal(t, "Knitting", p.Metafields["b.craft"])
}
