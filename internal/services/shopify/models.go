package shopify

// ProductNode is a product as returned by the Admin GraphQL API.
type ProductNode struct {
	ID            string         `json:"id"`
	Handle        *string        `json:"handle"`
	Title         *string        `json:"title"`
	Vendor        *string        `json:"vendor"`
	ProductType   *string        `json:"productType"`
	Status        *string        `json:"status"`
	FeaturedImage *Image         `json:"featuredImage"`
	Variants      VariantConn    `json:"variants"`
	Collections   CollectionConn `json:"collections"`
	Metafields    MetafieldConn  `json:"metafields"`
}

type Image struct {
	URL string `json:"url"`
}

// Variant carries only the fields the transformer aggregates.
type Variant struct {
	Price             string `json:"price"`
	AvailableForSale  bool   `json:"availableForSale"`
	InventoryQuantity *int   `json:"inventoryQuantity"`
}

type VariantConn struct {
	Nodes []Variant `json:"nodes"`
}

type Collection struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

type CollectionConn struct {
	Nodes []Collection `json:"nodes"`
}

// Metafield is a custom attribute attached to a product.
type Metafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

type MetafieldConn struct {
	Nodes []Metafield `json:"nodes"`
}

type PageInfo struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

// ProductPage is one page of the paginated products listing.
type ProductPage struct {
	Nodes       []ProductNode
	HasNextPage bool
	EndCursor   string
}

type productsData struct {
	Products *struct {
		Nodes    []ProductNode `json:"nodes"`
		PageInfo PageInfo      `json:"pageInfo"`
	} `json:"products"`
}

type productData struct {
	Product *ProductNode `json:"product"`
}

// WebhookPayload holds the part of a product webhook body we consume.
type WebhookPayload struct {
	ID                int64  `json:"id"`
	AdminGraphQLAPIID string `json:"admin_graphql_api_id"`
}
