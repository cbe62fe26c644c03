package shopify

import "fmt"

const (
	PageSize        = 50
	variantLimit    = 10
	collectionLimit = 20
	metafieldLimit  = 30
)

var productFields = fmt.Sprintf(`
	id handle title vendor productType status
	featuredImage { url }
	variants(first: %d) {
		nodes { price availableForSale inventoryQuantity }
	}
	collections(first: %d) {
		nodes { id }
	}
	metafields(first: %d) {
		nodes { namespace key value }
	}`, variantLimit, collectionLimit, metafieldLimit)

var productsQuery = fmt.Sprintf(`
query($cursor: String) {
	products(first: %d, after: $cursor) {
		nodes {%s
		}
		pageInfo { hasNextPage endCursor }
	}
}`, PageSize, productFields)

var productQuery = fmt.Sprintf(`
query($id: ID!) {
	product(id: $id) {%s
	}
}`, productFields)
