package shopify

import (
	"encoding/json"
	"fmt"
)

// VariantService passes remote variant operations through to the Admin
// GraphQL API. These are the platform's own variants addressed by GID, not
// the local catalog's.
type VariantService struct {
	client *Client
}

// NewVariantService creates a new VariantService.
func NewVariantService(client *Client) *VariantService {
	return &VariantService{client: client}
}

// GetVariantByID fetches one variant, or nil when the id has no match.
func (s *VariantService) GetVariantByID(id string) (json.RawMessage, error) {
	const q = `query GetProductVariant($id: ID!) {
		productVariant(id: $id) {
			id title availableForSale barcode compareAtPrice createdAt
		}
	}`
	return s.client.query(q, map[string]interface{}{"id": GID("ProductVariant", id)}, "productVariant")
}

// GetVariantsByIDs fetches several variants in one round trip using
// aliased fields, returned in input order.
func (s *VariantService) GetVariantsByIDs(ids []string) ([]json.RawMessage, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("ids must be a non-empty list of variant GIDs")
	}

	query := "query {\n"
	for i, id := range ids {
		query += fmt.Sprintf(`productVariant%d: productVariant(id: "%s") {
			id title availableForSale barcode compareAtPrice createdAt
		}
`, i+1, GID("ProductVariant", id))
	}
	query += "}"

	data, err := s.client.GraphQL(query, nil)
	if err != nil {
		return nil, err
	}
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse bulk variant data: %w", err)
	}
	variants := make([]json.RawMessage, len(ids))
	for i := range ids {
		variants[i] = root[fmt.Sprintf("productVariant%d", i+1)]
	}
	return variants, nil
}

// GetVariantsByProductID pages through a product's variant connection.
func (s *VariantService) GetVariantsByProductID(productID string, first int, after string) (json.RawMessage, error) {
	const q = `query GetProductVariants($id: ID!, $first: Int!, $after: String) {
		product(id: $id) {
			variants(first: $first, after: $after) {
				edges {
					cursor
					node { id title price sku selectedOptions { name value } }
				}
				pageInfo { hasNextPage endCursor }
			}
		}
	}`
	variables := map[string]interface{}{
		"id":    GID("Product", productID),
		"first": first,
	}
	if after != "" {
		variables["after"] = after
	}
	return s.client.query(q, variables, "product")
}

// CreateVariants bulk-creates variants on a product from platform-shaped
// ProductVariantsBulkInput entries.
func (s *VariantService) CreateVariants(productID string, variants json.RawMessage) (*MutationResult, error) {
	const q = `mutation ProductVariantsCreate($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
		productVariantsBulkCreate(productId: $productId, variants: $variants) {
			productVariants { id title selectedOptions { name value } }
			userErrors { field message code }
		}
	}`
	var in interface{}
	if err := json.Unmarshal(variants, &in); err != nil {
		return nil, fmt.Errorf("invalid variants input: %w", err)
	}
	return s.client.mutate(q, map[string]interface{}{
		"productId": GID("Product", productID),
		"variants":  in,
	}, "productVariantsBulkCreate")
}
