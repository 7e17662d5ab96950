package shopify

import (
	"encoding/json"
	"fmt"
)

// OptionService passes product option operations through to the Admin
// GraphQL API.
type OptionService struct {
	client *Client
}

// NewOptionService creates a new OptionService.
func NewOptionService(client *Client) *OptionService {
	return &OptionService{client: client}
}

// CreateOptions creates options and values on a product. variantStrategy
// is optional and forwarded verbatim when set.
func (s *OptionService) CreateOptions(productID string, options json.RawMessage, variantStrategy string) (*MutationResult, error) {
	const q = `mutation CreateOptions($productId: ID!, $options: [OptionCreateInput!]!, $variantStrategy: ProductOptionCreateVariantStrategy) {
		productOptionsCreate(productId: $productId, options: $options, variantStrategy: $variantStrategy) {
			userErrors { field message code }
			product {
				id
				variants(first: 10) { nodes { id title selectedOptions { name value } } }
				options { id name values position optionValues { id name hasVariants } }
			}
		}
	}`
	var in interface{}
	if err := json.Unmarshal(options, &in); err != nil {
		return nil, fmt.Errorf("invalid options input: %w", err)
	}
	variables := map[string]interface{}{
		"productId": GID("Product", productID),
		"options":   in,
	}
	if variantStrategy != "" {
		variables["variantStrategy"] = variantStrategy
	}
	return s.client.mutate(q, variables, "productOptionsCreate")
}

// UpdateOption updates one option and its values.
func (s *OptionService) UpdateOption(productID string, option, valuesToAdd, valuesToUpdate, valuesToDelete json.RawMessage, variantStrategy string) (*MutationResult, error) {
	const q = `mutation UpdateOption($productId: ID!, $option: OptionUpdateInput!, $optionValuesToAdd: [OptionValueCreateInput!], $optionValuesToUpdate: [OptionValueUpdateInput!], $optionValuesToDelete: [ID!], $variantStrategy: ProductOptionUpdateVariantStrategy) {
		productOptionUpdate(productId: $productId, option: $option, optionValuesToAdd: $optionValuesToAdd, optionValuesToUpdate: $optionValuesToUpdate, optionValuesToDelete: $optionValuesToDelete, variantStrategy: $variantStrategy) {
			userErrors { field message code }
			product {
				id
				options { id name values position optionValues { id name hasVariants } }
			}
		}
	}`
	variables := map[string]interface{}{"productId": GID("Product", productID)}
	for key, raw := range map[string]json.RawMessage{
		"option":               option,
		"optionValuesToAdd":    valuesToAdd,
		"optionValuesToUpdate": valuesToUpdate,
		"optionValuesToDelete": valuesToDelete,
	} {
		if raw == nil {
			continue
		}
		var in interface{}
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, fmt.Errorf("invalid %s input: %w", key, err)
		}
		variables[key] = in
	}
	if variantStrategy != "" {
		variables["variantStrategy"] = variantStrategy
	}
	return s.client.mutate(q, variables, "productOptionUpdate")
}

// DeleteOptions deletes options from a product. strategy is optional.
func (s *OptionService) DeleteOptions(productID string, optionIDs []string, strategy string) (*MutationResult, error) {
	const q = `mutation DeleteOptions($productId: ID!, $options: [ID!]!, $strategy: ProductOptionDeleteStrategy) {
		productOptionsDelete(productId: $productId, options: $options, strategy: $strategy) {
			userErrors { field message code }
			deletedOptionsIds
			product {
				id
				options { id name values position optionValues { id name hasVariants } }
			}
		}
	}`
	variables := map[string]interface{}{
		"productId": GID("Product", productID),
		"options":   optionIDs,
	}
	if strategy != "" {
		variables["strategy"] = strategy
	}
	return s.client.mutate(q, variables, "productOptionsDelete")
}
