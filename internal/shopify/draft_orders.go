package shopify

import (
	"encoding/json"
	"fmt"
)

// DraftOrderService passes draft order operations through to the Admin
// GraphQL API.
type DraftOrderService struct {
	client *Client
}

// NewDraftOrderService creates a new DraftOrderService.
func NewDraftOrderService(client *Client) *DraftOrderService {
	return &DraftOrderService{client: client}
}

// ListDraftOrders returns the first page of the draft order connection.
func (s *DraftOrderService) ListDraftOrders(first int) (json.RawMessage, error) {
	const q = `query ListDraftOrders($first: Int!) {
		draftOrders(first: $first) {
			edges {
				cursor
				node { id name status totalPrice createdAt }
			}
			pageInfo { hasNextPage hasPreviousPage startCursor endCursor }
		}
	}`
	return s.client.query(q, map[string]interface{}{"first": first}, "draftOrders")
}

// GetDraftOrderByID fetches one draft order, or nil when the id has no
// match.
func (s *DraftOrderService) GetDraftOrderByID(id string) (json.RawMessage, error) {
	const q = `query GetDraftOrder($id: ID!) {
		draftOrder(id: $id) {
			id name status invoiceUrl totalPrice createdAt
			lineItems(first: 10) { nodes { id title quantity } }
		}
	}`
	return s.client.query(q, map[string]interface{}{"id": GID("DraftOrder", id)}, "draftOrder")
}

// CreateDraftOrder creates a draft order from a platform-shaped
// DraftOrderInput.
func (s *DraftOrderService) CreateDraftOrder(input json.RawMessage) (*MutationResult, error) {
	const q = `mutation DraftOrderCreate($input: DraftOrderInput!) {
		draftOrderCreate(input: $input) {
			draftOrder { id name status invoiceUrl totalPrice }
			userErrors { field message }
		}
	}`
	var in interface{}
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid draft order input: %w", err)
	}
	return s.client.mutate(q, map[string]interface{}{"input": in}, "draftOrderCreate")
}

// CompleteDraftOrder turns a draft order into a real order.
func (s *DraftOrderService) CompleteDraftOrder(id string) (*MutationResult, error) {
	const q = `mutation DraftOrderComplete($id: ID!) {
		draftOrderComplete(id: $id) {
			draftOrder { id status order { id name } }
			userErrors { field message }
		}
	}`
	return s.client.mutate(q, map[string]interface{}{"id": GID("DraftOrder", id)}, "draftOrderComplete")
}

// DeleteDraftOrder deletes a draft order by GID.
func (s *DraftOrderService) DeleteDraftOrder(id string) (*MutationResult, error) {
	const q = `mutation DraftOrderDelete($input: DraftOrderDeleteInput!) {
		draftOrderDelete(input: $input) {
			deletedId
			userErrors { field message }
		}
	}`
	return s.client.mutate(q, map[string]interface{}{"input": map[string]interface{}{"id": GID("DraftOrder", id)}}, "draftOrderDelete")
}
