package shopify

import (
	"encoding/json"
	"fmt"
)

// OrderService passes order operations through to the Admin GraphQL API.
type OrderService struct {
	client *Client
}

// NewOrderService creates a new OrderService.
func NewOrderService(client *Client) *OrderService {
	return &OrderService{client: client}
}

// ListOrders returns the first page of the order connection.
func (s *OrderService) ListOrders(first int) (json.RawMessage, error) {
	const q = `query ListOrders($first: Int!) {
		orders(first: $first) {
			edges {
				cursor
				node { id name createdAt displayFinancialStatus displayFulfillmentStatus }
			}
			pageInfo { hasNextPage hasPreviousPage startCursor endCursor }
		}
	}`
	return s.client.query(q, map[string]interface{}{"first": first}, "orders")
}

// GetOrdersByIDs fetches several orders in one round trip using aliased
// order fields, returned in input order.
func (s *OrderService) GetOrdersByIDs(ids []string) ([]json.RawMessage, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("ids must be a non-empty list of order GIDs")
	}

	query := "query {\n"
	for i, id := range ids {
		query += fmt.Sprintf(`order%d: order(id: "%s") {
			id name email createdAt
			totalPriceSet { shopMoney { amount currencyCode } }
			displayFinancialStatus
			displayFulfillmentStatus
			lineItems(first: 10) {
				edges { node { title quantity originalUnitPriceSet { shopMoney { amount currencyCode } } } }
			}
		}
`, i+1, GID("Order", id))
	}
	query += "}"

	data, err := s.client.GraphQL(query, nil)
	if err != nil {
		return nil, err
	}
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse bulk order data: %w", err)
	}
	orders := make([]json.RawMessage, len(ids))
	for i := range ids {
		orders[i] = root[fmt.Sprintf("order%d", i+1)]
	}
	return orders, nil
}

// GetOrderByID fetches one order with its line items, or nil when the id
// has no match.
func (s *OrderService) GetOrderByID(id string) (json.RawMessage, error) {
	const q = `query GetOrder($id: ID!) {
		order(id: $id) {
			id name
			totalPriceSet { presentmentMoney { amount } }
			lineItems(first: 10) { nodes { id name } }
		}
	}`
	return s.client.query(q, map[string]interface{}{"id": GID("Order", id)}, "order")
}

// UpdateOrder applies a platform-shaped OrderInput.
func (s *OrderService) UpdateOrder(input json.RawMessage) (*MutationResult, error) {
	const q = `mutation OrderUpdate($input: OrderInput!) {
		orderUpdate(input: $input) {
			order {
				id note
				shippingAddress { address1 city province zip country }
			}
			userErrors { field message }
		}
	}`
	var in interface{}
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid order input: %w", err)
	}
	return s.client.mutate(q, map[string]interface{}{"input": in}, "orderUpdate")
}

// DeleteOrder deletes an order by GID.
func (s *OrderService) DeleteOrder(id string) (*MutationResult, error) {
	const q = `mutation OrderDelete($orderId: ID!) {
		orderDelete(orderId: $orderId) {
			deletedId
			userErrors { field message code }
		}
	}`
	return s.client.mutate(q, map[string]interface{}{"orderId": GID("Order", id)}, "orderDelete")
}
