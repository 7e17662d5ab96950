package shopify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ProductProxyService passes product CRUD through to the Admin REST API.
// This is the proxy-mode counterpart of the local catalog: payloads are
// the platform's own wire format and are not validated locally.
type ProductProxyService struct {
	client *Client
}

// NewProductProxyService creates a new ProductProxyService.
func NewProductProxyService(client *Client) *ProductProxyService {
	return &ProductProxyService{client: client}
}

// ListProducts fetches up to limit products.
func (s *ProductProxyService) ListProducts(limit int) (json.RawMessage, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return s.client.doREST(http.MethodGet, "/products.json", query, nil)
}

// GetProduct fetches a single product by its numeric id.
func (s *ProductProxyService) GetProduct(id string) (json.RawMessage, error) {
	return s.client.doREST(http.MethodGet, fmt.Sprintf("/products/%s.json", id), nil, nil)
}

// CreateProduct creates a product from a platform-shaped payload.
func (s *ProductProxyService) CreateProduct(product json.RawMessage) (json.RawMessage, error) {
	return s.client.doREST(http.MethodPost, "/products.json", nil, map[string]json.RawMessage{"product": product})
}

// UpdateProduct updates a product from a platform-shaped payload.
func (s *ProductProxyService) UpdateProduct(id string, product json.RawMessage) (json.RawMessage, error) {
	return s.client.doREST(http.MethodPut, fmt.Sprintf("/products/%s.json", id), nil, map[string]json.RawMessage{"product": product})
}

// DeleteProduct deletes a product by its numeric id.
func (s *ProductProxyService) DeleteProduct(id string) (json.RawMessage, error) {
	return s.client.doREST(http.MethodDelete, fmt.Sprintf("/products/%s.json", id), nil, nil)
}
