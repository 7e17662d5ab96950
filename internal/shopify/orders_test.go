package shopify

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetOrdersByIDs_PreservesInputOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, `order1: order(id: "gid://shopify/Order/20")`)
		assert.Contains(t, req.Query, `order2: order(id: "gid://shopify/Order/10")`)
		w.Write([]byte(`{"data": {
			"order1": {"id": "gid://shopify/Order/20", "name": "#1020"},
			"order2": {"id": "gid://shopify/Order/10", "name": "#1010"}
		}}`))
	})
	service := NewOrderService(client)

	orders, err := service.GetOrdersByIDs([]string{"20", "10"})
	assert.NoError(t, err)
	assert.Len(t, orders, 2)

	var first struct {
		Name string `json:"name"`
	}
	assert.NoError(t, json.Unmarshal(orders[0], &first))
	assert.Equal(t, "#1020", first.Name)
}

func TestGetOrdersByIDs_EmptyInput(t *testing.T) {
	client := NewClient(Config{StoreDomain: "test-store.myshopify.com"})
	service := NewOrderService(client)

	orders, err := service.GetOrdersByIDs(nil)
	assert.Nil(t, orders)
	assert.Error(t, err)
}

func TestGetOrderByID_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gid://shopify/Order/404", req.Variables["id"])
		w.Write([]byte(`{"data": {"order": null}}`))
	})
	service := NewOrderService(client)

	order, err := service.GetOrderByID("404")
	assert.NoError(t, err)
	assert.Nil(t, order)
}

func TestDeleteOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gid://shopify/Order/55", req.Variables["orderId"])
		w.Write([]byte(`{"data": {"orderDelete": {
			"deletedId": "gid://shopify/Order/55",
			"userErrors": []
		}}}`))
	})
	service := NewOrderService(client)

	result, err := service.DeleteOrder("55")
	assert.NoError(t, err)
	assert.Empty(t, result.UserErrors)
	assert.Contains(t, string(result.Payload), "deletedId")
}
