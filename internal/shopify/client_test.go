package shopify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

// rewriteTransport redirects every request to the test server, keeping the
// path and query intact.
type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	assert.NoError(t, err)

	client := NewClient(Config{
		StoreDomain: "test-store.myshopify.com",
		AccessToken: "shpat_test",
	})
	client.httpClient = &http.Client{Transport: rewriteTransport{target: target}}
	return client
}

func TestGID(t *testing.T) {
	assert.Equal(t, "gid://shopify/Order/123", GID("Order", "123"))
	assert.Equal(t, "gid://shopify/ProductVariant/9", GID("ProductVariant", "9"))
	// Global ids pass through untouched.
	assert.Equal(t, "gid://shopify/Order/123", GID("Order", "gid://shopify/Order/123"))
}

func TestDoREST_SendsCredentialsAndVersionedPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2023-04/products.json", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		w.Write([]byte(`{"products": []}`))
	})

	raw, err := client.doREST(http.MethodGet, "/products.json", url.Values{"limit": {"5"}}, nil)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"products": []}`, string(raw))
}

func TestDoREST_NonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors": "Not Found"}`))
	})

	raw, err := client.doREST(http.MethodGet, "/products/1.json", nil, nil)
	assert.Nil(t, raw)
	assert.ErrorContains(t, err, "status 404")
}

func TestGraphQL_TopLevelErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2023-04/graphql.json", r.URL.Path)
		w.Write([]byte(`{"errors": [{"message": "Throttled"}]}`))
	})

	data, err := client.GraphQL(`{ shop { name } }`, nil)
	assert.Nil(t, data)
	assert.ErrorContains(t, err, "Throttled")
}

func TestMutate_LiftsUserErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gid://shopify/Order/1", req.Variables["id"])
		w.Write([]byte(`{"data": {"orderUpdate": {
			"order": null,
			"userErrors": [{"field": ["note"], "message": "Note is too long"}]
		}}}`))
	})

	result, err := client.mutate(`mutation ($id: ID!) { orderUpdate }`,
		map[string]interface{}{"id": "gid://shopify/Order/1"}, "orderUpdate")
	assert.NoError(t, err)
	assert.Len(t, result.UserErrors, 1)
	assert.Equal(t, "Note is too long", result.UserErrors[0].Message)
}

func TestQuery_NullPayloadMeansNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"order": null}}`))
	})

	payload, err := client.query(`{ order { id } }`, nil, "order")
	assert.NoError(t, err)
	assert.Nil(t, payload)
}
