// Package shopify is the client for the remote commerce platform's Admin
// REST and GraphQL APIs. The gateway's proxy routes are thin pass-throughs
// over it: payloads travel as raw JSON and the platform's userErrors are
// surfaced to the caller instead of being retried or rewritten.
package shopify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultAPIVersion = "2023-04"

// Config holds the store credentials for the Admin API.
type Config struct {
	StoreDomain string
	AccessToken string
	APIVersion  string
}

// Client is an Admin API client for one store.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a client for the configured store.
func NewClient(cfg Config) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GID converts a bare numeric id into the platform's global identifier for
// the given resource kind. Already-global ids pass through unchanged.
func GID(kind, id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return fmt.Sprintf("gid://shopify/%s/%s", kind, id)
}

// UserError is a business-rule rejection reported inside a GraphQL
// mutation payload. Field is raw because the platform returns either a
// string or a path array depending on the mutation.
type UserError struct {
	Field   json.RawMessage `json:"field,omitempty"`
	Message string          `json:"message"`
	Code    string          `json:"code,omitempty"`
}

// MutationResult is a mutation payload with its userErrors lifted out so
// handlers can map them to a client error without re-parsing.
type MutationResult struct {
	Payload    json.RawMessage
	UserErrors []UserError
}

func (c *Client) endpoint(path string) string {
	return fmt.Sprintf("https://%s/admin/api/%s%s", c.cfg.StoreDomain, c.cfg.APIVersion, path)
}

// doREST performs an Admin REST call and returns the raw response body.
func (c *Client) doREST(method, path string, query url.Values, payload interface{}) (json.RawMessage, error) {
	endpoint := c.endpoint(path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.cfg.AccessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// GraphQL executes an Admin GraphQL operation and returns the data
// envelope. Top-level GraphQL errors become Go errors; userErrors embedded
// in mutation payloads are left for the caller to lift out.
func (c *Client) GraphQL(query string, variables map[string]interface{}) (json.RawMessage, error) {
	b, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint("/graphql.json"), bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.cfg.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed gqlResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse graphql response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("graphql: %s", parsed.Errors[0].Message)
	}
	return parsed.Data, nil
}

// mutate runs a GraphQL mutation and lifts userErrors out of the payload
// named by field.
func (c *Client) mutate(query string, variables map[string]interface{}, field string) (*MutationResult, error) {
	data, err := c.GraphQL(query, variables)
	if err != nil {
		return nil, err
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse mutation data: %w", err)
	}
	payload, ok := root[field]
	if !ok || string(payload) == "null" {
		return nil, fmt.Errorf("mutation %s returned no payload", field)
	}

	var envelope struct {
		UserErrors []UserError `json:"userErrors"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse %s payload: %w", field, err)
	}
	return &MutationResult{Payload: payload, UserErrors: envelope.UserErrors}, nil
}

// query runs a GraphQL query and returns the field's payload, or nil when
// the platform reports no match.
func (c *Client) query(queryStr string, variables map[string]interface{}, field string) (json.RawMessage, error) {
	data, err := c.GraphQL(queryStr, variables)
	if err != nil {
		return nil, err
	}
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse query data: %w", err)
	}
	payload, ok := root[field]
	if !ok || string(payload) == "null" {
		return nil, nil
	}
	return payload, nil
}
