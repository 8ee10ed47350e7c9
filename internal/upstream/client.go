package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the brokerage core API. All business logic of consequence
// (commission computation, deal lifecycle rules, aggregation) lives behind
// this API; we transform and forward. Failures are terminal: no retries and
// no timeout beyond the transport default.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a core API client.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// User is the authenticated identity returned by the core API at login,
// including the commission type/value pinned for the rest of the session.
type User struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	Name             string `json:"name"`
	Email            string `json:"email,omitempty"`
	RoleName         string `json:"roleName"`
	CommissionTypeID string `json:"commissionTypeId,omitempty"`
	CommissionValue  string `json:"commissionValue,omitempty"`
}

// LoginResult is the core API login response.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login authenticates against the core API.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}

	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Filters fetches one lookup category as raw records; normalization is the
// caller's concern.
func (c *Client) Filters(ctx context.Context, token, category string) ([]map[string]any, error) {
	var items []map[string]any
	path := "/api/filters/" + url.PathEscape(category)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DealRecord is the canonical deal as the core API returns it.
type DealRecord struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"-"`
}

// UnmarshalJSON keeps the full record available alongside the id.
func (r *DealRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	r.Fields = fields
	if id, ok := fields["id"].(string); ok {
		r.ID = id
	} else if id, ok := fields["id"].(float64); ok {
		r.ID = fmt.Sprintf("%.0f", id)
	}
	return nil
}

// CreateDeal submits a new deal.
func (c *Client) CreateDeal(ctx context.Context, token string, payload *DealPayload) (*DealRecord, error) {
	var record DealRecord
	if err := c.do(ctx, http.MethodPost, "/api/deals", token, payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateDeal submits changes to an existing deal.
func (c *Client) UpdateDeal(ctx context.Context, token, id string, payload *DealPayload) (*DealRecord, error) {
	var record DealRecord
	path := "/api/deals/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, token, payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetDeal fetches an existing deal record, used to hydrate the edit flow.
func (c *Client) GetDeal(ctx context.Context, token, id string) (map[string]any, error) {
	var record map[string]any
	path := "/api/deals/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListDeals fetches the read-only deal feed used by reports.
func (c *Client) ListDeals(ctx context.Context, token string, params url.Values) ([]map[string]any, error) {
	path := "/api/deals"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var items []map[string]any
	if err := c.do(ctx, http.MethodGet, path, token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// do issues one JSON request/response round trip. A bearer token is attached
// when given; error bodies are decoded per decodeError.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
