// internal/domain/order/client.go
package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/your-org/marketplace-storefront/internal/config"
)

// ServiceError carries the order service's own error message so it can be
// surfaced to the user verbatim when available.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("order service returned status %d", e.StatusCode)
}

// Client is the HTTP client for the order service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an order service client
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.Upstream.OrderBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Upstream.RequestTimeout,
		},
	}
}

// Create submits an order draft for synchronous creation (cash on delivery)
func (c *Client) Create(ctx context.Context, token string, draft *OrderDraft) (*Order, error) {
	body, err := c.call(ctx, http.MethodPost, "/orders", token, draft)
	if err != nil {
		return nil, err
	}

	var created Order
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to parse order response: %w", err)
	}
	return &created, nil
}

// List retrieves all orders for the authenticated user
func (c *Client) List(ctx context.Context, token string) ([]Order, error) {
	body, err := c.call(ctx, http.MethodGet, "/orders", token, nil)
	if err != nil {
		return nil, err
	}

	var orders []Order
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, fmt.Errorf("failed to parse order list: %w", err)
	}
	return orders, nil
}

func (c *Client) call(ctx context.Context, method, endpoint, token string, data interface{}) ([]byte, error) {
	var reqBody []byte
	var err error

	if data != nil {
		reqBody, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request data: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read order service response: %w", err)
	}

	if resp.StatusCode >= 400 {
		// Surface the server's own message when it provides one
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &payload)
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: payload.Error}
	}

	return body, nil
}
