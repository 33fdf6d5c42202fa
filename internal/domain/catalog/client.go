// internal/domain/catalog/client.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/your-org/marketplace-storefront/internal/config"
)

// Client fetches items from the catalog service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new catalog service client
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.Upstream.CatalogBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Upstream.RequestTimeout,
		},
	}
}

// List retrieves the full item list from the catalog service
func (c *Client) List(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/items", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("catalog service returned status %d: %s", resp.StatusCode, string(body))
	}

	var items []Item
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse catalog response: %w", err)
	}

	return items, nil
}
