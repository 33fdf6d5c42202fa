// internal/domain/cart/remote.go
package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/your-org/marketplace-storefront/internal/config"
)

// Remote is the HTTP client for the server-side cart service
type Remote struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemote creates a cart service client
func NewRemote(cfg *config.Config) *Remote {
	return &Remote{
		baseURL: cfg.Upstream.CartBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Upstream.RequestTimeout,
		},
	}
}

// serverCart is the wire shape of the server-held cart snapshot
type serverCart struct {
	Items map[string]map[string]int `json:"items"`
}

// lineMutation is the wire shape of a single-line cart mutation
type lineMutation struct {
	ItemID   string `json:"item_id"`
	SizeKey  string `json:"size_key"`
	Quantity int    `json:"quantity"`
}

// Snapshot fetches the authoritative server cart for the token's user
func (r *Remote) Snapshot(ctx context.Context, token string) (*Cart, error) {
	body, err := r.call(ctx, http.MethodGet, "/cart", token, nil)
	if err != nil {
		return nil, err
	}

	var snapshot serverCart
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse cart snapshot: %w", err)
	}

	c := NewCart()
	for itemID, sizes := range snapshot.Items {
		for sizeKey, qty := range sizes {
			if qty > 0 {
				c.SetQuantity(itemID, sizeKey, qty)
			}
		}
	}
	return c, nil
}

// PushLine sends a single changed line to the server cart. A quantity of
// zero removes the line server-side.
func (r *Remote) PushLine(ctx context.Context, token string, line Line) error {
	payload := lineMutation{
		ItemID:   line.ItemID,
		SizeKey:  line.SizeKey,
		Quantity: line.Quantity,
	}
	_, err := r.call(ctx, http.MethodPost, "/cart/items", token, payload)
	return err
}

func (r *Remote) call(ctx context.Context, method, endpoint, token string, data interface{}) ([]byte, error) {
	var reqBody []byte
	var err error

	if data != nil {
		reqBody, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request data: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cart service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart service response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("cart service returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
