// internal/domain/payment/gateway.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/your-org/marketplace-storefront/internal/config"
	"github.com/your-org/marketplace-storefront/internal/domain/order"
)

// Session is a hosted checkout session created at the payment gateway.
// The buyer is redirected to RedirectURL to complete payment.
type Session struct {
	SessionRef  string `json:"session_ref"`
	RedirectURL string `json:"redirect_url"`
}

// Confirmation is the gateway's answer to a confirm call. AlreadyConfirmed
// is true when the same session was confirmed before; the gateway returns
// the original order either way.
type Confirmation struct {
	Order            order.Order `json:"order"`
	AlreadyConfirmed bool        `json:"already_confirmed"`
}

// Gateway handles hosted payment session creation and confirmation
type Gateway struct {
	baseURL     string
	keyID       string
	keySecret   string
	callbackURL string
	httpClient  *http.Client
}

// NewGateway creates a payment gateway adapter
func NewGateway(cfg *config.Config) *Gateway {
	return &Gateway{
		baseURL:     cfg.Upstream.Payment.BaseURL,
		keyID:       cfg.Upstream.Payment.KeyID,
		keySecret:   cfg.Upstream.Payment.KeySecret,
		callbackURL: cfg.Upstream.Payment.CallbackURL,
		httpClient: &http.Client{
			Timeout: cfg.Upstream.RequestTimeout,
		},
	}
}

type createSessionRequest struct {
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	CallbackURL string            `json:"callback_url"`
	Draft       *order.OrderDraft `json:"draft"`
}

type confirmSessionRequest struct {
	SessionRef string            `json:"session_ref"`
	Draft      *order.OrderDraft `json:"draft"`
}

// CreateSession opens a hosted checkout session for the draft's amount and
// returns the reference plus the URL to redirect the buyer to.
func (g *Gateway) CreateSession(ctx context.Context, token string, draft *order.OrderDraft) (*Session, error) {
	if draft == nil || draft.Amount <= 0 {
		return nil, fmt.Errorf("invalid draft amount")
	}

	req := createSessionRequest{
		Amount:      draft.Amount,
		Currency:    "INR",
		CallbackURL: g.callbackURL,
		Draft:       draft,
	}

	body, err := g.call(ctx, http.MethodPost, "/sessions", token, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	if session.SessionRef == "" || session.RedirectURL == "" {
		return nil, fmt.Errorf("gateway returned incomplete session")
	}
	return &session, nil
}

// ConfirmSession asks the gateway to settle a session. Confirming the same
// SessionRef again returns the original order with AlreadyConfirmed set,
// so callers can retry safely.
func (g *Gateway) ConfirmSession(ctx context.Context, token, sessionRef string, draft *order.OrderDraft) (*Confirmation, error) {
	if sessionRef == "" {
		return nil, fmt.Errorf("session reference is required")
	}

	req := confirmSessionRequest{
		SessionRef: sessionRef,
		Draft:      draft,
	}

	body, err := g.call(ctx, http.MethodPost, "/sessions/"+sessionRef+"/confirm", token, req)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm payment session: %w", err)
	}

	var confirmation Confirmation
	if err := json.Unmarshal(body, &confirmation); err != nil {
		return nil, fmt.Errorf("failed to parse confirmation response: %w", err)
	}
	return &confirmation, nil
}

func (g *Gateway) call(ctx context.Context, method, endpoint, token string, data interface{}) ([]byte, error) {
	var reqBody []byte
	var err error

	if data != nil {
		reqBody, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request data: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)
	if token != "" {
		req.Header.Set("X-User-Token", token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("gateway API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}
