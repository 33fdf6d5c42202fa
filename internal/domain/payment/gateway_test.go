// internal/domain/payment/gateway_test.go
package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/marketplace-storefront/internal/config"
	"github.com/your-org/marketplace-storefront/internal/domain/order"
)

func gatewayFor(t *testing.T, srv *httptest.Server) *Gateway {
	t.Helper()
	cfg := &config.Config{}
	cfg.Upstream.Payment.BaseURL = srv.URL
	cfg.Upstream.Payment.KeyID = "key-id"
	cfg.Upstream.Payment.KeySecret = "key-secret"
	cfg.Upstream.Payment.CallbackURL = "https://shop.example/checkout/confirm"
	cfg.Upstream.RequestTimeout = 5 * time.Second
	return NewGateway(cfg)
}

func testDraft() *order.OrderDraft {
	return order.NewDraft(42, order.DeliveryAddress{}, []order.ItemSnapshot{
		{ItemID: "shoe-1", UnitPrice: 500, Quantity: 2},
	}, 1000, 250)
}

func TestCreateSessionUsesBasicAuthAndCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sessions", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key-id", user)
		assert.Equal(t, "key-secret", pass)

		var req struct {
			Amount      int64  `json:"amount"`
			CallbackURL string `json:"callback_url"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(1250), req.Amount)
		assert.Equal(t, "https://shop.example/checkout/confirm", req.CallbackURL)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Session{SessionRef: "ref-1", RedirectURL: "https://pay.example/ref-1"})
	}))
	defer srv.Close()

	session, err := gatewayFor(t, srv).CreateSession(context.Background(), "token-42", testDraft())
	require.NoError(t, err)
	assert.Equal(t, "ref-1", session.SessionRef)
	assert.Equal(t, "https://pay.example/ref-1", session.RedirectURL)
}

func TestCreateSessionRejectsZeroAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("gateway must not be called for an invalid draft")
	}))
	defer srv.Close()

	_, err := gatewayFor(t, srv).CreateSession(context.Background(), "token-42", &order.OrderDraft{})
	assert.Error(t, err)
}

func TestCreateSessionRejectsIncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Session{SessionRef: "ref-1"})
	}))
	defer srv.Close()

	_, err := gatewayFor(t, srv).CreateSession(context.Background(), "token-42", testDraft())
	assert.Error(t, err)
}

func TestConfirmSessionReportsReplay(t *testing.T) {
	confirms := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sessions/ref-1/confirm", r.URL.Path)
		confirms++

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Confirmation{
			Order:            order.Order{ID: "ord-9", Amount: 1250},
			AlreadyConfirmed: confirms > 1,
		})
	}))
	defer srv.Close()

	gw := gatewayFor(t, srv)

	first, err := gw.ConfirmSession(context.Background(), "token-42", "ref-1", testDraft())
	require.NoError(t, err)
	assert.False(t, first.AlreadyConfirmed)

	second, err := gw.ConfirmSession(context.Background(), "token-42", "ref-1", nil)
	require.NoError(t, err)
	assert.True(t, second.AlreadyConfirmed)
	assert.Equal(t, first.Order.ID, second.Order.ID)
}

func TestConfirmSessionRequiresReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, err := gatewayFor(t, srv).ConfirmSession(context.Background(), "token-42", "", testDraft())
	assert.Error(t, err)
}

func TestGatewayErrorIncludesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session expired", http.StatusGone)
	}))
	defer srv.Close()

	_, err := gatewayFor(t, srv).ConfirmSession(context.Background(), "token-42", "ref-1", testDraft())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "410")
}
