// internal/interfaces/http/handlers/cart_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/marketplace-storefront/internal/domain/cart"
	"github.com/your-org/marketplace-storefront/internal/domain/catalog"
)

type memPersistence struct {
	data map[string][]byte
}

func newMemPersistence() *memPersistence {
	return &memPersistence{data: make(map[string][]byte)}
}

func (m *memPersistence) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *memPersistence) GetJSON(_ context.Context, key string, dest interface{}) error {
	b, ok := m.data[key]
	if !ok {
		return redis.Nil
	}
	return json.Unmarshal(b, dest)
}

func (m *memPersistence) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type stubRemote struct{}

func (stubRemote) Snapshot(_ context.Context, _ string) (*cart.Cart, error) { return cart.NewCart(), nil }
func (stubRemote) PushLine(_ context.Context, _ string, _ cart.Line) error  { return nil }

type stubCatalog struct{}

func (stubCatalog) Resolve(_ context.Context, id string) (catalog.Item, bool) {
	switch id {
	case "shoe-1":
		return catalog.Item{ID: "shoe-1", Name: "Runner", Price: 500, Sizes: []string{"m", "l"}}, true
	case "mug-1":
		return catalog.Item{ID: "mug-1", Name: "Mug", Price: 120}, true
	}
	return catalog.Item{}, false
}

func newCartRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	store := cart.NewStore(newMemPersistence(), time.Hour)
	sync := cart.NewSynchronizer(stubRemote{}, store, logger)
	svc := cart.NewService(store, sync, stubCatalog{}, logger)
	handler := NewCartHandler(svc)

	router := gin.New()
	group := router.Group("/api/v1/cart")
	{
		group.GET("", handler.GetCart)
		group.POST("/items", handler.AddItem)
		group.PUT("/items/:id", handler.UpdateQuantity)
		group.DELETE("/items/:id", handler.RemoveItem)
		group.DELETE("", handler.ClearCart)
		group.GET("/count", handler.GetCount)
		group.POST("/refresh", handler.RefreshFromServer)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie() []*http.Cookie {
	return []*http.Cookie{{Name: "session_id", Value: "test-session"}}
}

func TestAddItemAndGetCart(t *testing.T) {
	router := newCartRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ItemID: "shoe-1", SizeKey: "m"}, sessionCookie())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil, sessionCookie())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data cart.View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Count)
	require.Len(t, resp.Data.Lines, 1)
	assert.Equal(t, "Runner", resp.Data.Lines[0].Name)
	assert.Equal(t, int64(500), resp.Data.Subtotal)
}

func TestAddItemMissingSizeRejected(t *testing.T) {
	router := newCartRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ItemID: "shoe-1"}, sessionCookie())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing was added
	rec = doJSON(t, router, http.MethodGet, "/api/v1/cart/count", nil, sessionCookie())
	var resp struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Data.Count)
}

func TestAddItemUnknownItemRejected(t *testing.T) {
	router := newCartRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ItemID: "ghost"}, sessionCookie())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	router := newCartRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ItemID: "mug-1"}, sessionCookie())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/cart/items/mug-1", UpdateQuantityRequest{Quantity: 4}, sessionCookie())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data cart.View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Data.Count)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/cart/items/mug-1", nil, sessionCookie())
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Data.Count)
}

func TestClearCart(t *testing.T) {
	router := newCartRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ItemID: "mug-1"}, sessionCookie())
	doJSON(t, router, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ItemID: "shoe-1", SizeKey: "l"}, sessionCookie())

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/cart", nil, sessionCookie())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil, sessionCookie())
	var resp struct {
		Data cart.View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Data.Count)
}

func TestGuestRefreshRejectedAsUnauthorized(t *testing.T) {
	router := newCartRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/refresh", nil, sessionCookie())
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuestGetsSessionCookie(t *testing.T) {
	router := newCartRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/cart", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_id" && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found)
}
