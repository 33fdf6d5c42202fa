// internal/domain/cart/store.go
package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Persistence is the durable client-held tier the cart survives reloads in
type Persistence interface {
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Del(ctx context.Context, keys ...string) error
}

// Store persists carts per identity. Every mutation is written through so
// a reload reconstructs the cart exactly.
type Store struct {
	persistence Persistence
	ttl         time.Duration
}

// NewStore creates a cart store
func NewStore(persistence Persistence, ttl time.Duration) *Store {
	return &Store{
		persistence: persistence,
		ttl:         ttl,
	}
}

// Load retrieves the persisted cart for a key, or an empty cart when none exists
func (s *Store) Load(ctx context.Context, key string) (*Cart, error) {
	var c Cart
	err := s.persistence.GetJSON(ctx, key, &c)
	if err == redis.Nil {
		return NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if c.Items == nil {
		c.Items = make(map[string]map[string]int)
	}
	return &c, nil
}

// Save writes the cart through to the persisted copy
func (s *Store) Save(ctx context.Context, key string, c *Cart) error {
	if err := s.persistence.SetJSON(ctx, key, c, s.ttl); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

// Delete removes the persisted cart copy
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.persistence.Del(ctx, key, syncErrKey(key))
}

// SaveSyncError records the most recent push failure for an identity.
// It is surfaced on the next cart read and cleared by a successful push.
func (s *Store) SaveSyncError(ctx context.Context, key, message string) error {
	return s.persistence.SetJSON(ctx, syncErrKey(key), message, time.Hour)
}

// LoadSyncError returns the recorded push failure, empty when none
func (s *Store) LoadSyncError(ctx context.Context, key string) string {
	var message string
	if err := s.persistence.GetJSON(ctx, syncErrKey(key), &message); err != nil {
		return ""
	}
	return message
}

// ClearSyncError removes the recorded push failure
func (s *Store) ClearSyncError(ctx context.Context, key string) error {
	return s.persistence.Del(ctx, syncErrKey(key))
}

func userKey(userID uint) string {
	return fmt.Sprintf("cart:user:%d", userID)
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func syncErrKey(cartKey string) string {
	return fmt.Sprintf("cartsync:err:%s", cartKey)
}
