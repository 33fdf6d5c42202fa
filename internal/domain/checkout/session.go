// internal/domain/checkout/session.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/your-org/marketplace-storefront/internal/domain/order"
)

// State is a checkout session lifecycle state
type State string

const (
	StateNoSession            State = "no_session"
	StateAwaitingRedirect     State = "awaiting_redirect"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateConfirmed            State = "confirmed"
	StateFailed               State = "failed"
)

// validTransitions defines allowed session state changes
var validTransitions = map[State][]State{
	StateNoSession:            {StateAwaitingRedirect},
	StateAwaitingRedirect:     {StateAwaitingConfirmation, StateFailed, StateNoSession},
	StateAwaitingConfirmation: {StateConfirmed, StateFailed, StateNoSession},
	StateConfirmed:            {StateNoSession},
	StateFailed:               {StateAwaitingConfirmation, StateAwaitingRedirect, StateNoSession},
}

func isValidTransition(from, to State) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Session is the persisted record of an in-flight hosted checkout. The
// draft travels with it so confirmation can rebuild the order without the
// cart, even after the buyer left the site and came back.
type Session struct {
	State       State             `json:"state"`
	SessionRef  string            `json:"session_ref,omitempty"`
	RedirectURL string            `json:"redirect_url,omitempty"`
	Draft       *order.OrderDraft `json:"draft,omitempty"`
	OrderID     string            `json:"order_id,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Transition moves the session to a new state, rejecting invalid jumps
func (s *Session) Transition(to State) error {
	if !isValidTransition(s.State, to) {
		return fmt.Errorf("invalid checkout transition from %s to %s", s.State, to)
	}
	s.State = to
	s.UpdatedAt = time.Now()
	return nil
}

// Persistence is the subset of the Redis client the session store uses
type Persistence interface {
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Del(ctx context.Context, keys ...string) error
}

// SessionStore persists checkout sessions per user in Redis
type SessionStore struct {
	persistence Persistence
	ttl         time.Duration
}

// NewSessionStore creates a checkout session store
func NewSessionStore(persistence Persistence, ttl time.Duration) *SessionStore {
	return &SessionStore{
		persistence: persistence,
		ttl:         ttl,
	}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("checkout:session:user:%d", userID)
}

// Load returns the user's session, or a fresh no-session record when none
// is persisted.
func (s *SessionStore) Load(ctx context.Context, userID uint) (*Session, error) {
	var session Session
	err := s.persistence.GetJSON(ctx, sessionKey(userID), &session)
	if errors.Is(err, redis.Nil) {
		return &Session{State: StateNoSession}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}
	return &session, nil
}

// Save persists the session with the store's TTL
func (s *SessionStore) Save(ctx context.Context, userID uint, session *Session) error {
	return s.persistence.SetJSON(ctx, sessionKey(userID), session, s.ttl)
}

// Delete removes the user's session
func (s *SessionStore) Delete(ctx context.Context, userID uint) error {
	return s.persistence.Del(ctx, sessionKey(userID))
}
