// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/your-org/marketplace-storefront/internal/domain/cart"
	"github.com/your-org/marketplace-storefront/internal/domain/order"
	"github.com/your-org/marketplace-storefront/internal/domain/payment"
)

var (
	// ErrAuthRequired is returned for checkout attempts without a signed-in user
	ErrAuthRequired = errors.New("sign in required for checkout")

	// ErrNoPendingCheckout is returned when confirmation arrives with no
	// matching in-flight session.
	ErrNoPendingCheckout = errors.New("no pending checkout to confirm")
)

// SubmissionError wraps an order submission failure. The cart is left
// intact so the buyer can retry.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("order submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// ConfirmationError wraps a payment confirmation failure. The draft is
// preserved so confirmation can be retried.
type ConfirmationError struct {
	Err error
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("payment confirmation failed: %v", e.Err)
}

func (e *ConfirmationError) Unwrap() error {
	return e.Err
}

// CartSource loads a persisted cart by its storage key
type CartSource interface {
	Load(ctx context.Context, key string) (*cart.Cart, error)
}

// CartClearer empties a cart after a successful order
type CartClearer interface {
	Clear(ctx context.Context, id cart.Identity) error
}

// Orders submits drafts to the order service
type Orders interface {
	Create(ctx context.Context, token string, draft *order.OrderDraft) (*order.Order, error)
}

// Gateway opens and settles hosted payment sessions
type Gateway interface {
	CreateSession(ctx context.Context, token string, draft *order.OrderDraft) (*payment.Session, error)
	ConfirmSession(ctx context.Context, token, sessionRef string, draft *order.OrderDraft) (*payment.Confirmation, error)
}

// ConfirmResult is the outcome of a hosted payment confirmation
type ConfirmResult struct {
	Order            order.Order `json:"order"`
	AlreadyConfirmed bool        `json:"already_confirmed"`
}

// Service orchestrates order placement for both payment modes
type Service struct {
	composer *Composer
	carts    CartSource
	clearer  CartClearer
	orders   Orders
	gateway  Gateway
	sessions *SessionStore
	logger   *logrus.Entry
}

// NewService creates the checkout service
func NewService(composer *Composer, carts CartSource, clearer CartClearer, orders Orders, gateway Gateway, sessions *SessionStore, logger *logrus.Logger) *Service {
	return &Service{
		composer: composer,
		carts:    carts,
		clearer:  clearer,
		orders:   orders,
		gateway:  gateway,
		sessions: sessions,
		logger:   logger.WithField("component", "checkout_service"),
	}
}

// PlaceDirect composes and submits a cash-on-delivery order in one step.
// On success the cart is cleared; on failure it is left untouched.
func (s *Service) PlaceDirect(ctx context.Context, id cart.Identity, token string, addr order.DeliveryAddress) (*order.Order, error) {
	draft, err := s.compose(ctx, id, addr)
	if err != nil {
		return nil, err
	}

	created, err := s.orders.Create(ctx, token, draft)
	if err != nil {
		s.logger.WithError(err).Warn("Direct order submission failed")
		return nil, &SubmissionError{Err: err}
	}

	s.clearCart(ctx, id)
	s.logger.WithFields(logrus.Fields{
		"order_id": created.ID,
		"amount":   created.Amount,
	}).Info("Direct order placed")
	return created, nil
}

// BeginHosted composes a draft, opens a payment session and returns the
// redirect URL. The draft is persisted with the session so the purchase
// survives the buyer leaving the site.
func (s *Service) BeginHosted(ctx context.Context, id cart.Identity, token string, addr order.DeliveryAddress) (*Session, error) {
	draft, err := s.compose(ctx, id, addr)
	if err != nil {
		return nil, err
	}

	gwSession, err := s.gateway.CreateSession(ctx, token, draft)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to open payment session")
		return nil, &SubmissionError{Err: err}
	}

	session := &Session{State: StateNoSession}
	if err := session.Transition(StateAwaitingRedirect); err != nil {
		return nil, err
	}
	session.SessionRef = gwSession.SessionRef
	session.RedirectURL = gwSession.RedirectURL
	session.Draft = draft

	if err := s.sessions.Save(ctx, *id.UserID, session); err != nil {
		return nil, fmt.Errorf("failed to persist checkout session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session_ref": session.SessionRef,
		"amount":      draft.Amount,
	}).Info("Hosted checkout started")
	return session, nil
}

// Confirm settles a hosted payment session. It is safe to call repeatedly
// with the same reference: replays return the original order flagged as
// already confirmed. On failure the draft stays persisted for retry.
func (s *Service) Confirm(ctx context.Context, id cart.Identity, token, sessionRef string) (*ConfirmResult, error) {
	if !id.Authenticated() {
		return nil, ErrAuthRequired
	}
	session, err := s.sessions.Load(ctx, *id.UserID)
	if err != nil {
		return nil, err
	}
	if session.State == StateNoSession || session.SessionRef == "" || session.SessionRef != sessionRef {
		return nil, ErrNoPendingCheckout
	}

	// A failed attempt re-enters awaiting_confirmation so the buyer can
	// retry the callback URL.
	if session.State == StateAwaitingRedirect || session.State == StateFailed {
		if err := session.Transition(StateAwaitingConfirmation); err != nil {
			return nil, err
		}
	}

	confirmation, err := s.gateway.ConfirmSession(ctx, token, sessionRef, session.Draft)
	if err != nil {
		s.logger.WithError(err).WithField("session_ref", sessionRef).Warn("Payment confirmation failed")
		if session.State != StateFailed {
			_ = session.Transition(StateFailed)
		}
		if saveErr := s.sessions.Save(ctx, *id.UserID, session); saveErr != nil {
			s.logger.WithError(saveErr).Error("Failed to persist failed checkout session")
		}
		return nil, &ConfirmationError{Err: err}
	}

	if session.State != StateConfirmed {
		if err := session.Transition(StateConfirmed); err != nil {
			return nil, err
		}
	}
	session.OrderID = confirmation.Order.ID
	session.Draft = nil
	if err := s.sessions.Save(ctx, *id.UserID, session); err != nil {
		s.logger.WithError(err).Error("Failed to persist confirmed checkout session")
	}

	if !confirmation.AlreadyConfirmed {
		s.clearCart(ctx, id)
	}

	s.logger.WithFields(logrus.Fields{
		"session_ref":       sessionRef,
		"order_id":          confirmation.Order.ID,
		"already_confirmed": confirmation.AlreadyConfirmed,
	}).Info("Hosted checkout confirmed")
	return &ConfirmResult{
		Order:            confirmation.Order,
		AlreadyConfirmed: confirmation.AlreadyConfirmed,
	}, nil
}

// State returns the user's current checkout session
func (s *Service) State(ctx context.Context, id cart.Identity) (*Session, error) {
	if !id.Authenticated() {
		return nil, ErrAuthRequired
	}
	return s.sessions.Load(ctx, *id.UserID)
}

func (s *Service) compose(ctx context.Context, id cart.Identity, addr order.DeliveryAddress) (*order.OrderDraft, error) {
	if !id.Authenticated() {
		return nil, ErrAuthRequired
	}
	crt, err := s.carts.Load(ctx, id.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return s.composer.Compose(ctx, *id.UserID, crt, addr)
}

// clearCart is best-effort; failures are logged and ignored.
func (s *Service) clearCart(ctx context.Context, id cart.Identity) {
	if err := s.clearer.Clear(ctx, id); err != nil {
		s.logger.WithError(err).Warn("Failed to clear cart after order")
	}
}
