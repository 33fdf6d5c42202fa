// internal/domain/checkout/service_test.go
package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/marketplace-storefront/internal/domain/cart"
	"github.com/your-org/marketplace-storefront/internal/domain/order"
	"github.com/your-org/marketplace-storefront/internal/domain/payment"
)

type fakeCartSource struct {
	cart *cart.Cart
}

func (f *fakeCartSource) Load(_ context.Context, _ string) (*cart.Cart, error) {
	return f.cart, nil
}

type fakeClearer struct {
	cleared int
}

func (f *fakeClearer) Clear(_ context.Context, _ cart.Identity) error {
	f.cleared++
	return nil
}

type fakeOrders struct {
	created *order.Order
	err     error
	drafts  []*order.OrderDraft
}

func (f *fakeOrders) Create(_ context.Context, _ string, draft *order.OrderDraft) (*order.Order, error) {
	f.drafts = append(f.drafts, draft)
	if f.err != nil {
		return nil, f.err
	}
	return f.created, nil
}

type fakeGateway struct {
	session      *payment.Session
	createErr    error
	confirmation *payment.Confirmation
	confirmErr   error
	confirms     int
}

func (f *fakeGateway) CreateSession(_ context.Context, _ string, _ *order.OrderDraft) (*payment.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.session, nil
}

func (f *fakeGateway) ConfirmSession(_ context.Context, _, _ string, _ *order.OrderDraft) (*payment.Confirmation, error) {
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	f.confirms++
	// Replays after the first confirm return the original order
	confirmation := *f.confirmation
	confirmation.AlreadyConfirmed = f.confirms > 1
	return &confirmation, nil
}

type checkoutFixture struct {
	svc      *Service
	clearer  *fakeClearer
	orders   *fakeOrders
	gateway  *fakeGateway
	sessions *SessionStore
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	crt := cart.NewCart()
	crt.SetQuantity("shoe-1", "m", 2)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	clearer := &fakeClearer{}
	orders := &fakeOrders{created: &order.Order{ID: "ord-1", Amount: 1250, Status: "order placed"}}
	gateway := &fakeGateway{
		session: &payment.Session{SessionRef: "ref-1", RedirectURL: "https://pay.example/ref-1"},
		confirmation: &payment.Confirmation{
			Order: order.Order{ID: "ord-9", Amount: 1250, Status: "order confirmed"},
		},
	}
	sessions := NewSessionStore(newFakeSessionPersistence(), time.Hour)

	svc := NewService(
		NewComposer(testCatalog(), 250),
		&fakeCartSource{cart: crt},
		clearer,
		orders,
		gateway,
		sessions,
		logger,
	)
	return &checkoutFixture{svc: svc, clearer: clearer, orders: orders, gateway: gateway, sessions: sessions}
}

func buyer() cart.Identity {
	userID := uint(42)
	return cart.Identity{UserID: &userID, Token: "token-42", SessionID: "sess-1"}
}

func TestPlaceDirectSuccessClearsCart(t *testing.T) {
	f := newCheckoutFixture(t)

	created, err := f.svc.PlaceDirect(context.Background(), buyer(), "token-42", validAddress())
	require.NoError(t, err)
	assert.Equal(t, "ord-1", created.ID)
	assert.Equal(t, 1, f.clearer.cleared)

	// The submitted draft carried the full pricing
	require.Len(t, f.orders.drafts, 1)
	assert.Equal(t, int64(1250), f.orders.drafts[0].Amount)
}

func TestPlaceDirectFailureLeavesCartIntact(t *testing.T) {
	f := newCheckoutFixture(t)
	f.orders.err = errors.New("order service unavailable")

	_, err := f.svc.PlaceDirect(context.Background(), buyer(), "token-42", validAddress())

	var submissionErr *SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	assert.Equal(t, 0, f.clearer.cleared)
}

func TestPlaceDirectRequiresAuth(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.PlaceDirect(context.Background(), cart.Identity{SessionID: "guest"}, "", validAddress())
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestBeginHostedPersistsDraftAndReturnsRedirect(t *testing.T) {
	f := newCheckoutFixture(t)

	session, err := f.svc.BeginHosted(context.Background(), buyer(), "token-42", validAddress())
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingRedirect, session.State)
	assert.Equal(t, "https://pay.example/ref-1", session.RedirectURL)

	// The buyer has not paid yet, so the cart stays
	assert.Equal(t, 0, f.clearer.cleared)

	// The draft survives in the persisted session, even across a restart
	persisted, err := f.sessions.Load(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, persisted.Draft)
	assert.Equal(t, int64(1250), persisted.Draft.Amount)
}

func TestBeginHostedGatewayFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	f.gateway.createErr = errors.New("gateway down")

	_, err := f.svc.BeginHosted(context.Background(), buyer(), "token-42", validAddress())

	var submissionErr *SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	assert.Equal(t, 0, f.clearer.cleared)
}

func TestConfirmWithoutSessionRejected(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.Confirm(context.Background(), buyer(), "token-42", "ref-1")
	assert.ErrorIs(t, err, ErrNoPendingCheckout)
}

func TestConfirmWrongReferenceRejected(t *testing.T) {
	f := newCheckoutFixture(t)
	_, err := f.svc.BeginHosted(context.Background(), buyer(), "token-42", validAddress())
	require.NoError(t, err)

	_, err = f.svc.Confirm(context.Background(), buyer(), "token-42", "some-other-ref")
	assert.ErrorIs(t, err, ErrNoPendingCheckout)
}

func TestConfirmSuccessPlacesOrderAndClearsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	_, err := f.svc.BeginHosted(context.Background(), buyer(), "token-42", validAddress())
	require.NoError(t, err)

	result, err := f.svc.Confirm(context.Background(), buyer(), "token-42", "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "ord-9", result.Order.ID)
	assert.False(t, result.AlreadyConfirmed)
	assert.Equal(t, 1, f.clearer.cleared)

	session, err := f.sessions.Load(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, session.State)
	assert.Nil(t, session.Draft)
	assert.Equal(t, "ord-9", session.OrderID)
}

func TestConfirmIsIdempotent(t *testing.T) {
	f := newCheckoutFixture(t)
	_, err := f.svc.BeginHosted(context.Background(), buyer(), "token-42", validAddress())
	require.NoError(t, err)

	first, err := f.svc.Confirm(context.Background(), buyer(), "token-42", "ref-1")
	require.NoError(t, err)

	second, err := f.svc.Confirm(context.Background(), buyer(), "token-42", "ref-1")
	require.NoError(t, err)

	assert.Equal(t, first.Order.ID, second.Order.ID)
	assert.False(t, first.AlreadyConfirmed)
	assert.True(t, second.AlreadyConfirmed)

	// The cart is only cleared for the first confirmation
	assert.Equal(t, 1, f.clearer.cleared)
}

func TestConfirmFailurePreservesDraftForRetry(t *testing.T) {
	f := newCheckoutFixture(t)
	_, err := f.svc.BeginHosted(context.Background(), buyer(), "token-42", validAddress())
	require.NoError(t, err)

	f.gateway.confirmErr = errors.New("settlement failed")

	_, err = f.svc.Confirm(context.Background(), buyer(), "token-42", "ref-1")
	var confirmationErr *ConfirmationError
	require.ErrorAs(t, err, &confirmationErr)

	session, err := f.sessions.Load(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, session.State)
	require.NotNil(t, session.Draft)
	assert.Equal(t, int64(1250), session.Draft.Amount)
	assert.Equal(t, 0, f.clearer.cleared)
}

func TestConfirmRetryAfterFailureSucceeds(t *testing.T) {
	f := newCheckoutFixture(t)
	_, err := f.svc.BeginHosted(context.Background(), buyer(), "token-42", validAddress())
	require.NoError(t, err)

	// First attempt fails transiently
	f.gateway.confirmErr = errors.New("settlement failed")
	_, err = f.svc.Confirm(context.Background(), buyer(), "token-42", "ref-1")
	var confirmationErr *ConfirmationError
	require.ErrorAs(t, err, &confirmationErr)

	// The buyer reloads the callback URL and the gateway now settles
	f.gateway.confirmErr = nil
	result, err := f.svc.Confirm(context.Background(), buyer(), "token-42", "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "ord-9", result.Order.ID)
	assert.False(t, result.AlreadyConfirmed)
	assert.Equal(t, 1, f.clearer.cleared)

	session, err := f.sessions.Load(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, session.State)
	assert.Equal(t, "ord-9", session.OrderID)
	assert.Nil(t, session.Draft)
}

func TestStateReflectsLifecycle(t *testing.T) {
	f := newCheckoutFixture(t)
	id := buyer()

	session, err := f.svc.State(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StateNoSession, session.State)

	_, err = f.svc.BeginHosted(context.Background(), id, "token-42", validAddress())
	require.NoError(t, err)

	session, err = f.svc.State(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingRedirect, session.State)
}
