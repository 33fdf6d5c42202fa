// internal/domain/cart/service.go
package cart

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-storefront/internal/domain/catalog"
)

// Catalog resolves item references for validation and totals
type Catalog interface {
	Resolve(ctx context.Context, id string) (catalog.Item, bool)
}

// LineView is a cart line enriched with catalog details for display
type LineView struct {
	Line
	Name      string `json:"name,omitempty"`
	UnitPrice int64  `json:"unit_price,omitempty"`
	LineTotal int64  `json:"line_total,omitempty"`
	Stale     bool   `json:"stale,omitempty"` // item no longer resolves in the catalog
}

// View is the cart as presented to the client
type View struct {
	Lines     []LineView `json:"lines"`
	Count     int        `json:"count"`
	Subtotal  int64      `json:"subtotal"`
	SyncError string     `json:"sync_error,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Service handles cart business logic. The store is the local source of
// truth; mutations are written through to Redis and pushed to the server
// cart without blocking the caller.
type Service struct {
	store       *Store
	sync        *Synchronizer
	catalog     Catalog
	logger      *logrus.Entry
	pushTimeout time.Duration
}

// NewService creates a new cart service
func NewService(store *Store, sync *Synchronizer, cat Catalog, logger *logrus.Logger) *Service {
	return &Service{
		store:       store,
		sync:        sync,
		catalog:     cat,
		logger:      logger.WithField("component", "cart_service"),
		pushTimeout: 10 * time.Second,
	}
}

// Get returns the identity's cart view
func (s *Service) Get(ctx context.Context, id Identity) (*View, error) {
	c, err := s.store.Load(ctx, id.Key())
	if err != nil {
		return nil, err
	}
	return s.view(ctx, id, c), nil
}

// AddItem increments a line's quantity by one. Items that declare size
// variants require a size selection; the cart is untouched on rejection.
func (s *Service) AddItem(ctx context.Context, id Identity, itemID, sizeKey string) (*View, error) {
	item, ok := s.catalog.Resolve(ctx, itemID)
	if !ok {
		return nil, ErrItemNotFound
	}

	if item.HasSizes() {
		if sizeKey == "" {
			return nil, ErrSizeRequired
		}
	} else {
		sizeKey = SizeKeyDefault
	}

	c, err := s.store.Load(ctx, id.Key())
	if err != nil {
		return nil, err
	}

	line := c.Add(itemID, sizeKey)
	if err := s.store.Save(ctx, id.Key(), c); err != nil {
		return nil, err
	}

	s.pushAsync(id, line)
	return s.view(ctx, id, c), nil
}

// SetQuantity sets a line to an absolute quantity; zero or less removes it
func (s *Service) SetQuantity(ctx context.Context, id Identity, itemID, sizeKey string, quantity int) (*View, error) {
	if sizeKey == "" {
		sizeKey = SizeKeyDefault
	}

	c, err := s.store.Load(ctx, id.Key())
	if err != nil {
		return nil, err
	}

	line := c.SetQuantity(itemID, sizeKey, quantity)
	if err := s.store.Save(ctx, id.Key(), c); err != nil {
		return nil, err
	}

	s.pushAsync(id, line)
	return s.view(ctx, id, c), nil
}

// Count returns the badge count for the identity's cart
func (s *Service) Count(ctx context.Context, id Identity) (int, error) {
	c, err := s.store.Load(ctx, id.Key())
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}

// Clear empties the cart and removes the persisted copy. Existing lines
// are pushed as removals so the server cart does not resurrect them on
// the next authoritative pull.
func (s *Service) Clear(ctx context.Context, id Identity) error {
	c, err := s.store.Load(ctx, id.Key())
	if err != nil {
		return err
	}

	for _, line := range c.Lines() {
		line.Quantity = 0
		s.pushAsync(id, line)
	}

	return s.store.Delete(ctx, id.Key())
}

// RefreshFromServer replaces the local cart with the server snapshot.
// Called at session start when an auth token exists.
func (s *Service) RefreshFromServer(ctx context.Context, id Identity) (*View, error) {
	c, err := s.sync.PullAuthoritative(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, id, c), nil
}

// pushAsync issues a fire-and-forget push of a single changed line.
// Failures are recorded by the synchronizer and surfaced on the next read.
func (s *Service) pushAsync(id Identity, line Line) {
	if !id.Authenticated() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.pushTimeout)
		defer cancel()
		// Error already logged and recorded by the synchronizer
		_ = s.sync.PushLine(ctx, id, line)
	}()
}

func (s *Service) view(ctx context.Context, id Identity, c *Cart) *View {
	v := &View{
		Lines:     []LineView{},
		Count:     c.Count(),
		UpdatedAt: c.UpdatedAt,
		SyncError: s.store.LoadSyncError(ctx, id.Key()),
	}

	for _, line := range c.Lines() {
		lv := LineView{Line: line}
		if item, ok := s.catalog.Resolve(ctx, line.ItemID); ok {
			lv.Name = item.Name
			lv.UnitPrice = item.Price
			lv.LineTotal = item.Price * int64(line.Quantity)
			v.Subtotal += lv.LineTotal
		} else {
			lv.Stale = true
		}
		v.Lines = append(v.Lines, lv)
	}

	return v
}
