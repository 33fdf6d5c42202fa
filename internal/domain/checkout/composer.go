// internal/domain/checkout/composer.go
package checkout

import (
	"context"
	"errors"

	"github.com/your-org/marketplace-storefront/internal/domain/cart"
	"github.com/your-org/marketplace-storefront/internal/domain/catalog"
	"github.com/your-org/marketplace-storefront/internal/domain/order"
)

// ErrEmptyCart is returned when no cart line resolves to a purchasable item.
var ErrEmptyCart = errors.New("cart has no purchasable items")

// Catalog resolves item IDs against the current catalog snapshot
type Catalog interface {
	Resolve(ctx context.Context, itemID string) (catalog.Item, bool)
}

// Composer turns a cart and a delivery address into an order draft
type Composer struct {
	catalog     Catalog
	deliveryFee int64
}

// NewComposer creates an order draft composer
func NewComposer(cat Catalog, deliveryFee int64) *Composer {
	return &Composer{
		catalog:     cat,
		deliveryFee: deliveryFee,
	}
}

// Compose snapshots the cart's lines against the catalog and prices the
// order. Lines whose item no longer resolves are skipped. The total amount
// is the item subtotal plus the flat delivery fee.
func (c *Composer) Compose(ctx context.Context, userID uint, crt *cart.Cart, addr order.DeliveryAddress) (*order.OrderDraft, error) {
	if err := ValidateAddress(&addr); err != nil {
		return nil, err
	}

	var items []order.ItemSnapshot
	var subtotal int64
	for _, line := range crt.Lines() {
		item, ok := c.catalog.Resolve(ctx, line.ItemID)
		if !ok {
			continue
		}
		snapshot := order.ItemSnapshot{
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.Price,
			SizeKey:   line.SizeKey,
			Quantity:  line.Quantity,
			Images:    item.Images,
		}
		items = append(items, snapshot)
		subtotal += snapshot.LineTotal()
	}

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	return order.NewDraft(userID, addr, items, subtotal, c.deliveryFee), nil
}
