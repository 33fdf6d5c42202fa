// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"sort"
	"time"
)

// SizeKeyDefault is the size key used by items without a size dimension.
const SizeKeyDefault = "default"

// ErrSizeRequired is returned when an item that declares size variants
// is added without a size selection. The cart is not mutated.
var ErrSizeRequired = errors.New("size selection required for this item")

// ErrAuthRequired is returned when a signed-in-only cart operation is
// attempted as a guest
var ErrAuthRequired = errors.New("authentication required")

// ErrItemNotFound is returned when an item cannot be resolved in the catalog
// at add time. Lines that go stale after being added are tolerated instead.
var ErrItemNotFound = errors.New("item not found in catalog")

// Line is a single (item, size, quantity) triple
type Line struct {
	ItemID   string `json:"item_id"`
	SizeKey  string `json:"size_key"`
	Quantity int    `json:"quantity"`
}

// Cart maps item IDs to per-size quantity maps. A quantity of zero is never
// stored: lines are pruned on write so they cannot participate in totals.
type Cart struct {
	Items     map[string]map[string]int `json:"items"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{
		Items:     make(map[string]map[string]int),
		UpdatedAt: time.Now().UTC(),
	}
}

// Add increments the line's quantity by one and returns the resulting line
func (c *Cart) Add(itemID, sizeKey string) Line {
	if c.Items == nil {
		c.Items = make(map[string]map[string]int)
	}
	sizes, ok := c.Items[itemID]
	if !ok {
		sizes = make(map[string]int)
		c.Items[itemID] = sizes
	}
	sizes[sizeKey]++
	c.UpdatedAt = time.Now().UTC()
	return Line{ItemID: itemID, SizeKey: sizeKey, Quantity: sizes[sizeKey]}
}

// SetQuantity sets a line to an absolute quantity. A quantity of zero or
// less removes the line entirely. The returned line reflects the final
// state (quantity zero after removal).
func (c *Cart) SetQuantity(itemID, sizeKey string, quantity int) Line {
	if c.Items == nil {
		c.Items = make(map[string]map[string]int)
	}
	sizes, ok := c.Items[itemID]
	if quantity <= 0 {
		if ok {
			delete(sizes, sizeKey)
			if len(sizes) == 0 {
				delete(c.Items, itemID)
			}
		}
		c.UpdatedAt = time.Now().UTC()
		return Line{ItemID: itemID, SizeKey: sizeKey, Quantity: 0}
	}

	if !ok {
		sizes = make(map[string]int)
		c.Items[itemID] = sizes
	}
	sizes[sizeKey] = quantity
	c.UpdatedAt = time.Now().UTC()
	return Line{ItemID: itemID, SizeKey: sizeKey, Quantity: quantity}
}

// Quantity returns the quantity for a line, zero when absent
func (c *Cart) Quantity(itemID, sizeKey string) int {
	return c.Items[itemID][sizeKey]
}

// Count returns the sum of all quantities across all lines
func (c *Cart) Count() int {
	total := 0
	for _, sizes := range c.Items {
		for _, qty := range sizes {
			total += qty
		}
	}
	return total
}

// Lines returns all cart lines in a stable order
func (c *Cart) Lines() []Line {
	lines := make([]Line, 0, len(c.Items))
	for itemID, sizes := range c.Items {
		for sizeKey, qty := range sizes {
			lines = append(lines, Line{ItemID: itemID, SizeKey: sizeKey, Quantity: qty})
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].ItemID != lines[j].ItemID {
			return lines[i].ItemID < lines[j].ItemID
		}
		return lines[i].SizeKey < lines[j].SizeKey
	})
	return lines
}

// Subtotal sums price × quantity over all lines whose item still resolves.
// Lines referencing deleted catalog items contribute zero and are skipped.
func (c *Cart) Subtotal(price func(itemID string) (int64, bool)) int64 {
	var total int64
	for itemID, sizes := range c.Items {
		unit, ok := price(itemID)
		if !ok {
			continue
		}
		for _, qty := range sizes {
			total += unit * int64(qty)
		}
	}
	return total
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Identity identifies the owner of a cart: an authenticated user or a
// guest session. Token absence selects guest/local-only mode.
type Identity struct {
	UserID    *uint
	Token     string
	SessionID string
}

// Authenticated reports whether a bearer token is present
func (i Identity) Authenticated() bool {
	return i.Token != "" && i.UserID != nil
}

// Key returns the persistence key for this identity's cart
func (i Identity) Key() string {
	if i.UserID != nil {
		return userKey(*i.UserID)
	}
	return sessionKey(i.SessionID)
}
