// internal/domain/catalog/entity.go
package catalog

// Item represents a purchasable catalog item. Items are owned by the
// catalog service and read-only from this service's perspective.
type Item struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  int64    `json:"price"` // unit price in minor units
	Sizes  []string `json:"sizes,omitempty"`
	Images []string `json:"images,omitempty"`
	Stock  int      `json:"stock"`
}

// HasSizes reports whether the item carries a size dimension.
// Items without sizes use the cart's default size key.
func (i Item) HasSizes() bool {
	return len(i.Sizes) > 0
}

// HasSize reports whether the given size variant is offered.
func (i Item) HasSize(size string) bool {
	for _, s := range i.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
