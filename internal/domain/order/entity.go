// internal/domain/order/entity.go
package order

import (
	"time"
)

// DeliveryAddress is the validated delivery destination for an order
type DeliveryAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	District  string `json:"district"`
	Phone     string `json:"phone"`
}

// ItemSnapshot is a catalog item frozen at composition time with the
// chosen size and quantity. Later catalog price changes do not affect it.
type ItemSnapshot struct {
	ItemID    string   `json:"item_id"`
	Name      string   `json:"name"`
	UnitPrice int64    `json:"unit_price"`
	SizeKey   string   `json:"size_key"`
	Quantity  int      `json:"quantity"`
	Images    []string `json:"images,omitempty"`
}

// LineTotal returns unit price × quantity
func (s ItemSnapshot) LineTotal() int64 {
	return s.UnitPrice * int64(s.Quantity)
}

// OrderDraft is an immutable, client-composed order ready for submission,
// prior to server acknowledgment. It is persisted only while a hosted
// payment redirect is pending.
type OrderDraft struct {
	UserID      uint            `json:"user_id"`
	Address     DeliveryAddress `json:"address"`
	Items       []ItemSnapshot  `json:"items"`
	Subtotal    int64           `json:"subtotal"`
	DeliveryFee int64           `json:"delivery_fee"`
	Amount      int64           `json:"amount"` // subtotal + delivery fee
	CreatedAt   time.Time       `json:"created_at"`
}

// NewDraft builds a priced draft from snapshotted items
func NewDraft(userID uint, addr DeliveryAddress, items []ItemSnapshot, subtotal, deliveryFee int64) *OrderDraft {
	return &OrderDraft{
		UserID:      userID,
		Address:     addr,
		Items:       items,
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Amount:      subtotal + deliveryFee,
		CreatedAt:   time.Now(),
	}
}

// Location is the last-known delivery location for tracking
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Order is the server-owned order record; this service holds read-only
// projections of it. Status is an open string set normalized by the viewer.
type Order struct {
	ID        string          `json:"id"`
	UserID    uint            `json:"user_id"`
	Address   DeliveryAddress `json:"address"`
	Items     []ItemSnapshot  `json:"items"`
	Amount    int64           `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	Location  *Location       `json:"location,omitempty"`
}
