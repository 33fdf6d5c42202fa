// internal/domain/order/viewer.go
package order

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// TrackingUnavailableMessage is shown when an order has no location yet.
const TrackingUnavailableMessage = "location not yet available"

// Lister fetches the authenticated user's orders
type Lister interface {
	List(ctx context.Context, token string) ([]Order, error)
}

// Tracking describes the delivery location state of an order
type Tracking struct {
	Available bool      `json:"available"`
	Location  *Location `json:"location,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// LineItem is a single purchased item row. Every row inherits the status,
// timestamp and tracking of the order it belongs to.
type LineItem struct {
	OrderID   string       `json:"order_id"`
	ItemID    string       `json:"item_id"`
	Name      string       `json:"name"`
	UnitPrice int64        `json:"unit_price"`
	SizeKey   string       `json:"size_key"`
	Quantity  int          `json:"quantity"`
	Images    []string     `json:"images,omitempty"`
	Status    StatusBucket `json:"status"`
	RawStatus string       `json:"raw_status"`
	PlacedAt  time.Time    `json:"placed_at"`
	Tracking  Tracking     `json:"tracking"`
}

// Viewer flattens a user's orders into per-item rows for display
type Viewer struct {
	orders Lister
	logger *logrus.Entry
}

// NewViewer creates an order viewer
func NewViewer(orders Lister, logger *logrus.Logger) *Viewer {
	return &Viewer{
		orders: orders,
		logger: logger.WithField("component", "order_viewer"),
	}
}

// LineItems fetches the user's orders and flattens them into item rows,
// newest orders first.
func (v *Viewer) LineItems(ctx context.Context, token string) ([]LineItem, error) {
	orders, err := v.orders.List(ctx, token)
	if err != nil {
		v.logger.WithError(err).Warn("Failed to fetch orders")
		return nil, err
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	rows := make([]LineItem, 0, len(orders))
	for _, o := range orders {
		tracking := Tracking{Available: false, Message: TrackingUnavailableMessage}
		if o.Location != nil {
			tracking = Tracking{Available: true, Location: o.Location}
		}
		for _, item := range o.Items {
			rows = append(rows, LineItem{
				OrderID:   o.ID,
				ItemID:    item.ItemID,
				Name:      item.Name,
				UnitPrice: item.UnitPrice,
				SizeKey:   item.SizeKey,
				Quantity:  item.Quantity,
				Images:    item.Images,
				Status:    NormalizeStatus(o.Status),
				RawStatus: o.Status,
				PlacedAt:  o.CreatedAt,
				Tracking:  tracking,
			})
		}
	}
	return rows, nil
}
