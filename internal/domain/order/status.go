// internal/domain/order/status.go
package order

import (
	"sort"
	"strings"
)

// StatusBucket is one of the three canonical delivery stages the viewer
// presents, regardless of the vendor-side vocabulary.
type StatusBucket string

const (
	BucketProcessing StatusBucket = "processing"
	BucketShipped    StatusBucket = "shipped"
	BucketDelivered  StatusBucket = "delivered"
)

// statusBuckets maps every known raw status string to its canonical
// bucket. Upstream producers mix a lower-case internal vocabulary with a
// human-facing one; both are listed here explicitly. Lookup is
// case-insensitive. Unknown values fall back to processing.
var statusBuckets = map[string]StatusBucket{
	// internal vocabulary
	"default":          BucketProcessing,
	"pending":          BucketProcessing,
	"confirmed":        BucketProcessing,
	"packing":          BucketProcessing,
	"processing":       BucketProcessing,
	"shipped":          BucketShipped,
	"ready":            BucketShipped,
	"out_for_delivery": BucketShipped,
	"delivered":        BucketDelivered,
	"completed":        BucketDelivered,

	// human-facing vocabulary
	"order placed":       BucketProcessing,
	"order confirmed":    BucketProcessing,
	"packing order":      BucketProcessing,
	"ready to ship":      BucketShipped,
	"out for delivery":   BucketShipped,
	"shipped to courier": BucketShipped,
	"order delivered":    BucketDelivered,
	"order completed":    BucketDelivered,
}

// NormalizeStatus maps a raw vendor status string to its canonical bucket
func NormalizeStatus(raw string) StatusBucket {
	key := strings.ToLower(strings.TrimSpace(raw))
	if bucket, ok := statusBuckets[key]; ok {
		return bucket
	}
	return BucketProcessing
}

// KnownStatuses returns every raw status string in the mapping table,
// sorted, so tests can assert the table stays exhaustive.
func KnownStatuses() []string {
	known := make([]string, 0, len(statusBuckets))
	for raw := range statusBuckets {
		known = append(known, raw)
	}
	sort.Strings(known)
	return known
}
