// internal/domain/catalog/cache.go
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const snapshotKey = "catalog:items"

// Lister is the catalog source the cache reads through to
type Lister interface {
	List(ctx context.Context) ([]Item, error)
}

// Persistence is the Redis-backed snapshot store
type Persistence interface {
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
}

// Cache holds the session-lifetime catalog snapshot. Items are fetched once
// and reused; a TTL bounds staleness and Refresh forces a new fetch.
type Cache struct {
	client      Lister
	persistence Persistence
	ttl         time.Duration
	logger      *logrus.Entry

	mu        sync.RWMutex
	items     map[string]Item
	order     []string // item IDs in catalog order
	fetchedAt time.Time
}

// NewCache creates a catalog cache
func NewCache(client Lister, persistence Persistence, ttl time.Duration, logger *logrus.Logger) *Cache {
	return &Cache{
		client:      client,
		persistence: persistence,
		ttl:         ttl,
		logger:      logger.WithField("component", "catalog_cache"),
	}
}

// Items returns the cached item list, fetching it when stale or absent
func (c *Cache) Items(ctx context.Context) ([]Item, error) {
	c.mu.RLock()
	fresh := c.items != nil && time.Since(c.fetchedAt) < c.ttl
	c.mu.RUnlock()

	if !fresh {
		if err := c.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]Item, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, c.items[id])
	}
	return items, nil
}

// Resolve looks up a single item by ID. A missing item is not an error:
// cart lines referencing deleted items are skipped by callers.
func (c *Cache) Resolve(ctx context.Context, id string) (Item, bool) {
	c.mu.RLock()
	loaded := c.items != nil
	c.mu.RUnlock()

	if !loaded {
		if _, err := c.Items(ctx); err != nil {
			c.logger.WithError(err).Warn("catalog fetch failed during resolve")
			return Item{}, false
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

// Refresh discards the in-memory snapshot and fetches a new one.
// The snapshot is mirrored to Redis so a restart does not require
// an immediate upstream round trip.
func (c *Cache) Refresh(ctx context.Context) error {
	items, err := c.client.List(ctx)
	if err != nil {
		// Fall back to the persisted snapshot when the catalog is unreachable
		var snapshot []Item
		if c.persistence != nil {
			if perr := c.persistence.GetJSON(ctx, snapshotKey, &snapshot); perr == nil && len(snapshot) > 0 {
				c.logger.WithError(err).Warn("catalog unreachable, serving persisted snapshot")
				c.install(snapshot)
				return nil
			}
		}
		return err
	}

	c.install(items)

	if c.persistence != nil {
		if err := c.persistence.SetJSON(ctx, snapshotKey, items, c.ttl); err != nil {
			c.logger.WithError(err).Warn("failed to persist catalog snapshot")
		}
	}

	return nil
}

func (c *Cache) install(items []Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]Item, len(items))
	c.order = make([]string, 0, len(items))
	for _, item := range items {
		c.items[item.ID] = item
		c.order = append(c.order, item.ID)
	}
	c.fetchedAt = time.Now().UTC()
}
