// Package listing holds the read-through cache of the unfiltered sale listing.
//
// The cache uses a single key. Filtered queries never go through it, so no
// eviction policy is needed beyond the entry's time-to-live. Every sale write
// (and every product deletion, which cascades to sales) must call Invalidate
// before reporting success, which is what keeps readers from observing a
// listing older than the last completed write.
package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/kv"
)

// Key is the cache key of the unfiltered sale listing.
const Key = "ventas_list"

// DefaultTTL is how long a populated listing stays fresh.
const DefaultTTL = 15 * time.Minute

// LoadFunc computes the listing from the transaction store on a miss.
type LoadFunc func(ctx context.Context) ([]model.Sale, error)

type Cache struct {
	store  kv.Store
	ttl    time.Duration
	logger *slog.Logger
}

func New(store kv.Store, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store:  store,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "listing_cache")),
	}
}

// Get returns the cached listing, or loads, stores and returns it on a miss.
// A failing or corrupt backend degrades to a load; it never fails the read.
func (c *Cache) Get(ctx context.Context, load LoadFunc) ([]model.Sale, error) {
	raw, ok, err := c.store.Get(ctx, Key)
	if err != nil {
		c.logger.WarnContext(ctx, "error reading sale listing cache", slog.Any("error", err))
	}
	if ok {
		var sales []model.Sale
		err := json.Unmarshal(raw, &sales)
		if err == nil {
			return sales, nil
		}
		c.logger.WarnContext(ctx, "error decoding cached sale listing", slog.Any("error", err))
	}

	sales, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sale listing: %w", err)
	}
	if sales == nil {
		sales = []model.Sale{}
	}

	payload, err := json.Marshal(sales)
	if err != nil {
		return nil, fmt.Errorf("marshal sale listing: %w", err)
	}
	if err := c.store.Set(ctx, Key, payload, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "error populating sale listing cache", slog.Any("error", err))
	}

	return sales, nil
}

// Invalidate drops the cached listing regardless of its remaining time-to-live.
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.store.Delete(ctx, Key); err != nil {
		return fmt.Errorf("delete sale listing cache: %w", err)
	}
	return nil
}
