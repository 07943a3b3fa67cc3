package provider

import (
	"context"
	"sync"
	"time"

	"github.com/marstr/collection/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"quote-search/quote"
)

type cacheKey struct {
	symbol   string
	endpoint Endpoint
}

type cacheEntry struct {
	payload   quote.Payload
	fetchedAt time.Time
}

// CachedSource keeps recently fetched payloads in a bounded LRU and
// collapses identical in-flight fetches into one upstream call. Errors are
// never cached.
type CachedSource struct {
	Passthrough Source
	TTL         time.Duration

	mu    sync.Mutex
	lru   *collection.LRUCache[cacheKey, cacheEntry]
	group singleflight.Group
	now   func() time.Time
	log   zerolog.Logger
}

func NewCachedSource(passthru Source, capacity uint, ttl time.Duration, log zerolog.Logger) *CachedSource {
	if capacity == 0 {
		capacity = 1
	}
	return &CachedSource{
		Passthrough: passthru,
		TTL:         ttl,
		lru:         collection.NewLRUCache[cacheKey, cacheEntry](capacity),
		now:         time.Now,
		log:         log,
	}
}

func (c *CachedSource) Fetch(ctx context.Context, symbol string, endpoint Endpoint) (quote.Payload, error) {
	if c.TTL <= 0 {
		return c.Passthrough.Fetch(ctx, symbol, endpoint)
	}

	key := cacheKey{symbol: symbol, endpoint: endpoint}
	if p, ok := c.lookup(key); ok {
		c.log.Debug().Str("symbol", symbol).Stringer("endpoint", endpoint).Msg("returning cached payload")
		return p, nil
	}

	ch := c.group.DoChan(endpoint.String()+"/"+symbol, func() (any, error) {
		p, err := c.Passthrough.Fetch(ctx, symbol, endpoint)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.lru.Put(key, cacheEntry{payload: p, fetchedAt: c.now()})
		c.mu.Unlock()
		return p, nil
	})

	select {
	case <-ctx.Done():
		return nil, &RetrievalError{Endpoint: endpoint, Symbol: symbol, Err: ctx.Err()}
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val, nil
	}
}

func (c *CachedSource) lookup(key cacheKey) (quote.Payload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.lru.Get(key)
	if !ok || c.now().Sub(e.fetchedAt) >= c.TTL {
		return nil, false
	}
	return e.payload, true
}
