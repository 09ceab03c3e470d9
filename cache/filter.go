package cache

import (
	"context"
	"time"

	"github.com/karlssberg/terminus"
)

// DefaultTTL applies when neither the method's metadata nor the
// interceptor configuration declares an expiration.
const DefaultTTL = 5 * time.Minute

// Local caches results of the synchronous and context-aware result
// shapes in a Store.  Void and streaming calls pass straight through
// (the chain never consults this interceptor for them).  On a hit the
// cached value is returned without delegating onward and
// PropCacheHit is set true; on a miss the chain proceeds, the result
// is stored, and PropCacheHit is set false.  Store failures are
// treated as misses.
type Local struct {
	store Store
	ttl   time.Duration
}

// NewLocal creates the local caching interceptor.  A non-positive
// ttl falls back to DefaultTTL.
func NewLocal(store Store, ttl time.Duration) *Local {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Local{store: store, ttl: ttl}
}

func (l *Local) InterceptorName() string {
	return "cache"
}

func (l *Local) InterceptResult(
	inv  *terminus.Invocation,
	next terminus.NextResult,
) (any, error) {
	return l.lookup(context.Background(), inv, func() (any, error) {
		return next(inv)
	})
}

func (l *Local) InterceptAsync(
	ctx  context.Context,
	inv  *terminus.Invocation,
	next terminus.NextAsync,
) (any, error) {
	return l.lookup(ctx, inv, func() (any, error) {
		return next(ctx, inv)
	})
}

func (l *Local) lookup(
	ctx     context.Context,
	inv     *terminus.Invocation,
	compute func() (any, error),
) (any, error) {
	key := Key(inv)
	if value, ok, err := l.store.Get(ctx, key); err == nil && ok {
		inv.SetProperty(terminus.PropCacheHit, true)
		return value, nil
	}
	inv.SetProperty(terminus.PropCacheHit, false)
	result, err := compute()
	if err != nil {
		return nil, err
	}
	_ = l.store.Set(ctx, key, result, ttlFor(inv, l.ttl))
	return result, nil
}

// Distributed caches results of the context-aware result shape only.
// Synchronous calls are a pure pass-through because distributed
// lookups are not assumed to be synchronously available.
type Distributed struct {
	store Store
	ttl   time.Duration
}

// NewDistributed creates the distributed caching interceptor over an
// externally supplied Store.
func NewDistributed(store Store, ttl time.Duration) *Distributed {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Distributed{store: store, ttl: ttl}
}

func (d *Distributed) InterceptorName() string {
	return "cache.distributed"
}

func (d *Distributed) InterceptAsync(
	ctx  context.Context,
	inv  *terminus.Invocation,
	next terminus.NextAsync,
) (any, error) {
	key := Key(inv)
	if value, ok, err := d.store.Get(ctx, key); err == nil && ok {
		inv.SetProperty(terminus.PropCacheHit, true)
		return value, nil
	}
	inv.SetProperty(terminus.PropCacheHit, false)
	result, err := next(ctx, inv)
	if err != nil {
		return nil, err
	}
	_ = d.store.Set(ctx, key, result, ttlFor(inv, d.ttl))
	return result, nil
}

// ttlFor prefers the expiration declared on the method's own
// metadata over the interceptor's configured default.
func ttlFor(inv *terminus.Invocation, fallback time.Duration) time.Duration {
	if c, ok := inv.Metadata.(terminus.Cacheable); ok {
		if ttl := c.CacheTTL(); ttl > 0 {
			return ttl
		}
	}
	if ttl, ok := terminus.MetaDuration(inv.Metadata, "TTL"); ok && ttl > 0 {
		return ttl
	}
	return fallback
}
