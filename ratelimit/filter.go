package ratelimit

import (
	"context"
	"iter"
	"time"

	"github.com/karlssberg/terminus"
)

// SharedStore is the optional external rate-limiter capability.
// When supplied it replaces the in-process sliding window, letting
// several processes share one quota.
type SharedStore interface {
	Allow(ctx context.Context, key string, maxRequests int, window time.Duration) (bool, error)
}

// Throttle rejects calls that exceed their configured quota before
// any inner interceptor or the terminal handler runs.  Quota
// parameters come from the method's attribute metadata; when they
// are absent or maxRequests is not positive the call is treated as
// unlimited rather than erroring.
type Throttle struct {
	limiter *Limiter
	shared  SharedStore
}

// New creates the rate-limit interceptor with an in-process window.
func New() *Throttle {
	return &Throttle{limiter: NewLimiter()}
}

// WithSharedStore switches quota accounting to an external shared
// store.
func (t *Throttle) WithSharedStore(store SharedStore) *Throttle {
	t.shared = store
	return t
}

// WithClock overrides the in-process window's time source.
func (t *Throttle) WithClock(clock func() time.Time) *Throttle {
	t.limiter.WithClock(clock)
	return t
}

func (t *Throttle) InterceptorName() string {
	return "ratelimit"
}

func (t *Throttle) InterceptVoid(
	inv  *terminus.Invocation,
	next terminus.NextVoid,
) error {
	if err := t.check(context.Background(), inv); err != nil {
		return err
	}
	return next(inv)
}

func (t *Throttle) InterceptResult(
	inv  *terminus.Invocation,
	next terminus.NextResult,
) (any, error) {
	if err := t.check(context.Background(), inv); err != nil {
		return nil, err
	}
	return next(inv)
}

func (t *Throttle) InterceptAsync(
	ctx  context.Context,
	inv  *terminus.Invocation,
	next terminus.NextAsync,
) (any, error) {
	if err := t.check(ctx, inv); err != nil {
		return nil, err
	}
	return next(ctx, inv)
}

func (t *Throttle) InterceptStream(
	ctx  context.Context,
	inv  *terminus.Invocation,
	next terminus.NextStream,
) iter.Seq2[any, error] {
	if err := t.check(ctx, inv); err != nil {
		return terminus.FailStream(err)
	}
	return next(ctx, inv)
}

func (t *Throttle) check(ctx context.Context, inv *terminus.Invocation) error {
	key, maxRequests, window, ok := quota(inv)
	if !ok {
		return nil
	}
	if t.shared != nil {
		allowed, err := t.shared.Allow(ctx, key, maxRequests, window)
		if err != nil {
			// shared store unavailable: fail open
			return nil
		}
		if !allowed {
			return &terminus.RateLimitError{Key: key}
		}
		return nil
	}
	if !t.limiter.Allow(key, maxRequests, window) {
		return &terminus.RateLimitError{Key: key}
	}
	return nil
}

// quota extracts the rate-limit parameters from the invocation's
// metadata.  Returns ok false when rate limiting should be skipped.
func quota(inv *terminus.Invocation) (string, int, time.Duration, bool) {
	var (
		key         string
		maxRequests int
		window      time.Duration
	)
	if rl, ok := inv.Metadata.(terminus.RateLimited); ok {
		key, maxRequests, window = rl.RateLimit()
	} else {
		key, _ = terminus.MetaString(inv.Metadata, "Key")
		maxRequests, _ = terminus.MetaInt(inv.Metadata, "MaxRequests")
		window, _ = terminus.MetaDuration(inv.Metadata, "Window")
	}
	if maxRequests <= 0 || window <= 0 {
		return "", 0, 0, false
	}
	if key == "" {
		key = inv.Method.Qualified()
	}
	return key, maxRequests, window, true
}
