package terminus

import (
	"context"
	"iter"
)

type (
	// NextVoid advances a void pipeline to the next step.
	NextVoid func(*Invocation) error

	// NextResult advances a synchronous result pipeline.
	NextResult func(*Invocation) (any, error)

	// NextAsync advances a context-aware result pipeline.
	NextAsync func(context.Context, *Invocation) (any, error)

	// NextStream advances a streaming pipeline.  The returned
	// sequence is pulled lazily by the consumer.
	NextStream func(context.Context, *Invocation) iter.Seq2[any, error]

	// Interceptor is a named cross-cutting behavior composed around
	// the terminal handler call.  Capabilities for the four
	// invocation shapes are declared by implementing the shape
	// interfaces below; a shape an interceptor does not implement is
	// a strict pass-through.
	Interceptor interface {
		InterceptorName() string
	}

	// VoidInterceptor participates in fire-and-forget calls.
	VoidInterceptor interface {
		Interceptor
		InterceptVoid(inv *Invocation, next NextVoid) error
	}

	// ResultInterceptor participates in synchronous result calls.
	ResultInterceptor interface {
		Interceptor
		InterceptResult(inv *Invocation, next NextResult) (any, error)
	}

	// AsyncInterceptor participates in context-aware result calls.
	AsyncInterceptor interface {
		Interceptor
		InterceptAsync(ctx context.Context, inv *Invocation, next NextAsync) (any, error)
	}

	// StreamInterceptor participates in streaming calls.  An
	// implementation that wraps iteration of next's sequence must
	// release its own resources on every exit path; range-over-func
	// guarantees deferred cleanup inside the sequence body runs on
	// completion, early break, and panic alike.
	StreamInterceptor interface {
		Interceptor
		InterceptStream(ctx context.Context, inv *Invocation, next NextStream) iter.Seq2[any, error]
	}

	// Chain composes an ordered list of interceptors into a single
	// callable pipeline, one composition per invocation shape.  The
	// first registered interceptor is the outermost wrapper: it runs
	// first on the way in and last on the way out.
	Chain struct {
		interceptors []Interceptor
	}
)

// NewChain creates a chain over the given interceptors in
// registration order.
func NewChain(interceptors ...Interceptor) *Chain {
	return &Chain{interceptors: interceptors}
}

// Add appends interceptors to the end (innermost position) of the
// chain.  Not safe for use concurrently with Proceed calls.
func (c *Chain) Add(interceptors ...Interceptor) *Chain {
	c.interceptors = append(c.interceptors, interceptors...)
	return c
}

// Interceptors returns the registration-ordered interceptor list.
func (c *Chain) Interceptors() []Interceptor {
	return c.interceptors
}

// ProceedVoid executes a fire-and-forget invocation through the
// chain, ending at terminal.  An interceptor that returns without
// calling next prevents terminal and every inner interceptor from
// executing.
func (c *Chain) ProceedVoid(inv *Invocation, terminal NextVoid) error {
	index := 0
	var next NextVoid
	next = func(inv *Invocation) error {
		for index < len(c.interceptors) {
			i := c.interceptors[index]
			index++
			if vi, ok := i.(VoidInterceptor); ok {
				return vi.InterceptVoid(inv, next)
			}
		}
		return terminal(inv)
	}
	return next(inv)
}

// ProceedResult executes a synchronous result invocation through the
// chain, ending at terminal.
func (c *Chain) ProceedResult(inv *Invocation, terminal NextResult) (any, error) {
	index := 0
	var next NextResult
	next = func(inv *Invocation) (any, error) {
		for index < len(c.interceptors) {
			i := c.interceptors[index]
			index++
			if ri, ok := i.(ResultInterceptor); ok {
				return ri.InterceptResult(inv, next)
			}
		}
		return terminal(inv)
	}
	return next(inv)
}

// ProceedAsync executes a context-aware result invocation through the
// chain, ending at terminal.  The chain adds no suspension of its
// own; interceptors suspend only at their own await points.
func (c *Chain) ProceedAsync(
	ctx      context.Context,
	inv      *Invocation,
	terminal NextAsync,
) (any, error) {
	index := 0
	var next NextAsync
	next = func(ctx context.Context, inv *Invocation) (any, error) {
		for index < len(c.interceptors) {
			i := c.interceptors[index]
			index++
			if ai, ok := i.(AsyncInterceptor); ok {
				return ai.InterceptAsync(ctx, inv, next)
			}
		}
		return terminal(ctx, inv)
	}
	return next(ctx, inv)
}

// ProceedStream composes a streaming invocation through the chain,
// ending at terminal.  Items flow cooperatively: an outer interceptor
// that does not pull keeps the inner sequence from advancing, and a
// consumer that stops early unwinds every interceptor's cleanup in
// inner-to-outer order.
func (c *Chain) ProceedStream(
	ctx      context.Context,
	inv      *Invocation,
	terminal NextStream,
) iter.Seq2[any, error] {
	index := 0
	var next NextStream
	next = func(ctx context.Context, inv *Invocation) iter.Seq2[any, error] {
		for index < len(c.interceptors) {
			i := c.interceptors[index]
			index++
			if si, ok := i.(StreamInterceptor); ok {
				return si.InterceptStream(ctx, inv, next)
			}
		}
		return terminal(ctx, inv)
	}
	return next(ctx, inv)
}

// FailStream returns a sequence that yields only the given error.
// Interceptors use it to abort a streaming call before any item is
// produced.
func FailStream(err error) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		yield(nil, err)
	}
}

// EmptyStream returns a sequence that completes without items.
func EmptyStream() iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {}
}
