package terminus

import (
	"context"
	"fmt"
	"iter"
)

// Pipeline is the entry-point surface exposed to generated call
// sites.  It pairs an interceptor chain with merged Options and
// offers one composed entry point per invocation shape.
type Pipeline struct {
	chain *Chain
	opts  Options
}

// NewPipeline builds a pipeline over the interceptors in
// registration order.
func NewPipeline(opts Options, interceptors ...Interceptor) *Pipeline {
	return &Pipeline{
		chain: NewChain(interceptors...),
		opts:  opts.MergeFrom(DefaultOptions()),
	}
}

// Chain exposes the underlying interceptor chain.
func (p *Pipeline) Chain() *Chain {
	return p.chain
}

// Options returns the pipeline's merged options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Invoke executes a fire-and-forget invocation.  A nil terminal
// dispatches to the invocation's handlers.
func (p *Pipeline) Invoke(inv *Invocation, terminal NextVoid) error {
	if terminal == nil {
		terminal = TerminalVoid
	}
	return p.chain.ProceedVoid(inv, terminal)
}

// InvokeResult executes a synchronous result invocation.
func (p *Pipeline) InvokeResult(inv *Invocation, terminal NextResult) (any, error) {
	if terminal == nil {
		terminal = TerminalResult
	}
	return p.chain.ProceedResult(inv, terminal)
}

// InvokeAsync executes a context-aware result invocation.
func (p *Pipeline) InvokeAsync(
	ctx      context.Context,
	inv      *Invocation,
	terminal NextAsync,
) (any, error) {
	if terminal == nil {
		terminal = TerminalAsync
	}
	return p.chain.ProceedAsync(ctx, inv, terminal)
}

// InvokeStream executes a streaming invocation.
func (p *Pipeline) InvokeStream(
	ctx      context.Context,
	inv      *Invocation,
	terminal NextStream,
) iter.Seq2[any, error] {
	if terminal == nil {
		terminal = TerminalStream
	}
	return p.chain.ProceedStream(ctx, inv, terminal)
}

// TerminalVoid fans a void invocation out to exactly the handlers
// present in inv.Handlers, in order.  An empty handler list (a fully
// filtered aggregated call) is a no-op fan-out: zero dispatches, no
// error.  A handler failure stops the fan-out and propagates.
func TerminalVoid(inv *Invocation) error {
	for _, h := range inv.Handlers {
		if h.Call == nil {
			return noCallable(h, Void)
		}
		if err := h.Call(inv); err != nil {
			return err
		}
	}
	return nil
}

// TerminalResult fans a result invocation out in handler order and
// returns the final handler's result.  An empty handler list yields
// a nil result.
func TerminalResult(inv *Invocation) (result any, err error) {
	for _, h := range inv.Handlers {
		if h.CallResult == nil {
			return nil, noCallable(h, Result)
		}
		if result, err = h.CallResult(inv); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// TerminalAsync is the context-aware counterpart of TerminalResult.
func TerminalAsync(ctx context.Context, inv *Invocation) (result any, err error) {
	for _, h := range inv.Handlers {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if h.CallAsync == nil {
			return nil, noCallable(h, AsyncResult)
		}
		if result, err = h.CallAsync(ctx, inv); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// TerminalStream concatenates each handler's sequence in handler
// order.  Iteration of every inner sequence happens through range so
// each handler's cleanup runs no matter how consumption ends.
func TerminalStream(ctx context.Context, inv *Invocation) iter.Seq2[any, error] {
	handlers := inv.Handlers
	return func(yield func(any, error) bool) {
		for _, h := range handlers {
			if h.CallStream == nil {
				yield(nil, noCallable(h, Stream))
				return
			}
			for item, err := range h.CallStream(ctx, inv) {
				if !yield(item, err) {
					return
				}
				if err != nil {
					return
				}
			}
		}
	}
}

func noCallable(h HandlerDescriptor, kind ReturnKind) error {
	return fmt.Errorf("dispatch: handler %s has no %v callable",
		h.Method.Qualified(), kind)
}
