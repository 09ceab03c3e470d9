package terminus

import (
	"context"
	"reflect"
)

type (
	// Parameter describes one declared handler parameter.
	Parameter struct {
		Name       string
		Type       reflect.Type
		Default    any
		HasDefault bool
	}

	// BindingContext carries everything a strategy may consult to
	// produce one parameter value.  Read-only to strategies.
	BindingContext struct {
		Param Parameter
		Args  map[string]any
		Ctx   context.Context
	}

	// Strategy produces a parameter value from some source.  The
	// first registered strategy whose CanBind returns true owns the
	// parameter; no further strategies are consulted.
	Strategy interface {
		CanBind(bc *BindingContext) bool
		Bind(bc *BindingContext) (any, error)
	}

	// Resolver tries binding strategies in registration order, one
	// parameter at a time.
	Resolver struct {
		strategies []Strategy
	}
)

// NewResolver creates a resolver over the given strategies in
// priority order.
func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// DefaultResolver builds the standard three-tier chain: ambient
// context, then named simple values, then container fallback.  The
// ordering is deliberate: the ambient context is structural and must
// never be shadowed by data lookup, explicit call arguments resolve
// before container resolution, and the container is the most general
// and most expensive source and therefore last.
func DefaultResolver(container Container) *Resolver {
	return NewResolver(
		ContextStrategy{},
		NewNamedValueStrategy(),
		&ContainerStrategy{Container: container},
	)
}

// Resolve produces one parameter value.
func (r *Resolver) Resolve(bc *BindingContext) (any, error) {
	for _, s := range r.strategies {
		if s.CanBind(bc) {
			return s.Bind(bc)
		}
	}
	return nil, &BindingError{
		Parameter: bc.Param.Name,
		Type:      bc.Param.Type,
		Reason:    "no binding strategy claims this parameter",
	}
}

// ResolveAll binds an ordered parameter list against an invocation's
// arguments.  Fails on the first unresolvable parameter.
func (r *Resolver) ResolveAll(
	ctx    context.Context,
	params []Parameter,
	args   map[string]any,
) ([]any, error) {
	values := make([]any, len(params))
	for i, p := range params {
		value, err := r.Resolve(&BindingContext{Param: p, Args: args, Ctx: ctx})
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}
