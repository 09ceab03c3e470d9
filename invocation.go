package terminus

import (
	"context"
	"iter"
)

// ReturnKind classifies the shape of an invocation.
type ReturnKind uint8

const (
	// Void is a synchronous fire-and-forget call.
	Void ReturnKind = iota
	// Result is a synchronous call producing a value.
	Result
	// AsyncResult is a context-aware call producing a value.
	AsyncResult
	// Stream is a context-aware call producing a lazy sequence.
	Stream
)

func (k ReturnKind) String() string {
	switch k {
	case Void:
		return "void"
	case Result:
		return "result"
	case AsyncResult:
		return "async"
	case Stream:
		return "stream"
	}
	return "unknown"
}

type (
	// MethodID identifies an exposed or handler method.
	MethodID struct {
		Service string
		Name    string
	}

	// Arg is one named argument as received by the facade.
	Arg struct {
		Name  string
		Value any
	}

	// HandlerDescriptor identifies one concrete method eligible to
	// satisfy a call.  Only the callable matching the invocation's
	// ReturnKind is consulted.  Immutable after construction.
	HandlerDescriptor struct {
		Method     MethodID
		Metadata   Metadata
		Call       func(*Invocation) error
		CallResult func(*Invocation) (any, error)
		CallAsync  func(context.Context, *Invocation) (any, error)
		CallStream func(context.Context, *Invocation) iter.Seq2[any, error]
	}

	// Invocation carries one logical call through the interceptor
	// chain.  Everything except the Properties bag is fixed when the
	// call enters the pipeline.  Interceptors communicate facts to
	// outer interceptors through SetProperty; an aggregating
	// interceptor may replace Handlers before delegating onward.
	Invocation struct {
		Method     MethodID
		Args       []Arg
		Metadata   Metadata
		Handlers   []HandlerDescriptor
		Aggregated bool
		Kind       ReturnKind
		properties map[string]any
	}
)

// Well-known Properties keys.
const (
	// PropCacheHit records whether a caching interceptor satisfied
	// the call from its store.
	PropCacheHit = "CacheHit"
)

// Qualified renders the identity as "Service.Name".
func (m MethodID) Qualified() string {
	if m.Service == "" {
		return m.Name
	}
	return m.Service + "." + m.Name
}

// NewInvocation creates a single-handler invocation.
func NewInvocation(
	kind    ReturnKind,
	handler HandlerDescriptor,
	args    ...Arg,
) *Invocation {
	return &Invocation{
		Method:   handler.Method,
		Args:     args,
		Metadata: handler.Metadata,
		Handlers: []HandlerDescriptor{handler},
		Kind:     kind,
	}
}

// NewAggregated creates an invocation that fans out to every handler
// remaining in Handlers when the terminal delegate runs.
func NewAggregated(
	kind     ReturnKind,
	method   MethodID,
	handlers []HandlerDescriptor,
	args     ...Arg,
) *Invocation {
	inv := &Invocation{
		Method:     method,
		Args:       args,
		Handlers:   handlers,
		Aggregated: true,
		Kind:       kind,
	}
	if len(handlers) > 0 {
		inv.Metadata = handlers[0].Metadata
	}
	return inv
}

// Argument looks up a named argument value.
func (v *Invocation) Argument(name string) (any, bool) {
	for _, a := range v.Args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// ArgumentMap returns the arguments as a name to value mapping.
func (v *Invocation) ArgumentMap() map[string]any {
	args := make(map[string]any, len(v.Args))
	for _, a := range v.Args {
		args[a.Name] = a.Value
	}
	return args
}

// SetProperty records a fact for interceptors that run after this
// point in the chain.
func (v *Invocation) SetProperty(key string, value any) {
	if v.properties == nil {
		v.properties = make(map[string]any)
	}
	v.properties[key] = value
}

// Property retrieves a fact recorded by an inner interceptor.
func (v *Invocation) Property(key string) (any, bool) {
	value, ok := v.properties[key]
	return value, ok
}
