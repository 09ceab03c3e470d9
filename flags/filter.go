package flags

import (
	"context"
	"iter"

	"github.com/karlssberg/terminus"
)

// Gate enforces feature flags.  On a single-handler call a known and
// disabled feature aborts the call before anything inner runs.  On
// an aggregated call the handler list is narrowed to handlers whose
// feature is enabled or who carry no feature at all, preserving the
// original order; a fully filtered list is a legal no-op fan-out,
// not an error.
type Gate struct {
	source Source
}

// New creates the feature-flag interceptor.
func New(source Source) *Gate {
	return &Gate{source: source}
}

func (g *Gate) InterceptorName() string {
	return "flags"
}

func (g *Gate) InterceptVoid(
	inv  *terminus.Invocation,
	next terminus.NextVoid,
) error {
	if err := g.gate(inv); err != nil {
		return err
	}
	return next(inv)
}

func (g *Gate) InterceptResult(
	inv  *terminus.Invocation,
	next terminus.NextResult,
) (any, error) {
	if err := g.gate(inv); err != nil {
		return nil, err
	}
	return next(inv)
}

func (g *Gate) InterceptAsync(
	ctx  context.Context,
	inv  *terminus.Invocation,
	next terminus.NextAsync,
) (any, error) {
	if err := g.gate(inv); err != nil {
		return nil, err
	}
	return next(ctx, inv)
}

func (g *Gate) InterceptStream(
	ctx  context.Context,
	inv  *terminus.Invocation,
	next terminus.NextStream,
) iter.Seq2[any, error] {
	if err := g.gate(inv); err != nil {
		return terminus.FailStream(err)
	}
	return next(ctx, inv)
}

func (g *Gate) gate(inv *terminus.Invocation) error {
	if inv.Aggregated {
		inv.Handlers = g.filter(inv.Handlers)
		return nil
	}
	if name := featureName(inv.Metadata); name != "" {
		if enabled, known := g.source.Enabled(name); known && !enabled {
			return &terminus.FeatureDisabledError{Feature: name}
		}
	}
	return nil
}

func (g *Gate) filter(
	handlers []terminus.HandlerDescriptor,
) []terminus.HandlerDescriptor {
	kept := handlers[:0:0]
	for _, h := range handlers {
		name := featureName(h.Metadata)
		if name == "" {
			kept = append(kept, h)
			continue
		}
		if enabled, known := g.source.Enabled(name); !known || enabled {
			kept = append(kept, h)
		}
	}
	return kept
}

// featureName prefers the typed FeatureGated capability and falls
// back to conventional property names on ad hoc descriptors.
func featureName(m terminus.Metadata) string {
	if fg, ok := m.(terminus.FeatureGated); ok {
		return fg.FeatureName()
	}
	for _, prop := range []string{"FeatureName", "Feature", "Name"} {
		if name, ok := terminus.MetaString(m, prop); ok {
			return name
		}
	}
	return ""
}
