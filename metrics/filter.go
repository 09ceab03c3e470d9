// Package metrics provides the metrics interceptor.  Backend wiring
// happens through the Collector capability; this package never
// interprets the numbers it records.
package metrics

import (
	"context"
	"iter"
	"time"

	"github.com/karlssberg/terminus"
)

type (
	// Collector receives invocation measurements.
	Collector interface {
		IncInvocation(method string)
		RecordDuration(method string, elapsed time.Duration)
		IncFailure(method string)
	}

	// Record measures every invocation flowing through the chain and
	// rethrows failures unchanged.
	Record struct {
		collector Collector
	}
)

// New creates the metrics interceptor.
func New(collector Collector) *Record {
	return &Record{collector: collector}
}

func (r *Record) InterceptorName() string {
	return "metrics"
}

func (r *Record) InterceptVoid(
	inv  *terminus.Invocation,
	next terminus.NextVoid,
) error {
	start := r.begin(inv)
	err := next(inv)
	r.end(inv, start, err)
	return err
}

func (r *Record) InterceptResult(
	inv  *terminus.Invocation,
	next terminus.NextResult,
) (any, error) {
	start := r.begin(inv)
	result, err := next(inv)
	r.end(inv, start, err)
	return result, err
}

func (r *Record) InterceptAsync(
	ctx  context.Context,
	inv  *terminus.Invocation,
	next terminus.NextAsync,
) (any, error) {
	start := r.begin(inv)
	result, err := next(ctx, inv)
	r.end(inv, start, err)
	return result, err
}

func (r *Record) InterceptStream(
	ctx  context.Context,
	inv  *terminus.Invocation,
	next terminus.NextStream,
) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		start := r.begin(inv)
		var failure error
		defer func() {
			r.end(inv, start, failure)
		}()
		for item, err := range next(ctx, inv) {
			if err != nil {
				failure = err
			}
			if !yield(item, err) {
				return
			}
		}
	}
}

func (r *Record) begin(inv *terminus.Invocation) time.Time {
	r.collector.IncInvocation(inv.Method.Qualified())
	return time.Now()
}

func (r *Record) end(inv *terminus.Invocation, start time.Time, err error) {
	method := inv.Method.Qualified()
	r.collector.RecordDuration(method, time.Since(start))
	if err != nil {
		r.collector.IncFailure(method)
	}
}
