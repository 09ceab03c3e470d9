// Package logs provides the logging interceptor.  It records the
// start, outcome and duration of every invocation and always rethrows
// downstream failures unchanged.
package logs

import (
	"context"
	"iter"
	"time"

	"github.com/go-logr/logr"

	"github.com/karlssberg/terminus"
)

// Emit logs invocation execution details through a logr.Logger.
type Emit struct {
	logger    logr.Logger
	verbosity int
}

// New creates the logging interceptor.
func New(logger logr.Logger) *Emit {
	return &Emit{logger: logger}
}

// WithVerbosity raises the level invocation logs are emitted at.
func (e *Emit) WithVerbosity(verbosity int) *Emit {
	e.verbosity = verbosity
	return e
}

func (e *Emit) InterceptorName() string {
	return "logs"
}

func (e *Emit) InterceptVoid(
	inv  *terminus.Invocation,
	next terminus.NextVoid,
) error {
	logger, start := e.begin(inv)
	err := next(inv)
	e.end(logger, start, err)
	return err
}

func (e *Emit) InterceptResult(
	inv  *terminus.Invocation,
	next terminus.NextResult,
) (any, error) {
	logger, start := e.begin(inv)
	result, err := next(inv)
	e.end(logger, start, err)
	return result, err
}

func (e *Emit) InterceptAsync(
	ctx  context.Context,
	inv  *terminus.Invocation,
	next terminus.NextAsync,
) (any, error) {
	logger, start := e.begin(inv)
	result, err := next(ctx, inv)
	e.end(logger, start, err)
	return result, err
}

// InterceptStream logs stream completion when the consumer finishes,
// breaks early, or observes a failure.
func (e *Emit) InterceptStream(
	ctx  context.Context,
	inv  *terminus.Invocation,
	next terminus.NextStream,
) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		logger, start := e.begin(inv)
		items := 0
		var failure error
		defer func() {
			logger.V(e.verbosity).Info("stream finished",
				"items", items,
				"duration", time.Since(start).String())
			if failure != nil {
				logger.Error(failure, "failed",
					"duration", time.Since(start).String())
			}
		}()
		for item, err := range next(ctx, inv) {
			if err != nil {
				failure = err
			} else {
				items++
			}
			if !yield(item, err) {
				return
			}
		}
	}
}

func (e *Emit) begin(inv *terminus.Invocation) (logr.Logger, time.Time) {
	logger := e.logger.WithName(inv.Method.Service)
	logger.V(e.verbosity).Info("handling",
		"method", inv.Method.Qualified(),
		"kind", inv.Kind.String(),
		"handlers", len(inv.Handlers))
	return logger, time.Now()
}

func (e *Emit) end(logger logr.Logger, start time.Time, err error) {
	elapsed := time.Since(start)
	if err != nil {
		logger.Error(err, "failed", "duration", elapsed.String())
		return
	}
	logger.V(e.verbosity).Info("completed", "duration", elapsed.String())
}
