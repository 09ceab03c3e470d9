package terminus

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/suite"
)

func countingStreamHandler(yielded *int) HandlerDescriptor {
	return HandlerDescriptor{
		Method: MethodID{"Feed", "Items"},
		CallStream: func(ctx context.Context, _ *Invocation) iter.Seq2[any, error] {
			return func(yield func(any, error) bool) {
				for i := 1; ; i++ {
					if err := ctx.Err(); err != nil {
						yield(nil, err)
						return
					}
					*yielded++
					if !yield(i, nil) {
						return
					}
				}
			}
		},
	}
}

type StreamTestSuite struct {
	suite.Suite
	trace *trace
}

func (s *StreamTestSuite) SetupTest() {
	s.trace = &trace{}
}

func (s *StreamTestSuite) disposals(name string) int {
	count := 0
	for _, event := range s.trace.events {
		if event == name+":disposed" {
			count++
		}
	}
	return count
}

func (s *StreamTestSuite) TestEarlyBreakDisposesEveryInterceptorOnce() {
	yielded := 0
	inv := NewInvocation(Stream, countingStreamHandler(&yielded))
	chain := NewChain(
		&step{name: "a", trace: s.trace},
		&step{name: "b", trace: s.trace},
	)
	var items []any
	for item, err := range chain.ProceedStream(context.Background(), inv, TerminalStream) {
		s.Nil(err)
		items = append(items, item)
		if len(items) == 2 {
			break
		}
	}
	s.Equal([]any{1, 2}, items)
	s.Equal(1, s.disposals("a"))
	s.Equal(1, s.disposals("b"))
	// inner cleanup unwinds before outer
	s.Equal([]string{
		"a:before", "b:before",
		"b:disposed", "a:disposed",
	}, s.trace.events)
}

func (s *StreamTestSuite) TestCancellationAfterSecondItem() {
	yielded := 0
	inv := NewInvocation(Stream, countingStreamHandler(&yielded))
	chain := NewChain(
		&step{name: "a", trace: s.trace},
		&step{name: "b", trace: s.trace},
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var items, failures int
	for item, err := range chain.ProceedStream(ctx, inv, TerminalStream) {
		if err != nil {
			failures++
			s.ErrorIs(err, context.Canceled)
			break
		}
		if item != nil {
			items++
		}
		if items == 2 {
			cancel()
		}
	}
	s.Equal(2, items)
	s.Equal(1, failures)
	s.Equal(1, s.disposals("a"))
	s.Equal(1, s.disposals("b"))
}

func (s *StreamTestSuite) TestCompletionDisposes() {
	inv := NewInvocation(Stream, HandlerDescriptor{
		Method: MethodID{"Feed", "Items"},
		CallStream: func(context.Context, *Invocation) iter.Seq2[any, error] {
			return func(yield func(any, error) bool) {
				for i := 1; i <= 3; i++ {
					if !yield(i, nil) {
						return
					}
				}
			}
		},
	})
	chain := NewChain(&step{name: "a", trace: s.trace})
	count := 0
	for _, err := range chain.ProceedStream(context.Background(), inv, TerminalStream) {
		s.Nil(err)
		count++
	}
	s.Equal(3, count)
	s.Equal(1, s.disposals("a"))
}

func (s *StreamTestSuite) TestShortCircuitYieldsFailure() {
	inv := NewInvocation(Stream, countingStreamHandler(new(int)))
	rejected := errors.New("rejected")
	interceptors := []Interceptor{&step{
		name:  "a",
		trace: s.trace,
		skip:  true,
		fail:  rejected,
	}}
	var failure error
	count := 0
	for _, err := range NewChain(interceptors...).
		ProceedStream(context.Background(), inv, TerminalStream) {
		count++
		failure = err
	}
	s.Equal(1, count)
	s.Same(rejected, failure)
}

func (s *StreamTestSuite) TestAggregatedStreamsConcatenate() {
	numbered := func(base int) HandlerDescriptor {
		return HandlerDescriptor{
			Method: MethodID{"Feed", "Items"},
			CallStream: func(context.Context, *Invocation) iter.Seq2[any, error] {
				return func(yield func(any, error) bool) {
					for i := base; i < base+2; i++ {
						if !yield(i, nil) {
							return
						}
					}
				}
			},
		}
	}
	inv := NewAggregated(Stream, MethodID{"Facade", "Items"},
		[]HandlerDescriptor{numbered(10), numbered(20)})
	var items []any
	for item, err := range NewChain().
		ProceedStream(context.Background(), inv, TerminalStream) {
		s.Nil(err)
		items = append(items, item)
	}
	s.Equal([]any{10, 11, 20, 21}, items)
}

func TestStream(t *testing.T) {
	suite.Run(t, new(StreamTestSuite))
}
