package core

import (
	"context"
)

// AsyncSeq represents an asynchronous sequence: elements become available
// one at a time with deferred availability. Open starts production and
// returns a channel of Items that is closed on exhaustion. Producers must
// honor ctx cancellation on every send.
// AsyncSeq answers the question: "what operations will produce the
// sequence's elements?".
type AsyncSeq[OUT any] interface {
	Open(context.Context) <-chan Item[OUT]
}

// Operator transforms an AsyncSeq of type IN into an AsyncSeq of type
// OUT. Operators compose into pipelines; they answer the question:
// "what is being done to the sequence's elements?".
type Operator[IN, OUT any] interface {
	Apply(context.Context, AsyncSeq[IN]) AsyncSeq[OUT]
}

// Source is a function producing a channel of Items; it is the lowest
// level of abstraction for async production and implements AsyncSeq.
type Source[OUT any] func(context.Context) <-chan Item[OUT]

// Produce adapts a channel-producing function into a Source.
func Produce[OUT any](source func(context.Context) <-chan Item[OUT]) Source[OUT] {
	return source
}

func (s Source[OUT]) Open(ctx context.Context) <-chan Item[OUT] {
	return s(ctx)
}

// Stage is a function transforming one channel of Items into another; it
// is the lowest level of abstraction for async transformation and
// implements Operator.
type Stage[IN, OUT any] func(context.Context, <-chan Item[IN]) <-chan Item[OUT]

// Transform adapts a channel-transforming function into a Stage.
func Transform[IN, OUT any](stage func(context.Context, <-chan Item[IN]) <-chan Item[OUT]) Stage[IN, OUT] {
	return stage
}

func (st Stage[IN, OUT]) Apply(ctx context.Context, in AsyncSeq[IN]) AsyncSeq[OUT] {
	return Produce(func(ctx context.Context) <-chan Item[OUT] {
		return st(ctx, in.Open(ctx))
	})
}

// asyncSequence adapts an AsyncSeq to the capability-polymorphic
// Sequence interface.
type asyncSequence[T any] struct {
	src AsyncSeq[T]
}

// AsSequence wraps an AsyncSeq as a (non-eager) Sequence.
func AsSequence[T any](src AsyncSeq[T]) Sequence[T] {
	return asyncSequence[T]{src: src}
}

func (a asyncSequence[T]) Pull(ctx context.Context) Cursor[T] {
	ctx, cancel := context.WithCancel(ctx)
	return &chanCursor[T]{ch: a.src.Open(ctx), cancel: cancel}
}

func (a asyncSequence[T]) Eager() bool { return false }
