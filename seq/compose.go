package seq

import (
	"context"
)

// Through chains two operators, applying op1 and then op2.
func Through[IN, MID, OUT any](op1 Operator[IN, MID], op2 Operator[MID, OUT]) Operator[IN, OUT] {
	return Transform(func(ctx context.Context, in <-chan Item[IN]) <-chan Item[OUT] {
		src := Produce(func(_ context.Context) <-chan Item[IN] { return in })
		return op2.Apply(ctx, op1.Apply(ctx, src)).Open(ctx)
	})
}

// Chain composes same-typed operators into one, applied left to right.
// With no operators it is the identity.
func Chain[T any](ops ...Operator[T, T]) Operator[T, T] {
	return Transform(func(ctx context.Context, in <-chan Item[T]) <-chan Item[T] {
		var result AsyncSeq[T] = Produce(func(_ context.Context) <-chan Item[T] { return in })
		for _, op := range ops {
			result = op.Apply(ctx, result)
		}
		return result.Open(ctx)
	})
}

// Pipe applies a series of operators to an async sequence, returning
// the final sequence. Convenience for inline pipelines.
func Pipe[T any](ctx context.Context, source AsyncSeq[T], ops ...Operator[T, T]) AsyncSeq[T] {
	result := source
	for _, op := range ops {
		result = op.Apply(ctx, result)
	}
	return result
}

// Apply applies a single operator to a sequence; reads left to right.
func Apply[IN, OUT any](ctx context.Context, s AsyncSeq[IN], op Operator[IN, OUT]) AsyncSeq[OUT] {
	return op.Apply(ctx, s)
}

// SeqStage transforms one synchronous sequence into another.
type SeqStage[IN, OUT any] func(Seq[IN]) Seq[OUT]

// PipeSeq applies a series of same-typed stages to a synchronous
// sequence.
func PipeSeq[T any](s Seq[T], stages ...SeqStage[T, T]) Seq[T] {
	result := s
	for _, st := range stages {
		result = st(result)
	}
	return result
}
