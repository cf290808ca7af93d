package seq

import (
	"context"

	"github.com/mpetters/lazyseq/seq/core"
)

// Reducer combines the running accumulator with one element and returns
// the next accumulator, or an error that aborts the fold. It is stateless
// across invocations except through the returned accumulator.
type Reducer[A, T any] func(acc A, elem T) (A, error)

// ReducerCtx is a reducer that may suspend: it receives the fold's
// context and can block on I/O or downstream calls before producing the
// next accumulator.
type ReducerCtx[A, T any] func(ctx context.Context, acc A, elem T) (A, error)

// Fold is a fold invoker: a reducer bound to an optional seed, ready to
// apply to any compatible sequence. A Fold holds no mutable state, so
// one value can be applied to any number of distinct sequences and
// behaves identically each time.
//
// The fold is left-associative and strictly sequential regardless of the
// sequence kind: for elements e1..en it computes
// f(f(f(seed, e1), e2), ...) with one reducer call at a time, never
// overlapping, never reordering. The first error from the reducer or the
// sequence aborts the fold and surfaces unchanged; no partial result is
// returned.
type Fold[T, A any] struct {
	loop func(ctx context.Context, cur core.Cursor[T]) (A, error)
}

// FoldWith builds a seeded fold invoker: the reducer is invoked once per
// element, starting from acc = seed.
func FoldWith[T, A any](reducer Reducer[A, T], seed A) Fold[T, A] {
	return FoldWithCtx(liftReducer(reducer), seed)
}

// FoldWithCtx is FoldWith for context-aware reducers.
func FoldWithCtx[T, A any](reducer ReducerCtx[A, T], seed A) Fold[T, A] {
	return Fold[T, A]{
		loop: func(ctx context.Context, cur core.Cursor[T]) (A, error) {
			return core.FoldCursor(ctx, cur, core.StepFunc[A, T](reducer), seed)
		},
	}
}

// Fold1 builds an unseeded fold invoker: the first element of the
// sequence becomes the initial accumulator (no reducer call is made for
// it) and folding proceeds from the second element. Applying the
// invoker to an empty sequence fails with ErrEmptySequence.
func Fold1[T any](reducer Reducer[T, T]) Fold[T, T] {
	return Fold1Ctx(liftReducer(reducer))
}

// Fold1Ctx is Fold1 for context-aware reducers.
func Fold1Ctx[T any](reducer ReducerCtx[T, T]) Fold[T, T] {
	return Fold[T, T]{
		loop: func(ctx context.Context, cur core.Cursor[T]) (T, error) {
			return core.FoldCursor1(ctx, cur, core.StepFunc[T, T](reducer))
		},
	}
}

func liftReducer[A, T any](reducer Reducer[A, T]) ReducerCtx[A, T] {
	return func(_ context.Context, acc A, elem T) (A, error) {
		return reducer(acc, elem)
	}
}

// Of applies the fold to a synchronous sequence. The result is computed
// and returned immediately, in the synchronous calling convention: no
// goroutine, no suspension.
func (f Fold[T, A]) Of(s Seq[T]) (A, error) {
	return f.loop(context.Background(), s.Pull(context.Background()))
}

// OfSlice applies the fold to an in-memory slice.
func (f Fold[T, A]) OfSlice(items []T) (A, error) {
	return f.loop(context.Background(), core.SliceCursor(items))
}

// OfAsync applies the fold to an asynchronous sequence. It returns a
// Deferred that settles with the final accumulator once every element is
// consumed and every reducer call has completed, or with the first error
// encountered. Cancelling ctx stops consumption promptly and releases
// the sequence cursor.
func (f Fold[T, A]) OfAsync(ctx context.Context, s AsyncSeq[T]) *Deferred[A] {
	d, settle := core.NewDeferred[A]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero A
				settle(zero, core.NewPanicError(r))
			}
		}()
		settle(f.loop(ctx, core.AsSequence(s).Pull(ctx)))
	}()
	return d
}

// Run applies the fold to any Sequence, dispatching on its scheduling
// capability: for an eager sequence the returned Deferred is already
// settled (no goroutine is spawned), for an async sequence it settles
// later. A context-aware reducer that needs the deferred convention over
// eager input should adapt the input with ToAsync first; Run itself
// never changes the sequence's nature.
func (f Fold[T, A]) Run(ctx context.Context, s Sequence[T]) *Deferred[A] {
	if s.Eager() {
		acc, err := f.loop(ctx, s.Pull(ctx))
		if err != nil {
			return core.Broken[A](err)
		}
		return core.Settled(acc)
	}

	d, settle := core.NewDeferred[A]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero A
				settle(zero, core.NewPanicError(r))
			}
		}()
		settle(f.loop(ctx, s.Pull(ctx)))
	}()
	return d
}
