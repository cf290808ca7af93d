// Package aggregate provides operator-shaped folds for async
// pipelines: each operator consumes its whole input sequence and emits
// a single result element. They are the pipeline siblings of the
// seq.Fold invoker; use these inside Pipe chains and the invoker when a
// plain value (or Deferred) is wanted at the edge.
package aggregate

import (
	"context"

	"github.com/mpetters/lazyseq/seq/core"
)

// Reduce creates an Operator folding the sequence with the first
// element as the initial accumulator. An empty input yields
// ErrEmptySequence; a reducer error ends the sequence with that error.
func Reduce[T any](reducer func(acc, elem T) (T, error)) core.Operator[T, T] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[T] {
		out := make(chan core.Item[T], 1)
		go func() {
			defer close(out)
			var acc T
			hasAcc := false

			for it := range in {
				if it.IsErr() {
					select {
					case <-ctx.Done():
					case out <- it:
					}
					return
				}
				if !hasAcc {
					acc = it.Value()
					hasAcc = true
					continue
				}
				next, err := reducer(acc, it.Value())
				if err != nil {
					select {
					case <-ctx.Done():
					case out <- core.Fail[T](err):
					}
					return
				}
				acc = next
			}

			if !hasAcc {
				select {
				case <-ctx.Done():
				case out <- core.Fail[T](core.ErrEmptySequence):
				}
				return
			}
			select {
			case <-ctx.Done():
			case out <- core.Val(acc):
			}
		}()
		return out
	})
}

// Fold creates an Operator folding the sequence from an explicit seed.
// An empty input emits the seed itself.
func Fold[T, A any](seed A, reducer func(acc A, elem T) (A, error)) core.Operator[T, A] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[A] {
		out := make(chan core.Item[A], 1)
		go func() {
			defer close(out)
			acc := seed

			for it := range in {
				if it.IsErr() {
					select {
					case <-ctx.Done():
					case out <- core.Recast[T, A](it):
					}
					return
				}
				next, err := reducer(acc, it.Value())
				if err != nil {
					select {
					case <-ctx.Done():
					case out <- core.Fail[A](err):
					}
					return
				}
				acc = next
			}

			select {
			case <-ctx.Done():
			case out <- core.Val(acc):
			}
		}()
		return out
	})
}

// Scan is Fold emitting every intermediate accumulator instead of only
// the final one. The seed itself is not emitted.
func Scan[T, A any](seed A, reducer func(acc A, elem T) (A, error)) core.Operator[T, A] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[A] {
		out := make(chan core.Item[A], core.DefaultBufferSize)
		go func() {
			defer close(out)
			acc := seed

			for it := range in {
				if it.IsErr() {
					select {
					case <-ctx.Done():
					case out <- core.Recast[T, A](it):
					}
					return
				}
				next, err := reducer(acc, it.Value())
				if err != nil {
					select {
					case <-ctx.Done():
					case out <- core.Fail[A](err):
					}
					return
				}
				acc = next
				select {
				case <-ctx.Done():
					return
				case out <- core.Val(acc):
				}
			}
		}()
		return out
	})
}

// Count emits the number of elements in the sequence.
func Count[T any]() core.Operator[T, int] {
	return Fold[T, int](0, func(acc int, _ T) (int, error) {
		return acc + 1, nil
	})
}

// Numeric constrains the element types Sum and Average work over.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Sum emits the sum of all elements; an empty sequence sums to zero.
func Sum[T Numeric]() core.Operator[T, T] {
	var zero T
	return Fold[T, T](zero, func(acc T, elem T) (T, error) {
		return acc + elem, nil
	})
}

// Average emits the arithmetic mean of all elements as float64; an
// empty sequence averages to zero.
func Average[T Numeric]() core.Operator[T, float64] {
	type state struct {
		sum   float64
		count int
	}
	avg := core.Transform(func(ctx context.Context, in <-chan core.Item[state]) <-chan core.Item[float64] {
		out := make(chan core.Item[float64], 1)
		go func() {
			defer close(out)
			for it := range in {
				if it.IsErr() {
					select {
					case <-ctx.Done():
					case out <- core.Recast[state, float64](it):
					}
					return
				}
				s := it.Value()
				var mean float64
				if s.count > 0 {
					mean = s.sum / float64(s.count)
				}
				select {
				case <-ctx.Done():
				case out <- core.Val(mean):
				}
			}
		}()
		return out
	})
	return chain2(Fold[T, state](state{}, func(s state, elem T) (state, error) {
		return state{sum: s.sum + float64(elem), count: s.count + 1}, nil
	}), avg)
}

func chain2[IN, MID, OUT any](op1 core.Operator[IN, MID], op2 core.Operator[MID, OUT]) core.Operator[IN, OUT] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[IN]) <-chan core.Item[OUT] {
		src := core.Produce(func(_ context.Context) <-chan core.Item[IN] { return in })
		return op2.Apply(ctx, op1.Apply(ctx, src)).Open(ctx)
	})
}

// Min emits the smallest element per the less function. An empty
// sequence yields ErrEmptySequence.
func Min[T any](less func(a, b T) bool) core.Operator[T, T] {
	return Reduce(func(acc, elem T) (T, error) {
		if less(elem, acc) {
			return elem, nil
		}
		return acc, nil
	})
}

// Max emits the largest element per the less function. An empty
// sequence yields ErrEmptySequence.
func Max[T any](less func(a, b T) bool) core.Operator[T, T] {
	return Reduce(func(acc, elem T) (T, error) {
		if less(acc, elem) {
			return elem, nil
		}
		return acc, nil
	})
}

// All emits true if every element satisfies the predicate (true for an
// empty sequence). Short-circuits on the first failing element.
func All[T any](predicate func(T) bool) core.Operator[T, bool] {
	return quantifier(predicate, true, false)
}

// Any emits true if at least one element satisfies the predicate.
// Short-circuits on the first match.
func Any[T any](predicate func(T) bool) core.Operator[T, bool] {
	return quantifier(predicate, false, true)
}

// None emits true if no element satisfies the predicate.
func None[T any](predicate func(T) bool) core.Operator[T, bool] {
	return quantifier(predicate, true, true)
}

// quantifier folds a predicate over the sequence: the result starts at
// initial and flips to !initial on the first element whose predicate
// outcome equals flipOn, after which the remaining input is drained.
func quantifier[T any](predicate func(T) bool, initial, flipOn bool) core.Operator[T, bool] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[bool] {
		out := make(chan core.Item[bool], 1)
		go func() {
			defer close(out)
			result := initial

			for it := range in {
				if it.IsErr() {
					select {
					case <-ctx.Done():
					case out <- core.Recast[T, bool](it):
					}
					return
				}
				if predicate(it.Value()) == flipOn {
					result = !initial
					// Drain the rest; producers stop on context
					// cancellation from the consumer side.
					for range in {
					}
					break
				}
			}

			select {
			case <-ctx.Done():
			case out <- core.Val(result):
			}
		}()
		return out
	})
}
