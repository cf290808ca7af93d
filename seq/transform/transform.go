// Package transform provides element-wise operators for async
// sequences: mapping, filtering, slicing, and grouping. Every operator
// follows the terminal-error discipline: the first error item is
// forwarded downstream and the stage stops consuming.
package transform

import (
	"context"

	"github.com/mpetters/lazyseq/seq/core"
)

// Map creates an Operator applying fn to each element (1:1). An error
// from fn ends the sequence with that error. A panic in fn is recovered
// into a PanicError.
func Map[IN, OUT any](fn func(IN) (OUT, error)) core.Operator[IN, OUT] {
	return MapCtx(func(_ context.Context, v IN) (OUT, error) {
		return fn(v)
	})
}

// MapCtx is Map for functions that may suspend on the context.
func MapCtx[IN, OUT any](fn func(context.Context, IN) (OUT, error), opts ...core.StageOption) core.Operator[IN, OUT] {
	cfg := core.ApplyOptions(opts...)
	return core.Transform(func(ctx context.Context, in <-chan core.Item[IN]) <-chan core.Item[OUT] {
		out := make(chan core.Item[OUT], cfg.BufferSize)
		go func() {
			defer close(out)
			for it := range in {
				if it.IsErr() {
					select {
					case <-ctx.Done():
					case out <- core.Recast[IN, OUT](it):
					}
					return
				}

				mapped, err := applyMap(ctx, fn, it.Value())
				if err != nil {
					select {
					case <-ctx.Done():
					case out <- core.Fail[OUT](err):
					}
					return
				}
				select {
				case <-ctx.Done():
					return
				case out <- core.Val(mapped):
				}
			}
		}()
		return out
	})
}

func applyMap[IN, OUT any](ctx context.Context, fn func(context.Context, IN) (OUT, error), v IN) (out OUT, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = core.NewPanicError(r)
		}
	}()
	return fn(ctx, v)
}

// FlatMap creates an Operator applying fn to each element and emitting
// every element of the returned slice in order (1:N).
func FlatMap[IN, OUT any](fn func(IN) ([]OUT, error)) core.Operator[IN, OUT] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[IN]) <-chan core.Item[OUT] {
		out := make(chan core.Item[OUT], core.DefaultBufferSize)
		go func() {
			defer close(out)
			for it := range in {
				if it.IsErr() {
					select {
					case <-ctx.Done():
					case out <- core.Recast[IN, OUT](it):
					}
					return
				}

				values, err := fn(it.Value())
				if err != nil {
					select {
					case <-ctx.Done():
					case out <- core.Fail[OUT](err):
					}
					return
				}
				for _, v := range values {
					select {
					case <-ctx.Done():
						return
					case out <- core.Val(v):
					}
				}
			}
		}()
		return out
	})
}

// Filter creates an Operator that keeps only elements for which the
// predicate returns true.
func Filter[T any](predicate func(T) bool, opts ...core.StageOption) core.Operator[T, T] {
	cfg := core.ApplyOptions(opts...)
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[T] {
		out := make(chan core.Item[T], cfg.BufferSize)
		go func() {
			defer close(out)
			for it := range in {
				if it.IsErr() {
					select {
					case <-ctx.Done():
					case out <- it:
					}
					return
				}
				if !predicate(it.Value()) {
					continue
				}
				select {
				case <-ctx.Done():
					return
				case out <- it:
				}
			}
		}()
		return out
	})
}

// Take creates an Operator passing through only the first n elements.
// With n <= 0 the sequence is empty.
func Take[T any](n int) core.Operator[T, T] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[T] {
		out := make(chan core.Item[T])
		go func() {
			defer close(out)
			if n <= 0 {
				return
			}
			count := 0
			for it := range in {
				select {
				case <-ctx.Done():
					return
				case out <- it:
				}
				if it.IsErr() {
					return
				}
				count++
				if count >= n {
					return
				}
			}
		}()
		return out
	})
}

// TakeWhile passes elements through while the predicate holds, then
// ends the sequence without consuming further elements.
func TakeWhile[T any](predicate func(T) bool) core.Operator[T, T] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[T] {
		out := make(chan core.Item[T])
		go func() {
			defer close(out)
			for it := range in {
				if it.IsErr() {
					select {
					case <-ctx.Done():
					case out <- it:
					}
					return
				}
				if !predicate(it.Value()) {
					return
				}
				select {
				case <-ctx.Done():
					return
				case out <- it:
				}
			}
		}()
		return out
	})
}

// Drop skips the first n elements.
func Drop[T any](n int) core.Operator[T, T] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[T] {
		out := make(chan core.Item[T], core.DefaultBufferSize)
		go func() {
			defer close(out)
			skipped := 0
			for it := range in {
				if it.IsErr() {
					select {
					case <-ctx.Done():
					case out <- it:
					}
					return
				}
				if skipped < n {
					skipped++
					continue
				}
				select {
				case <-ctx.Done():
					return
				case out <- it:
				}
			}
		}()
		return out
	})
}

// DropWhile skips elements while the predicate holds, then passes
// everything through.
func DropWhile[T any](predicate func(T) bool) core.Operator[T, T] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[T] {
		out := make(chan core.Item[T], core.DefaultBufferSize)
		go func() {
			defer close(out)
			dropping := true
			for it := range in {
				if it.IsErr() {
					select {
					case <-ctx.Done():
					case out <- it:
					}
					return
				}
				if dropping {
					if predicate(it.Value()) {
						continue
					}
					dropping = false
				}
				select {
				case <-ctx.Done():
					return
				case out <- it:
				}
			}
		}()
		return out
	})
}

// Distinct drops elements already seen, using the key function for
// identity. Memory grows with the number of distinct keys.
func Distinct[T any, K comparable](key func(T) K) core.Operator[T, T] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[T] {
		out := make(chan core.Item[T], core.DefaultBufferSize)
		go func() {
			defer close(out)
			seen := make(map[K]struct{})
			for it := range in {
				if it.IsErr() {
					select {
					case <-ctx.Done():
					case out <- it:
					}
					return
				}
				k := key(it.Value())
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				select {
				case <-ctx.Done():
					return
				case out <- it:
				}
			}
		}()
		return out
	})
}

// Chunk groups elements into slices of size n; the final chunk may be
// smaller. Each chunk has its own backing array, so callers may retain
// chunks freely. Panics if n is not positive.
func Chunk[T any](n int) core.Operator[T, []T] {
	if n <= 0 {
		panic("transform.Chunk: size must be positive")
	}
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[[]T] {
		out := make(chan core.Item[[]T])
		go func() {
			defer close(out)
			buf := make([]T, 0, n)
			for it := range in {
				if it.IsErr() {
					select {
					case <-ctx.Done():
					case out <- core.Recast[T, []T](it):
					}
					return
				}
				buf = append(buf, it.Value())
				if len(buf) == n {
					select {
					case <-ctx.Done():
						return
					case out <- core.Val(buf):
					}
					buf = make([]T, 0, n)
				}
			}
			if len(buf) > 0 {
				select {
				case <-ctx.Done():
				case out <- core.Val(buf):
				}
			}
		}()
		return out
	})
}

// Tap invokes fn for each element as a side effect; elements pass
// through unchanged.
func Tap[T any](fn func(T)) core.Operator[T, T] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[T] {
		out := make(chan core.Item[T], core.DefaultBufferSize)
		go func() {
			defer close(out)
			for it := range in {
				if it.IsErr() {
					select {
					case <-ctx.Done():
					case out <- it:
					}
					return
				}
				fn(it.Value())
				select {
				case <-ctx.Done():
					return
				case out <- it:
				}
			}
		}()
		return out
	})
}

// StartWith prepends values before the source sequence.
func StartWith[T any](values ...T) core.Operator[T, T] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[T] {
		out := make(chan core.Item[T])
		go func() {
			defer close(out)
			for _, v := range values {
				select {
				case <-ctx.Done():
					return
				case out <- core.Val(v):
				}
			}
			for it := range in {
				select {
				case <-ctx.Done():
					return
				case out <- it:
				}
				if it.IsErr() {
					return
				}
			}
		}()
		return out
	})
}

// EndWith appends values after the source sequence ends normally. A
// terminal error suppresses the appended values.
func EndWith[T any](values ...T) core.Operator[T, T] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[T] {
		out := make(chan core.Item[T])
		go func() {
			defer close(out)
			for it := range in {
				select {
				case <-ctx.Done():
					return
				case out <- it:
				}
				if it.IsErr() {
					return
				}
			}
			for _, v := range values {
				select {
				case <-ctx.Done():
					return
				case out <- core.Val(v):
				}
			}
		}()
		return out
	})
}

// Pairwise emits consecutive pairs: for elements e1, e2, e3 it emits
// [e1 e2], [e2 e3].
func Pairwise[T any]() core.Operator[T, [2]T] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[[2]T] {
		out := make(chan core.Item[[2]T])
		go func() {
			defer close(out)
			var prev T
			hasPrev := false
			for it := range in {
				if it.IsErr() {
					select {
					case <-ctx.Done():
					case out <- core.Recast[T, [2]T](it):
					}
					return
				}
				curr := it.Value()
				if hasPrev {
					select {
					case <-ctx.Done():
						return
					case out <- core.Val([2]T{prev, curr}):
					}
				}
				prev = curr
				hasPrev = true
			}
		}()
		return out
	})
}
