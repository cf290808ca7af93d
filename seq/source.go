package seq

import (
	"context"
	"iter"
	"time"

	"github.com/mpetters/lazyseq/seq/core"
)

// FromSlice creates an AsyncSeq that emits each element of the slice.
// Small slices are loaded into a fully-buffered channel up front, which
// avoids a producer goroutine entirely.
func FromSlice[T any](items []T) AsyncSeq[T] {
	const maxPrefill = 512

	return Produce(func(ctx context.Context) <-chan Item[T] {
		if len(items) <= maxPrefill {
			out := make(chan Item[T], len(items))
			for _, item := range items {
				out <- Val(item)
			}
			close(out)
			return out
		}

		out := make(chan Item[T], maxPrefill)
		go func() {
			defer close(out)
			for _, item := range items {
				select {
				case <-ctx.Done():
					return
				case out <- Val(item):
				}
			}
		}()
		return out
	})
}

// ToAsync adapts a synchronous sequence into an asynchronous one. The
// elements are unchanged; only the calling convention shifts, so a fold
// over the result takes the deferred path. A terminal error in the
// synchronous sequence becomes a terminal error item.
func ToAsync[T any](s Seq[T]) AsyncSeq[T] {
	return Produce(func(ctx context.Context) <-chan Item[T] {
		out := make(chan Item[T], core.DefaultBufferSize)
		go func() {
			defer close(out)
			s(func(v T, err error) bool {
				if err != nil {
					select {
					case <-ctx.Done():
					case out <- FailItem[T](err):
					}
					return false
				}
				select {
				case <-ctx.Done():
					return false
				case out <- Val(v):
					return true
				}
			})
		}()
		return out
	})
}

// FromSeq creates an AsyncSeq emitting the elements of a standard
// iterator.
func FromSeq[T any](s iter.Seq[T]) AsyncSeq[T] {
	return ToAsync(SeqOf(s))
}

// FromChannel creates an AsyncSeq that emits values received from ch.
// The sequence ends when ch is closed; the caller owns closing it.
func FromChannel[T any](ch <-chan T) AsyncSeq[T] {
	return Produce(func(ctx context.Context) <-chan Item[T] {
		out := make(chan Item[T])
		go func() {
			defer close(out)
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-ch:
					if !ok {
						return
					}
					select {
					case <-ctx.Done():
						return
					case out <- Val(v):
					}
				}
			}
		}()
		return out
	})
}

// Empty creates an AsyncSeq that ends immediately with no elements.
func Empty[T any]() AsyncSeq[T] {
	return Produce(func(ctx context.Context) <-chan Item[T] {
		out := make(chan Item[T])
		close(out)
		return out
	})
}

// Once creates an AsyncSeq that emits a single value and ends.
func Once[T any](value T) AsyncSeq[T] {
	return FromSlice([]T{value})
}

// Fail creates an AsyncSeq that immediately fails with err.
func Fail[T any](err error) AsyncSeq[T] {
	return Produce(func(ctx context.Context) <-chan Item[T] {
		out := make(chan Item[T], 1)
		out <- FailItem[T](err)
		close(out)
		return out
	})
}

// Generate creates an AsyncSeq that lazily produces elements from fn.
// fn returns the next value and true to continue, or false to end the
// sequence. A non-nil error ends the sequence with that error.
func Generate[T any](fn func() (T, bool, error)) AsyncSeq[T] {
	return Produce(func(ctx context.Context) <-chan Item[T] {
		out := make(chan Item[T])
		go func() {
			defer close(out)
			for {
				value, ok, err := fn()
				if err != nil {
					select {
					case <-ctx.Done():
					case out <- FailItem[T](err):
					}
					return
				}
				if !ok {
					return
				}
				select {
				case <-ctx.Done():
					return
				case out <- Val(value):
				}
			}
		}()
		return out
	})
}

// Unfold creates an AsyncSeq by unfolding a state value. fn receives
// the current state and returns the element to emit, the next state,
// and whether to continue. A non-nil error ends the sequence with that
// error.
func Unfold[T, S any](state S, fn func(S) (T, S, bool, error)) AsyncSeq[T] {
	return Produce(func(ctx context.Context) <-chan Item[T] {
		out := make(chan Item[T])
		go func() {
			defer close(out)
			s := state
			for {
				value, next, ok, err := fn(s)
				if err != nil {
					select {
					case <-ctx.Done():
					case out <- FailItem[T](err):
					}
					return
				}
				if !ok {
					return
				}
				select {
				case <-ctx.Done():
					return
				case out <- Val(value):
				}
				s = next
			}
		}()
		return out
	})
}

// Iterate creates an AsyncSeq emitting seed, fn(seed), fn(fn(seed)), ...
// indefinitely, until context cancellation.
func Iterate[T any](seed T, fn func(T) T) AsyncSeq[T] {
	return Produce(func(ctx context.Context) <-chan Item[T] {
		out := make(chan Item[T])
		go func() {
			defer close(out)
			current := seed
			for {
				select {
				case <-ctx.Done():
					return
				case out <- Val(current):
					current = fn(current)
				}
			}
		}()
		return out
	})
}

// IterateN is Iterate bounded to n emissions.
func IterateN[T any](seed T, fn func(T) T, n int) AsyncSeq[T] {
	return Produce(func(ctx context.Context) <-chan Item[T] {
		out := make(chan Item[T])
		go func() {
			defer close(out)
			current := seed
			for i := 0; i < n; i++ {
				select {
				case <-ctx.Done():
					return
				case out <- Val(current):
					current = fn(current)
				}
			}
		}()
		return out
	})
}

// Range creates an AsyncSeq of integers from start (inclusive) to end
// (exclusive).
func Range(start, end int) AsyncSeq[int] {
	return RangeStep(start, end, 1)
}

// RangeStep is Range with a custom step. A zero step or a step pointing
// away from end produces an empty sequence.
func RangeStep(start, end, step int) AsyncSeq[int] {
	return Produce(func(ctx context.Context) <-chan Item[int] {
		out := make(chan Item[int])
		go func() {
			defer close(out)
			if step == 0 {
				return
			}
			if step > 0 && start >= end {
				return
			}
			if step < 0 && start <= end {
				return
			}
			for i := start; (step > 0 && i < end) || (step < 0 && i > end); i += step {
				select {
				case <-ctx.Done():
					return
				case out <- Val(i):
				}
			}
		}()
		return out
	})
}

// Repeat creates an AsyncSeq emitting value n times. A negative n
// repeats until context cancellation.
func Repeat[T any](value T, n int) AsyncSeq[T] {
	return Produce(func(ctx context.Context) <-chan Item[T] {
		out := make(chan Item[T])
		go func() {
			defer close(out)
			for count := 0; n < 0 || count < n; count++ {
				select {
				case <-ctx.Done():
					return
				case out <- Val(value):
				}
			}
		}()
		return out
	})
}

// KeyValue is one entry of a map, emitted by FromMap.
type KeyValue[K comparable, V any] struct {
	Key   K
	Value V
}

// FromMap creates an AsyncSeq of the map's entries. Emission order is
// non-deterministic, per Go map iteration.
func FromMap[K comparable, V any](m map[K]V) AsyncSeq[KeyValue[K, V]] {
	return Produce(func(ctx context.Context) <-chan Item[KeyValue[K, V]] {
		out := make(chan Item[KeyValue[K, V]])
		go func() {
			defer close(out)
			for k, v := range m {
				select {
				case <-ctx.Done():
					return
				case out <- Val(KeyValue[K, V]{Key: k, Value: v}):
				}
			}
		}()
		return out
	})
}

// Concat emits every element of each sequence in order, one sequence
// after another. A terminal error in any sequence ends the whole
// concatenation.
func Concat[T any](seqs ...AsyncSeq[T]) AsyncSeq[T] {
	return Produce(func(ctx context.Context) <-chan Item[T] {
		out := make(chan Item[T])
		go func() {
			defer close(out)
			for _, s := range seqs {
				for it := range s.Open(ctx) {
					select {
					case <-ctx.Done():
						return
					case out <- it:
					}
					if it.IsErr() {
						return
					}
				}
			}
		}()
		return out
	})
}

// DeferSeq creates an AsyncSeq lazily, calling factory each time the
// sequence is opened.
func DeferSeq[T any](factory func() AsyncSeq[T]) AsyncSeq[T] {
	return Produce(func(ctx context.Context) <-chan Item[T] {
		return factory().Open(ctx)
	})
}

// Ticker creates an AsyncSeq emitting sequential integers at the given
// period, indefinitely, until context cancellation. The first value (0)
// is emitted after one period.
func Ticker(period time.Duration) AsyncSeq[int] {
	return Produce(func(ctx context.Context) <-chan Item[int] {
		out := make(chan Item[int])
		go func() {
			defer close(out)
			ticker := time.NewTicker(period)
			defer ticker.Stop()
			count := 0
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					select {
					case <-ctx.Done():
						return
					case out <- Val(count):
						count++
					}
				}
			}
		}()
		return out
	})
}
