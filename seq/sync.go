package seq

import (
	"context"
	"errors"
	"iter"
)

// Constructors for synchronous sequences. A Seq is just a push
// iterator; these helpers wrap the common shapes.

// Of creates a Seq over the given elements.
func Of[T any](items ...T) Seq[T] {
	return SliceSeq(items)
}

// SliceSeq creates a Seq over a slice.
func SliceSeq[T any](items []T) Seq[T] {
	return func(yield func(T, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}

// SeqOf adapts a Go iterator into a Seq.
func SeqOf[T any](s iter.Seq[T]) Seq[T] {
	return func(yield func(T, error) bool) {
		for v := range s {
			if !yield(v, nil) {
				return
			}
		}
	}
}

// SeqOf2 adapts a value/error Go iterator into a Seq.
func SeqOf2[T any](s iter.Seq2[T, error]) Seq[T] {
	return Seq[T](s)
}

// SeqErr creates a Seq that fails immediately with err.
func SeqErr[T any](err error) Seq[T] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}

// RangeSeq creates a Seq of integers from start (inclusive) to end
// (exclusive).
func RangeSeq(start, end int) Seq[int] {
	return func(yield func(int, error) bool) {
		for i := start; i < end; i++ {
			if !yield(i, nil) {
				return
			}
		}
	}
}

// CollectAsync drains an async sequence into a slice. It is the inverse
// adaptation of ToAsync; the name keeps the pairing visible at call
// sites.
func CollectAsync[T any](ctx context.Context, s AsyncSeq[T]) ([]T, error) {
	return Collect(ctx, s)
}

// ToSeq adapts an AsyncSeq into a Seq by draining it under the given
// context. The result is eager only in shape: opening it still consumes
// the async producer element by element.
func ToSeq[T any](ctx context.Context, s AsyncSeq[T]) Seq[T] {
	return func(yield func(T, error) bool) {
		cur := AsSequence(s).Pull(ctx)
		defer cur.Close()
		for {
			v, err := cur.Next(ctx)
			if err != nil {
				if !errors.Is(err, ErrEndOfSeq) {
					var zero T
					yield(zero, err)
				}
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}
