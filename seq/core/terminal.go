package core

import (
	"context"
)

// Terminal functions consume a sequence and produce a final result: a
// slice of every element, the first element, or nothing but the side
// effects of production.

// Collect drains an async sequence into a slice. It stops at the first
// terminal error and returns it with no partial results.
func Collect[OUT any](ctx context.Context, in AsyncSeq[OUT]) ([]OUT, error) {
	// Cancellable so production stops as soon as an error surfaces.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var out []OUT
	for it := range in.Open(ctx) {
		if it.IsErr() {
			return nil, it.Err()
		}
		out = append(out, it.Value())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// First returns the first element of an async sequence, or
// ErrEndOfSeq when the sequence is empty.
func First[OUT any](ctx context.Context, in AsyncSeq[OUT]) (OUT, error) {
	var zero OUT

	// Cancellable so production stops after one element.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	it, ok := <-in.Open(ctx)
	switch {
	case !ok:
		return zero, ErrEndOfSeq
	case it.IsErr():
		return zero, it.Err()
	default:
		return it.Value(), nil
	}
}

// Drain runs an async sequence for its side effects only, returning the
// first terminal error if any.
func Drain[OUT any](ctx context.Context, in AsyncSeq[OUT]) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for it := range in.Open(ctx) {
		if it.IsErr() {
			return it.Err()
		}
	}
	return ctx.Err()
}

// CollectSeq drains a synchronous sequence into a slice, stopping at
// the first error.
func CollectSeq[T any](s Seq[T]) ([]T, error) {
	var out []T
	var firstErr error
	s(func(v T, err error) bool {
		if err != nil {
			firstErr = err
			return false
		}
		out = append(out, v)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
