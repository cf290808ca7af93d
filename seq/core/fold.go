package core

import (
	"context"
	"errors"
)

// StepFunc is the reducer shape used by the fold primitives: it combines
// the running accumulator with one element and returns the next
// accumulator, or an error that aborts the fold. It may suspend on ctx.
type StepFunc[A, T any] func(ctx context.Context, acc A, elem T) (A, error)

// FoldCursor is the seeded fold-over-sequence primitive. It consumes
// the cursor left to right and applies step strictly sequentially: no
// call to step begins before the previous one returned. The first error
// from the cursor or from step aborts the fold and is returned
// unchanged, with no partial accumulator. The cursor is always released
// before returning.
func FoldCursor[A, T any](ctx context.Context, cur Cursor[T], step StepFunc[A, T], seed A) (A, error) {
	defer cur.Close()

	acc := seed
	for {
		elem, err := cur.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrEndOfSeq) {
				return acc, nil
			}
			var zero A
			return zero, err
		}
		acc, err = step(ctx, acc, elem)
		if err != nil {
			var zero A
			return zero, err
		}
	}
}

// FoldCursor1 is the unseeded fold primitive: the first element becomes
// the initial accumulator and step is first applied to the second
// element. An exhausted cursor with no elements yields ErrEmptySequence.
func FoldCursor1[T any](ctx context.Context, cur Cursor[T], step StepFunc[T, T]) (T, error) {
	first, err := cur.Next(ctx)
	if err != nil {
		cur.Close()
		var zero T
		if errors.Is(err, ErrEndOfSeq) {
			return zero, ErrEmptySequence
		}
		return zero, err
	}
	return FoldCursor(ctx, cur, step, first)
}
