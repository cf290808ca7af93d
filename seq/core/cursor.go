package core

import (
	"context"
	"iter"
)

// Seq is a synchronous sequence: a push iterator in the style of
// iter.Seq2, yielding elements until exhaustion or a first error.
// Iteration never suspends; every element is available the moment it is
// asked for. A Seq is consumed at most once per fold but the function
// value itself is reusable unless it closes over one-shot state.
type Seq[T any] func(yield func(T, error) bool)

// Cursor is the capability-polymorphic pull interface over a sequence:
// one "give me the next element, possibly suspending" operation plus a
// release. Next returns ErrEndOfSeq once the sequence is exhausted and
// any other error exactly as the sequence produced it. Close releases
// the iteration resource; it is idempotent and must be called when a
// consumer abandons the cursor before exhaustion.
type Cursor[T any] interface {
	Next(ctx context.Context) (T, error)
	Close()
}

// Sequence bundles a sequence with its scheduling capability. Eager
// sequences never suspend in Next, so results computed from them can be
// delivered in the synchronous calling convention. Both Seq and
// AsyncSeq adapt to Sequence; code written once against it behaves
// identically for either kind.
type Sequence[T any] interface {
	Pull(ctx context.Context) Cursor[T]
	Eager() bool
}

// Pull starts consumption of a synchronous sequence.
func (s Seq[T]) Pull(_ context.Context) Cursor[T] {
	next, stop := iter.Pull2(iter.Seq2[T, error](s))
	return &seqCursor[T]{next: next, stop: stop}
}

// Eager reports true: a Seq never suspends.
func (s Seq[T]) Eager() bool { return true }

type seqCursor[T any] struct {
	next func() (T, error, bool)
	stop func()
	done bool
}

func (c *seqCursor[T]) Next(_ context.Context) (T, error) {
	var zero T
	if c.done {
		return zero, ErrEndOfSeq
	}
	v, err, ok := c.next()
	if !ok {
		c.done = true
		return zero, ErrEndOfSeq
	}
	if err != nil {
		c.done = true
		c.stop()
		return zero, err
	}
	return v, nil
}

func (c *seqCursor[T]) Close() {
	if !c.done {
		c.done = true
		c.stop()
	}
}

// sliceCursor is the cheapest eager cursor: an index over a slice.
type sliceCursor[T any] struct {
	items []T
	pos   int
}

// SliceCursor returns an eager Cursor over a slice.
func SliceCursor[T any](items []T) Cursor[T] {
	return &sliceCursor[T]{items: items}
}

func (c *sliceCursor[T]) Next(_ context.Context) (T, error) {
	if c.pos >= len(c.items) {
		var zero T
		return zero, ErrEndOfSeq
	}
	v := c.items[c.pos]
	c.pos++
	return v, nil
}

func (c *sliceCursor[T]) Close() {
	c.pos = len(c.items)
}

// chanCursor pulls from an async sequence channel. Close cancels the
// producer so abandoning a fold does not leak its goroutine.
type chanCursor[T any] struct {
	ch     <-chan Item[T]
	cancel context.CancelFunc
	done   bool
}

func (c *chanCursor[T]) Next(ctx context.Context) (T, error) {
	var zero T
	if c.done {
		return zero, ErrEndOfSeq
	}
	select {
	case <-ctx.Done():
		c.Close()
		return zero, ctx.Err()
	case it, ok := <-c.ch:
		if !ok {
			c.done = true
			return zero, ErrEndOfSeq
		}
		if it.IsErr() {
			c.done = true
			c.cancel()
			return zero, it.Err()
		}
		return it.Value(), nil
	}
}

func (c *chanCursor[T]) Close() {
	if c.done {
		return
	}
	c.done = true
	c.cancel()
	// Drain so the producer is not blocked on a send racing the cancel.
	go func(ch <-chan Item[T]) {
		for range ch {
		}
	}(c.ch)
}
