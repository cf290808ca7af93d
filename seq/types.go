// Package seq provides lazy, composable operations over synchronous and
// asynchronous sequences: curried folds, pipe-style composition, and
// adapters between the two sequence kinds.
//
// This package is the primary user-facing API. Most users should only
// need to import this package. The seq/core subpackage contains
// low-level abstractions that are rarely needed directly.
package seq

import (
	"context"

	"github.com/mpetters/lazyseq/seq/core"
)

// Type aliases for core abstractions. These let users work with the
// library without importing core directly.
type (
	// Item is the unit carried on async sequence channels: a value or a
	// terminal error.
	Item[T any] = core.Item[T]

	// Seq is a synchronous sequence; iteration never suspends.
	Seq[T any] = core.Seq[T]

	// AsyncSeq is an asynchronous sequence of deferred-availability
	// elements.
	AsyncSeq[T any] = core.AsyncSeq[T]

	// Operator transforms an AsyncSeq of IN into an AsyncSeq of OUT.
	Operator[IN, OUT any] = core.Operator[IN, OUT]

	// Source produces a channel of Items and implements AsyncSeq.
	Source[T any] = core.Source[T]

	// Stage transforms one channel of Items into another and implements
	// Operator.
	Stage[IN, OUT any] = core.Stage[IN, OUT]

	// Cursor is the pull interface shared by both sequence kinds.
	Cursor[T any] = core.Cursor[T]

	// Sequence bundles a sequence with its scheduling capability.
	Sequence[T any] = core.Sequence[T]

	// Deferred is a value that settles later with a result or an error.
	Deferred[T any] = core.Deferred[T]
)

// ErrEndOfSeq is the sentinel returned by cursors at exhaustion.
var ErrEndOfSeq = core.ErrEndOfSeq

// ErrEmptySequence is returned by an unseeded fold over an empty
// sequence.
var ErrEmptySequence = core.ErrEmptySequence

// Item constructors.

// Val creates a value Item.
func Val[T any](value T) Item[T] {
	return core.Val(value)
}

// FailItem creates a terminal error Item.
func FailItem[T any](err error) Item[T] {
	return core.Fail[T](err)
}

// Source/Stage constructors.

// Produce adapts a channel-producing function into a Source.
func Produce[T any](source func(context.Context) <-chan Item[T]) Source[T] {
	return core.Produce(source)
}

// Transform adapts a channel-transforming function into a Stage.
func Transform[IN, OUT any](stage func(context.Context, <-chan Item[IN]) <-chan Item[OUT]) Stage[IN, OUT] {
	return core.Transform(stage)
}

// Terminal operations.

// Collect drains an async sequence into a slice, stopping at the first
// terminal error.
func Collect[T any](ctx context.Context, in AsyncSeq[T]) ([]T, error) {
	return core.Collect(ctx, in)
}

// First returns the first element of an async sequence.
func First[T any](ctx context.Context, in AsyncSeq[T]) (T, error) {
	return core.First(ctx, in)
}

// Drain runs an async sequence for its side effects only.
func Drain[T any](ctx context.Context, in AsyncSeq[T]) error {
	return core.Drain(ctx, in)
}

// CollectSeq drains a synchronous sequence into a slice.
func CollectSeq[T any](s Seq[T]) ([]T, error) {
	return core.CollectSeq(s)
}

// AsSequence wraps an AsyncSeq as a non-eager Sequence for uniform
// handling next to Seq values.
func AsSequence[T any](s AsyncSeq[T]) Sequence[T] {
	return core.AsSequence(s)
}
