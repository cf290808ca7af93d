// Package seqerrors provides error-focused operators and helpers for
// async sequences. Errors in lazyseq are terminal: a sequence carries at
// most one error and nothing after it. These operators observe,
// reshape, or replace that terminal error; none of them resume the
// upstream sequence, which has already stopped producing.
package seqerrors

import (
	"context"
	"errors"

	"github.com/mpetters/lazyseq/seq/core"
)

// IsEmptySequence reports whether err is the unseeded-fold-over-empty
// failure.
func IsEmptySequence(err error) bool {
	return errors.Is(err, core.ErrEmptySequence)
}

// IsPanic reports whether err wraps a recovered panic, returning the
// panic payload when it does.
func IsPanic(err error) (any, bool) {
	var pe core.PanicError
	if errors.As(err, &pe) {
		return pe.Value, true
	}
	return nil, false
}

// OnError creates an Operator calling handler when the terminal error
// passes through. The handler is for side effects; the error continues
// downstream unchanged.
func OnError[T any](handler func(error)) core.Operator[T, T] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[T] {
		out := make(chan core.Item[T], core.DefaultBufferSize)
		go func() {
			defer close(out)
			for it := range in {
				if it.IsErr() {
					handler(it.Err())
					select {
					case <-ctx.Done():
					case out <- it:
					}
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

// MapError creates an Operator transforming the terminal error with
// mapper. Values pass through unchanged. Returning nil from mapper
// keeps the original error; silently swallowing a terminal error is not
// something a mapper can do.
func MapError[T any](mapper func(error) error) core.Operator[T, T] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[T] {
		out := make(chan core.Item[T], core.DefaultBufferSize)
		go func() {
			defer close(out)
			for it := range in {
				if it.IsErr() {
					mapped := mapper(it.Err())
					if mapped == nil {
						mapped = it.Err()
					}
					select {
					case <-ctx.Done():
					case out <- core.Fail[T](mapped):
					}
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

// RecoverWith creates an Operator replacing a terminal error matching
// the predicate with a single fallback value, after which the sequence
// ends normally. Non-matching errors pass through.
func RecoverWith[T any](predicate func(error) bool, fallback func(error) T) core.Operator[T, T] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[T] {
		out := make(chan core.Item[T], core.DefaultBufferSize)
		go func() {
			defer close(out)
			for it := range in {
				if it.IsErr() {
					if predicate(it.Err()) {
						select {
						case <-ctx.Done():
						case out <- core.Val(fallback(it.Err())):
						}
					} else {
						select {
						case <-ctx.Done():
						case out <- it:
						}
					}
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

// RecoverAny is RecoverWith matching every error.
func RecoverAny[T any](fallback func(error) T) core.Operator[T, T] {
	return RecoverWith(func(error) bool { return true }, fallback)
}

// Ignore creates an Operator that drops the terminal error, ending the
// sequence as if it had been exhausted normally.
func Ignore[T any]() core.Operator[T, T] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[T] {
		out := make(chan core.Item[T], core.DefaultBufferSize)
		go func() {
			defer close(out)
			for it := range in {
				if it.IsErr() {
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

// Must unwraps a fold or terminal result, panicking on error. For
// program setup paths where the sequence is known to succeed.
func Must[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}
