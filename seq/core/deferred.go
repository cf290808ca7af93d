package core

import (
	"context"
	"sync"
)

// Deferred is a value not yet available: it settles exactly once with
// either a value or an error, and every observer after settlement sees
// the same outcome. Folds over async sequences return a Deferred; folds
// over eager sequences return an already-settled one, so the caller can
// use a single shape for both calling conventions.
type Deferred[T any] struct {
	done chan struct{}

	once  sync.Once
	value T
	err   error
}

// NewDeferred creates an unsettled Deferred together with its settle
// function. Settle is safe to call more than once; only the first call
// takes effect.
func NewDeferred[T any]() (*Deferred[T], func(T, error)) {
	d := &Deferred[T]{done: make(chan struct{})}
	return d, d.settle
}

// Settled returns a Deferred already resolved with a value. No
// goroutine is involved; Await returns immediately.
func Settled[T any](value T) *Deferred[T] {
	d, settle := NewDeferred[T]()
	settle(value, nil)
	return d
}

// Broken returns a Deferred already rejected with err.
func Broken[T any](err error) *Deferred[T] {
	d, settle := NewDeferred[T]()
	var zero T
	settle(zero, err)
	return d
}

func (d *Deferred[T]) settle(value T, err error) {
	d.once.Do(func() {
		d.value = value
		d.err = err
		close(d.done)
	})
}

// Done returns a channel closed when the Deferred settles.
func (d *Deferred[T]) Done() <-chan struct{} {
	return d.done
}

// IsSettled reports whether the Deferred has settled, without blocking.
func (d *Deferred[T]) IsSettled() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// Await blocks until the Deferred settles or ctx is cancelled. On
// cancellation it returns ctx.Err(); the underlying computation keeps
// its own context and is cancelled through that, not through Await.
func (d *Deferred[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-d.done:
		return d.value, d.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// MustNow returns the settled outcome and panics if the Deferred is
// still pending. Intended for the eager path, where settlement is
// guaranteed before the Deferred is returned.
func (d *Deferred[T]) MustNow() (T, error) {
	if !d.IsSettled() {
		panic("core.Deferred: MustNow on a pending deferred")
	}
	return d.value, d.err
}
