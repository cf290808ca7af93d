package core

import (
	"context"
)

// Hooks holds typed observation callbacks for a sequence. All fields are
// optional. Hooks are invoked synchronously during production, so they
// should be fast to avoid stalling the pipeline.
type Hooks[T any] struct {
	OnStart    func()      // production begins
	OnValue    func(T)     // element produced
	OnError    func(error) // terminal error produced
	OnComplete func()      // production finished (also on cancellation)
}

type hooksKey[T any] struct{}

type hooksContainer[T any] struct {
	hookSets []*Hooks[T]
}

// WithHooks attaches typed hooks to the context. Multiple calls compose
// in FIFO order: earlier hooks fire before later ones.
func WithHooks[T any](ctx context.Context, hooks Hooks[T]) context.Context {
	if ctx == nil {
		panic("nil context")
	}

	existing := hooksFrom[T](ctx)
	if existing == nil {
		return context.WithValue(ctx, hooksKey[T]{}, &hooksContainer[T]{
			hookSets: []*Hooks[T]{&hooks},
		})
	}

	merged := &hooksContainer[T]{
		hookSets: make([]*Hooks[T], len(existing.hookSets)+1),
	}
	copy(merged.hookSets, existing.hookSets)
	merged.hookSets[len(existing.hookSets)] = &hooks
	return context.WithValue(ctx, hooksKey[T]{}, merged)
}

func hooksFrom[T any](ctx context.Context) *hooksContainer[T] {
	if ctx == nil {
		return nil
	}
	if c, ok := ctx.Value(hooksKey[T]{}).(*hooksContainer[T]); ok {
		return c
	}
	return nil
}

// HookInvoker dispatches to every hook set registered for type T in
// FIFO order. The zero invoker (no hooks in context) is a no-op.
type HookInvoker[T any] struct {
	container *hooksContainer[T]
}

// NewHookInvoker captures the hooks registered in ctx. Call it once at
// the start of production, then invoke events through it.
func NewHookInvoker[T any](ctx context.Context) HookInvoker[T] {
	return HookInvoker[T]{container: hooksFrom[T](ctx)}
}

// HasAny reports whether any hooks are registered.
func (h HookInvoker[T]) HasAny() bool {
	return h.container != nil
}

// Start fires all OnStart hooks.
func (h HookInvoker[T]) Start() {
	if h.container == nil {
		return
	}
	for _, hooks := range h.container.hookSets {
		if hooks.OnStart != nil {
			hooks.OnStart()
		}
	}
}

// Value fires all OnValue hooks.
func (h HookInvoker[T]) Value(v T) {
	if h.container == nil {
		return
	}
	for _, hooks := range h.container.hookSets {
		if hooks.OnValue != nil {
			hooks.OnValue(v)
		}
	}
}

// Error fires all OnError hooks.
func (h HookInvoker[T]) Error(err error) {
	if h.container == nil {
		return
	}
	for _, hooks := range h.container.hookSets {
		if hooks.OnError != nil {
			hooks.OnError(err)
		}
	}
}

// Complete fires all OnComplete hooks.
func (h HookInvoker[T]) Complete() {
	if h.container == nil {
		return
	}
	for _, hooks := range h.container.hookSets {
		if hooks.OnComplete != nil {
			hooks.OnComplete()
		}
	}
}

// SafeHooks wraps Hooks so that a panicking hook cannot crash the
// pipeline. If panicHandler is nil, panics are silently recovered.
func SafeHooks[T any](hooks Hooks[T], panicHandler func(any)) Hooks[T] {
	if panicHandler == nil {
		panicHandler = func(any) {}
	}

	guard := func(fn func()) {
		defer func() {
			if r := recover(); r != nil {
				panicHandler(r)
			}
		}()
		fn()
	}

	var safe Hooks[T]
	if hooks.OnStart != nil {
		inner := hooks.OnStart
		safe.OnStart = func() { guard(inner) }
	}
	if hooks.OnValue != nil {
		inner := hooks.OnValue
		safe.OnValue = func(v T) { guard(func() { inner(v) }) }
	}
	if hooks.OnError != nil {
		inner := hooks.OnError
		safe.OnError = func(err error) { guard(func() { inner(err) }) }
	}
	if hooks.OnComplete != nil {
		inner := hooks.OnComplete
		safe.OnComplete = func() { guard(inner) }
	}
	return safe
}
