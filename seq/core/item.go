// Package core defines the low-level abstractions for lazy sequence
// processing: items, cursors, async sequences, stages, and deferred
// results. The user-facing seq package re-exports most of these; core is
// rarely imported directly.
//
// NOTE: this package should have no dependencies outside the standard
// library, including other seq packages.
package core

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrEndOfSeq is the sentinel returned by Cursor.Next when a sequence is
// exhausted. It is never delivered on an async sequence channel; channel
// close signals exhaustion there.
var ErrEndOfSeq = errors.New("end of sequence")

// ErrEmptySequence is returned by an unseeded fold applied to a sequence
// that yields no elements. No implicit zero value is assumed.
var ErrEmptySequence = errors.New("empty sequence: no seed and no elements")

// Item is the unit carried on async sequence channels. It holds either a
// value or a terminal error. An error item is the last item a well-behaved
// producer sends: every stage forwards the first error it sees and stops,
// so errors surface to the consumer without partial results trailing them.
type Item[T any] struct {
	value T
	err   error
}

// Val creates a value Item.
func Val[T any](value T) Item[T] {
	return Item[T]{value: value}
}

// Fail creates a terminal error Item.
func Fail[T any](err error) Item[T] {
	return Item[T]{err: err}
}

// IsErr reports whether this Item carries a terminal error.
func (it Item[T]) IsErr() bool {
	return it.err != nil
}

// Value returns the contained value. Zero when IsErr is true.
func (it Item[T]) Value() T {
	return it.value
}

// Err returns the terminal error, or nil for a value Item.
func (it Item[T]) Err() error {
	return it.err
}

// Unpack returns the value and error together.
func (it Item[T]) Unpack() (T, error) {
	return it.value, it.err
}

// Recast converts an error Item to a different element type. It panics on
// value Items; only the error state is type-independent.
func Recast[T, U any](it Item[T]) Item[U] {
	if !it.IsErr() {
		panic("core.Recast: cannot recast a value item")
	}
	return Fail[U](it.err)
}

// PanicError wraps a recovered panic from a user-provided function as an
// error. It carries a stack trace trimmed of internal lazyseq frames so the
// offending user code is the first thing a reader sees.
type PanicError struct {
	Value any
	Stack string
}

func (e PanicError) Error() string {
	if e.Stack != "" {
		return fmt.Sprintf("panic: %v\n%s", e.Value, e.Stack)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// NewPanicError creates a PanicError from a recovered value.
func NewPanicError(recovered any) PanicError {
	return PanicError{
		Value: recovered,
		Stack: trimStack(captureStack(4)), // skip runtime.Callers, captureStack, NewPanicError, defer func
	}
}

func captureStack(skip int) string {
	const maxFrames = 32
	var pcs [maxFrames]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return sb.String()
}

// trimStack drops internal lazyseq frames, keeping user and stdlib frames.
func trimStack(stack string) string {
	lines := strings.Split(stack, "\n")
	var kept []string
	var skipNext bool

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, "\t") {
			if strings.Contains(line, "github.com/mpetters/lazyseq/seq") {
				skipNext = true
				continue
			}
			skipNext = false
		} else if skipNext {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
