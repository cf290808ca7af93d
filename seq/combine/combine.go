// Package combine joins and splits async sequences: fan-in merging,
// pairwise zipping, interleaving, and fan-out.
package combine

import (
	"context"
	"sync"

	"github.com/mpetters/lazyseq/seq/core"
)

// Merge combines multiple sequences into one, emitting elements as they
// arrive from any input. The first failure from any input ends the
// merged sequence; the output closes when every input is exhausted.
func Merge[T any](seqs ...core.AsyncSeq[T]) core.AsyncSeq[T] {
	return core.Produce(func(ctx context.Context) <-chan core.Item[T] {
		out := make(chan core.Item[T], core.DefaultBufferSize)
		go func() {
			defer close(out)

			mergeCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			var failOnce sync.Once
			var wg sync.WaitGroup
			wg.Add(len(seqs))

			for _, s := range seqs {
				go func(s core.AsyncSeq[T]) {
					defer wg.Done()
					for it := range s.Open(mergeCtx) {
						if mergeCtx.Err() != nil {
							continue
						}
						if it.IsErr() {
							failOnce.Do(func() {
								select {
								case <-ctx.Done():
								case out <- it:
								}
								cancel()
							})
							continue
						}
						select {
						case <-mergeCtx.Done():
						case out <- it:
						}
					}
				}(s)
			}
			wg.Wait()
		}()
		return out
	})
}

// Pair holds one element from each of two zipped sequences.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip combines two sequences pairwise, ending when either is exhausted.
// Extra elements from the longer sequence are dropped.
func Zip[A, B any](a core.AsyncSeq[A], b core.AsyncSeq[B]) core.AsyncSeq[Pair[A, B]] {
	return ZipWith(a, b, func(x A, y B) Pair[A, B] {
		return Pair[A, B]{First: x, Second: y}
	})
}

// ZipWith combines two sequences pairwise through fn, ending when
// either input is exhausted. A failure on either side ends the zipped
// sequence with that error.
func ZipWith[A, B, C any](a core.AsyncSeq[A], b core.AsyncSeq[B], fn func(A, B) C) core.AsyncSeq[C] {
	return core.Produce(func(ctx context.Context) <-chan core.Item[C] {
		out := make(chan core.Item[C])
		go func() {
			defer close(out)

			zipCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			chA := a.Open(zipCtx)
			chB := b.Open(zipCtx)

			for {
				itA, okA := <-chA
				if !okA {
					return
				}
				if itA.IsErr() {
					select {
					case <-ctx.Done():
					case out <- core.Recast[A, C](itA):
					}
					return
				}

				itB, okB := <-chB
				if !okB {
					return
				}
				if itB.IsErr() {
					select {
					case <-ctx.Done():
					case out <- core.Recast[B, C](itB):
					}
					return
				}

				select {
				case <-ctx.Done():
					return
				case out <- core.Val(fn(itA.Value(), itB.Value())):
				}
			}
		}()
		return out
	})
}

// Interleave alternates elements from the inputs in round-robin order,
// skipping exhausted inputs, until all are exhausted. A failure on any
// input ends the sequence.
func Interleave[T any](seqs ...core.AsyncSeq[T]) core.AsyncSeq[T] {
	return core.Produce(func(ctx context.Context) <-chan core.Item[T] {
		out := make(chan core.Item[T])
		go func() {
			defer close(out)

			interCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			channels := make([]<-chan core.Item[T], len(seqs))
			for i, s := range seqs {
				channels[i] = s.Open(interCtx)
			}

			active := len(channels)
			for active > 0 {
				for i, ch := range channels {
					if ch == nil {
						continue
					}
					it, ok := <-ch
					if !ok {
						channels[i] = nil
						active--
						continue
					}
					if it.IsErr() {
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
			}
		}()
		return out
	})
}

// FanOut splits a sequence into n identical outputs, each receiving
// every item. A slow consumer blocks the others once its buffer fills;
// the input is opened once, when the distributor starts.
func FanOut[T any](ctx context.Context, n int, s core.AsyncSeq[T]) []core.AsyncSeq[T] {
	if n <= 0 {
		return nil
	}

	channels := make([]chan core.Item[T], n)
	outputs := make([]core.AsyncSeq[T], n)
	for i := range channels {
		ch := make(chan core.Item[T], 16)
		channels[i] = ch
		outputs[i] = core.Produce(func(context.Context) <-chan core.Item[T] {
			return ch
		})
	}

	go func() {
		defer func() {
			for _, ch := range channels {
				close(ch)
			}
		}()
		for it := range s.Open(ctx) {
			for _, ch := range channels {
				select {
				case <-ctx.Done():
					return
				case ch <- it:
				}
			}
		}
	}()

	return outputs
}

// Tee splits a sequence into two identical outputs.
func Tee[T any](ctx context.Context, s core.AsyncSeq[T]) (core.AsyncSeq[T], core.AsyncSeq[T]) {
	outputs := FanOut(ctx, 2, s)
	return outputs[0], outputs[1]
}

// Partition routes elements into two outputs by predicate: matches to
// the first, the rest to the second. Errors go to both.
func Partition[T any](ctx context.Context, predicate func(T) bool, s core.AsyncSeq[T]) (matched, unmatched core.AsyncSeq[T]) {
	chMatch := make(chan core.Item[T], 16)
	chRest := make(chan core.Item[T], 16)

	go func() {
		defer close(chMatch)
		defer close(chRest)
		for it := range s.Open(ctx) {
			var targets []chan core.Item[T]
			switch {
			case it.IsErr():
				targets = []chan core.Item[T]{chMatch, chRest}
			case predicate(it.Value()):
				targets = []chan core.Item[T]{chMatch}
			default:
				targets = []chan core.Item[T]{chRest}
			}
			for _, ch := range targets {
				select {
				case <-ctx.Done():
					return
				case ch <- it:
				}
			}
		}
	}()

	matched = core.Produce(func(context.Context) <-chan core.Item[T] { return chMatch })
	unmatched = core.Produce(func(context.Context) <-chan core.Item[T] { return chRest })
	return matched, unmatched
}
