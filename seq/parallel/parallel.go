// Package parallel provides concurrent variants of the mapping stages.
// Element order is only preserved by Ordered; the sequential fold and
// reduce operators are unaffected by worker count.
package parallel

import (
	"context"
	"sync"

	"github.com/mpetters/lazyseq/seq/core"
)

// Map creates an Operator that applies fn concurrently using n workers.
// Results may arrive out of order. The first failure is forwarded and
// cancels the remaining work; if n <= 0 one worker is used.
func Map[IN, OUT any](n int, fn func(IN) (OUT, error)) core.Operator[IN, OUT] {
	if n <= 0 {
		n = 1
	}

	return core.Transform(func(ctx context.Context, in <-chan core.Item[IN]) <-chan core.Item[OUT] {
		out := make(chan core.Item[OUT], n)
		go func() {
			defer close(out)

			stageCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			var failOnce sync.Once
			fail := func(it core.Item[OUT]) {
				failOnce.Do(func() {
					select {
					case <-ctx.Done():
					case out <- it:
					}
					cancel()
				})
			}

			var wg sync.WaitGroup
			wg.Add(n)
			for i := 0; i < n; i++ {
				go func() {
					defer wg.Done()
					for it := range in {
						if stageCtx.Err() != nil {
							continue
						}
						if it.IsErr() {
							fail(core.Recast[IN, OUT](it))
							continue
						}
						value, err := safeApply(fn, it.Value())
						if err != nil {
							fail(core.Fail[OUT](err))
							continue
						}
						select {
						case <-stageCtx.Done():
						case out <- core.Val(value):
						}
					}
				}()
			}
			wg.Wait()
		}()
		return out
	})
}

func safeApply[IN, OUT any](fn func(IN) (OUT, error), value IN) (out OUT, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = core.NewPanicError(r)
		}
	}()
	return fn(value)
}

// Ordered creates an Operator that applies fn concurrently with up to n
// in-flight elements while preserving input order in the output. More
// expensive than Map but deterministic; if n <= 0 one worker is used.
func Ordered[IN, OUT any](n int, fn func(IN) (OUT, error)) core.Operator[IN, OUT] {
	if n <= 0 {
		n = 1
	}

	return core.Transform(func(ctx context.Context, in <-chan core.Item[IN]) <-chan core.Item[OUT] {
		out := make(chan core.Item[OUT])
		go func() {
			defer close(out)

			type indexed struct {
				index int
				item  core.Item[OUT]
			}

			sem := make(chan struct{}, n)
			results := make(chan indexed, n)

			var wg sync.WaitGroup
			var collectorDone sync.WaitGroup
			collectorDone.Add(1)

			// Collector reorders results. Emission ends at the first
			// error item; later results are still drained so workers
			// can finish.
			go func() {
				defer collectorDone.Done()
				pending := make(map[int]core.Item[OUT])
				next := 0
				failed := false

				emit := func(it core.Item[OUT]) {
					if failed {
						return
					}
					select {
					case <-ctx.Done():
						failed = true
					case out <- it:
						if it.IsErr() {
							failed = true
						}
					}
				}

				for r := range results {
					pending[r.index] = r.item
					for {
						it, ok := pending[next]
						if !ok {
							break
						}
						delete(pending, next)
						next++
						emit(it)
					}
				}
				for {
					it, ok := pending[next]
					if !ok {
						return
					}
					delete(pending, next)
					next++
					emit(it)
				}
			}()

			index := 0
		inputLoop:
			for it := range in {
				select {
				case <-ctx.Done():
					break inputLoop
				case sem <- struct{}{}:
				}

				wg.Add(1)
				go func(idx int, it core.Item[IN]) {
					defer func() {
						<-sem
						wg.Done()
					}()

					var result core.Item[OUT]
					if it.IsErr() {
						result = core.Recast[IN, OUT](it)
					} else if value, err := safeApply(fn, it.Value()); err != nil {
						result = core.Fail[OUT](err)
					} else {
						result = core.Val(value)
					}

					select {
					case <-ctx.Done():
					case results <- indexed{index: idx, item: result}:
					}
				}(index, it)
				index++
			}

			wg.Wait()
			close(results)
			collectorDone.Wait()
		}()
		return out
	})
}

// MapCtx is Map with a context-aware function, for work that should
// observe cancellation itself.
func MapCtx[IN, OUT any](n int, fn func(context.Context, IN) (OUT, error)) core.Operator[IN, OUT] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[IN]) <-chan core.Item[OUT] {
		return Map(n, func(v IN) (OUT, error) {
			return fn(ctx, v)
		}).Apply(ctx, core.Produce(func(context.Context) <-chan core.Item[IN] { return in })).Open(ctx)
	})
}
