// Package observe provides observability for sequence pipelines: typed
// context hooks, an in-pipeline metrics collector, and OpenTelemetry
// metric wiring.
package observe

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/mpetters/lazyseq/seq/core"

	"go.opentelemetry.io/otel/metric"
)

// WithValueHook attaches a value observation hook for type T to the
// context. The callback fires for each element produced.
func WithValueHook[T any](ctx context.Context, callback func(T)) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{OnValue: callback})
}

// WithErrorHook attaches a terminal-error hook for type T.
func WithErrorHook[T any](ctx context.Context, callback func(error)) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{OnError: callback})
}

// WithStartHook attaches a production-start hook for type T.
func WithStartHook[T any](ctx context.Context, callback func()) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{OnStart: callback})
}

// WithCompleteHook attaches a production-complete hook for type T. It
// fires when production ends, including on cancellation.
func WithCompleteHook[T any](ctx context.Context, callback func()) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{OnComplete: callback})
}

// Counter counts values and errors observed on a pipeline.
type Counter struct {
	values atomic.Int64
	errors atomic.Int64
}

// Values returns the number of elements observed.
func (c *Counter) Values() int64 { return c.values.Load() }

// Errors returns the number of terminal errors observed.
func (c *Counter) Errors() int64 { return c.errors.Load() }

// Total returns values plus errors.
func (c *Counter) Total() int64 { return c.values.Load() + c.errors.Load() }

// WithCounter attaches counting hooks for type T and returns the
// counter for querying.
func WithCounter[T any](ctx context.Context) (context.Context, *Counter) {
	counter := &Counter{}
	ctx = core.WithHooks(ctx, core.Hooks[T]{
		OnValue: func(T) { counter.values.Add(1) },
		OnError: func(error) { counter.errors.Add(1) },
	})
	return ctx, counter
}

// Observe creates an Operator that invokes the hooks registered in the
// context for type T while passing items through unchanged.
func Observe[T any]() core.Operator[T, T] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[T] {
		out := make(chan core.Item[T], core.DefaultBufferSize)
		go func() {
			defer close(out)

			hooks := core.NewHookInvoker[T](ctx)
			hooks.Start()
			defer hooks.Complete()

			for it := range in {
				if it.IsErr() {
					hooks.Error(it.Err())
					select {
					case <-ctx.Done():
					case out <- it:
					}
					return
				}
				hooks.Value(it.Value())
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

// SeqMetrics holds statistics about one production run of a sequence.
type SeqMetrics struct {
	TotalItems int64
	ValueCount int64
	ErrorCount int64

	StartTime     time.Time
	EndTime       time.Time
	FirstItemTime time.Time
	LastItemTime  time.Time

	ItemsPerSecond float64

	MinLatency time.Duration
	MaxLatency time.Duration
	AvgLatency time.Duration
}

// Meter creates an Operator collecting metrics about the sequence. The
// onComplete callback receives the final metrics when production ends.
func Meter[T any](onComplete func(SeqMetrics)) core.Operator[T, T] {
	return core.Transform(func(ctx context.Context, in <-chan core.Item[T]) <-chan core.Item[T] {
		out := make(chan core.Item[T])
		go func() {
			defer close(out)

			metrics := SeqMetrics{
				StartTime:  time.Now(),
				MinLatency: time.Duration(1<<63 - 1),
			}
			var lastItemTime time.Time
			var totalLatency time.Duration
			var latencyCount int64

			defer func() {
				metrics.EndTime = time.Now()
				if metrics.TotalItems > 0 {
					duration := metrics.EndTime.Sub(metrics.StartTime).Seconds()
					if duration > 0 {
						metrics.ItemsPerSecond = float64(metrics.TotalItems) / duration
					}
					if latencyCount > 0 {
						metrics.AvgLatency = totalLatency / time.Duration(latencyCount)
					}
				}
				if onComplete != nil {
					onComplete(metrics)
				}
			}()

			for it := range in {
				now := time.Now()
				metrics.TotalItems++
				if metrics.TotalItems == 1 {
					metrics.FirstItemTime = now
				}
				metrics.LastItemTime = now

				if !lastItemTime.IsZero() {
					latency := now.Sub(lastItemTime)
					if latency < metrics.MinLatency {
						metrics.MinLatency = latency
					}
					if latency > metrics.MaxLatency {
						metrics.MaxLatency = latency
					}
					totalLatency += latency
					latencyCount++
				}
				lastItemTime = now

				if it.IsErr() {
					metrics.ErrorCount++
				} else {
					metrics.ValueCount++
				}

				select {
				case <-ctx.Done():
					return
				case out <- it:
				}
				if it.IsErr() {
					return
				}
			}
		}()
		return out
	})
}

// OtelInstruments bundles the OpenTelemetry instruments fed by
// WithOtel.
type OtelInstruments struct {
	Values    metric.Int64Counter
	Errors    metric.Int64Counter
	LatencyMs metric.Int64Histogram
}

// NewOtelInstruments creates the default instrument set on the given
// meter, under the provided name prefix (e.g. "lazyseq").
func NewOtelInstruments(meter metric.Meter, prefix string) (OtelInstruments, error) {
	var inst OtelInstruments
	var err error

	inst.Values, err = meter.Int64Counter(prefix+".items", metric.WithDescription("count of elements produced"))
	if err != nil {
		return OtelInstruments{}, err
	}
	inst.Errors, err = meter.Int64Counter(prefix+".errors", metric.WithDescription("count of terminal errors"))
	if err != nil {
		return OtelInstruments{}, err
	}
	inst.LatencyMs, err = meter.Int64Histogram(prefix+".latency_ms", metric.WithDescription("latency between elements"))
	if err != nil {
		return OtelInstruments{}, err
	}
	return inst, nil
}

// WithOtel attaches hooks for type T that record elements, errors, and
// inter-element latency on the given instruments. Combine with
// Observe[T]() in the pipeline.
func WithOtel[T any](ctx context.Context, inst OtelInstruments) context.Context {
	var last time.Time
	ctx = core.WithHooks(ctx, core.Hooks[T]{
		OnValue: func(T) {
			now := time.Now()
			if !last.IsZero() && inst.LatencyMs != nil {
				inst.LatencyMs.Record(ctx, now.Sub(last).Milliseconds())
			}
			last = now
			if inst.Values != nil {
				inst.Values.Add(ctx, 1)
			}
		},
		OnError: func(error) {
			if inst.Errors != nil {
				inst.Errors.Add(ctx, 1)
			}
		},
	})
	return ctx
}
