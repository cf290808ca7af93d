package seq_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/mpetters/lazyseq/seq"
)

func collectInts(t *testing.T, s seq.AsyncSeq[int]) []int {
	t.Helper()
	got, err := seq.Collect(context.Background(), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return got
}

func equalInts(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFromSlice(t *testing.T) {
	tests := []struct {
		name  string
		input []int
	}{
		{name: "small slice", input: []int{1, 2, 3}},
		{name: "empty slice", input: []int{}},
		{name: "single", input: []int{42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			equalInts(t, collectInts(t, seq.FromSlice(tt.input)), tt.input)
		})
	}
}

func TestFromSliceLarge(t *testing.T) {
	// Above the prefill threshold the source switches to a goroutine.
	input := make([]int, 2000)
	for i := range input {
		input[i] = i
	}
	equalInts(t, collectInts(t, seq.FromSlice(input)), input)
}

func TestToAsync(t *testing.T) {
	got := collectInts(t, seq.ToAsync(seq.Of(1, 2, 3, 4)))
	equalInts(t, got, []int{1, 2, 3, 4})
}

func TestToAsyncPropagatesError(t *testing.T) {
	errBad := errors.New("bad")
	s := seq.Seq[int](func(yield func(int, error) bool) {
		if !yield(1, nil) {
			return
		}
		yield(0, errBad)
	})

	_, err := seq.Collect(context.Background(), seq.ToAsync(s))
	if err != errBad {
		t.Fatalf("expected the exact error, got %v", err)
	}
}

func TestFromChannel(t *testing.T) {
	ch := make(chan int, 3)
	ch <- 1
	ch <- 2
	ch <- 3
	close(ch)

	equalInts(t, collectInts(t, seq.FromChannel(ch)), []int{1, 2, 3})
}

func TestEmptyAndOnce(t *testing.T) {
	equalInts(t, collectInts(t, seq.Empty[int]()), nil)
	equalInts(t, collectInts(t, seq.Once(5)), []int{5})
}

func TestFailSource(t *testing.T) {
	errBad := errors.New("bad")
	_, err := seq.Collect(context.Background(), seq.Fail[int](errBad))
	if err != errBad {
		t.Fatalf("expected the exact error, got %v", err)
	}
}

func TestGenerate(t *testing.T) {
	n := 0
	s := seq.Generate(func() (int, bool, error) {
		n++
		if n > 3 {
			return 0, false, nil
		}
		return n * 10, true, nil
	})
	equalInts(t, collectInts(t, s), []int{10, 20, 30})
}

func TestGenerateError(t *testing.T) {
	errBad := errors.New("bad")
	s := seq.Generate(func() (int, bool, error) {
		return 0, false, errBad
	})
	_, err := seq.Collect(context.Background(), s)
	if err != errBad {
		t.Fatalf("expected the exact error, got %v", err)
	}
}

func TestUnfold(t *testing.T) {
	// Fibonacci via unfolding a pair.
	type pair struct{ a, b int }
	s := seq.Unfold(pair{0, 1}, func(p pair) (int, pair, bool, error) {
		if p.a > 20 {
			return 0, p, false, nil
		}
		return p.a, pair{p.b, p.a + p.b}, true, nil
	})
	equalInts(t, collectInts(t, s), []int{0, 1, 1, 2, 3, 5, 8, 13})
}

func TestIterateN(t *testing.T) {
	s := seq.IterateN(1, func(n int) int { return n * 2 }, 5)
	equalInts(t, collectInts(t, s), []int{1, 2, 4, 8, 16})
}

func TestRange(t *testing.T) {
	equalInts(t, collectInts(t, seq.Range(1, 5)), []int{1, 2, 3, 4})
	equalInts(t, collectInts(t, seq.Range(3, 3)), nil)
	equalInts(t, collectInts(t, seq.RangeStep(10, 0, -3)), []int{10, 7, 4, 1})
	equalInts(t, collectInts(t, seq.RangeStep(0, 10, 0)), nil)
}

func TestRepeat(t *testing.T) {
	equalInts(t, collectInts(t, seq.Repeat(7, 3)), []int{7, 7, 7})
}

func TestRepeatUnboundedCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := seq.Repeat(1, -1).Open(ctx)

	for i := 0; i < 10; i++ {
		<-ch
	}
	cancel()

	// The producer must close its channel after cancellation.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("producer not stopped by cancellation")
		}
	}
}

func TestFromMap(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2}
	got, err := seq.Collect(context.Background(), seq.FromMap(m))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	seen := map[string]int{}
	for _, kv := range got {
		seen[kv.Key] = kv.Value
	}
	if seen["a"] != 1 || seen["b"] != 2 {
		t.Errorf("entries lost in transit: %v", seen)
	}
}

func TestConcat(t *testing.T) {
	s := seq.Concat(seq.FromSlice([]int{1, 2}), seq.FromSlice([]int{3}), seq.Empty[int]())
	equalInts(t, collectInts(t, s), []int{1, 2, 3})
}

func TestConcatStopsAtError(t *testing.T) {
	errBad := errors.New("bad")
	s := seq.Concat(seq.Fail[int](errBad), seq.FromSlice([]int{9}))
	_, err := seq.Collect(context.Background(), s)
	if err != errBad {
		t.Fatalf("expected the exact error, got %v", err)
	}
}

func TestDeferSeq(t *testing.T) {
	built := 0
	s := seq.DeferSeq(func() seq.AsyncSeq[int] {
		built++
		return seq.FromSlice([]int{built})
	})

	equalInts(t, collectInts(t, s), []int{1})
	equalInts(t, collectInts(t, s), []int{2})
	if built != 2 {
		t.Errorf("factory called %d times, want 2", built)
	}
}

func TestTicker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := seq.Ticker(time.Millisecond).Open(ctx)
	first := <-ch
	second := <-ch
	if first.Value() != 0 || second.Value() != 1 {
		t.Errorf("got %d, %d, want 0, 1", first.Value(), second.Value())
	}
}

func TestSyncConstructors(t *testing.T) {
	got, err := seq.CollectSeq(seq.RangeSeq(0, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalInts(t, got, []int{0, 1, 2, 3})

	got, err = seq.CollectSeq(seq.SeqOf(slices.Values([]int{5, 6})))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalInts(t, got, []int{5, 6})

	errBad := errors.New("bad")
	if _, err := seq.CollectSeq(seq.SeqErr[int](errBad)); err != errBad {
		t.Fatalf("expected the exact error, got %v", err)
	}
}

func TestToSeqRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := seq.ToSeq(ctx, seq.FromSlice([]int{1, 2, 3}))
	got, err := seq.CollectSeq(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalInts(t, got, []int{1, 2, 3})
}

func TestFromSeq(t *testing.T) {
	got := collectInts(t, seq.FromSeq(slices.Values([]int{1, 2, 3})))
	equalInts(t, got, []int{1, 2, 3})
}
