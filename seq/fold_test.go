package seq_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mpetters/lazyseq/seq"
)

func sum(acc, elem int) (int, error) { return acc + elem, nil }

func TestFoldWithSync(t *testing.T) {
	tests := []struct {
		name  string
		input []int
		seed  int
		want  int
	}{
		{name: "sum with seed", input: []int{1, 2, 3, 4}, seed: 5, want: 15},
		{name: "empty returns seed", input: []int{}, seed: 42, want: 42},
		{name: "single element", input: []int{7}, seed: 3, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := seq.FoldWith(sum, tt.seed).Of(seq.SliceSeq(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFoldWithMatchesReferenceFold(t *testing.T) {
	input := []int{3, 1, 4, 1, 5, 9, 2, 6}
	seed := 100

	// Plain loop as the reference left fold.
	want := seed
	for _, v := range input {
		want += v
	}

	got, err := seq.FoldWith(sum, seed).OfSlice(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFold1SeedFromFirstElement(t *testing.T) {
	// With [e1, e2, e3] the result is f(f(e1, e2), e3) and the reducer
	// is never invoked for e1 alone.
	var calls [][2]string
	concat := func(acc, elem string) (string, error) {
		calls = append(calls, [2]string{acc, elem})
		return acc + elem, nil
	}

	got, err := seq.Fold1(concat).Of(seq.Of("a", "b", "c"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "abc" {
		t.Errorf("got %q, want %q", got, "abc")
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 reducer calls, got %d", len(calls))
	}
	if calls[0] != [2]string{"a", "b"} || calls[1] != [2]string{"ab", "c"} {
		t.Errorf("unexpected call sequence: %v", calls)
	}
}

func TestFold1EmptySequence(t *testing.T) {
	_, err := seq.Fold1(sum).Of(seq.Of[int]())
	if !errors.Is(err, seq.ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence, got %v", err)
	}

	// Same failure through the deferred path.
	d := seq.Fold1(sum).OfAsync(context.Background(), seq.Empty[int]())
	_, err = d.Await(context.Background())
	if !errors.Is(err, seq.ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence from deferred, got %v", err)
	}
}

func TestFoldOfAsync(t *testing.T) {
	ctx := context.Background()
	d := seq.FoldWith(sum, 5).OfAsync(ctx, seq.FromSlice([]int{1, 2, 3, 4}))

	got, err := d.Await(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 15 {
		t.Errorf("got %v, want 15", got)
	}
}

func TestFoldToAsyncMatchesSync(t *testing.T) {
	// A synchronous sequence adapted with ToAsync folds to the same
	// value as the pure synchronous case.
	input := seq.Of(1, 2, 3, 4)
	fold := seq.FoldWith(sum, 5)

	syncGot, err := fold.Of(input)
	if err != nil {
		t.Fatalf("sync fold: %v", err)
	}

	ctx := context.Background()
	asyncGot, err := fold.OfAsync(ctx, seq.ToAsync(input)).Await(ctx)
	if err != nil {
		t.Fatalf("async fold: %v", err)
	}

	if syncGot != asyncGot || syncGot != 15 {
		t.Errorf("sync %v, async %v, want both 15", syncGot, asyncGot)
	}
}

func TestFoldSequentialReducerCalls(t *testing.T) {
	// Reducer calls must be strictly sequential: no call begins before
	// the previous one has returned, even when each call suspends.
	var inFlight atomic.Int32
	var maxInFlight atomic.Int32
	var order []int

	reducer := func(_ context.Context, acc, elem int) (int, error) {
		cur := inFlight.Add(1)
		if cur > maxInFlight.Load() {
			maxInFlight.Store(cur)
		}
		order = append(order, elem)
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return acc + elem, nil
	}

	ctx := context.Background()
	got, err := seq.FoldWithCtx(reducer, 5).OfAsync(ctx, seq.FromSlice([]int{1, 2, 3, 4})).Await(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 15 {
		t.Errorf("got %v, want 15", got)
	}
	if maxInFlight.Load() != 1 {
		t.Errorf("reducer calls overlapped: max in flight %d", maxInFlight.Load())
	}
	want := []int{1, 2, 3, 4}
	if len(order) != len(want) {
		t.Fatalf("expected %d reducer calls, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("call %d processed %d, want %d", i, order[i], want[i])
		}
	}
}

func TestFoldReducerErrorPropagation(t *testing.T) {
	errBoom := errors.New("boom")
	var calls int

	reducer := func(acc, elem int) (int, error) {
		calls++
		if elem == 2 {
			return 0, errBoom
		}
		return acc + elem, nil
	}
	fold := seq.FoldWith(reducer, 0)

	t.Run("sync", func(t *testing.T) {
		calls = 0
		_, err := fold.Of(seq.Of(1, 2, 3, 4))
		if err != errBoom {
			t.Fatalf("expected the reducer's exact error, got %v", err)
		}
		if calls != 2 {
			t.Errorf("reducer called %d times, want 2 (not invoked after failure)", calls)
		}
	})

	t.Run("async", func(t *testing.T) {
		calls = 0
		ctx := context.Background()
		_, err := fold.OfAsync(ctx, seq.FromSlice([]int{1, 2, 3, 4})).Await(ctx)
		if err != errBoom {
			t.Fatalf("expected the reducer's exact error, got %v", err)
		}
		if calls != 2 {
			t.Errorf("reducer called %d times, want 2", calls)
		}
	})
}

func TestFoldSequenceErrorPropagation(t *testing.T) {
	errBroken := errors.New("broken source")

	_, err := seq.FoldWith(sum, 0).Of(seq.SeqErr[int](errBroken))
	if err != errBroken {
		t.Fatalf("expected the sequence's exact error, got %v", err)
	}

	ctx := context.Background()
	_, err = seq.FoldWith(sum, 0).OfAsync(ctx, seq.Fail[int](errBroken)).Await(ctx)
	if err != errBroken {
		t.Fatalf("expected the sequence's exact error from deferred, got %v", err)
	}
}

func TestFoldRunDispatch(t *testing.T) {
	fold := seq.FoldWith(sum, 5)
	ctx := context.Background()

	t.Run("eager sequence settles immediately", func(t *testing.T) {
		d := fold.Run(ctx, seq.Of(1, 2, 3, 4))
		if !d.IsSettled() {
			t.Fatal("expected an already-settled deferred for eager input")
		}
		got, err := d.MustNow()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 15 {
			t.Errorf("got %v, want 15", got)
		}
	})

	t.Run("async sequence settles later", func(t *testing.T) {
		gate := make(chan struct{})
		src := seq.Generate(func() (int, bool, error) {
			<-gate
			return 0, false, nil
		})

		d := fold.Run(ctx, seq.AsSequence(src))
		if d.IsSettled() {
			t.Fatal("deferred settled before the source produced")
		}
		close(gate)
		got, err := d.Await(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 5 {
			t.Errorf("got %v, want the bare seed 5", got)
		}
	})
}

func TestFoldInvokerReusable(t *testing.T) {
	fold := seq.FoldWith(sum, 0)

	first, err := fold.OfSlice([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("first fold: %v", err)
	}
	second, err := fold.OfSlice([]int{10, 20})
	if err != nil {
		t.Fatalf("second fold: %v", err)
	}
	if first != 6 || second != 30 {
		t.Errorf("got %v and %v, want 6 and 30", first, second)
	}
}

func TestFoldCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	reducer := func(foldCtx context.Context, acc, elem int) (int, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		select {
		case <-foldCtx.Done():
			return 0, foldCtx.Err()
		case <-time.After(5 * time.Second):
			return acc + elem, nil
		}
	}

	d := seq.FoldWithCtx(reducer, 0).OfAsync(ctx, seq.Repeat(1, -1))
	<-started
	cancel()

	_, err := d.Await(context.Background())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
