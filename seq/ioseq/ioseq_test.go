package ioseq

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mpetters/lazyseq/seq/core"
	"github.com/mpetters/lazyseq/seq/transform"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadLines(t *testing.T) {
	path := writeFile(t, "alpha\nbeta\ngamma\n")

	ctx := context.Background()
	lines, err := core.Collect(ctx, ReadLines(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"alpha", "beta", "gamma"}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestReadLinesMissingFile(t *testing.T) {
	ctx := context.Background()
	_, err := core.Collect(ctx, ReadLines(filepath.Join(t.TempDir(), "missing.txt")))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestReadLinesEmptyFile(t *testing.T) {
	path := writeFile(t, "")

	ctx := context.Background()
	lines, err := core.Collect(ctx, ReadLines(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("got %v, want no lines", lines)
	}
}

func TestFromReader(t *testing.T) {
	ctx := context.Background()
	lines, err := core.Collect(ctx, FromReader(strings.NewReader("one\ntwo")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Errorf("got %v, want [one two]", lines)
	}
}

func TestReadChunks(t *testing.T) {
	ctx := context.Background()
	chunks, err := core.Collect(ctx, ReadChunks(strings.NewReader("abcdefgh"), 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"abc", "def", "gh"}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(want))
	}
	for i := range want {
		if string(chunks[i]) != want[i] {
			t.Errorf("chunks[%d] = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestWriteLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	src := core.Produce(func(ctx context.Context) <-chan core.Item[string] {
		out := make(chan core.Item[string], 3)
		out <- core.Val("x")
		out <- core.Val("y")
		out <- core.Val("z")
		close(out)
		return out
	})

	n, err := WriteLines(context.Background(), path, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("wrote %d lines, want 3", n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "x\ny\nz\n" {
		t.Errorf("file content %q, want %q", data, "x\ny\nz\n")
	}
}

func TestWriteLinesStopsOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	errBad := errors.New("bad")

	src := core.Produce(func(ctx context.Context) <-chan core.Item[string] {
		out := make(chan core.Item[string], 2)
		out <- core.Val("first")
		out <- core.Fail[string](errBad)
		close(out)
		return out
	})

	n, err := WriteLines(context.Background(), path, src)
	if err != errBad {
		t.Fatalf("expected the sequence error, got %v", err)
	}
	if n != 1 {
		t.Errorf("wrote %d lines before the failure, want 1", n)
	}
}

func TestReadTransformWriteRoundTrip(t *testing.T) {
	in := writeFile(t, "apple\nbanana\ncherry\n")
	out := filepath.Join(t.TempDir(), "upper.txt")

	ctx := context.Background()
	upper := transform.Map(func(s string) (string, error) { return strings.ToUpper(s), nil })

	n, err := WriteLines(ctx, out, upper.Apply(ctx, ReadLines(in)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("wrote %d lines, want 3", n)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "APPLE\nBANANA\nCHERRY\n" {
		t.Errorf("file content %q", data)
	}
}
