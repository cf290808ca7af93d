// Package ioseq adapts files and readers into async sequences and
// drains sequences back out to files.
package ioseq

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mpetters/lazyseq/seq/core"
)

// ReadLines creates an AsyncSeq emitting each line of the file at path,
// without the trailing newline. An open or scan error ends the sequence
// with that error.
func ReadLines(path string) core.AsyncSeq[string] {
	return core.Produce(func(ctx context.Context) <-chan core.Item[string] {
		out := make(chan core.Item[string], core.DefaultBufferSize)
		go func() {
			defer close(out)

			file, err := os.Open(path)
			if err != nil {
				select {
				case <-ctx.Done():
				case out <- core.Fail[string](err):
				}
				return
			}
			defer file.Close()

			emitLines(ctx, file, out)
		}()
		return out
	})
}

// FromReader creates an AsyncSeq emitting each line read from r. The
// caller owns closing r after the sequence ends.
func FromReader(r io.Reader) core.AsyncSeq[string] {
	return core.Produce(func(ctx context.Context) <-chan core.Item[string] {
		out := make(chan core.Item[string], core.DefaultBufferSize)
		go func() {
			defer close(out)
			emitLines(ctx, r, out)
		}()
		return out
	})
}

func emitLines(ctx context.Context, r io.Reader, out chan<- core.Item[string]) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		case out <- core.Val(scanner.Text()):
		}
	}
	if err := scanner.Err(); err != nil {
		select {
		case <-ctx.Done():
		case out <- core.Fail[string](err):
		}
	}
}

// ReadChunks creates an AsyncSeq emitting successive chunks of up to
// size bytes read from r. Each chunk is an independent copy. A read
// error other than io.EOF ends the sequence with that error.
func ReadChunks(r io.Reader, size int) core.AsyncSeq[[]byte] {
	if size <= 0 {
		size = 32 * 1024
	}
	return core.Produce(func(ctx context.Context) <-chan core.Item[[]byte] {
		out := make(chan core.Item[[]byte])
		go func() {
			defer close(out)

			buf := make([]byte, size)
			for {
				n, err := r.Read(buf)
				if n > 0 {
					chunk := make([]byte, n)
					copy(chunk, buf[:n])
					select {
					case <-ctx.Done():
						return
					case out <- core.Val(chunk):
					}
				}
				if err == io.EOF {
					return
				}
				if err != nil {
					select {
					case <-ctx.Done():
					case out <- core.Fail[[]byte](err):
					}
					return
				}
			}
		}()
		return out
	})
}

// WriteLines drains an async sequence of strings to the file at path,
// one element per line, creating or truncating the file. It returns the
// number of lines written and the first error from the sequence or the
// writer.
func WriteLines(ctx context.Context, path string, in core.AsyncSeq[string]) (int64, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := bufio.NewWriter(file)
	var n int64
	for it := range in.Open(ctx) {
		if it.IsErr() {
			return n, it.Err()
		}
		if _, err := fmt.Fprintln(w, it.Value()); err != nil {
			return n, err
		}
		n++
	}
	if err := w.Flush(); err != nil {
		return n, err
	}
	return n, file.Sync()
}
