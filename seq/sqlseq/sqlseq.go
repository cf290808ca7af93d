// Package sqlseq adapts database/sql queries into async sequences, so
// query results can feed sequence pipelines and folds row by row.
package sqlseq

import (
	"context"
	"database/sql"

	"github.com/mpetters/lazyseq/seq/core"
)

// Scanner converts the current row of a result set into a value.
type Scanner[T any] func(*sql.Rows) (T, error)

// Query creates an AsyncSeq that executes the query and emits one
// element per row via the scanner. A query, scan, or iteration error
// ends the sequence with that error. Rows are closed when the sequence
// ends or is cancelled.
func Query[T any](db *sql.DB, query string, scanner Scanner[T], args ...any) core.AsyncSeq[T] {
	return QueryBuffered(db, query, scanner, core.DefaultBufferSize, args...)
}

// QueryBuffered is Query with an explicit output buffer size.
func QueryBuffered[T any](db *sql.DB, query string, scanner Scanner[T], bufferSize int, args ...any) core.AsyncSeq[T] {
	return core.Produce(func(ctx context.Context) <-chan core.Item[T] {
		out := make(chan core.Item[T], bufferSize)
		go func() {
			defer close(out)

			rows, err := db.QueryContext(ctx, query, args...)
			if err != nil {
				select {
				case <-ctx.Done():
				case out <- core.Fail[T](err):
				}
				return
			}
			defer rows.Close()

			for rows.Next() {
				value, err := scanner(rows)
				if err != nil {
					select {
					case <-ctx.Done():
					case out <- core.Fail[T](err):
					}
					return
				}
				select {
				case <-ctx.Done():
					return
				case out <- core.Val(value):
				}
			}
			if err := rows.Err(); err != nil {
				select {
				case <-ctx.Done():
				case out <- core.Fail[T](err):
				}
			}
		}()
		return out
	})
}

// QueryRow creates an AsyncSeq that executes a query expecting a single
// row and emits exactly one element.
func QueryRow[T any](db *sql.DB, query string, scanner func(*sql.Row) (T, error), args ...any) core.AsyncSeq[T] {
	return core.Produce(func(ctx context.Context) <-chan core.Item[T] {
		out := make(chan core.Item[T], 1)
		go func() {
			defer close(out)
			row := db.QueryRowContext(ctx, query, args...)
			value, err := scanner(row)
			if err != nil {
				select {
				case <-ctx.Done():
				case out <- core.Fail[T](err):
				}
				return
			}
			select {
			case <-ctx.Done():
			case out <- core.Val(value):
			}
		}()
		return out
	})
}

// ExecResult is the outcome of one statement execution.
type ExecResult struct {
	LastInsertId int64
	RowsAffected int64
}

// Exec creates an AsyncSeq executing a statement and emitting its
// result.
func Exec(db *sql.DB, query string, args ...any) core.AsyncSeq[ExecResult] {
	return core.Produce(func(ctx context.Context) <-chan core.Item[ExecResult] {
		out := make(chan core.Item[ExecResult], 1)
		go func() {
			defer close(out)
			result, err := db.ExecContext(ctx, query, args...)
			if err != nil {
				select {
				case <-ctx.Done():
				case out <- core.Fail[ExecResult](err):
				}
				return
			}
			lastID, _ := result.LastInsertId()
			affected, _ := result.RowsAffected()
			select {
			case <-ctx.Done():
			case out <- core.Val(ExecResult{LastInsertId: lastID, RowsAffected: affected}):
			}
		}()
		return out
	})
}

// InsertEach drains an async sequence, executing the statement once per
// element with the binder providing the arguments. It returns the
// number of executed statements and the first error encountered.
func InsertEach[T any](ctx context.Context, db *sql.DB, in core.AsyncSeq[T], query string, binder func(T) []any) (int64, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var n int64
	for it := range in.Open(ctx) {
		if it.IsErr() {
			return n, it.Err()
		}
		if _, err := db.ExecContext(ctx, query, binder(it.Value())...); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
