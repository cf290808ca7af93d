// Package benchmarks provides comparative benchmarks of lazyseq against
// popular Go stream processing libraries.
package benchmarks

import (
	"context"
	"strconv"
)

// Test data sizes
const (
	SmallSize  = 100
	MediumSize = 1_000
	LargeSize  = 10_000
)

// generateInts creates a slice of integers for benchmarking.
func generateInts(n int) []int {
	data := make([]int, n)
	for i := range data {
		data[i] = i
	}
	return data
}

// generateStrings creates a slice of strings for benchmarking.
func generateStrings(n int) []string {
	data := make([]string, n)
	for i := range data {
		data[i] = strconv.Itoa(i)
	}
	return data
}

// addWithErr sums two integers (lazyseq reducer signature).
func addWithErr(a, b int) (int, error) {
	return a + b, nil
}

// add sums two integers (for other libraries).
func add(a, b int) int {
	return a + b
}

// squareWithErr squares an integer (lazyseq mapper signature).
func squareWithErr(x int) (int, error) {
	return x * x, nil
}

// square squares an integer (for other libraries).
func square(x int) int {
	return x * x
}

// isEven reports whether x is even.
func isEven(x int) bool {
	return x%2 == 0
}

// Background context for benchmarks
var ctx = context.Background()
