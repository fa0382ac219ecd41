// ABOUTME: Best-effort fan-out: runs n calls concurrently, waits for all, and keeps per-item results.
// ABOUTME: Item failures never abort the batch; one fallback policy converts failures to values.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one item in a batch.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the item succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// Settle calls fn for every index in [0, n) concurrently and returns the
// results in index order. It returns only after every call has finished.
// Errors are recorded on the corresponding Result and do not cancel the
// other calls.
func Settle[T any](ctx context.Context, n int, fn func(ctx context.Context, i int) (T, error)) []Result[T] {
	results := make([]Result[T], n)
	if n == 0 {
		return results
	}

	// A plain group, not WithContext: one failed item must not cancel its siblings.
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			v, err := fn(ctx, i)
			results[i] = Result[T]{Value: v, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Resolve unwraps results, substituting fallback(i, err) for every failed item.
func Resolve[T any](results []Result[T], fallback func(i int, err error) T) []T {
	out := make([]T, len(results))
	for i, r := range results {
		if r.OK() {
			out[i] = r.Value
			continue
		}
		out[i] = fallback(i, r.Err)
	}
	return out
}
