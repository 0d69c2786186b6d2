// Package pool runs indexed jobs on a bounded goroutine pool.
package pool

import (
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Run calls fn(i) for every i in [0, n) with at most size calls in flight and
// waits for all of them. Jobs are submitted in index order.
func Run(size, n int, fn func(i int)) error {
	if n == 0 {
		return nil
	}
	if size < 1 {
		size = 1
	}
	if size > n {
		size = n
	}

	p, err := ants.NewPool(size)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	defer p.Release()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		if err := p.Submit(func() {
			defer wg.Done()
			fn(i)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("submit job %d: %w", i, err)
		}
	}
	wg.Wait()
	return nil
}

// Map applies fn to every item with bounded concurrency and returns results
// in input order. The first error by index is returned.
func Map[T, R any](size int, items []T, fn func(i int, item T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	errs := make([]error, len(items))
	if err := Run(size, len(items), func(i int) {
		out[i], errs[i] = fn(i, items[i])
	}); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
