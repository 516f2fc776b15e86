package orders

import (
	"context"
	"sync"
)

// SettleAll calls fn for every index in [0, n) concurrently and returns once every call
// has returned, no matter how many of them failed. errs[i] holds the result of fn(ctx, i).
func SettleAll(ctx context.Context, n int, fn func(ctx context.Context, i int) error) (errs []error) {
	errs = make([]error, n)

	wg := sync.WaitGroup{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = fn(ctx, i)
		}(i)
	}
	wg.Wait()

	return errs
}
