package automation

import (
	"context"
	"sync"
)

// runEnsemble calls fn for every index in [0, n) on its own goroutine and
// returns the first error by index. Each fn builds its own scene, so no
// state is shared between runs.
func runEnsemble(ctx context.Context, n int, fn func(ctx context.Context, idx int) error) error {
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}
			errs[idx] = fn(ctx, idx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
