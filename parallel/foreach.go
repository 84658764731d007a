// package parallel contains bounded parallel ForEach() loops.
package parallel

import (
	"context"
	"sync"
)

// ForEach executes a for loop with a limited number of concurrent goroutines.
// Each goroutine processes one integer, from 0 to length.
func ForEach(length, limit int, body func(i int)) {
	if limit <= 0 {
		limit = 1 // Default to 1 if limit is zero or negative
	}
	if length <= 0 {
		return // No iterations to perform
	}

	sem := make(chan struct{}, limit) // Semaphore with buffer size 'limit'
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{} // Acquire semaphore
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }() // Release semaphore after function exits

			body(i)
		}(i)
	}

	wg.Wait() // Wait for all goroutines to finish
}

// ForEachErr is ForEach for fallible bodies. The first error cancels the
// context handed to the remaining bodies, iterations not yet started are
// skipped, and that first error is returned once every started body returned.
func ForEachErr(ctx context.Context, length, limit int, body func(ctx context.Context, i int) error) error {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return ctx.Err()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once  sync.Once
		first error
		wg    sync.WaitGroup
	)
	fail := func(err error) {
		once.Do(func() {
			first = err
			cancel()
		})
	}

	sem := make(chan struct{}, limit)
loop:
	for i := 0; i < length; i++ {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break loop
		}
		if ctx.Err() != nil {
			<-sem
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := body(ctx, i); err != nil {
				fail(err)
			}
		}(i)
	}

	wg.Wait()
	if first != nil {
		return first
	}
	return ctx.Err()
}
