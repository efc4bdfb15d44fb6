package parallel

import "sync"

// ForEach runs fn once per item on a pool of the given size and blocks until
// every call has returned. Items are independent: fn must only read shared
// state, writing exclusively to its own result slot. Used to fan out
// per-node metric computations over a read-only graph index.
func ForEach[T any](items []T, workers int, fn func(i int, item T)) error {
	pool, err := NewWorkerPool(workers)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for i, item := range items {
		i, item := i, item
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			fn(i, item)
		})
	}
	wg.Wait()
	pool.Close()
	return nil
}
