package main

import "sync"

type orderedResult[T any] struct {
	Value T
	Err   error
}

// runOrdered is the scatter-gather shape used for unit rendering and feed
// item construction: a fixed pool of workers applies fn to every item, and
// each outcome lands in the slot matching its input position. Result order
// is therefore input order; completion order carries no meaning.
func runOrdered[T, R any](items []T, workers int, fn func(T) (R, error)) []orderedResult[R] {
	if len(items) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	results := make([]orderedResult[R], len(items))
	next := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				v, err := fn(items[i])
				results[i] = orderedResult[R]{Value: v, Err: err}
			}
		}()
	}

	for i := range items {
		next <- i
	}
	close(next)
	wg.Wait()
	return results
}
