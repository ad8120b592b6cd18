// Package filters provides the built-in CPU image filters.
//
// Every filter fans its per-pixel work out across image rows: one worker
// goroutine per logical CPU, each taking a strided set of rows. Workers
// write disjoint regions of the output, so no synchronization beyond the
// final WaitGroup is needed.
package filters

import (
	"runtime"
	"sync"
)

// forEachRow calls fn for every y in [0, height), distributing rows across
// runtime.NumCPU() workers. fn must only touch state owned by its row.
func forEachRow(height int, fn func(y int)) {
	workers := runtime.NumCPU()
	if workers > height {
		workers = height
	}
	if workers <= 1 {
		for y := 0; y < height; y++ {
			fn(y)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(start int) {
			defer wg.Done()
			for y := start; y < height; y += workers {
				fn(y)
			}
		}(w)
	}
	wg.Wait()
}

// paramNumber extracts a numeric parameter value. JSON decoding yields
// float64; direct callers may pass int.
func paramNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
