package erosion

import (
	"runtime"
	"sync"
)

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return n
}

// forEachRow runs fn over contiguous row bands, one band per worker, and
// blocks until every band is done. Cells within a sweep share no mutable
// state, so the only synchronisation needed is the barrier at the end; that
// barrier is what keeps the five sweeps strictly ordered.
func (s *Simulator) forEachRow(fn func(y0, y1 int)) {
	workers := s.workers
	if workers > s.height {
		workers = s.height
	}
	if workers <= 1 {
		fn(0, s.height)
		return
	}

	var wg sync.WaitGroup
	band := (s.height + workers - 1) / workers
	for y0 := 0; y0 < s.height; y0 += band {
		y1 := y0 + band
		if y1 > s.height {
			y1 = s.height
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}
