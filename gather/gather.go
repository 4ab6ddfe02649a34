// Package gather implements the indirection primitives that read or write a
// buffer through an index array: gather for value-permutation reads, and
// ScatterBy for sort-by-key style writes. Both are embarrassingly parallel,
// so for inputs beyond a small threshold the work is split across a worker
// pool the same way the rest of this codebase's parallel sweeps are.
package gather

import (
	"runtime"
	"sync"
)

// parallelThreshold is the element count below which spinning up a worker
// pool costs more than it saves.
const parallelThreshold = 1 << 14

// Gather writes out[i] = in[idx[i]] for i in [0, n). No bounds checking is
// performed; the caller guarantees idx entries fit within in.
func Gather(out, in []uint32, idx []int, n int) {
	forEachChunk(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = in[idx[i]]
		}
	})
}

// ScatterBy writes out[idx[i]] = in[i] for every i in idx. No bounds
// checking is performed. If idx contains duplicate targets the result is
// implementation-defined — any one writer may win — matching the guarantee
// this library's own radix pipeline relies on (it never issues colliding
// indices).
func ScatterBy(out, in []uint32, idx []int) {
	forEachChunk(len(idx), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[idx[i]] = in[i]
		}
	})
}

// forEachChunk runs fn(lo, hi) over disjoint [lo, hi) ranges covering
// [0, n), split across a worker pool sized to the host's CPU count once n is
// large enough to make that worthwhile.
func forEachChunk(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if n < parallelThreshold {
		fn(0, n)
		return
	}

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
