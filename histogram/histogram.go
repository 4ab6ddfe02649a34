// Package histogram computes the per-radix-digit occurrence counts that
// seed a radix sort: four 256-entry tables, one per 8-bit slice of a 32-bit
// key, plus the exclusive prefix sum ("global bucket offsets") that turns
// each table into the base output position for its digit values.
package histogram

import (
	"sync/atomic"

	"github.com/ChristianF88/onesweep/grid"
	"github.com/ChristianF88/onesweep/internal/lookback"
)

// RadixGroups is the number of 8-bit slices a 32-bit key is split into.
const RadixGroups = 4

// Digits is the number of distinct values one 8-bit digit can take.
const Digits = 256

// SegmentSize is the number of keys one workgroup histograms at a time.
const SegmentSize = 1024

// Digit extracts the digit value of key for the given radix group (0-3,
// least significant group first).
func Digit(key uint32, radixGroup int) uint32 {
	return (key >> uint(radixGroup*8)) & 0xFF
}

// Matrix is the four-row, 256-column histogram this package produces. Row g
// holds occurrence counts (and, after Offsets, exclusive prefix sums) for
// radix group g.
type Matrix [RadixGroups][Digits]uint32

// Compute builds the global histogram matrix for keys by dispatching one
// workgroup per 1024-key segment. Each workgroup accumulates thread-local
// counts before folding them into the shared global matrix via atomic add,
// bounding contention on the global counters to O(workgroups) rather than
// O(N).
func Compute(keys []uint32) Matrix {
	n := len(keys)
	var atomicMatrix [RadixGroups][Digits]atomic.Uint32

	numSegments := (n + SegmentSize - 1) / SegmentSize
	var dispatcher grid.Dispatcher
	dispatcher.Run(numSegments, func(gi uint32) {
		start := int(gi) * SegmentSize
		end := start + SegmentSize
		if end > n {
			end = n
		}

		var local [RadixGroups][Digits]uint32
		for i := start; i < end; i++ {
			key := keys[i]
			for g := 0; g < RadixGroups; g++ {
				local[g][Digit(key, g)]++
			}
		}
		for g := 0; g < RadixGroups; g++ {
			for d := 0; d < Digits; d++ {
				if local[g][d] != 0 {
					atomicMatrix[g][d].Add(local[g][d])
				}
			}
		}
	})

	var out Matrix
	for g := 0; g < RadixGroups; g++ {
		for d := 0; d < Digits; d++ {
			out[g][d] = atomicMatrix[g][d].Load()
		}
	}
	return out
}

// Offsets transforms h in place from occurrence counts into exclusive
// prefix sums per row: after Offsets, h[g][d] is the base output offset for
// every key whose radix-group-g digit equals d. One workgroup handles each
// of the four rows.
func Offsets(h *Matrix) {
	var dispatcher grid.Dispatcher
	dispatcher.Run(RadixGroups, func(gi uint32) {
		row := h[gi][:]
		inclusive := append([]uint32(nil), row...)
		lookback.HillisSteeleInclusive(inclusive)
		// Shift right by one lane: slot 0 becomes 0, slot d becomes the
		// inclusive sum through d-1.
		for d := Digits - 1; d > 0; d-- {
			row[d] = inclusive[d-1]
		}
		row[0] = 0
	})
}
