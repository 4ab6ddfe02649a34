// Package radix implements the LSD radix sort this library is built
// around: four 8-bit digit passes over ping-ponged key (and optional value)
// buffers, each pass performing a per-segment local radix-bit sort, a
// run-length extraction, a per-digit decoupled lookback across segments,
// and a scatter to the final position. The per-digit histograms and their
// global bucket offsets are computed once up front, since the count of keys
// with a given digit value in a given byte position does not depend on the
// order of any other byte — the same invariant that makes a single-pass
// "Onesweep"-style radix sort possible.
package radix

import (
	"fmt"

	"github.com/ChristianF88/onesweep/grid"
	"github.com/ChristianF88/onesweep/histogram"
	"github.com/ChristianF88/onesweep/internal/lookback"
	"github.com/ChristianF88/onesweep/pools"
)

// SegmentSize is the number of keys one workgroup locally sorts and scatters
// per pass.
const SegmentSize = 1024

// pad is the sentinel that fills out-of-range positions within the tail
// segment of a pass, chosen so it always sorts to the very end regardless
// of which 8-bit digit is currently being examined (every byte of
// 0xFFFFFFFF is 0xFF).
const pad = 0xFFFFFFFF

// MaxN is the largest input size this package accepts. It follows directly
// from the 30-bit payload width of the segment-state table used for the
// per-digit decoupled lookback in each pass.
const MaxN = lookback.MaxPayload

// ErrTooLarge is returned when the input exceeds MaxN.
type ErrTooLarge struct{ N int }

func (e ErrTooLarge) Error() string {
	return fmt.Sprintf("radix: input length %d exceeds the %d-element limit imposed by the 30-bit segment-state payload", e.N, MaxN)
}

// Sort returns a new slice containing a non-decreasing permutation of keys.
func Sort(keys []uint32) ([]uint32, error) {
	sorted, _, err := sortImpl(keys, nil)
	return sorted, err
}

// SortBy returns new key and value slices such that keys is sorted
// non-decreasing and values has been permuted identically.
func SortBy(keys, values []uint32) ([]uint32, []uint32, error) {
	if len(values) != len(keys) {
		panic("radix: SortBy requires len(values) == len(keys)")
	}
	return sortImpl(keys, values)
}

func sortImpl(keys, values []uint32) ([]uint32, []uint32, error) {
	n := len(keys)
	if n > MaxN {
		return nil, nil, ErrTooLarge{N: n}
	}
	if n <= 1 {
		return append([]uint32(nil), keys...), append([]uint32(nil), values...), nil
	}

	h := histogram.Compute(keys)
	histogram.Offsets(&h)

	keysA := append([]uint32(nil), keys...)
	keysB := make([]uint32, n)
	var valuesA, valuesB []uint32
	if values != nil {
		valuesA = append([]uint32(nil), values...)
		valuesB = make([]uint32, n)
	}

	for radixGroup := 0; radixGroup < histogram.RadixGroups; radixGroup++ {
		radixOffset := radixGroup * 8
		scatterPass(keysA, keysB, valuesA, valuesB, h[radixGroup], radixOffset)
		keysA, keysB = keysB, keysA
		if values != nil {
			valuesA, valuesB = valuesB, valuesA
		}
	}

	return keysA, valuesA, nil
}

// scatterPass runs one 8-bit digit pass, reading from (keysIn, valuesIn) and
// writing to (keysOut, valuesOut). hbase is the exclusive global bucket
// offset for every digit value of this pass, precomputed once for the whole
// sort.
func scatterPass(keysIn, keysOut, valuesIn, valuesOut []uint32, hbase [histogram.Digits]uint32, radixOffset int) {
	n := len(keysIn)
	numSegments := (n + SegmentSize - 1) / SegmentSize
	hasValues := valuesIn != nil

	states := make([][histogram.Digits]lookback.PackedSlot, numSegments)

	var dispatcher grid.Dispatcher
	dispatcher.Run(numSegments, func(gi uint32) {
		scatterSegment(segmentParams{
			keysIn:      keysIn,
			keysOut:     keysOut,
			valuesIn:    valuesIn,
			valuesOut:   valuesOut,
			hasValues:   hasValues,
			hbase:       hbase,
			radixOffset: radixOffset,
			gi:          int(gi),
			states:      states,
		})
	})
}

type segmentParams struct {
	keysIn, keysOut     []uint32
	valuesIn, valuesOut []uint32
	hasValues           bool
	hbase               [histogram.Digits]uint32
	radixOffset         int
	gi                  int
	states              [][histogram.Digits]lookback.PackedSlot
}

func scatterSegment(p segmentParams) {
	n := len(p.keysIn)
	start := p.gi * SegmentSize
	dataSize := SegmentSize
	if start+dataSize > n {
		dataSize = n - start
	}

	localKeys := pools.Default.Radix.Get()
	defer pools.Default.Radix.Put(localKeys)
	localKeys = localKeys[:SegmentSize]
	for i := range localKeys {
		localKeys[i] = pad
	}
	copy(localKeys, p.keysIn[start:start+dataSize])

	var localValues []uint32
	if p.hasValues {
		localValues = pools.Default.Radix.Get()
		defer pools.Default.Radix.Put(localValues)
		localValues = localValues[:SegmentSize]
		copy(localValues, p.valuesIn[start:start+dataSize])
	}

	// Step B: local radix-bit sort over the current 8-bit digit.
	localBitSplitSort(localKeys, localValues, p.radixOffset, p.hasValues)

	// Step C: run extraction over the now digit-sorted local keys.
	runIndex, runStart, localBucketCount := extractRuns(localKeys, p.radixOffset, dataSize)

	// Step D: per-digit decoupled lookback across segments.
	exclusiveGlobalOffset := digitLookback(p.states, p.gi, localBucketCount)

	// Step E: scatter to final positions.
	for i := 0; i < dataSize; i++ {
		digit := histogram.Digit(localKeys[i], p.radixOffset/8)
		withinBucket := uint32(i - runStart[runIndex[i]])
		outIdx := p.hbase[digit] + exclusiveGlobalOffset[digit] + withinBucket
		p.keysOut[outIdx] = localKeys[i]
		if p.hasValues {
			p.valuesOut[outIdx] = localValues[i]
		}
	}
}

// localBitSplitSort stably sorts a fixed SegmentSize-length local array by
// the 8-bit digit at radixOffset, one bit at a time via the classic "split"
// primitive: partition into zeros-then-ones based on the current bit, using
// an inclusive scan of a shifted zero mask to compute destination indices.
func localBitSplitSort(keys, values []uint32, radixOffset int, hasValues bool) {
	n := len(keys)
	newPos := pools.Default.RunScratch.Get()
	defer pools.Default.RunScratch.Put(newPos)
	newPos = newPos[:n]

	nextKeys := pools.Default.Radix.Get()
	defer pools.Default.Radix.Put(nextKeys)
	nextKeys = nextKeys[:n]

	var nextValues []uint32
	if hasValues {
		nextValues = pools.Default.Radix.Get()
		defer pools.Default.Radix.Put(nextValues)
		nextValues = nextValues[:n]
	}

	w := pools.Default.Radix.Get()
	defer pools.Default.Radix.Put(w)
	w = w[:n]

	for b := radixOffset; b < radixOffset+8; b++ {
		bitOf := func(x uint32) uint32 { return (x >> uint(b)) & 1 }

		for i := range w {
			w[i] = 0
		}
		for i := 1; i < n; i++ {
			if bitOf(keys[i-1]) == 0 {
				w[i] = 1
			}
		}
		lookback.HillisSteeleInclusive(w)

		var lastBitZero uint32
		if bitOf(keys[n-1]) == 0 {
			lastBitZero = 1
		}
		totalFalse := lastBitZero + w[n-1]

		for i := 0; i < n; i++ {
			if bitOf(keys[i]) == 0 {
				newPos[i] = int(w[i])
			} else {
				newPos[i] = int(totalFalse) + i - int(w[i])
			}
		}

		for i := 0; i < n; i++ {
			nextKeys[newPos[i]] = keys[i]
			if hasValues {
				nextValues[newPos[i]] = values[i]
			}
		}
		copy(keys, nextKeys)
		if hasValues {
			copy(values, nextValues)
		}
	}
}

// extractRuns finds maximal runs of equal digit value in the (now sorted)
// local keys, returning: the 0-based run index of every position, the start
// position of every run (with one trailing sentinel equal to dataSize), and
// the per-digit count of real (non-padding) keys in this segment.
func extractRuns(keys []uint32, radixOffset, dataSize int) (runIndex []int, runStart []int, localBucketCount [histogram.Digits]uint32) {
	n := len(keys)
	radixGroup := radixOffset / 8
	marks := pools.Default.Radix.Get()
	defer pools.Default.Radix.Put(marks)
	marks = marks[:n]
	for i := range marks {
		marks[i] = 0
	}
	for i := 1; i < n; i++ {
		if histogram.Digit(keys[i], radixGroup) != histogram.Digit(keys[i-1], radixGroup) {
			marks[i] = 1
		}
	}
	lookback.HillisSteeleInclusive(marks)

	runIndex = make([]int, n)
	for i, v := range marks {
		runIndex[i] = int(v)
	}
	numRuns := runIndex[n-1] + 1

	runStart = make([]int, numRuns+1)
	runStart[numRuns] = dataSize
	for i := 0; i < n; i++ {
		if i == 0 || runIndex[i] != runIndex[i-1] {
			runStart[runIndex[i]] = i
		}
	}

	for r := 0; r < numRuns; r++ {
		rs := runStart[r]
		if rs >= dataSize {
			continue // this run and all after it are pure padding
		}
		re := runStart[r+1]
		if re > dataSize {
			re = dataSize
		}
		digit := histogram.Digit(keys[rs], radixGroup)
		localBucketCount[digit] = uint32(re - rs)
	}
	return runIndex, runStart, localBucketCount
}

// digitLookback runs the per-digit decoupled lookback: each of the 256
// digit lanes for this segment publishes its local count, then walks
// predecessor segments' published state until it finds one whose value is
// already an inclusive global offset, exactly as scan.PrefixSum does for a
// single running sum but replicated across 256 independent digit lanes.
func digitLookback(states [][histogram.Digits]lookback.PackedSlot, gi int, localBucketCount [histogram.Digits]uint32) (exclusiveGlobalOffset [histogram.Digits]uint32) {
	for digit := 0; digit < histogram.Digits; digit++ {
		count := localBucketCount[digit]
		if gi == 0 {
			states[0][digit].Publish(lookback.Prefix, count)
			exclusiveGlobalOffset[digit] = 0
			continue
		}
		states[gi][digit].Publish(lookback.Aggregate, count)

		var accumulated uint32
		for j := gi - 1; j >= 0; j-- {
			status, payload := states[j][digit].SpinLoad(pauseCPU)
			accumulated += payload
			if status == lookback.Prefix {
				break
			}
		}
		exclusiveGlobalOffset[digit] = accumulated
		states[gi][digit].Publish(lookback.Prefix, accumulated+count)
	}
	return exclusiveGlobalOffset
}
