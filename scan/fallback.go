package scan

import "github.com/ChristianF88/onesweep/grid"

// multiPassScan implements the classical three-kernel scan the design notes
// call for when the single-pass decoupled-lookback protocol cannot assume
// forward progress: segment reduction, a small host-side global scan over
// segment sums, then a segment-uniform add. It is slower — three full
// passes over data instead of one — but never spins on another segment's
// state, so it cannot deadlock.
func multiPassScan(data []uint32, exclusive bool) {
	n := len(data)
	numSegments := (n + SegmentSize - 1) / SegmentSize
	segmentSums := make([]uint32, numSegments)

	var reduceDispatch grid.Dispatcher
	reduceDispatch.Run(numSegments, func(gi uint32) {
		start := int(gi) * SegmentSize
		end := start + SegmentSize
		if end > n {
			end = n
		}
		var sum uint32
		for i := start; i < end; i++ {
			sum += data[i]
		}
		segmentSums[gi] = sum
	})

	exclusiveBase := make([]uint32, numSegments)
	var running uint32
	for i, sum := range segmentSums {
		exclusiveBase[i] = running
		running += sum
	}

	var applyDispatch grid.Dispatcher
	applyDispatch.Run(numSegments, func(gi uint32) {
		start := int(gi) * SegmentSize
		end := start + SegmentSize
		if end > n {
			end = n
		}
		base := exclusiveBase[gi]
		var running uint32
		for i := start; i < end; i++ {
			v := data[i]
			if exclusive {
				data[i] = base + running
				running += v
			} else {
				running += v
				data[i] = base + running
			}
		}
	})
}

// PrefixSumMultiPass runs the classical fallback directly, bypassing the
// single-pass protocol entirely. It exists so the fallback path can be
// exercised and compared against PrefixSum without needing to actually
// starve a goroutine.
func PrefixSumMultiPass(data []uint32, exclusive bool) {
	if len(data) == 0 {
		return
	}
	multiPassScan(data, exclusive)
}
