// Package scan implements the single-pass decoupled-lookback prefix sum
// (DLS): each 2048-element segment computes its local Hillis-Steele scan
// concurrently with every other segment, then walks backwards over
// predecessor segments' published state to recover its exclusive prefix,
// stopping as soon as it finds one whose prefix is already final.
package scan

import (
	"runtime"

	"github.com/ChristianF88/onesweep/grid"
	"github.com/ChristianF88/onesweep/internal/lookback"
	"github.com/ChristianF88/onesweep/pools"
	"github.com/ChristianF88/onesweep/stall"
)

// SegmentSize is the number of elements one workgroup reduces in a single
// DLS segment.
const SegmentSize = 2048

// Options configures a PrefixSum call. The zero value runs the single-pass
// decoupled-lookback protocol, spinning on predecessors without limit, and
// never falls back.
type Options struct {
	// Exclusive selects exclusive-prefix output; the default is inclusive.
	Exclusive bool
	// Watchdog, if set, is fed spin counts while a segment waits on a
	// predecessor. If it reaches stall.Confirmed, PrefixSum abandons the
	// single-pass protocol for the current call and finishes via the
	// classical multi-pass fallback (see fallback.go).
	Watchdog *stall.Watchdog
}

// groupState is the per-segment published state: a value tagged with its
// status, encoded across two words so no acquire/release ordering is
// required between the payload and the tag that guards it (see
// internal/lookback.SplitSlot). This mirrors the two-word group-state record
// used by workgroup-scoped decoupled lookback in GPU compute libraries this
// package is descended from, rather than the naive three-separate-atomics
// layout a first pass at the protocol tends to reach for.
type groupState struct {
	slot lookback.SplitSlot
}

// PrefixSum overwrites data in place with its prefix sum under 32-bit
// wraparound addition. With the zero Options it computes the inclusive
// scan.
func PrefixSum(data []uint32, opts Options) {
	n := len(data)
	if n == 0 {
		return
	}
	if n == 1 {
		if opts.Exclusive {
			data[0] = 0
		}
		return
	}

	numSegments := (n + SegmentSize - 1) / SegmentSize
	states := make([]groupState, numSegments)

	// Segments write their results into data as they finish, so keep the
	// input around for the fallback whenever a watchdog can trigger one.
	var original []uint32
	if opts.Watchdog != nil {
		original = append([]uint32(nil), data...)
	}

	fellBack := false
	var dispatcher grid.Dispatcher
	dispatcher.Run(numSegments, func(gi uint32) {
		if fellBack {
			return
		}
		ok := processSegment(data, states, int(gi), opts)
		if !ok {
			fellBack = true
		}
	})

	if fellBack {
		copy(data, original)
		multiPassScan(data, opts.Exclusive)
	}
}

// processSegment runs phases 1-3 of the DLS protocol for one segment. It
// returns false if the watchdog confirmed a stall while walking predecessor
// segments, signalling the caller to discard all work and retry via the
// multi-pass fallback.
func processSegment(data []uint32, states []groupState, gi int, opts Options) bool {
	start := gi * SegmentSize
	end := start + SegmentSize
	if end > len(data) {
		end = len(data)
	}

	// Phase 1: local Hillis-Steele scan over the segment, zero-padded past
	// the real data (identity element for addition).
	local := pools.Default.Scan.Get()
	defer pools.Default.Scan.Put(local)
	local = local[:SegmentSize]
	for i := range local {
		local[i] = 0
	}
	copy(local, data[start:end])
	inclusive := append([]uint32(nil), local...)
	lookback.HillisSteeleInclusive(inclusive)
	aggregate := inclusive[SegmentSize-1]

	// Phase 2: decoupled lookback.
	var prefix uint32
	if gi == 0 {
		states[0].slot.Publish(lookback.Prefix, aggregate)
	} else {
		states[gi].slot.Publish(lookback.Aggregate, aggregate)

		var running uint32
		for j := gi - 1; j >= 0; j-- {
			spins := 0
			var status lookback.Status
			var payload uint32
			for {
				var ok bool
				status, payload, ok = states[j].slot.TryLoad()
				if ok && status != lookback.NotReady {
					break
				}
				spins++
				if opts.Watchdog != nil && spins%256 == 0 {
					if opts.Watchdog.RecordSpin(uint32(gi)) >= stall.Confirmed {
						return false
					}
				}
				runtime.Gosched()
			}
			running += payload
			if status == lookback.Prefix {
				break
			}
		}
		prefix = running
		states[gi].slot.Publish(lookback.Prefix, running+aggregate)
	}

	// Phase 3: broadcast prefix and apply.
	for i := start; i < end; i++ {
		offset := i - start
		if opts.Exclusive {
			var before uint32
			if offset > 0 {
				before = inclusive[offset-1]
			}
			data[i] = prefix + before
		} else {
			data[i] = prefix + inclusive[offset]
		}
	}
	return true
}
