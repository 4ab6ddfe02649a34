package lookback

import (
	"fmt"
	"sync/atomic"
)

// PayloadBits is the width of the payload field packed alongside the 2-bit
// status in a PackedSlot. It bounds any count carried by a PackedSlot to
// MaxPayload, which is why radix sort inputs are capped at N < 2^30: the
// per-digit, per-segment bucket counts in the segment-state table live in
// slots of exactly this shape.
const PayloadBits = 30

// MaxPayload is the largest value a PackedSlot can carry without truncation.
const MaxPayload = 1<<PayloadBits - 1

// PackedSlot packs a 2-bit status into the high bits of a single atomic word
// and a payload into the remaining low bits. It trades payload range for
// density: the radix scatter needs one of these per (segment, digit) pair,
// 256 per segment, so a two-word encoding like SplitSlot would double the
// size of the segment-state table for no benefit (bucket counts never
// approach 2^30 in practice given the same cap on N).
type PackedSlot struct {
	v atomic.Uint32
}

func pack(status Status, payload uint32) uint32 {
	return uint32(status)<<PayloadBits | (payload & MaxPayload)
}

func unpack(word uint32) (Status, uint32) {
	return Status(word >> PayloadBits), word & MaxPayload
}

// ErrPayloadOverflow is returned by Publish when payload does not fit in
// PayloadBits bits.
type ErrPayloadOverflow struct{ Payload uint32 }

func (e ErrPayloadOverflow) Error() string {
	return fmt.Sprintf("lookback: payload %d exceeds %d-bit segment-state slot", e.Payload, PayloadBits)
}

// Publish stores status and payload atomically. It returns an error rather
// than silently truncating if payload overflows the slot; callers on the hot
// path that have already validated N < 2^30 may ignore the error.
func (s *PackedSlot) Publish(status Status, payload uint32) error {
	if payload > MaxPayload {
		return ErrPayloadOverflow{Payload: payload}
	}
	s.v.Store(pack(status, payload))
	return nil
}

// Load reads the slot's current status and payload without blocking.
func (s *PackedSlot) Load() (Status, uint32) {
	return unpack(s.v.Load())
}

// SpinLoad blocks, yielding between attempts, until the slot's status is no
// longer NotReady.
func (s *PackedSlot) SpinLoad(yield func()) (Status, uint32) {
	for {
		status, payload := s.Load()
		if status != NotReady {
			return status, payload
		}
		yield()
	}
}
