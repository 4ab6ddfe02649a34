package lookback

import "sync/atomic"

// SplitSlot publishes a full 32-bit payload without relying on acquire/release
// ordering between the payload and its status tag: the payload is split into
// two 16-bit halves, each stored together with its own copy of the status in
// a single atomic word. A reader only trusts the reconstructed payload once
// both halves report the same status. Because a slot's status only ever
// advances NotReady -> Aggregate -> Prefix and never regresses, agreement
// between the two tags implies both halves came from the same publish call.
//
// This mirrors the two-word group-state record used by the scan this package
// backs; the payload never needs to exceed 32 bits, so no bits are stolen
// from it the way the radix segment-state table steals two for its status.
type SplitSlot struct {
	lo atomic.Uint32
	hi atomic.Uint32
}

func packHalf(status Status, half uint16) uint32 {
	return uint32(status)<<16 | uint32(half)
}

// Publish stores payload under the given status. Safe for concurrent use
// with TryLoad; not safe for concurrent use with another Publish on the same
// slot (only the owning segment ever publishes).
func (s *SplitSlot) Publish(status Status, payload uint32) {
	s.lo.Store(packHalf(status, uint16(payload)))
	s.hi.Store(packHalf(status, uint16(payload>>16)))
}

// TryLoad returns the slot's status and, if both halves agree on that
// status, the reconstructed payload. ok is false when the halves disagree,
// meaning a Publish is in flight; the caller should retry.
func (s *SplitSlot) TryLoad() (status Status, payload uint32, ok bool) {
	loWord := s.lo.Load()
	hiWord := s.hi.Load()
	loStatus := Status(loWord >> 16)
	hiStatus := Status(hiWord >> 16)
	if loStatus != hiStatus {
		return NotReady, 0, false
	}
	payload = uint32(uint16(loWord)) | uint32(uint16(hiWord))<<16
	return loStatus, payload, true
}

// SpinLoad blocks the calling goroutine, yielding between attempts, until
// TryLoad reports a status other than NotReady with agreeing tags. It is the
// direct analogue of a GPU spin-load on a status slot under relaxed atomics.
func (s *SplitSlot) SpinLoad(yield func()) (Status, uint32) {
	for {
		status, payload, ok := s.TryLoad()
		if ok && status != NotReady {
			return status, payload
		}
		yield()
	}
}
