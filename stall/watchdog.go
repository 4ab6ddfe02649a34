// Package stall detects violations of the forward-progress assumption the
// decoupled-lookback protocols in scan and radix depend on: once a
// workgroup is scheduled, every scheduled workgroup is assumed to
// eventually make progress. A goroutine spinning on a predecessor's status
// slot that never flips is indistinguishable from a legitimately slow
// predecessor until it has spun for a long time, so a Watchdog tracks spin
// counts per waiter and escalates through stages the same way the CIDR ban
// ladder escalates a repeat offender, rather than tripping on the first
// slow read.
package stall

import "sync"

// Stage is how far a waiter has escalated toward being declared deadlocked.
type Stage int

const (
	// Healthy means no waiter has spun past the first threshold.
	Healthy Stage = iota
	// Suspected means at least one waiter has spun past the first
	// threshold; still within normal scheduling jitter.
	Suspected
	// Confirmed means a waiter has spun past the second threshold; the
	// caller should abandon the single-pass protocol and fall back.
	Confirmed
)

// Watchdog counts spins per waiter (a group or digit index) and escalates
// its Stage as any single waiter's spin count crosses thresholds.
type Watchdog struct {
	mu          sync.Mutex
	spins       map[uint32]int
	stage       Stage
	suspectAt   int
	confirmedAt int
}

// New builds a Watchdog. suspectAt and confirmedAt are spin-count
// thresholds; confirmedAt must be greater than suspectAt.
func New(suspectAt, confirmedAt int) *Watchdog {
	return &Watchdog{
		spins:       make(map[uint32]int),
		suspectAt:   suspectAt,
		confirmedAt: confirmedAt,
	}
}

// RecordSpin registers one more failed spin-load attempt by waiter and
// returns the Watchdog's stage after accounting for it.
func (w *Watchdog) RecordSpin(waiter uint32) Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.spins[waiter]++
	n := w.spins[waiter]
	switch {
	case n >= w.confirmedAt:
		w.stage = Confirmed
	case n >= w.suspectAt && w.stage < Suspected:
		w.stage = Suspected
	}
	return w.stage
}

// Tripped reports whether the watchdog has reached Confirmed and the caller
// should abandon the single-pass protocol.
func (w *Watchdog) Tripped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage >= Confirmed
}

// Stage returns the current escalation stage.
func (w *Watchdog) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// ClearWaiter drops a waiter's spin count once it stops waiting, keeping the
// map from growing unbounded across a long-running dispatch loop.
func (w *Watchdog) ClearWaiter(waiter uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.spins, waiter)
}
