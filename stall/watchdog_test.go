package stall

import "testing"

func TestWatchdogEscalatesInStages(t *testing.T) {
	w := New(5, 10)
	if w.Stage() != Healthy {
		t.Fatalf("initial stage = %v, want Healthy", w.Stage())
	}
	for i := 0; i < 5; i++ {
		w.RecordSpin(1)
	}
	if w.Stage() != Suspected {
		t.Fatalf("after 5 spins stage = %v, want Suspected", w.Stage())
	}
	if w.Tripped() {
		t.Fatal("Tripped() true at Suspected")
	}
	for i := 0; i < 5; i++ {
		w.RecordSpin(1)
	}
	if w.Stage() != Confirmed || !w.Tripped() {
		t.Fatalf("after 10 spins stage = %v tripped=%v, want Confirmed/true", w.Stage(), w.Tripped())
	}
}

func TestWatchdogTracksWaitersIndependently(t *testing.T) {
	w := New(3, 6)
	for i := 0; i < 6; i++ {
		w.RecordSpin(1) // waiter 1 goes all the way to Confirmed
	}
	if !w.Tripped() {
		t.Fatal("waiter 1 should have confirmed the watchdog")
	}
	w.ClearWaiter(1)
	// A fresh waiter starting from zero doesn't un-trip a watchdog already
	// at Confirmed; escalation is monotonic for the lifetime of a Watchdog.
	w.RecordSpin(2)
	if w.Stage() != Confirmed {
		t.Fatalf("stage regressed after ClearWaiter: %v", w.Stage())
	}
}
