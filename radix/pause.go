package radix

import "runtime"

// pauseCPU yields the calling goroutine between spin-load attempts on a
// segment-state slot, standing in for the brief hardware pause a GPU thread
// issues while spinning on another workgroup's status.
func pauseCPU() {
	runtime.Gosched()
}
