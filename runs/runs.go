// Package runs finds maximal runs of equal values in a sorted array,
// reusing the decoupled-lookback scan for its middle stage: mark run
// starts, scan the marks into run indices, then collect the start position
// of each run.
package runs

import "github.com/ChristianF88/onesweep/scan"

// Result holds the outcome of Find: the number of distinct values and the
// start position of each corresponding run, in ascending order.
type Result struct {
	Count  int
	Starts []int
}

// Find locates every run of equal consecutive values in sorted. sorted must
// already be non-decreasing; behavior on unsorted input is undefined.
func Find(sorted []uint32) Result {
	n := len(sorted)
	if n == 0 {
		return Result{}
	}

	// Mark run starts.
	marks := make([]uint32, n)
	for i := 1; i < n; i++ {
		if sorted[i] != sorted[i-1] {
			marks[i] = 1
		}
	}

	// Inclusive scan turns marks[i] into the 0-based run index of position i.
	scan.PrefixSum(marks, scan.Options{})

	runCount := int(marks[n-1]) + 1
	starts := make([]int, runCount)
	for i := 0; i < n; i++ {
		if i == 0 || marks[i] != marks[i-1] {
			starts[marks[i]] = i
		}
	}

	return Result{Count: runCount, Starts: starts}
}
