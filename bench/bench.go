// Package bench runs sweeps of the sort, scan, and run-finding primitives
// across a set of workload sizes and key domains, dispatching each run to a
// bounded worker pool of goroutines rather than a single sequential loop,
// so a sweep of many small workloads doesn't sit idle waiting on the
// scheduler for each one in turn.
package bench

import (
	"fmt"
	"sync"
	"time"

	"github.com/ChristianF88/onesweep/dataset"
	"github.com/ChristianF88/onesweep/metrics"
	"github.com/ChristianF88/onesweep/radix"
	"github.com/ChristianF88/onesweep/runs"
	"github.com/ChristianF88/onesweep/scan"
)

// Case describes one sweep point: a named workload shape and the
// primitive it should be run through.
type Case struct {
	Name      string
	Count     int
	Domain    dataset.KeyDomain
	Seed      int64
	Primitive Primitive
}

// Primitive selects which kernel a Case exercises.
type Primitive string

const (
	Sort Primitive = "sort"
	Scan Primitive = "scan"
	Runs Primitive = "runs"
)

// Result is one completed Case's outcome.
type Result struct {
	Case     Case
	Duration time.Duration
	Err      error
}

// Sweep runs every case in cases across a pool of workerCount goroutines,
// recording each duration into rec, and returns results in the same order
// cases were given (not completion order).
func Sweep(cases []Case, workerCount int, rec *metrics.Recorder) []Result {
	if workerCount <= 0 {
		workerCount = 4
	}
	results := make([]Result, len(cases))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = runCase(cases[i])
				if rec != nil {
					if results[i].Err != nil {
						rec.RecordError(results[i].Case.Name)
					} else {
						rec.RecordRun(results[i].Case.Name, results[i].Duration)
					}
				}
			}
		}()
	}
	for i := range cases {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func runCase(c Case) Result {
	w, err := dataset.Generate(c.Count, c.Domain, c.Seed, c.Primitive == Sort)
	if err != nil {
		return Result{Case: c, Err: fmt.Errorf("bench: generating %s: %w", c.Name, err)}
	}

	start := time.Now()
	switch c.Primitive {
	case Sort:
		if w.Values != nil {
			_, _, err = radix.SortBy(w.Keys, w.Values)
		} else {
			_, err = radix.Sort(w.Keys)
		}
	case Scan:
		scan.PrefixSum(w.Keys, scan.Options{})
	case Runs:
		sorted, sortErr := radix.Sort(w.Keys)
		if sortErr != nil {
			err = sortErr
			break
		}
		runs.Find(sorted)
	default:
		err = fmt.Errorf("bench: unknown primitive %q", c.Primitive)
	}
	elapsed := time.Since(start)

	return Result{Case: c, Duration: elapsed, Err: err}
}

// StandardSweep builds the default set of cases this library ships with a
// bench subcommand: each key domain at a small, medium, and large size, run
// through all three primitives.
func StandardSweep(seed int64) []Case {
	sizes := []struct {
		name  string
		count int
	}{
		{"small", 1 << 12},
		{"medium", 1 << 16},
		{"large", 1 << 20},
	}
	domains := []dataset.KeyDomain{dataset.Uniform, dataset.Clustered, dataset.Sorted, dataset.ReverseSorted}
	primitives := []Primitive{Sort, Scan, Runs}

	var cases []Case
	for _, sz := range sizes {
		for _, d := range domains {
			for _, p := range primitives {
				cases = append(cases, Case{
					Name:      fmt.Sprintf("%s_%s_%s", p, d, sz.name),
					Count:     sz.count,
					Domain:    d,
					Seed:      seed,
					Primitive: p,
				})
			}
		}
	}
	return cases
}
