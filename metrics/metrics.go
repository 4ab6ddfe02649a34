// Package metrics tracks recent-run timing and contention statistics keyed
// by workload name in a lock-free concurrent map, so the live ingest server
// and the TUI dashboard can both record and read run history without a
// shared mutex serializing every pipeline invocation.
package metrics

import (
	"time"

	"github.com/alphadose/haxmap"
)

// RunStat accumulates the running history for one named workload: a sliding
// window of recent pass durations and a count of watchdog-confirmed stalls
// reported through RecordSpinStall.
type RunStat struct {
	Durations   []time.Duration
	SpinStalls  int
	LastRunAt   time.Time
	TotalRuns   int
	TotalErrors int
}

// Recorder is a concurrent, sharded store of RunStat keyed by workload name.
type Recorder struct {
	stats      *haxmap.Map[string, RunStat]
	windowSize int
}

// NewRecorder builds a Recorder that keeps at most windowSize durations per
// workload.
func NewRecorder(windowSize int) *Recorder {
	if windowSize <= 0 {
		windowSize = 32
	}
	return &Recorder{
		stats:      haxmap.New[string, RunStat](),
		windowSize: windowSize,
	}
}

// RecordRun appends one pass duration to workload's history, trimming to
// the configured window size, and increments its run count.
func (r *Recorder) RecordRun(workload string, d time.Duration) {
	stat, _ := r.stats.Get(workload)
	stat.Durations = append(stat.Durations, d)
	if len(stat.Durations) > r.windowSize {
		stat.Durations = stat.Durations[len(stat.Durations)-r.windowSize:]
	}
	stat.LastRunAt = time.Now()
	stat.TotalRuns++
	r.stats.Set(workload, stat)
}

// RecordSpinStall increments the count of watchdog-confirmed stalls
// observed for workload.
func (r *Recorder) RecordSpinStall(workload string) {
	stat, _ := r.stats.Get(workload)
	stat.SpinStalls++
	r.stats.Set(workload, stat)
}

// RecordError increments workload's error count.
func (r *Recorder) RecordError(workload string) {
	stat, _ := r.stats.Get(workload)
	stat.TotalErrors++
	r.stats.Set(workload, stat)
}

// Get returns the current stat for workload and whether it has ever been
// recorded.
func (r *Recorder) Get(workload string) (RunStat, bool) {
	return r.stats.Get(workload)
}

// Snapshot returns a copy of every tracked workload's current stat.
func (r *Recorder) Snapshot() map[string]RunStat {
	out := make(map[string]RunStat)
	r.stats.ForEach(func(name string, stat RunStat) bool {
		out[name] = stat
		return true
	})
	return out
}

// Mean returns the arithmetic mean of a RunStat's recorded durations, or
// zero if none have been recorded yet.
func (s RunStat) Mean() time.Duration {
	if len(s.Durations) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range s.Durations {
		total += d
	}
	return total / time.Duration(len(s.Durations))
}
