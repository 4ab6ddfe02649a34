// Package report renders sweep and replay results as JSON summaries and as
// an interactive histogram heatmap, so a bench or trace run can leave
// behind something more durable than console output.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Entry is one named measurement in a report, mirroring bench.Result and
// trace.StepResult closely enough that both can be adapted into it without
// importing either package here (avoiding a report<->bench import cycle).
type Entry struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Err        string  `json:"error,omitempty"`
}

// Summary is a JSON-serializable collection of report entries, safe for
// concurrent appends from multiple sweep workers.
type Summary struct {
	mu      sync.Mutex
	entries []Entry
}

// NewSummary returns an empty, ready-to-use Summary.
func NewSummary() *Summary {
	return &Summary{}
}

// Add appends one entry to the summary. Safe for concurrent use.
func (s *Summary) Add(name string, d time.Duration, err error) {
	e := Entry{Name: name, DurationMS: float64(d) / float64(time.Millisecond)}
	if err != nil {
		e.Err = err.Error()
	}
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
}

// Entries returns a snapshot copy of the summary's entries.
func (s *Summary) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// WriteJSON marshals the summary as indented JSON to path.
func (s *Summary) WriteJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Entries()); err != nil {
		return fmt.Errorf("report: encoding %s: %w", path, err)
	}
	return nil
}
