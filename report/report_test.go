package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ChristianF88/onesweep/histogram"
)

func TestSummaryAddAndEntries(t *testing.T) {
	s := NewSummary()
	s.Add("sort_uniform_1m", 12*time.Millisecond, nil)
	s.Add("sort_bad", 0, errors.New("boom"))

	entries := s.Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name != "sort_uniform_1m" || entries[0].DurationMS != 12 {
		t.Fatalf("entries[0] = %+v", entries[0])
	}
	if entries[1].Err != "boom" {
		t.Fatalf("entries[1].Err = %q, want %q", entries[1].Err, "boom")
	}
}

func TestSummaryWriteJSONRoundTrips(t *testing.T) {
	s := NewSummary()
	s.Add("scan_2m", 5*time.Millisecond, nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "summary.json")
	if err := s.WriteJSON(path); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var decoded []Entry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Name != "scan_2m" {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestPlotHistogramHeatmapProducesFile(t *testing.T) {
	var h histogram.Matrix
	for g := 0; g < histogram.RadixGroups; g++ {
		for d := 0; d < histogram.Digits; d++ {
			h[g][d] = uint32(d + g)
		}
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "heatmap.html")
	if err := PlotHistogramHeatmap(h, path); err != nil {
		t.Fatalf("PlotHistogramHeatmap: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("heatmap file is empty")
	}
}
