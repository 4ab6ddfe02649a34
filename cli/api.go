package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v2"

	"github.com/ChristianF88/onesweep/bench"
	"github.com/ChristianF88/onesweep/config"
	"github.com/ChristianF88/onesweep/dataset"
	"github.com/ChristianF88/onesweep/histogram"
	"github.com/ChristianF88/onesweep/ingest"
	"github.com/ChristianF88/onesweep/metrics"
	"github.com/ChristianF88/onesweep/radix"
	"github.com/ChristianF88/onesweep/report"
	"github.com/ChristianF88/onesweep/runs"
	"github.com/ChristianF88/onesweep/scan"
	"github.com/ChristianF88/onesweep/trace"
	"github.com/ChristianF88/onesweep/tui"
)

func loadOrGenerateWorkload(c *cli.Context) (dataset.Workload, error) {
	if input := c.String("input"); input != "" {
		return dataset.Load(input)
	}
	return dataset.Generate(c.Int("count"), dataset.KeyDomain(c.String("domain")), c.Int64("seed"), c.Bool("values"))
}

func handleSortCommand(c *cli.Context) error {
	w, err := loadOrGenerateWorkload(c)
	if err != nil {
		return fmt.Errorf("sort: %w", err)
	}

	start := time.Now()
	var sortedKeys, sortedValues []uint32
	if w.Values != nil {
		sortedKeys, sortedValues, err = radix.SortBy(w.Keys, w.Values)
	} else {
		sortedKeys, err = radix.Sort(w.Keys)
	}
	if err != nil {
		return fmt.Errorf("sort: %w", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("sorted %d keys in %s\n", len(sortedKeys), elapsed)

	if out := c.String("output"); out != "" {
		return dataset.Save(out, dataset.Workload{Keys: sortedKeys, Values: sortedValues})
	}
	return nil
}

func handleScanCommand(c *cli.Context) error {
	w, err := loadOrGenerateWorkload(c)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	keys := append([]uint32(nil), w.Keys...)
	start := time.Now()
	scan.PrefixSum(keys, scan.Options{})
	elapsed := time.Since(start)

	fmt.Printf("prefix-summed %d values in %s\n", len(keys), elapsed)

	if out := c.String("output"); out != "" {
		return dataset.Save(out, dataset.Workload{Keys: keys})
	}
	return nil
}

func handleRunsCommand(c *cli.Context) error {
	w, err := loadOrGenerateWorkload(c)
	if err != nil {
		return fmt.Errorf("runs: %w", err)
	}

	sorted, err := radix.Sort(w.Keys)
	if err != nil {
		return fmt.Errorf("runs: %w", err)
	}

	start := time.Now()
	result := runs.Find(sorted)
	elapsed := time.Since(start)

	fmt.Printf("found %d runs across %d keys in %s\n", result.Count, len(sorted), elapsed)
	return nil
}

func handleBenchCommand(c *cli.Context) error {
	rec := metrics.NewRecorder(16)
	cases := bench.StandardSweep(c.Int64("seed"))
	results := bench.Sweep(cases, c.Int("workers"), rec)

	summary := report.NewSummary()
	for _, r := range results {
		summary.Add(r.Case.Name, r.Duration, r.Err)
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		fmt.Printf("%-40s %10s  %s\n", r.Case.Name, r.Duration, status)
	}

	if path := c.String("report"); path != "" {
		if err := summary.WriteJSON(path); err != nil {
			return fmt.Errorf("bench: %w", err)
		}
	}
	if path := c.String("heatmap"); path != "" {
		w, err := dataset.Generate(1<<20, dataset.Uniform, c.Int64("seed"), false)
		if err != nil {
			return fmt.Errorf("bench: heatmap workload: %w", err)
		}
		h := histogram.Compute(w.Keys)
		if err := report.PlotHistogramHeatmap(h, path); err != nil {
			return fmt.Errorf("bench: heatmap: %w", err)
		}
	}
	return nil
}

func handleReplayCommand(c *cli.Context) error {
	f, err := os.Open(c.String("script"))
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	defer f.Close()

	recipe, err := trace.Compile(f)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	results, err := recipe.Run()
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	summary := report.NewSummary()
	for _, r := range results {
		name := fmt.Sprintf("line_%d_%s", r.Step.Line, r.Step.Primitive)
		summary.Add(name, r.Duration, r.Err)
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		fmt.Printf("line %-4d %-6s %10s  %s\n", r.Step.Line, r.Step.Primitive, r.Duration, status)
	}

	if path := c.String("report"); path != "" {
		if err := summary.WriteJSON(path); err != nil {
			return fmt.Errorf("replay: %w", err)
		}
	}
	return nil
}

func handleServeCommand(c *cli.Context) error {
	readTimeout := 30 * time.Second
	if path := c.String("config"); path != "" {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		readTimeout = parseReadTimeout(cfg.Ingest.ReadTimeout)
	}

	srv, err := ingest.NewServer(c.String("addr"), readTimeout)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	if err := srv.Accept(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	defer srv.Close()

	rec := metrics.NewRecorder(64)

	var dashboard *tui.App
	if c.Bool("tui") {
		dashboard = tui.NewApp(rec, 500*time.Millisecond)
		go func() {
			if err := dashboard.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "serve: dashboard: %v\n", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Printf("listening on %s\n", c.String("addr"))
	for {
		select {
		case batch, ok := <-srv.Batches():
			if !ok {
				return nil
			}
			processBatch(batch, rec, dashboard)
		case <-sigCh:
			if dashboard != nil {
				dashboard.Stop()
			}
			return nil
		}
	}
}

func processBatch(b ingest.Batch, rec *metrics.Recorder, dashboard *tui.App) {
	start := time.Now()
	var err error
	if b.Values != nil {
		_, _, err = radix.SortBy(b.Keys, b.Values)
	} else {
		_, err = radix.Sort(b.Keys)
	}
	elapsed := time.Since(start)

	if err != nil {
		rec.RecordError("ingest_batch")
		return
	}
	rec.RecordRun("ingest_batch", elapsed)

	if dashboard != nil {
		dashboard.SetHistogram(histogram.Compute(b.Keys))
	}
}

func handleDemoCommand(c *cli.Context) error {
	w, err := dataset.Generate(c.Int("count"), dataset.KeyDomain(c.String("domain")), c.Int64("seed"), false)
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}

	before := preview(w.Keys)
	sorted, err := radix.Sort(w.Keys)
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	after := preview(sorted)

	result := runs.Find(sorted)

	fmt.Printf("before: %v\n", before)
	fmt.Printf("after:  %v\n", after)
	fmt.Printf("%d keys, %d runs of equal values\n", len(sorted), result.Count)
	return nil
}

func preview(keys []uint32) []uint32 {
	n := len(keys)
	if n > 10 {
		n = 10
	}
	return keys[:n]
}
