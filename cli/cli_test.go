package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func runApp(t *testing.T, args ...string) error {
	t.Helper()
	app := *App
	return app.Run(append([]string{"onesweep"}, args...))
}

func TestSortCommandGeneratesAndSortsWorkload(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "sorted.txt")

	err := runApp(t, "sort", "--count", "2000", "--domain", "clustered", "--seed", "3", "--output", out)
	if err != nil {
		t.Fatalf("sort command: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty sorted output file")
	}
}

func TestScanCommandRuns(t *testing.T) {
	if err := runApp(t, "scan", "--count", "1000", "--domain", "uniform", "--seed", "1"); err != nil {
		t.Fatalf("scan command: %v", err)
	}
}

func TestRunsCommandRuns(t *testing.T) {
	if err := runApp(t, "runs", "--count", "1000", "--domain", "sorted", "--seed", "1"); err != nil {
		t.Fatalf("runs command: %v", err)
	}
}

func TestDemoCommandRuns(t *testing.T) {
	if err := runApp(t, "demo", "--count", "500", "--domain", "uniform", "--seed", "7"); err != nil {
		t.Fatalf("demo command: %v", err)
	}
}

func TestSortCommandRejectsUnknownDomain(t *testing.T) {
	if err := runApp(t, "sort", "--count", "100", "--domain", "not_a_domain"); err == nil {
		t.Fatal("expected error for unknown domain")
	}
}

func TestReplayCommandRequiresScriptFlag(t *testing.T) {
	if err := runApp(t, "replay"); err == nil {
		t.Fatal("expected error when --script is omitted")
	}
}

func TestReplayCommandRunsScriptFile(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "script.txt")
	if err := os.WriteFile(script, []byte("sort uniform 500 seed=1\nscan sorted 300\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	report := filepath.Join(dir, "report.json")

	if err := runApp(t, "replay", "--script", script, "--report", report); err != nil {
		t.Fatalf("replay command: %v", err)
	}
	if _, err := os.Stat(report); err != nil {
		t.Fatalf("expected report file to be written: %v", err)
	}
}

func TestAppHasExpectedCommands(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range App.Commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"sort", "scan", "runs", "bench", "replay", "serve", "demo"} {
		if !names[want] {
			t.Fatalf("App missing command %q", want)
		}
	}
}
