package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "onesweep.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeTempConfig(t, "")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Kernel.ScanSegmentSize != 2048 {
		t.Fatalf("scan segment size = %d, want default 2048", cfg.Kernel.ScanSegmentSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := writeTempConfig(t, `
[kernel]
scan_segment_size = 4096
watchdog_suspect_spins = 10
watchdog_confirmed_spins = 20

[ingest]
enabled = true
addr = "127.0.0.1:5044"

[tui]
enabled = true
refresh_ms = 250

[uniform_medium]
count = 500000
key_domain = "uniform"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Kernel.ScanSegmentSize != 4096 {
		t.Fatalf("scan_segment_size = %d, want 4096", cfg.Kernel.ScanSegmentSize)
	}
	if !cfg.Ingest.Enabled || cfg.Ingest.Addr != "127.0.0.1:5044" {
		t.Fatalf("ingest section not parsed: %+v", cfg.Ingest)
	}
	if !cfg.TUI.Enabled || cfg.TUI.RefreshMS != 250 {
		t.Fatalf("tui section not parsed: %+v", cfg.TUI)
	}
	ds, ok := cfg.Datasets["uniform_medium"]
	if !ok {
		t.Fatal("dataset preset not found")
	}
	if ds.Count != 500000 || ds.KeyDomain != "uniform" {
		t.Fatalf("dataset preset wrong: %+v", ds)
	}
}

func TestValidateRejectsBadWatchdogThresholds(t *testing.T) {
	cfg := &Config{Kernel: KernelConfig{WatchdogSuspectSpins: 100, WatchdogConfirmSpins: 50}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when confirmed threshold is below suspect threshold")
	}
}

func TestValidateRejectsIngestWithoutAddr(t *testing.T) {
	cfg := &Config{Kernel: DefaultKernelConfig(), Ingest: IngestConfig{Enabled: true}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled ingest without addr")
	}
}

func TestLoadConfigRejectsUnknownKeyDomain(t *testing.T) {
	path := writeTempConfig(t, `
[bad]
count = 10
key_domain = "not_a_real_domain"
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown key_domain")
	}
}

func TestLoadKeyDomainOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.txt")
	contents := "# comment\nuniform_medium=clustered\n\nlarge=sorted\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	overrides, err := LoadKeyDomainOverrides(path)
	if err != nil {
		t.Fatalf("LoadKeyDomainOverrides: %v", err)
	}
	if overrides["uniform_medium"] != "clustered" || overrides["large"] != "sorted" {
		t.Fatalf("unexpected overrides: %+v", overrides)
	}
}
