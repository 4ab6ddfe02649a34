// Package config loads onesweep's TOML configuration file: dataset
// generation parameters, kernel tuning knobs, and the toggles for the
// optional live ingest server and TUI dashboard. It mirrors a decode-into-
// map-then-dispatch pattern rather than decoding straight into a struct, so
// that unknown top-level tables (used for named dataset presets) can be
// preserved and validated individually.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// KernelConfig holds the [kernel] tuning knobs: segment sizes, watchdog
// spin thresholds, and a forced-fallback toggle. The defaults match the
// values fixed in this library's design. The fields are decoded and checked
// by Validate only; the scan, histogram, and radix packages use their own
// segment-size constants and do not read this struct.
type KernelConfig struct {
	ScanSegmentSize      int  `toml:"scan_segment_size"`
	RadixSegmentSize     int  `toml:"radix_segment_size"`
	HistogramSegmentSize int  `toml:"histogram_segment_size"`
	WatchdogSuspectSpins int  `toml:"watchdog_suspect_spins"`
	WatchdogConfirmSpins int  `toml:"watchdog_confirmed_spins"`
	ForceMultiPassScan   bool `toml:"force_multipass_scan"`
}

// DefaultKernelConfig returns the tuning this library ships with.
func DefaultKernelConfig() KernelConfig {
	return KernelConfig{
		ScanSegmentSize:      2048,
		RadixSegmentSize:     1024,
		HistogramSegmentSize: 1024,
		WatchdogSuspectSpins: 1 << 16,
		WatchdogConfirmSpins: 1 << 20,
		ForceMultiPassScan:   false,
	}
}

// DatasetConfig describes one named workload to generate or replay.
type DatasetConfig struct {
	Name        string `toml:"-"`
	Count       int    `toml:"count"`
	Seed        int64  `toml:"seed"`
	KeyDomain   string `toml:"key_domain"` // "uniform", "clustered", "sorted", "reverse_sorted"
	WithValues  bool   `toml:"with_values"`
	SourceFile  string `toml:"source_file"`
	OutputPlain bool   `toml:"output_plain"`
}

// IngestConfig configures the optional live TCP ingest server.
type IngestConfig struct {
	Enabled     bool   `toml:"enabled"`
	Addr        string `toml:"addr"`
	ReadTimeout string `toml:"read_timeout"`
}

// TUIConfig configures the optional live dashboard.
type TUIConfig struct {
	Enabled      bool `toml:"enabled"`
	RefreshMS    int  `toml:"refresh_ms"`
	HistoryDepth int  `toml:"history_depth"`
}

// Config is the fully parsed onesweep configuration.
type Config struct {
	Kernel   KernelConfig
	Ingest   IngestConfig
	TUI      TUIConfig
	Datasets map[string]DatasetConfig
}

// LoadConfig reads and decodes a TOML file at path. Unknown top-level
// tables other than "kernel", "ingest", and "tui" are treated as named
// dataset presets, decoded via parseDatasetConfig.
func LoadConfig(path string) (*Config, error) {
	var doc map[string]map[string]any
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}

	cfg := &Config{
		Kernel:   DefaultKernelConfig(),
		Datasets: make(map[string]DatasetConfig),
	}

	for name, table := range doc {
		switch name {
		case "kernel":
			if err := decodeSection(table, &cfg.Kernel); err != nil {
				return nil, fmt.Errorf("config: [kernel]: %w", err)
			}
		case "ingest":
			if err := decodeSection(table, &cfg.Ingest); err != nil {
				return nil, fmt.Errorf("config: [ingest]: %w", err)
			}
		case "tui":
			if err := decodeSection(table, &cfg.TUI); err != nil {
				return nil, fmt.Errorf("config: [tui]: %w", err)
			}
		default:
			ds, err := parseDatasetConfig(name, table)
			if err != nil {
				return nil, fmt.Errorf("config: [%s]: %w", name, err)
			}
			cfg.Datasets[name] = ds
		}
	}

	return cfg, nil
}

// decodeSection re-encodes a generic table back through TOML into a typed
// struct. It costs an extra marshal/unmarshal round trip but keeps the
// top-level dispatch in LoadConfig free of per-field type assertions.
func decodeSection(table map[string]any, dst any) error {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(table); err != nil {
		return err
	}
	_, err := toml.Decode(buf.String(), dst)
	return err
}

func parseDatasetConfig(name string, table map[string]any) (DatasetConfig, error) {
	ds := DatasetConfig{Name: name, Count: 1 << 20, Seed: 1, KeyDomain: "uniform"}
	if err := decodeSection(table, &ds); err != nil {
		return DatasetConfig{}, err
	}
	ds.Name = name
	if ds.Count <= 0 {
		return DatasetConfig{}, fmt.Errorf("count must be positive, got %d", ds.Count)
	}
	switch ds.KeyDomain {
	case "", "uniform", "clustered", "sorted", "reverse_sorted":
	default:
		return DatasetConfig{}, fmt.Errorf("unknown key_domain %q", ds.KeyDomain)
	}
	return ds, nil
}

// Validate checks cross-field constraints that TOML decoding alone cannot
// enforce.
func (c *Config) Validate() error {
	if c.Kernel.WatchdogConfirmSpins <= c.Kernel.WatchdogSuspectSpins {
		return fmt.Errorf("watchdog_confirmed_spins (%d) must exceed watchdog_suspect_spins (%d)",
			c.Kernel.WatchdogConfirmSpins, c.Kernel.WatchdogSuspectSpins)
	}
	if c.Ingest.Enabled && c.Ingest.Addr == "" {
		return fmt.Errorf("ingest.addr must be set when ingest.enabled is true")
	}
	return nil
}

// LoadKeyDomainOverrides reads a plain text file of newline-separated
// "name=domain" pairs used to override a dataset's key_domain from the
// command line without editing the TOML file, one override per line,
// '#'-prefixed lines ignored.
func LoadKeyDomainOverrides(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	overrides := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("config: malformed override line %q", line)
		}
		overrides[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return overrides, scanner.Err()
}
