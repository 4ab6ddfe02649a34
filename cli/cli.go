// Package cli wires the onesweep binary's subcommands: generating and
// sorting workloads, running the prefix-sum and run-finding primitives
// standalone, sweeping benchmarks, replaying trace scripts, and serving a
// live ingest endpoint with an optional terminal dashboard.
package cli

import (
	"time"

	cli "github.com/urfave/cli/v2"

	"github.com/ChristianF88/onesweep/version"
)

var (
	countFlag = &cli.IntFlag{
		Name:  "count",
		Usage: "number of keys to generate",
		Value: 1 << 20,
	}
	domainFlag = &cli.StringFlag{
		Name:  "domain",
		Usage: "key domain: uniform, clustered, sorted, reverse_sorted",
		Value: "uniform",
	}
	seedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "PRNG seed for reproducible generation",
		Value: 1,
	}
	valuesFlag = &cli.BoolFlag{
		Name:  "values",
		Usage: "attach an identity-permutation payload to each key",
	}
	inputFlag = &cli.StringFlag{
		Name:  "input",
		Usage: "path to a workload file instead of generating one",
	}
	outputFlag = &cli.StringFlag{
		Name:  "output",
		Usage: "path to write the resulting workload",
	}

	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "path to a TOML configuration file",
	}

	workersFlag = &cli.IntFlag{
		Name:  "workers",
		Usage: "number of concurrent bench workers",
		Value: 4,
	}
	reportFlag = &cli.StringFlag{
		Name:  "report",
		Usage: "path to write a JSON summary of the run",
	}
	heatmapFlag = &cli.StringFlag{
		Name:  "heatmap",
		Usage: "path to write an interactive digit-histogram heatmap (HTML)",
	}

	scriptFlag = &cli.StringFlag{
		Name:     "script",
		Usage:    "path to a trace replay script",
		Required: true,
	}

	addrFlag = &cli.StringFlag{
		Name:  "addr",
		Usage: "address to listen on",
		Value: "127.0.0.1:5044",
	}
	tuiFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "show a live terminal dashboard while serving",
	}
)

// App is the onesweep binary's entry point, assembled in the same
// package-level-flag-vars-plus-App-literal style as this project's other
// urfave/cli commands.
var App = &cli.App{
	Name:    "onesweep",
	Usage:   "GPU-style decoupled-lookback sort, scan, and run-finding primitives",
	Version: version.Version,
	Commands: []*cli.Command{
		{
			Name:  "sort",
			Usage: "sort a generated or loaded workload with the radix sort primitive",
			Flags: []cli.Flag{countFlag, domainFlag, seedFlag, valuesFlag, inputFlag, outputFlag},
			Action: handleSortCommand,
		},
		{
			Name:  "scan",
			Usage: "run the decoupled-lookback prefix sum over a generated or loaded workload",
			Flags: []cli.Flag{countFlag, domainFlag, seedFlag, inputFlag, outputFlag},
			Action: handleScanCommand,
		},
		{
			Name:  "runs",
			Usage: "sort a workload and report its runs of equal keys",
			Flags: []cli.Flag{countFlag, domainFlag, seedFlag, inputFlag},
			Action: handleRunsCommand,
		},
		{
			Name:  "bench",
			Usage: "sweep the standard benchmark suite across sort, scan, and runs",
			Flags: []cli.Flag{seedFlag, workersFlag, reportFlag, heatmapFlag},
			Action: handleBenchCommand,
		},
		{
			Name:  "replay",
			Usage: "compile and run a trace replay script",
			Flags: []cli.Flag{scriptFlag, reportFlag},
			Action: handleReplayCommand,
		},
		{
			Name:  "serve",
			Usage: "run a live TCP ingest server, optionally with a terminal dashboard",
			Flags: []cli.Flag{addrFlag, configFlag, tuiFlag},
			Action: handleServeCommand,
		},
		{
			Name:  "demo",
			Usage: "generate a workload, sort it, and print a before/after preview of its first keys",
			Flags: []cli.Flag{countFlag, domainFlag, seedFlag},
			Action: handleDemoCommand,
		},
	},
}

func parseReadTimeout(s string) time.Duration {
	if s == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
