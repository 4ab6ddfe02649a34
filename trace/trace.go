// Package trace compiles a small text replay language into a sequence of
// pipeline steps and executes them in order. Each line names a primitive
// and its parameters ("sort uniform 100000 seed=1"); compiling a line once
// into a Step and reusing that Step across repeated replays avoids
// re-parsing and re-validating the same line on every iteration of a
// soak-test loop.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ChristianF88/onesweep/dataset"
	"github.com/ChristianF88/onesweep/radix"
	"github.com/ChristianF88/onesweep/runs"
	"github.com/ChristianF88/onesweep/scan"
)

// Step is one compiled replay instruction.
type Step struct {
	Line      int
	Primitive string
	Domain    dataset.KeyDomain
	Count     int
	Seed      int64
	WithValues bool
}

// Recipe is an ordered, compiled sequence of Steps.
type Recipe struct {
	Steps []Step
}

// Compile parses a replay script from r. Blank lines and lines starting
// with '#' are skipped. Each remaining line has the form:
//
//	<primitive> <domain> <count> [seed=N] [values]
//
// where primitive is one of "sort", "scan", or "runs".
func Compile(r io.Reader) (*Recipe, error) {
	var steps []Step
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		step, err := compileLine(lineNo, line)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &Recipe{Steps: steps}, nil
}

func compileLine(lineNo int, line string) (Step, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Step{}, fmt.Errorf("trace: line %d: expected \"<primitive> <domain> <count> [options]\", got %q", lineNo, line)
	}

	step := Step{Line: lineNo, Primitive: fields[0], Domain: dataset.KeyDomain(fields[1]), Seed: 1}
	switch step.Primitive {
	case "sort", "scan", "runs":
	default:
		return Step{}, fmt.Errorf("trace: line %d: unknown primitive %q", lineNo, fields[0])
	}

	count, err := strconv.Atoi(fields[2])
	if err != nil || count <= 0 {
		return Step{}, fmt.Errorf("trace: line %d: invalid count %q", lineNo, fields[2])
	}
	step.Count = count

	for _, opt := range fields[3:] {
		switch {
		case opt == "values":
			step.WithValues = true
		case strings.HasPrefix(opt, "seed="):
			seed, err := strconv.ParseInt(strings.TrimPrefix(opt, "seed="), 10, 64)
			if err != nil {
				return Step{}, fmt.Errorf("trace: line %d: invalid seed option %q", lineNo, opt)
			}
			step.Seed = seed
		default:
			return Step{}, fmt.Errorf("trace: line %d: unrecognized option %q", lineNo, opt)
		}
	}

	return step, nil
}

// StepResult is the outcome of replaying one Step.
type StepResult struct {
	Step     Step
	Duration time.Duration
	Err      error
}

// Run replays every step in the recipe in order, stopping at the first
// step that fails to generate its workload (a primitive error does not
// stop the replay; it's recorded on that step's result).
func (rc *Recipe) Run() ([]StepResult, error) {
	results := make([]StepResult, 0, len(rc.Steps))
	for _, step := range rc.Steps {
		w, err := dataset.Generate(step.Count, step.Domain, step.Seed, step.WithValues)
		if err != nil {
			return results, fmt.Errorf("trace: line %d: %w", step.Line, err)
		}

		start := time.Now()
		var runErr error
		switch step.Primitive {
		case "sort":
			if w.Values != nil {
				_, _, runErr = radix.SortBy(w.Keys, w.Values)
			} else {
				_, runErr = radix.Sort(w.Keys)
			}
		case "scan":
			scan.PrefixSum(w.Keys, scan.Options{})
		case "runs":
			sorted, sortErr := radix.Sort(w.Keys)
			if sortErr != nil {
				runErr = sortErr
			} else {
				runs.Find(sorted)
			}
		}
		results = append(results, StepResult{Step: step, Duration: time.Since(start), Err: runErr})
	}
	return results, nil
}
