// Package dataset generates and loads the uint32 key/value workloads the
// CLI's sort, scan, and runs commands operate on. Generation covers the key
// domains real radix-sort workloads stress differently: uniformly random
// keys exercise every digit bucket evenly, clustered keys concentrate most
// of the mass in a few high-order digits, and pre-sorted or reverse-sorted
// keys exercise the run-finding and idempotence paths.
package dataset

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

// KeyDomain selects the distribution Generate draws keys from.
type KeyDomain string

const (
	Uniform       KeyDomain = "uniform"
	Clustered     KeyDomain = "clustered"
	Sorted        KeyDomain = "sorted"
	ReverseSorted KeyDomain = "reverse_sorted"
)

// Workload is a generated or loaded key/value pair of buffers ready to feed
// to the sort, scan, or runs primitives. Values is nil when the workload
// carries no payload.
type Workload struct {
	Keys   []uint32
	Values []uint32
}

// Generate produces a Workload of n keys drawn from domain using seed for
// reproducibility. withValues additionally fills Values with the original
// index of each key, a convenient permutation witness for tests and
// benchmarks.
func Generate(n int, domain KeyDomain, seed int64, withValues bool) (Workload, error) {
	r := rand.New(rand.NewSource(seed))
	keys := make([]uint32, n)

	switch domain {
	case Uniform, "":
		for i := range keys {
			keys[i] = r.Uint32()
		}
	case Clustered:
		// Most keys land in one of a handful of high-order-digit clusters,
		// stressing histogram buckets unevenly.
		const clusters = 8
		bases := make([]uint32, clusters)
		for i := range bases {
			bases[i] = r.Uint32() &^ 0xFFFF
		}
		for i := range keys {
			keys[i] = bases[r.Intn(clusters)] | uint32(r.Intn(1<<16))
		}
	case Sorted:
		for i := range keys {
			keys[i] = uint32(i)
		}
	case ReverseSorted:
		for i := range keys {
			keys[i] = uint32(n - i)
		}
	default:
		return Workload{}, fmt.Errorf("dataset: unknown key domain %q", domain)
	}

	var values []uint32
	if withValues {
		values = make([]uint32, n)
		for i := range values {
			values[i] = uint32(i)
		}
	}

	return Workload{Keys: keys, Values: values}, nil
}

// Load reads a workload from a plain text file, one key per line, optionally
// followed by whitespace and a value ("<key> <value>"). Blank lines and
// lines starting with '#' are skipped.
func Load(path string) (Workload, error) {
	f, err := os.Open(path)
	if err != nil {
		return Workload{}, err
	}
	defer f.Close()

	var keys, values []uint32
	haveValues := false
	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		key, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return Workload{}, fmt.Errorf("dataset: %s:%d: invalid key %q: %w", path, lineNo, fields[0], err)
		}
		keys = append(keys, uint32(key))
		if len(fields) > 1 {
			val, err := strconv.ParseUint(fields[1], 10, 32)
			if err != nil {
				return Workload{}, fmt.Errorf("dataset: %s:%d: invalid value %q: %w", path, lineNo, fields[1], err)
			}
			values = append(values, uint32(val))
			haveValues = true
		}
	}
	if err := scanner.Err(); err != nil {
		return Workload{}, err
	}
	if haveValues && len(values) != len(keys) {
		return Workload{}, fmt.Errorf("dataset: %s: some lines carry a value and some do not", path)
	}
	w := Workload{Keys: keys}
	if haveValues {
		w.Values = values
	}
	return w, nil
}

// Save writes a workload back out in the format Load understands.
func Save(path string, w Workload) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	for i, k := range w.Keys {
		if w.Values != nil {
			fmt.Fprintf(buf, "%d %d\n", k, w.Values[i])
		} else {
			fmt.Fprintf(buf, "%d\n", k)
		}
	}
	return buf.Flush()
}
