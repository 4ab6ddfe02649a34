// Package testutil provides small file-system helpers shared by this
// module's package tests: generating a scratch workload file on disk and
// producing throwaway temp paths without leaking them across test runs.
package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"testing"
)

// GenerateTestWorkloadFile writes a plain-text key/value workload file of
// numKeys lines in the format dataset.Load understands ("<key> <value>"),
// for tests that need a workload already sitting on disk rather than
// generated in memory. Returns the file path and a cleanup function.
func GenerateTestWorkloadFile(t *testing.T, numKeys int, seed int64) (string, func()) {
	t.Helper()

	if numKeys < 1 {
		numKeys = 1
	}

	tmpFile, err := os.CreateTemp("", "test_workload_*.txt")
	if err != nil {
		t.Fatalf("failed to create temp workload file: %v", err)
	}

	r := rand.New(rand.NewSource(seed))
	for i := 0; i < numKeys; i++ {
		if _, err := fmt.Fprintf(tmpFile, "%d %d\n", r.Uint32(), i); err != nil {
			tmpFile.Close()
			t.Fatalf("failed to write temp workload file: %v", err)
		}
	}
	tmpFile.Close()

	cleanup := func() {
		os.Remove(tmpFile.Name())
	}
	return tmpFile.Name(), cleanup
}

// TempFilePath returns a cross-platform temporary file path with the given
// pattern. Does not create the file.
func TempFilePath(t *testing.T, pattern string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	path := tmpFile.Name()
	tmpFile.Close()
	os.Remove(path)

	return path
}

// TempDirPath returns a cross-platform temporary directory path.
func TempDirPath(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}
