package testutil

import (
	"os"
	"strings"
	"testing"
)

func TestGenerateTestWorkloadFileWritesRequestedLineCount(t *testing.T) {
	path, cleanup := GenerateTestWorkloadFile(t, 25, 1)
	defer cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading generated file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 25 {
		t.Fatalf("got %d lines, want 25", len(lines))
	}
}

func TestGenerateTestWorkloadFileCleanupRemovesFile(t *testing.T) {
	path, cleanup := GenerateTestWorkloadFile(t, 5, 2)
	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file to be removed, stat err = %v", err)
	}
}

func TestTempFilePathDoesNotCreateFile(t *testing.T) {
	path := TempFilePath(t, "onesweep_test_*.txt")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected TempFilePath to not create the file, stat err = %v", err)
	}
}

func TestTempDirPathIsUsable(t *testing.T) {
	dir := TempDirPath(t)
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("expected TempDirPath to return a directory")
	}
}
