package trace

import (
	"strings"
	"testing"
)

func TestCompileSkipsCommentsAndBlanks(t *testing.T) {
	src := "# a replay script\n\nsort uniform 1000 seed=5\nscan sorted 500\n"
	rc, err := Compile(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(rc.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(rc.Steps))
	}
	if rc.Steps[0].Primitive != "sort" || rc.Steps[0].Seed != 5 {
		t.Fatalf("step 0 = %+v", rc.Steps[0])
	}
	if rc.Steps[1].Primitive != "scan" || rc.Steps[1].Seed != 1 {
		t.Fatalf("step 1 = %+v, want default seed 1", rc.Steps[1])
	}
}

func TestCompileParsesValuesOption(t *testing.T) {
	rc, err := Compile(strings.NewReader("sort clustered 200 values seed=9\n"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !rc.Steps[0].WithValues {
		t.Fatal("expected WithValues=true")
	}
	if rc.Steps[0].Seed != 9 {
		t.Fatalf("seed = %d, want 9", rc.Steps[0].Seed)
	}
}

func TestCompileRejectsUnknownPrimitive(t *testing.T) {
	if _, err := Compile(strings.NewReader("bogus uniform 100\n")); err == nil {
		t.Fatal("expected error for unknown primitive")
	}
}

func TestCompileRejectsBadCount(t *testing.T) {
	if _, err := Compile(strings.NewReader("sort uniform notanumber\n")); err == nil {
		t.Fatal("expected error for invalid count")
	}
}

func TestCompileRejectsUnrecognizedOption(t *testing.T) {
	if _, err := Compile(strings.NewReader("sort uniform 100 bogus_option\n")); err == nil {
		t.Fatal("expected error for unrecognized option")
	}
}

func TestCompileRejectsTooFewFields(t *testing.T) {
	if _, err := Compile(strings.NewReader("sort uniform\n")); err == nil {
		t.Fatal("expected error for missing count field")
	}
}

func TestRunExecutesEveryStep(t *testing.T) {
	rc, err := Compile(strings.NewReader("sort uniform 500 seed=1\nscan sorted 300\nruns clustered 400 seed=2\n"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	results, err := rc.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("step %+v failed: %v", r.Step, r.Err)
		}
	}
}

func TestRunFailsOnUnknownDomainDuringGenerate(t *testing.T) {
	rc, err := Compile(strings.NewReader("sort bogus_domain 100\n"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, err := rc.Run(); err == nil {
		t.Fatal("expected error from dataset generation with unknown domain")
	}
}
