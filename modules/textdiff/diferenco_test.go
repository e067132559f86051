package textdiff

import (
	"context"
	"testing"
)

func TestDiffInternalAlgorithms(t *testing.T) {
	a := []string{"celery", "garlic", "onions", "salmon", "tomatoes", "wine"}
	b := []string{"celery", "salmon", "garlic", "onions", "tomatoes", "wine"}
	for _, algo := range []Algorithm{Unspecified, Myers, Histogram, Patience, ONP} {
		changes, err := diffInternal(context.Background(), a, b, algo)
		if err != nil {
			t.Fatalf("%s: %v", algo, err)
		}
		if len(changes) == 0 {
			t.Fatalf("%s: expected at least one change between differing inputs", algo)
		}
	}
}

func TestDiffInternalIdentical(t *testing.T) {
	a := []string{"one", "two", "three"}
	for _, algo := range []Algorithm{Myers, Histogram, Patience, ONP} {
		changes, err := diffInternal(context.Background(), a, append([]string{}, a...), algo)
		if err != nil {
			t.Fatalf("%s: %v", algo, err)
		}
		if len(changes) != 0 {
			t.Fatalf("%s: expected no changes between identical inputs, got %v", algo, changes)
		}
	}
}

func TestAlgorithmFromName(t *testing.T) {
	cases := map[string]Algorithm{
		"histogram": Histogram,
		"Myers":     Myers,
		"patience":  Patience,
		"ONP":       ONP,
		"minimal":   Myers,
		"":          Unspecified,
	}
	for name, want := range cases {
		got, err := AlgorithmFromName(name)
		if err != nil {
			t.Fatalf("AlgorithmFromName(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("AlgorithmFromName(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := AlgorithmFromName("bogus"); err == nil {
		t.Fatal("expected error for unknown algorithm name")
	}
}
