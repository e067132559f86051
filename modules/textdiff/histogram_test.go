package textdiff

import (
	"context"
	"testing"
)

func TestHistogram(t *testing.T) {
	sink := NewSink(NEWLINE_RAW)
	a := sink.SplitLines("celery\nsalmon\ntomatoes\ngarlic\nonions\nwine\n")
	b := sink.SplitLines("celery\ngarlic\nonions\nsalmon\ntomatoes\nwine\n")
	changes := HistogramDiff(a, b)
	if len(changes) == 0 {
		t.Fatal("expected histogram diff to report changes")
	}
	viaDispatch, err := diffInternal(context.Background(), a, b, Histogram)
	if err != nil {
		t.Fatalf("diffInternal: %v", err)
	}
	if len(viaDispatch) != len(changes) {
		t.Fatalf("dispatch mismatch: %d != %d", len(viaDispatch), len(changes))
	}
}
