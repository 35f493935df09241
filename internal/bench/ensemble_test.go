package bench

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/san-kum/sortviz/internal/sorting"
)

func TestEnsembleSortsEverything(t *testing.T) {
	e := NewEnsemble(12, 20, 5, 100)
	e.SetWorkers(3)

	summaries, err := e.Run(context.Background(), sorting.Algorithms())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(summaries) != len(sorting.Algorithms()) {
		t.Fatalf("expected %d summaries, got %d", len(sorting.Algorithms()), len(summaries))
	}
	for _, s := range summaries {
		if s.Runs != 5 {
			t.Errorf("%s: expected 5 runs, got %d", s.Algorithm, s.Runs)
		}
		if s.Unsorted != 0 {
			t.Errorf("%s: %d runs left unsorted", s.Algorithm, s.Unsorted)
		}
		if s.Mean["comparisons"] <= 0 {
			t.Errorf("%s: expected comparisons, got %v", s.Algorithm, s.Mean)
		}
		if s.Max["exchanges"] < s.Mean["exchanges"] {
			t.Errorf("%s: max below mean", s.Algorithm)
		}
	}
}

func TestEnsembleIsDeterministic(t *testing.T) {
	a, err := NewEnsemble(10, 16, 4, 7).Run(context.Background(), []sorting.Algorithm{sorting.Bubble})
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewEnsemble(10, 16, 4, 7).Run(context.Background(), []sorting.Algorithm{sorting.Bubble})
	if err != nil {
		t.Fatal(err)
	}
	if a[0].Mean["exchanges"] != b[0].Mean["exchanges"] {
		t.Errorf("same seeds gave %v and %v", a[0].Mean, b[0].Mean)
	}
}

func TestEnsembleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewEnsemble(10, 16, 2, 1).Run(ctx, []sorting.Algorithm{sorting.Selection}); err == nil {
		t.Error("expected an error from a cancelled context")
	}
}

func TestParallelForCoversRange(t *testing.T) {
	for _, tc := range []struct{ n, workers int }{{0, 4}, {1, 4}, {10, 1}, {10, 3}, {7, 20}} {
		var hits [32]int32
		var calls int32
		ParallelFor(tc.n, tc.workers, func(s, e int) {
			atomic.AddInt32(&calls, 1)
			for i := s; i < e; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i := 0; i < tc.n; i++ {
			if hits[i] != 1 {
				t.Errorf("n=%d workers=%d: index %d visited %d times", tc.n, tc.workers, i, hits[i])
			}
		}
		if int(calls) > max(1, tc.workers) {
			t.Errorf("n=%d workers=%d: %d chunks", tc.n, tc.workers, calls)
		}
	}
}

func TestMetricNames(t *testing.T) {
	names := MetricNames([]Summary{{Mean: map[string]float64{"b": 1, "a": 2}}, {Mean: map[string]float64{"c": 0}}})
	if len(names) != 3 || names[0] != "a" || names[2] != "c" {
		t.Errorf("unexpected names %v", names)
	}
}
