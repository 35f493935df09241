// Package bench sorts many seeded arrays with every algorithm, unpaced, and
// summarises the step counts.
package bench

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/san-kum/sortviz/internal/render"
	"github.com/san-kum/sortviz/internal/sorting"
	"github.com/san-kum/sortviz/internal/visualizer"
)

type Ensemble struct {
	count     int
	maxValue  int
	numRuns   int
	seedStart int64
	workers   int
}

func NewEnsemble(count, maxValue, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{count: count, maxValue: maxValue, numRuns: numRuns, seedStart: seedStart, workers: runtime.NumCPU()}
}

// SetWorkers bounds the number of sorts running at once.
func (e *Ensemble) SetWorkers(n int) { e.workers = max(1, n) }

// Summary aggregates one algorithm's runs.
type Summary struct {
	Algorithm sorting.Algorithm
	Runs      int
	Unsorted  int
	Mean      map[string]float64
	Max       map[string]float64
}

// Run sorts the same numRuns arrays with each algorithm. Run i of every
// algorithm uses seed seedStart+i, so the algorithms see identical inputs.
func (e *Ensemble) Run(ctx context.Context, algs []sorting.Algorithm) ([]Summary, error) {
	type job struct {
		alg  sorting.Algorithm
		seed int64
	}
	jobs := make([]job, 0, len(algs)*e.numRuns)
	for _, a := range algs {
		for i := 0; i < e.numRuns; i++ {
			jobs = append(jobs, job{alg: a, seed: e.seedStart + int64(i)})
		}
	}

	reports := make([]*visualizer.Report, len(jobs))
	errs := make([]error, len(jobs))
	ParallelFor(len(jobs), e.workers, func(start, end int) {
		for idx := start; idx < end; idx++ {
			reports[idx], errs[idx] = e.runOne(ctx, jobs[idx].alg, jobs[idx].seed)
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	summaries := make([]Summary, len(algs))
	for ai, a := range algs {
		s := Summary{Algorithm: a, Mean: map[string]float64{}, Max: map[string]float64{}}
		for _, r := range reports[ai*e.numRuns : (ai+1)*e.numRuns] {
			s.Runs++
			if !r.Sorted {
				s.Unsorted++
			}
			for k, v := range r.Metrics {
				s.Mean[k] += v
				s.Max[k] = max(s.Max[k], v)
			}
		}
		if s.Runs > 0 {
			for k := range s.Mean {
				s.Mean[k] /= float64(s.Runs)
			}
		}
		summaries[ai] = s
	}
	return summaries, nil
}

func (e *Ensemble) runOne(ctx context.Context, alg sorting.Algorithm, seed int64) (*visualizer.Report, error) {
	opts := visualizer.DefaultOptions()
	opts.Count, opts.MaxValue, opts.Seed, opts.Pacing = e.count, e.maxValue, seed, 0
	vis := visualizer.New(render.NewScene(), opts)
	defer vis.Teardown()

	if _, err := vis.Regenerate(); err != nil {
		return nil, err
	}
	report, err := vis.Run(ctx, alg)
	if err != nil {
		return nil, fmt.Errorf("%s seed %d: %w", alg, seed, err)
	}
	if report.Cancelled {
		return nil, ctx.Err()
	}
	return report, nil
}

// ParallelFor splits [0, n) into at most workers contiguous chunks and runs
// fn on each concurrently.
func ParallelFor(n, workers int, fn func(start, end int)) {
	if n == 0 {
		return
	}
	if workers <= 1 || n == 1 {
		fn(0, n)
		return
	}
	workers = min(workers, n)
	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// MetricNames returns the metric keys present in the summaries, sorted.
func MetricNames(summaries []Summary) []string {
	seen := map[string]struct{}{}
	for _, s := range summaries {
		for k := range s.Mean {
			seen[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
