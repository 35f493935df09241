package visualizer

import (
	"time"

	"github.com/san-kum/sortviz/internal/animate"
	"github.com/san-kum/sortviz/internal/sorting"
)

// Record is one resolved step and the array values after it.
type Record struct {
	Index   int
	Step    sorting.Step
	Outcome animate.Outcome
	Values  []int
}

type Report struct {
	Algorithm sorting.Algorithm
	Initial   []int
	Final     []int
	Records   []Record
	Metrics   map[string]float64
	Pacing    time.Duration
	Started   time.Time
	Elapsed   time.Duration
	Sorted    bool
	Cancelled bool
	Stale     bool
}

// Exchanges returns the exchange records in order.
func (r *Report) Exchanges() []Record {
	var out []Record
	for _, rec := range r.Records {
		if rec.Step.Op == sorting.OpExchange {
			out = append(out, rec)
		}
	}
	return out
}

type recorder struct {
	values []int
	report *Report
}

func newRecorder(r *Report) *recorder {
	return &recorder{values: append([]int(nil), r.Initial...), report: r}
}

func (rc *recorder) add(step sorting.Step, out animate.Outcome) {
	if step.Op == sorting.OpExchange && out == animate.Applied {
		rc.values[step.I], rc.values[step.J] = rc.values[step.J], rc.values[step.I]
	}
	rc.report.Records = append(rc.report.Records, Record{
		Index:   len(rc.report.Records),
		Step:    step,
		Outcome: out,
		Values:  append([]int(nil), rc.values...),
	})
}
