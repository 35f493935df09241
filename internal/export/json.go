package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/sortviz/internal/metrics"
	"github.com/san-kum/sortviz/internal/storage"
)

// RunData is the exported form of a stored run.
type RunData struct {
	Run   *storage.RunMetadata `json:"run"`
	Steps []StepData           `json:"steps"`
}

type StepData struct {
	Index   int    `json:"index"`
	Op      string `json:"op"`
	I       int    `json:"i"`
	J       int    `json:"j"`
	A       string `json:"a"`
	B       string `json:"b,omitempty"`
	Outcome string `json:"outcome"`
	Values  []int  `json:"values"`
}

func NewRunData(meta *storage.RunMetadata, rows []storage.StepRow) RunData {
	steps := make([]StepData, len(rows))
	for i, r := range rows {
		steps[i] = StepData{
			Index:   r.Index,
			Op:      r.Step.Op.String(),
			I:       r.Step.I,
			J:       r.Step.J,
			A:       string(r.Step.A),
			B:       string(r.Step.B),
			Outcome: r.Outcome,
			Values:  r.Values,
		}
	}
	return RunData{Run: meta, Steps: steps}
}

// WriteJSON writes an indented run export to w.
func WriteJSON(w io.Writer, data RunData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Disorder returns the inversion count after every stored step, starting
// from the initial array.
func Disorder(meta *storage.RunMetadata, rows []storage.StepRow) []float64 {
	out := make([]float64, 0, len(rows)+1)
	out = append(out, float64(metrics.Inversions(meta.Initial)))
	for _, r := range rows {
		out = append(out, float64(metrics.Inversions(r.Values)))
	}
	return out
}
