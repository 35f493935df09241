package sorting

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/san-kum/sortviz/internal/scene"
)

// ErrUnknownAlgorithm indicates a name outside the supported set.
var ErrUnknownAlgorithm = errors.New("sorting: unknown algorithm")

type Algorithm string

const (
	Bubble    Algorithm = "bubble"
	Quick     Algorithm = "quick"
	Selection Algorithm = "selection"
	Insertion Algorithm = "insertion"
	Shell     Algorithm = "shell"
)

// Driver turns an array into its sort's step sequence.
type Driver func(a *scene.Array) iter.Seq[Step]

var info = map[Algorithm]string{
	Bubble:    "adjacent passes, stop on a clean pass",
	Quick:     "lomuto partition, leftmost pivot",
	Selection: "select the minimum of the tail",
	Insertion: "lift and shift into place",
	Shell:     "knuth gaps, gapped insertion",
}

// Algorithms lists the supported algorithms in menu order.
func Algorithms() []Algorithm {
	return []Algorithm{Bubble, Quick, Selection, Insertion, Shell}
}

// ParseAlgorithm accepts "quick", "quicksort" and "quickSort" spellings.
func ParseAlgorithm(name string) (Algorithm, error) {
	n := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), "sort")
	for _, a := range Algorithms() {
		if string(a) == n {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
}

func (a Algorithm) Describe() string { return info[a] }

// Driver returns the step sequence constructor for a.
func (a Algorithm) Driver() (Driver, error) {
	switch a {
	case Bubble:
		return BubbleSort, nil
	case Quick:
		return QuickSort, nil
	case Selection:
		return SelectionSort, nil
	case Insertion:
		return InsertionSort, nil
	case Shell:
		return ShellSort, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, a)
}

// Drain runs a driver to completion without animation and returns every
// step it produced.
func Drain(a *scene.Array, d Driver) []Step {
	var steps []Step
	for s := range d(a) {
		steps = append(steps, s)
	}
	return steps
}
