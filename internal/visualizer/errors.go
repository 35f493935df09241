package visualizer

import (
	"errors"
	"fmt"

	"github.com/san-kum/sortviz/internal/sorting"
)

var (
	// ErrEmptyArray is returned by Run before any array was generated.
	ErrEmptyArray = errors.New("visualizer: generate an array before starting a sort")

	// ErrRunActive rejects Run, Generate and Load while a sort is running.
	ErrRunActive = errors.New("visualizer: a sort is already running")

	// ErrTornDown is returned by every operation after Teardown.
	ErrTornDown = errors.New("visualizer: torn down")
)

// IsNotice reports whether err is a user-facing notice rather than a fault.
func IsNotice(err error) bool {
	return errors.Is(err, ErrEmptyArray) || errors.Is(err, ErrRunActive)
}

// RunError wraps a failure that stopped a run part way.
type RunError struct {
	Index   int
	Step    sorting.Step
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Step, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
