package sorting

import (
	"fmt"

	"github.com/san-kum/sortviz/internal/scene"
)

type Op uint8

const (
	// OpCompare reads two elements. It has no visible effect.
	OpCompare Op = iota
	// OpExchange swaps the elements at I and J.
	OpExchange
	// OpLift raises the element at I off the placement line.
	OpLift
	// OpSettle places the lifted element at its final index I.
	OpSettle
	// OpLower puts the lifted element back on the line.
	OpLower
)

var opNames = [...]string{"compare", "exchange", "lift", "settle", "lower"}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", o)
}

// ParseOp is the inverse of Op.String.
func ParseOp(s string) (Op, error) {
	for i, n := range opNames {
		if n == s {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("unknown op: %s", s)
}

// Animated reports whether the step moves something on screen.
func (o Op) Animated() bool { return o != OpCompare }

// Step is one comparison or move. For single-element ops B is empty and J
// equals I.
type Step struct {
	Op   Op
	I, J int
	A, B scene.Identity
}

func (s Step) String() string {
	switch s.Op {
	case OpCompare, OpExchange:
		return fmt.Sprintf("%s [%d]%s <-> [%d]%s", s.Op, s.I, s.A, s.J, s.B)
	default:
		return fmt.Sprintf("%s [%d]%s", s.Op, s.I, s.A)
	}
}

func compare(a *scene.Array, i, j int) Step {
	return Step{Op: OpCompare, I: i, J: j, A: a.At(i).ID, B: a.At(j).ID}
}

func exchange(a *scene.Array, i, j int) Step {
	return Step{Op: OpExchange, I: i, J: j, A: a.At(i).ID, B: a.At(j).ID}
}

func single(op Op, i int, id scene.Identity) Step {
	return Step{Op: op, I: i, J: i, A: id}
}
