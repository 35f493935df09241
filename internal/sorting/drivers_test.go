package sorting

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/sortviz/internal/scene"
)

func arrayOf(values ...int) *scene.Array {
	elems := make([]scene.Element, len(values))
	for i, v := range values {
		elems[i] = scene.Element{Value: v, ID: scene.NewIdentity(i, v)}
	}
	return scene.NewArray(elems)
}

func countOp(steps []Step, op Op) int {
	n := 0
	for _, s := range steps {
		if s.Op == op {
			n++
		}
	}
	return n
}

func pairs(steps []Step, op Op) [][2]int {
	var out [][2]int
	for _, s := range steps {
		if s.Op == op {
			out = append(out, [2]int{s.I, s.J})
		}
	}
	return out
}

func TestDriversSortRandomArrays(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, alg := range Algorithms() {
		drive, err := alg.Driver()
		require.NoError(t, err)

		for n := 0; n <= 12; n++ {
			for trial := 0; trial < 20; trial++ {
				values := make([]int, n)
				for i := range values {
					values[i] = rng.Intn(16) + 1
				}
				a := arrayOf(values...)
				Drain(a, drive)

				want := append([]int(nil), values...)
				sort.Ints(want)
				require.Equal(t, want, a.Values(), "%s on %v", alg, values)
			}
		}
	}
}

func TestDriversKeepIdentitiesAPermutation(t *testing.T) {
	for _, alg := range Algorithms() {
		drive, _ := alg.Driver()
		a := arrayOf(7, 3, 3, 9, 1, 5, 3)
		before := a.Snapshot()
		Drain(a, drive)

		seen := make(map[scene.Identity]int)
		for _, e := range a.Snapshot() {
			seen[e.ID]++
		}
		require.Len(t, seen, len(before), alg)
		for _, e := range before {
			require.Equal(t, 1, seen[e.ID], "%s lost or duplicated %s", alg, e.ID)
		}
	}
}

// Replaying every exchange on a fresh copy must reproduce the driver's result:
// the animated exchanges are exactly the swaps performed.
func TestExchangesMirrorSwaps(t *testing.T) {
	values := []int{9, 4, 4, 12, 1, 7, 3, 16, 2, 8}
	for _, alg := range Algorithms() {
		drive, _ := alg.Driver()
		a := arrayOf(values...)
		steps := Drain(a, drive)

		replay := arrayOf(values...)
		for _, s := range steps {
			if s.Op != OpExchange {
				continue
			}
			require.Equal(t, s.A, replay.At(s.I).ID, "%s: stale identity at %d", alg, s.I)
			require.Equal(t, s.B, replay.At(s.J).ID, "%s: stale identity at %d", alg, s.J)
			replay.Swap(s.I, s.J)
		}
		require.Equal(t, a.Snapshot(), replay.Snapshot(), alg)
	}
}

func TestBubbleNeverSwapsEqual(t *testing.T) {
	steps := Drain(arrayOf(3, 3, 3), BubbleSort)
	require.Zero(t, countOp(steps, OpExchange))
	require.Equal(t, 2, countOp(steps, OpCompare), "one clean pass over 3 elements")
}

func TestBubbleShrinksBoundary(t *testing.T) {
	steps := Drain(arrayOf(3, 2, 1), BubbleSort)
	require.Equal(t, [][2]int{{0, 1}, {1, 2}, {0, 1}}, pairs(steps, OpExchange))
	// pass 1: 2 compares, pass 2: 1 compare, pass 3: none
	require.Equal(t, 3, countOp(steps, OpCompare))
}

func TestQuickLomutoSequence(t *testing.T) {
	a := arrayOf(8, 3, 9, 1, 5)
	steps := Drain(a, QuickSort)

	require.Equal(t, []int{1, 3, 5, 8, 9}, a.Values())
	require.Equal(t, [][2]int{
		{1, 1}, {3, 2}, {4, 3}, {0, 3}, // pivot 8
		{1, 1}, {2, 2}, {0, 2}, // pivot 5
		{0, 0}, // pivot 1
	}, pairs(steps, OpExchange))
}

func TestQuickTrivialRanges(t *testing.T) {
	require.Empty(t, Drain(arrayOf(), QuickSort))
	require.Empty(t, Drain(arrayOf(4), QuickSort))
}

func TestSelectionSelfSwapOnTie(t *testing.T) {
	steps := Drain(arrayOf(5, 5), SelectionSort)
	require.Equal(t, [][2]int{{0, 0}}, pairs(steps, OpExchange))
}

func TestSelectionFirstMinimumWins(t *testing.T) {
	a := arrayOf(4, 1, 1)
	steps := Drain(a, SelectionSort)
	require.Equal(t, [][2]int{{0, 1}, {1, 2}}, pairs(steps, OpExchange))
	require.Equal(t, scene.Identity("1-1"), a.At(0).ID)
}

func TestInsertionSortedInputHasNoShifts(t *testing.T) {
	steps := Drain(arrayOf(1, 2, 3), InsertionSort)
	require.Zero(t, countOp(steps, OpExchange))
	require.Zero(t, countOp(steps, OpSettle))
	require.Equal(t, 2, countOp(steps, OpLift))
	require.Equal(t, 2, countOp(steps, OpLower))
}

func TestInsertionLiftShiftSettleLower(t *testing.T) {
	steps := Drain(arrayOf(2, 3, 1), InsertionSort)

	var animated []Op
	for _, s := range steps {
		if s.Op.Animated() {
			animated = append(animated, s.Op)
		}
	}
	require.Equal(t, []Op{
		OpLift, OpLower, // 3 stays
		OpLift, OpExchange, OpExchange, OpSettle, OpLower, // 1 travels to the front
	}, animated)

	last := steps[len(steps)-1]
	require.Equal(t, scene.Identity("2-1"), last.A)
	require.Equal(t, 0, last.I)
}

func TestShellGaps(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{0, []int{1}},
		{3, []int{1}},
		{4, []int{4, 1}},
		{10, []int{4, 1}},
		{13, []int{13, 4, 1}},
		{39, []int{13, 4, 1}},
		{40, []int{40, 13, 4, 1}},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ShellGaps(tt.n), "n=%d", tt.n)
	}
}

func TestDriverStopsWhenConsumerDeclines(t *testing.T) {
	for _, alg := range Algorithms() {
		drive, _ := alg.Driver()
		a := arrayOf(5, 4, 3, 2, 1)
		before := a.Values()

		for s := range drive(a) {
			if s.Op == OpExchange {
				break
			}
		}
		require.Equal(t, before, a.Values(), "%s mutated the array after a declined exchange", alg)
	}
}

func TestParseAlgorithm(t *testing.T) {
	for in, want := range map[string]Algorithm{
		"bubble":        Bubble,
		"quickSort":     Quick,
		"SELECTIONSORT": Selection,
		" insertion ":   Insertion,
		"shellsort":     Shell,
	} {
		got, err := ParseAlgorithm(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}

	_, err := ParseAlgorithm("bogo")
	require.ErrorIs(t, err, ErrUnknownAlgorithm)
	_, err = Algorithm("heap").Driver()
	require.ErrorIs(t, err, ErrUnknownAlgorithm)
}
