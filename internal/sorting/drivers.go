package sorting

import (
	"iter"

	"github.com/san-kum/sortviz/internal/scene"
)

// BubbleSort swaps adjacent elements while left > right, shrinking the
// unsorted boundary by one per pass, until a pass makes no swap.
func BubbleSort(a *scene.Array) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		n := a.Len()
		for sorted := false; !sorted; n-- {
			sorted = true
			for i := 0; i < n-1; i++ {
				if !yield(compare(a, i, i+1)) {
					return
				}
				if a.At(i).Value > a.At(i+1).Value {
					if !yield(exchange(a, i, i+1)) {
						return
					}
					a.Swap(i, i+1)
					sorted = false
				}
			}
		}
	}
}

// QuickSort uses Lomuto partitioning with the leftmost element as pivot.
// Every move is animated, including self-swaps and a pivot already in place.
func QuickSort(a *scene.Array) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		var sort func(left, right int) bool
		sort = func(left, right int) bool {
			if left >= right {
				return true
			}
			p, ok := partition(a, left, right, yield)
			if !ok {
				return false
			}
			return sort(left, p-1) && sort(p+1, right)
		}
		sort(0, a.Len()-1)
	}
}

func partition(a *scene.Array, left, right int, yield func(Step) bool) (int, bool) {
	pivot, index := left, left+1
	for i := index; i <= right; i++ {
		if !yield(compare(a, i, pivot)) {
			return 0, false
		}
		if a.At(i).Value < a.At(pivot).Value {
			if !yield(exchange(a, i, index)) {
				return 0, false
			}
			a.Swap(i, index)
			index++
		}
	}
	if !yield(exchange(a, pivot, index-1)) {
		return 0, false
	}
	a.Swap(pivot, index-1)
	return index - 1, true
}

// SelectionSort swaps each position with the first minimum of the tail. The
// swap is animated even when the minimum is already in place.
func SelectionSort(a *scene.Array) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		n := a.Len()
		for i := 0; i < n-1; i++ {
			smallest := i
			for j := i + 1; j < n; j++ {
				if !yield(compare(a, j, smallest)) {
					return
				}
				if a.At(j).Value < a.At(smallest).Value {
					smallest = j
				}
			}
			if !yield(exchange(a, i, smallest)) {
				return
			}
			a.Swap(i, smallest)
		}
	}
}

// InsertionSort lifts each element, exchanges it past every larger
// predecessor, settles it if it moved, and lowers it back.
func InsertionSort(a *scene.Array) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		n := a.Len()
		for i := 1; i < n; i++ {
			current := a.At(i)
			if !yield(single(OpLift, i, current.ID)) {
				return
			}
			j := i - 1
			for ; j >= 0; j-- {
				if !yield(compare(a, j, j+1)) {
					return
				}
				if a.At(j).Value <= current.Value {
					break
				}
				if !yield(exchange(a, j, j+1)) {
					return
				}
				a.Swap(j, j+1)
			}
			if j+1 != i {
				if !yield(single(OpSettle, j+1, current.ID)) {
					return
				}
			}
			if !yield(single(OpLower, j+1, current.ID)) {
				return
			}
		}
	}
}

// ShellGaps returns the Knuth gaps used for an array of n, largest first.
func ShellGaps(n int) []int {
	gap := 1
	for gap*3 < n {
		gap = gap*3 + 1
	}
	var gaps []int
	for ; gap > 0; gap /= 3 {
		gaps = append(gaps, gap)
	}
	return gaps
}

// ShellSort performs gapped insertion for each gap of ShellGaps, animating
// every shifted element.
func ShellSort(a *scene.Array) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		n := a.Len()
		for _, gap := range ShellGaps(n) {
			for i := gap; i < n; i++ {
				temp := a.At(i)
				for j := i - gap; j >= 0; j -= gap {
					if !yield(compare(a, j, j+gap)) {
						return
					}
					if a.At(j).Value <= temp.Value {
						break
					}
					if !yield(exchange(a, j, j+gap)) {
						return
					}
					a.Swap(j, j+gap)
				}
			}
		}
	}
}
