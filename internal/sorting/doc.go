// Package sorting expresses the classic in-place sorts as sequences of
// animation steps over a [scene.Array].
//
// A [Driver] yields one [Step] at a time. The consumer animates the step and
// returns true to let the driver apply the matching reordering and continue,
// or false to abandon the sort. At every suspension point the array therefore
// matches what has been shown on screen.
//
//	for step := range sorting.QuickSort(arr) {
//		if _, err := animator.Apply(ctx, step); err != nil {
//			break
//		}
//	}
package sorting
