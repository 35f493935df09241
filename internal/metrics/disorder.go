package metrics

// Inversions counts pairs i < j with values[i] > values[j]; zero means sorted.
func Inversions(values []int) int {
	if len(values) < 2 {
		return 0
	}
	buf := make([]int, len(values))
	work := append([]int(nil), values...)
	return mergeCount(work, buf)
}

func mergeCount(a, buf []int) int {
	if len(a) < 2 {
		return 0
	}
	mid := len(a) / 2
	n := mergeCount(a[:mid], buf[:mid]) + mergeCount(a[mid:], buf[mid:])

	i, j, k := 0, mid, 0
	for i < mid && j < len(a) {
		if a[i] <= a[j] {
			buf[k] = a[i]
			i++
		} else {
			buf[k] = a[j]
			n += mid - i
			j++
		}
		k++
	}
	k += copy(buf[k:], a[i:mid])
	copy(buf[k:], a[j:])
	copy(a, buf[:len(a)])
	return n
}

// Sortedness maps inversions to [0, 1], 1 being sorted.
func Sortedness(values []int) float64 {
	n := len(values)
	if n < 2 {
		return 1
	}
	max := n * (n - 1) / 2
	return 1 - float64(Inversions(values))/float64(max)
}
