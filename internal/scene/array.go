package scene

import "sync"

// Array is the logical array a sort driver reorders. All methods are safe for
// concurrent use so front ends can read it while a sort is running.
type Array struct {
	mu    sync.RWMutex
	elems []Element
}

func NewArray(elems []Element) *Array {
	c := make([]Element, len(elems))
	copy(c, elems)
	return &Array{elems: c}
}

func (a *Array) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.elems)
}

func (a *Array) At(i int) Element {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.elems[i]
}

func (a *Array) Swap(i, j int) {
	a.mu.Lock()
	a.elems[i], a.elems[j] = a.elems[j], a.elems[i]
	a.mu.Unlock()
}

// Snapshot returns a copy of the current order.
func (a *Array) Snapshot() []Element {
	a.mu.RLock()
	defer a.mu.RUnlock()
	c := make([]Element, len(a.elems))
	copy(c, a.elems)
	return c
}

func (a *Array) Values() []int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v := make([]int, len(a.elems))
	for i, e := range a.elems {
		v[i] = e.Value
	}
	return v
}

// IsSorted reports whether values are non-decreasing.
func (a *Array) IsSorted() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for i := 1; i < len(a.elems); i++ {
		if a.elems[i-1].Value > a.elems[i].Value {
			return false
		}
	}
	return true
}
