package scene

import (
	"fmt"
	"math/rand"
	"sync"
)

// Registry owns the logical array of the current generation and the
// identity to handle map of its bars.
type Registry struct {
	mu         sync.RWMutex
	renderer   Renderer
	layout     Layout
	rng        *rand.Rand
	array      *Array
	handles    map[Identity]Handle
	generation uint64
}

func NewRegistry(r Renderer, layout Layout, seed int64) *Registry {
	return &Registry{
		renderer: r,
		layout:   layout,
		rng:      rand.New(rand.NewSource(seed)),
		array:    NewArray(nil),
		handles:  make(map[Identity]Handle),
	}
}

// Generate replaces the current array with n values drawn uniformly from
// [1, maxValue].
func (r *Registry) Generate(n, maxValue int) ([]Element, error) {
	if n < 0 || maxValue < 1 {
		return nil, fmt.Errorf("%w: n=%d max=%d", ErrInvalidSize, n, maxValue)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]int, n)
	for i := range values {
		values[i] = r.rng.Intn(maxValue) + 1
	}
	return r.replace(values), nil
}

// Load replaces the current array with the given values in order.
func (r *Registry) Load(values []int) ([]Element, error) {
	for i, v := range values {
		if v < 1 {
			return nil, fmt.Errorf("%w: value %d at index %d", ErrInvalidSize, v, i)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replace(values), nil
}

func (r *Registry) replace(values []int) []Element {
	r.releaseLocked()
	r.generation++

	elems := make([]Element, len(values))
	for i, v := range values {
		elems[i] = Element{Value: v, ID: NewIdentity(i, v).Tag(r.generation)}
	}
	for i, e := range elems {
		color := uint32(r.rng.Int63n(0xFFFFFF + 1))
		r.handles[e.ID] = r.renderer.Spawn(r.layout.BarFor(e, i, len(elems), color))
	}
	r.array = NewArray(elems)

	out := make([]Element, len(elems))
	copy(out, elems)
	return out
}

// Lookup resolves id against the current generation.
func (r *Registry) Lookup(id Identity) (Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return h, nil
}

// Release drops every handle and empties the array.
func (r *Registry) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked()
	r.generation++
	r.array = NewArray(nil)
}

func (r *Registry) releaseLocked() {
	for id, h := range r.handles {
		r.renderer.Release(h)
		delete(r.handles, id)
	}
}

// Array returns the logical array of the current generation.
func (r *Registry) Array() *Array {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.array
}

func (r *Registry) Elements() []Element { return r.Array().Snapshot() }

func (r *Registry) Len() int { return r.Array().Len() }

func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// SlotPosition returns the placement-axis coordinate of index i in the
// current array.
func (r *Registry) SlotPosition(i int) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.layout.Slot(i, r.array.Len())
}

func (r *Registry) Renderer() Renderer { return r.renderer }
