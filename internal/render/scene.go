// Package render provides the in-memory scene graph that front ends draw and
// the sorting core positions bars through.
package render

import (
	"sort"
	"sync"

	"github.com/san-kum/sortviz/internal/scene"
)

// Scene is a goroutine-safe scene.Renderer. A sort goroutine mutates bar
// positions while a render loop calls RenderFrame and draws Frame.
type Scene struct {
	mu     sync.RWMutex
	next   scene.Handle
	bars   map[scene.Handle]*scene.Bar
	frame  []scene.Bar
	frames uint64
	writes uint64
}

func NewScene() *Scene {
	return &Scene{bars: make(map[scene.Handle]*scene.Bar)}
}

func (s *Scene) Spawn(bar scene.Bar) scene.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	b := bar
	s.bars[s.next] = &b
	return s.next
}

func (s *Scene) Release(h scene.Handle) {
	s.mu.Lock()
	delete(s.bars, h)
	s.mu.Unlock()
}

func (s *Scene) Position(h scene.Handle) (scene.Vec3, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bars[h]
	if !ok {
		return scene.Vec3{}, false
	}
	return b.Position, true
}

func (s *Scene) SetAxis(h scene.Handle, axis scene.Axis, value float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bars[h]
	if !ok {
		return false
	}
	b.Position = b.Position.With(axis, value)
	s.writes++
	return true
}

// RenderFrame captures the current bars as the frame front ends draw.
func (s *Scene) RenderFrame() {
	bars := s.Bars()
	s.mu.Lock()
	s.frame = bars
	s.frames++
	s.mu.Unlock()
}

// Frame returns the last captured frame and the number of frames rendered.
func (s *Scene) Frame() ([]scene.Bar, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]scene.Bar, len(s.frame))
	copy(out, s.frame)
	return out, s.frames
}

// Bars returns every live bar ordered along the placement axis.
func (s *Scene) Bars() []scene.Bar {
	s.mu.RLock()
	out := make([]scene.Bar, 0, len(s.bars))
	for _, b := range s.bars {
		out = append(out, *b)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		pi, pj := out[i].Position.Get(scene.PlacementAxis), out[j].Position.Get(scene.PlacementAxis)
		if pi != pj {
			return pi < pj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of live bars.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bars)
}

// Writes counts SetAxis calls that hit a live bar.
func (s *Scene) Writes() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
