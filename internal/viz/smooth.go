package viz

import (
	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/sortviz/internal/scene"
)

type track struct {
	y, vy float64
	z, vz float64
}

// Smoother eases displayed bar positions toward the scene's positions with a
// damped spring per bar. Bars it has not seen before appear in place.
type Smoother struct {
	spring harmonica.Spring
	tracks map[scene.Identity]*track
}

func NewSmoother(fps int, frequency, damping float64) *Smoother {
	return &Smoother{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		tracks: make(map[scene.Identity]*track),
	}
}

// Update advances every spring one frame and returns the bars at their
// displayed positions. Tracks for bars that vanished are dropped.
func (s *Smoother) Update(bars []scene.Bar) []scene.Bar {
	out := make([]scene.Bar, len(bars))
	seen := make(map[scene.Identity]struct{}, len(bars))
	for i, b := range bars {
		seen[b.ID] = struct{}{}
		ty, tz := b.Position.Get(scene.PlacementAxis), b.Position.Get(scene.LiftAxis)
		tr, ok := s.tracks[b.ID]
		if !ok {
			tr = &track{y: ty, z: tz}
			s.tracks[b.ID] = tr
		} else {
			tr.y, tr.vy = s.spring.Update(tr.y, tr.vy, ty)
			tr.z, tr.vz = s.spring.Update(tr.z, tr.vz, tz)
		}
		b.Position = b.Position.With(scene.PlacementAxis, tr.y).With(scene.LiftAxis, tr.z)
		out[i] = b
	}
	for id := range s.tracks {
		if _, ok := seen[id]; !ok {
			delete(s.tracks, id)
		}
	}
	return out
}

// Reset forgets every track so the next frame snaps.
func (s *Smoother) Reset() {
	clear(s.tracks)
}
