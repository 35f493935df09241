package scene

// Layout places bars along the placement axis. The defaults reproduce a
// 3-unit pitch with 2x2 footprints.
type Layout struct {
	Spacing float64
	Width   float64
	Depth   float64
}

func DefaultLayout() Layout {
	return Layout{Spacing: 3, Width: 2, Depth: 2}
}

// Slot returns the placement-axis coordinate of index i in an array of n.
func (l Layout) Slot(i, n int) float64 {
	origin := -float64(n) * l.Spacing / 2
	return origin + float64(i)*l.Spacing + l.Spacing/2
}

// BarFor builds the bar for element e sitting at slot i of n.
func (l Layout) BarFor(e Element, i, n int, color uint32) Bar {
	h := float64(e.Value)
	return Bar{
		ID:       e.ID,
		Value:    e.Value,
		Position: Vec3{}.With(PlacementAxis, l.Slot(i, n)).With(LiftAxis, h/2),
		Size:     Vec3{X: l.Depth, Y: l.Width, Z: h},
		Color:    color,
	}
}
