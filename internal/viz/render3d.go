package viz

import (
	"math"
	"sort"

	"github.com/san-kum/sortviz/internal/scene"
)

// Camera orbits the scene origin. World Z is up and the default view looks
// down the X axis from slightly above, so bar index grows left to right.
type Camera struct {
	Yaw, Pitch float64
	Distance   float64
	Near       float64
	Zoom       float64
	Span       float64
}

// NewCamera matches the (40, 0, 20) vantage point of the windowed front end.
func NewCamera() *Camera {
	return &Camera{Pitch: math.Atan2(20, 40), Distance: math.Hypot(40, 20), Near: 0.1, Zoom: 1.0, Span: 40}
}

func (c *Camera) RotateYaw(a float64) { c.Yaw += a }
func (c *Camera) RotatePitch(a float64) {
	c.Pitch = math.Max(-math.Pi/2+0.05, math.Min(math.Pi/2-0.05, c.Pitch+a))
}
func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Fit sets the world extent that should fill the shorter screen side.
func (c *Camera) Fit(layout scene.Layout, n, maxValue int) {
	span := math.Max(float64(n)*layout.Spacing, 2*float64(maxValue))
	c.Span = math.Max(span*1.1, 4)
	c.Distance = math.Max(math.Hypot(40, 20), c.Span*1.2)
}

// view rotates a world point into camera space: right, up, and depth toward
// the viewer.
func (c *Camera) view(p scene.Vec3) (float64, float64, float64) {
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	x := p.X*cy - p.Y*sy
	y := p.X*sy + p.Y*cy
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	depth := x*cp + p.Z*sp
	up := -x*sp + p.Z*cp
	return y, up, depth
}

// Project converts a world point to dot coordinates on a sw x sh surface.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p scene.Vec3, sw, sh int) (int, int, float64, bool) {
	right, up, depth := c.view(p)
	d := c.Distance - depth
	if d <= c.Near {
		return 0, 0, 0, false
	}
	f := c.Distance / d * c.Zoom
	pScale := math.Min(float64(sw), float64(sh)) / c.Span
	sx := int(right*f*pScale) + sw/2
	sy := int(-up*f*pScale) + sh/2
	return sx, sy, depth, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End scene.Vec3
	Color      uint32
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e scene.Vec3, c uint32) {
	w.Edges = append(w.Edges, Edge{s, e, c})
}
func (w *Wireframe) Clear() { w.Edges = w.Edges[:0] }

var boxEdges = [12][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}

// AddBar appends the twelve edges of a bar's bounding box.
func (w *Wireframe) AddBar(b scene.Bar) {
	h := b.Size.Scale(0.5)
	p := b.Position
	v := [8]scene.Vec3{
		{X: p.X - h.X, Y: p.Y - h.Y, Z: p.Z - h.Z}, {X: p.X + h.X, Y: p.Y - h.Y, Z: p.Z - h.Z},
		{X: p.X + h.X, Y: p.Y + h.Y, Z: p.Z - h.Z}, {X: p.X - h.X, Y: p.Y + h.Y, Z: p.Z - h.Z},
		{X: p.X - h.X, Y: p.Y - h.Y, Z: p.Z + h.Z}, {X: p.X + h.X, Y: p.Y - h.Y, Z: p.Z + h.Z},
		{X: p.X + h.X, Y: p.Y + h.Y, Z: p.Z + h.Z}, {X: p.X - h.X, Y: p.Y + h.Y, Z: p.Z + h.Z},
	}
	for _, e := range boxEdges {
		w.AddEdge(v[e[0]], v[e[1]], b.Color)
	}
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
	color          uint32
}

// Render3D draws the wireframe far to near so nearer bars own shared cells.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Dots()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Color})
		}
	}
	sort.SliceStable(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2, e.color)
	}
}

// DrawBars renders bars as boxes onto a cleared canvas.
func DrawBars(c *Canvas, bars []scene.Bar, cam *Camera) {
	c.Clear()
	w := NewWireframe()
	for _, b := range bars {
		w.AddBar(b)
	}
	Render3D(c, w, cam)
}
