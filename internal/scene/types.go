package scene

import (
	"fmt"
	"math"
)

// Identity is the per-element token that keys the renderable lookup.
type Identity string

// NewIdentity derives an identity from the generation index and value.
func NewIdentity(index, value int) Identity {
	return Identity(fmt.Sprintf("%d-%d", index, value))
}

// Tag scopes id to one registry generation, so equal index and value pairs
// from different generations never collide.
func (id Identity) Tag(generation uint64) Identity {
	return Identity(fmt.Sprintf("%s@%d", id, generation))
}

type Element struct {
	Value int
	ID    Identity
}

// Axis selects one coordinate of a bar's position.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

const (
	// PlacementAxis lays bars side by side.
	PlacementAxis = AxisY
	// LiftAxis carries bar height; negating it lifts a bar out of line.
	LiftAxis = AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Get returns the coordinate on axis a.
func (v Vec3) Get(a Axis) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// With returns v with the coordinate on axis a replaced.
func (v Vec3) With(a Axis, value float64) Vec3 {
	switch a {
	case AxisX:
		v.X = value
	case AxisY:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

// Bar describes a renderable box: Position is its centre, Size its extents.
type Bar struct {
	ID       Identity
	Value    int
	Position Vec3
	Size     Vec3
	Color    uint32
}

// Handle is an opaque reference to a bar owned by a Renderer.
type Handle uint64

// Renderer is the rendering collaborator. Implementations must be safe for
// use by a sort goroutine and a render loop at the same time.
type Renderer interface {
	Spawn(bar Bar) Handle
	Release(h Handle)
	Position(h Handle) (Vec3, bool)
	SetAxis(h Handle, axis Axis, value float64) bool
	RenderFrame()
}
