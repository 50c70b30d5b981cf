// Package particle builds the point cloud of the scene (a spherical body shell and a
// wider dust cloud) and advances it every frame.
package particle

import "github.com/go-gl/mathgl/mgl64"

// Kind identifies the motion model of a particle.
type Kind int

const (
	KindBody Kind = iota
	KindDust
)

func (k Kind) String() string {
	switch k {
	case KindBody:
		return "body"
	case KindDust:
		return "dust"
	default:
		return "unknown"
	}
}

// Kinematics is the per-particle motion state. The set of implementations is closed:
// *Body and *Dust are the only variants.
type Kinematics interface {
	Kind() Kind
	kinematics()
}

// Body orbits the Y axis at a fixed radius and height.
type Body struct {
	Angle  float64
	Radius float64
	Y      float64
	Speed  float64
}

// Dust drifts with a constant velocity whose components flip sign at the field boundary.
type Dust struct {
	Velocity mgl64.Vec3
}

var (
	_ Kinematics = &Body{}
	_ Kinematics = &Dust{}
)

func (*Body) Kind() Kind  { return KindBody }
func (*Body) kinematics() {}

func (*Dust) Kind() Kind  { return KindDust }
func (*Dust) kinematics() {}

// Field is the flat position buffer of the point cloud with its index-aligned motion state.
// Positions holds interleaved x, y, z triples, body particles first.
type Field struct {
	Positions []float32
	States    []Kinematics

	BodyCount int
	DustCount int

	dirty bool
}

// Len returns the number of particles in the field.
func (f *Field) Len() int {
	return len(f.States)
}

// Position returns the position of particle i.
func (f *Field) Position(i int) mgl64.Vec3 {
	i3 := i * 3
	return mgl64.Vec3{float64(f.Positions[i3]), float64(f.Positions[i3+1]), float64(f.Positions[i3+2])}
}

// Dirty reports whether Positions changed since the last ClearDirty.
func (f *Field) Dirty() bool {
	return f.dirty
}

// MarkDirty flags Positions as needing re-upload by the renderer.
func (f *Field) MarkDirty() {
	f.dirty = true
}

// ClearDirty is called by the consumer once it has picked up the current Positions.
func (f *Field) ClearDirty() {
	f.dirty = false
}
