package ast

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// PointVolume is the volume reported for a point: the smallest increment of
// 1.0, so that a point never predicts an exactly empty region.
const PointVolume = 0x1p-52

// Shape is a geometric region tied to a named coordinate space.
//
// Shape types:
//   - Point: a single position
//   - HyperRectangle: an axis-aligned box given by its low and high corners
//   - HyperSphere: a center and a radius
//   - Label: the objects registered under an identifier, no geometry
//   - NiftiShape: a volume mask; unsupported
type Shape interface {
	Node
	shapeNode()

	// Space returns the coordinate space the shape is expressed in.
	Space() string

	// Volume returns the geometric volume of the shape.
	Volume() float64
}

// Point is a single position.
type Point struct {
	SpaceID  string
	Position LiteralPosition
}

// HyperRectangle is an axis-aligned box. Only the two-corner form (low,
// high) is supported; other arities are rejected by validation.
type HyperRectangle struct {
	SpaceID string
	Corners []LiteralPosition
}

// HyperSphere is the set of positions within Radius of Center.
type HyperSphere struct {
	SpaceID string
	Center  LiteralPosition
	Radius  LiteralNumber
}

// Label designates the objects whose identifier is ID, bypassing geometry.
type Label struct {
	SpaceID string
	ID      string
}

// NiftiShape is a placeholder for volume-mask regions. Every interpreter
// rejects it.
type NiftiShape struct {
	SpaceID string
}

func (*Point) node()               {}
func (*Point) shapeNode()          {}
func (*HyperRectangle) node()      {}
func (*HyperRectangle) shapeNode() {}
func (*HyperSphere) node()         {}
func (*HyperSphere) shapeNode()    {}
func (*Label) node()               {}
func (*Label) shapeNode()          {}
func (*NiftiShape) node()          {}
func (*NiftiShape) shapeNode()     {}

func (s *Point) Space() string          { return s.SpaceID }
func (s *HyperRectangle) Space() string { return s.SpaceID }
func (s *HyperSphere) Space() string    { return s.SpaceID }
func (s *Label) Space() string          { return s.SpaceID }
func (s *NiftiShape) Space() string     { return s.SpaceID }

// Volume of a point is PointVolume.
func (s *Point) Volume() float64 {
	return PointVolume
}

// Volume multiplies the per-axis extents between the first (low) and last
// (high) corners.
func (s *HyperRectangle) Volume() float64 {
	if len(s.Corners) == 0 {
		return 0
	}
	low := s.Corners[0].Floats()
	high := s.Corners[len(s.Corners)-1].Floats()

	n := min(len(low), len(high))
	extents := make([]float64, n)
	for i := 0; i < n; i++ {
		extents[i] = math.Abs(high[i] - low[i])
	}
	return floats.Prod(extents)
}

// Volume is the n-ball volume for the center's dimension.
//
// The coefficient is built iteratively: starting from 2 (odd dimensions) or
// π (even dimensions), each step of two dimensions multiplies it by 2π/i.
func (s *HyperSphere) Volume() float64 {
	k := s.Center.Dimensions()
	radius := s.Radius.Float64()

	a, i := 2.0, 1
	if k%2 == 0 {
		a, i = math.Pi, 2
	}
	for i < k {
		i += 2
		a *= 2 * math.Pi
		a /= float64(i)
	}
	return a * math.Pow(radius, float64(i))
}

// Volume of a label is not geometric; it is estimated like a point since a
// label lookup hits the identifier index directly.
func (s *Label) Volume() float64 {
	return PointVolume
}

// Volume is undefined for Nifti shapes and reported as zero. Interpreters
// reject NiftiShape before asking.
func (s *NiftiShape) Volume() float64 {
	return 0
}
