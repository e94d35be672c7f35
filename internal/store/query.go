package store

import (
	"github.com/roach88/mercator/internal/space"
)

// Shape is a lookup region in the encoded key domain of a space.
//
// Shape types:
//   - PointQuery: exact position
//   - BoxQuery: axis-aligned box, bounds included
//   - SphereQuery: center and radius, surface included
type Shape interface {
	// Contains reports whether the encoded position p is in the region.
	Contains(p space.Position) bool

	// Bounds returns the smallest box enclosing the region.
	Bounds() (low, high space.Position)
}

// PointQuery matches one encoded position.
type PointQuery struct {
	Position space.Position
}

// BoxQuery matches encoded positions within [Low, High] on every axis. An
// axis with Low above High matches nothing.
type BoxQuery struct {
	Low, High space.Position
}

// SphereQuery matches encoded positions within Radius of Center. A negative
// Radius matches nothing.
type SphereQuery struct {
	Center space.Position
	Radius float64
}

func (q PointQuery) Contains(p space.Position) bool {
	return q.Position.Equal(p)
}

func (q PointQuery) Bounds() (low, high space.Position) {
	return q.Position, q.Position
}

func (q BoxQuery) Contains(p space.Position) bool {
	if len(p) != len(q.Low) || len(p) != len(q.High) {
		return false
	}
	for i, v := range p {
		if v < q.Low[i] || v > q.High[i] {
			return false
		}
	}
	return true
}

func (q BoxQuery) Bounds() (low, high space.Position) {
	return q.Low, q.High
}

func (q SphereQuery) Contains(p space.Position) bool {
	if q.Radius < 0 || len(p) != len(q.Center) {
		return false
	}
	var d2 float64
	for i, v := range p {
		d := v - q.Center[i]
		d2 += d * d
	}
	return d2 <= q.Radius*q.Radius
}

func (q SphereQuery) Bounds() (low, high space.Position) {
	low = make(space.Position, len(q.Center))
	high = make(space.Position, len(q.Center))
	for i, c := range q.Center {
		low[i], high[i] = c-q.Radius, c+q.Radius
	}
	return low, high
}
