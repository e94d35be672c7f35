package ast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShapeVolumes(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  float64
	}{
		{"point", &Point{Position: Pos(1, 2)}, PointVolume},
		{"label", &Label{ID: "x"}, PointVolume},
		{"rectangle", &HyperRectangle{Corners: []LiteralPosition{Pos(0, 0), Pos(2, 3)}}, 6},
		{"rectangle reversed corners", &HyperRectangle{Corners: []LiteralPosition{Pos(2, 3), Pos(0, 0)}}, 6},
		{"degenerate rectangle", &HyperRectangle{Corners: []LiteralPosition{Pos(0, 0), Pos(0, 3)}}, 0},
		{"empty rectangle", &HyperRectangle{}, 0},
		{"unit disc", &HyperSphere{Center: Pos(0, 0), Radius: Int(1)}, math.Pi},
		{"unit ball", &HyperSphere{Center: Pos(0, 0, 0), Radius: Float(1)}, 4 * math.Pi / 3},
		{"segment", &HyperSphere{Center: Pos(5), Radius: Float(2)}, 4},
		{"4-ball", &HyperSphere{Center: Pos(0, 0, 0, 0), Radius: Int(2)}, math.Pi * math.Pi / 2 * 16},
		{"nifti", &NiftiShape{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.shape.Volume(), 1e-9)
		})
	}
}

func TestPointVolumeIsPositive(t *testing.T) {
	assert.Greater(t, PointVolume, 0.0)
	assert.Equal(t, 1.0+PointVolume, math.Nextafter(1, 2))
}

func TestBagSpace(t *testing.T) {
	inside := &Inside{Shape: &Point{SpaceID: "brain", Position: Pos(0)}}

	assert.Equal(t, "brain", inside.Space("Universe"))
	assert.Equal(t, "brain", (&Distinct{Bag: inside}).Space("Universe"))
	assert.Equal(t, "brain", (&Union{Left: inside, Right: inside}).Space("Universe"))
	assert.Equal(t, "Universe", (&Filter{}).Space("Universe"))
	assert.Equal(t, "Universe", (&BagList{Bags: []Bag{inside}}).Space("Universe"))
}
