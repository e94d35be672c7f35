package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	point := &Point{SpaceID: "Universe", Position: Pos(0, 0)}
	rect := &HyperRectangle{SpaceID: "brain", Corners: []LiteralPosition{Pos(0, 0), FloatPos(1, 2.5)}}

	tests := []struct {
		name string
		node Node
		want string
	}{
		{"point", point, `point{[0, 0], "Universe"}`},
		{"rectangle", rect, `hyperrectangle{[0, 0], [1.0, 2.5], "brain"}`},
		{"sphere", &HyperSphere{SpaceID: "s", Center: Pos(1), Radius: Float(2)}, `hypersphere{[1], 2.0, "s"}`},
		{"label", &Label{SpaceID: "s", ID: "obj-1"}, `label{"obj-1", "s"}`},
		{"nifti shape", &NiftiShape{SpaceID: "s"}, `nifti{"s"}`},
		{
			"distinct union",
			&Distinct{Bag: &Union{Left: &Inside{Shape: point}, Right: &Inside{Shape: point}}},
			`distinct(union(inside(point{[0, 0], "Universe"}), inside(point{[0, 0], "Universe"})))`,
		},
		{
			"filter with bag",
			&Filter{
				Predicate: &Equal{Left: &PositionSelector{Selector: LiteralSelector{}}, Right: Pos(0, 0)},
				Bag:       &Outside{Shape: rect},
			},
			`filter(=(., [0, 0]), outside(hyperrectangle{[0, 0], [1.0, 2.5], "brain"}))`,
		},
		{
			"filter without bag",
			&Filter{Predicate: &Not{Predicate: &Less{Left: &StrCmp{Selector: LiteralSelector{NamedField("name")}, Literal: "x"}, Right: Pos(0)}}},
			`filter(!(<(str_cmp(.name, "x"), [0])))`,
		},
		{
			"combinators",
			&And{
				Left:  &Greater{Left: &PositionLiteral{Value: Pos(1)}, Right: Pos(0)},
				Right: &Or{Left: &Equal{Left: &StrCmpICase{Selector: LiteralSelector{}, Literal: "A"}, Right: Pos(0)}, Right: &Less{Left: &PositionSelector{}, Right: Pos(2)}},
			},
			`&(>([1], [0]), |(=(str_cmp_ignore_case(., "A"), [0]), <(., [2])))`,
		},
		{
			"bag list and complement",
			&BagList{Bags: []Bag{&Complement{Bag: &Inside{Shape: point}}, &Intersection{Left: &Inside{Shape: point}, Right: &Inside{Shape: point}}}},
			`bag{complement(inside(point{[0, 0], "Universe"})), intersection(inside(point{[0, 0], "Universe"}), inside(point{[0, 0], "Universe"}))}`,
		},
		{
			"viewport is implicit",
			&JSON{SpaceID: "Universe", Value: &JSONSelector{}, Bag: &ViewPort{Bag: &Inside{Shape: point}}},
			`json(., inside(point{[0, 0], "Universe"}))`,
		},
		{
			"json template",
			JSONObject{
				{Key: "n", Value: &Aggregation{Kind: Count, Distinct: true, Selector: LiteralSelector{NamedField("x")}}},
				{Key: "v", Value: JSONArray{JSONString("a"), &JSONNumber{Value: Float(1)}, JSONBool(true), JSONNull{}}},
			},
			`{"n": count(distinct .x), "v": ["a", 1.0, true, null]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.node))
		})
	}
}

func TestFormatNumberKeepsKind(t *testing.T) {
	assert.Equal(t, "3", FormatNumber(Int(3)))
	assert.Equal(t, "3.0", FormatNumber(Float(3)))
	assert.Equal(t, "1e+21", FormatNumber(Float(1e21)))
	assert.Equal(t, "-0.25", FormatNumber(Float(-0.25)))
}
