package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBareBagQuery(t *testing.T) {
	src := `
distinct:
  union:
    - inside: {point: {position: [0, 0]}}
    - inside: {point: {position: [0, 0]}}
`
	got, err := NewDecoder("Universe").Query([]byte(src))
	require.NoError(t, err)

	point := &Point{SpaceID: "Universe", Position: Pos(0, 0)}
	want := &JSON{
		SpaceID: "Universe",
		Value:   &JSONSelector{Selector: LiteralSelector{}},
		Bag: &ViewPort{Bag: &Distinct{Bag: &Union{
			Left:  &Inside{Shape: point},
			Right: &Inside{Shape: point},
		}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded query mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeKeepsNumberKinds(t *testing.T) {
	shape, err := NewDecoder("Universe").BagDocument([]byte(`inside: {hypersphere: {center: [1, 2.0], radius: 1.5, space: brain}}`))
	require.NoError(t, err)

	inside, ok := shape.(*Inside)
	require.True(t, ok)
	sphere, ok := inside.Shape.(*HyperSphere)
	require.True(t, ok)
	assert.Equal(t, "brain", sphere.SpaceID)
	assert.Equal(t, LiteralPosition{Int(1), Float(2)}, sphere.Center)
	assert.Equal(t, Float(1.5), sphere.Radius)
}

func TestDecodeFilter(t *testing.T) {
	src := `
filter:
  predicate:
    "&":
      - "=": [".", [0, 0]]
      - not: {less: [{str_cmp: [.name, "b"]}, [0]]}
  bag:
    inside: {hyperrectangle: {corners: [[0, 0], [5, 5]]}}
`
	got, err := NewDecoder("Universe").BagDocument([]byte(src))
	require.NoError(t, err)
	assert.Equal(t,
		`filter(&(=(., [0, 0]), !(<(str_cmp(.name, "b"), [0]))), inside(hyperrectangle{[0, 0], [5, 5], "Universe"}))`,
		Format(got))
}

func TestDecodeFilterWithoutBag(t *testing.T) {
	got, err := NewDecoder("U").BagDocument([]byte(`filter: {predicate: {greater: [".", [1, 1]]}}`))
	require.NoError(t, err)
	f, ok := got.(*Filter)
	require.True(t, ok)
	assert.Nil(t, f.Bag)
	assert.Equal(t, "U", f.Space("U"))
}

func TestDecodeJSONProjection(t *testing.T) {
	src := `
json:
  space: brain
  value:
    object:
      total: {count_distinct: .id}
      tags: [a, 1, null, true]
  bag:
    bag:
      - inside: {label: {id: obj-1, space: brain}}
      - outside: {point: {position: [1]}}
`
	got, err := NewDecoder("Universe").Query([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "brain", got.Space())
	assert.Equal(t,
		`json({"total": count(distinct .id), "tags": ["a", 1, null, true]}, bag{inside(label{"obj-1", "brain"}), outside(point{[1], "Universe"})})`,
		Format(got))
	_, ok := got.Input().(*ViewPort)
	assert.True(t, ok, "projected bag is wrapped in the viewport")
}

func TestDecodeNiftiProjection(t *testing.T) {
	got, err := NewDecoder("Universe").Query([]byte(`nifti: {selector: .intensity, bag: {inside: {nifti: {space: brain}}}}`))
	require.NoError(t, err)
	n, ok := got.(*Nifti)
	require.True(t, ok)
	assert.Equal(t, ".intensity", n.Selector.String())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"empty", ``, "empty query document"},
		{"three operand intersection", `intersection: [{inside: {point: {position: [0]}}}, {inside: {point: {position: [0]}}}, {inside: {point: {position: [0]}}}]`, "expected 2 operands, got 3"},
		{"unknown bag", `everything: {}`, `unknown bag operator "everything"`},
		{"user viewport", `viewport: {inside: {point: {position: [0]}}}`, "viewport is implicit"},
		{"two operators", `{distinct: {}, complement: {}}`, "expected exactly one operator"},
		{"missing key", `inside: {point: {space: brain}}`, `missing key "position"`},
		{"unexpected key", `inside: {point: {position: [0], radius: 2}}`, `unexpected key "radius"`},
		{"string coordinate", `inside: {point: {position: [a]}}`, "expected a number"},
		{"bad selector", `filter: {predicate: {"=": [name, [0]]}}`, "must start with '.'"},
		{"unknown predicate", `filter: {predicate: {xor: []}}`, `unknown predicate "xor"`},
		{"unknown shape", `inside: {cone: {}}`, `unknown shape "cone"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDecoder("Universe").Query([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDecodeErrorCarriesPosition(t *testing.T) {
	_, err := NewDecoder("Universe").BagDocument([]byte("distinct:\n  nothing: {}\n"))
	require.Error(t, err)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 2, de.Line)
	assert.Equal(t, 3, de.Column)
}

func TestDecodeRejectsNonJSONNumbers(t *testing.T) {
	_, err := NewDecoder("Universe").Query([]byte(`json: {value: [+1], bag: {inside: {point: {position: [0]}}}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid json number")
}
