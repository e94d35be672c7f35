package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mercator/internal/ast"
	"github.com/roach88/mercator/internal/space"
)

func TestValidateTypes(t *testing.T) {
	v := NewValidator(newTestStore(t))

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"point", `inside: {point: {position: [0, 0]}}`, "Vector[Int, Int]"},
		{"float sphere", `outside: {hypersphere: {center: [0.5, 1.0], radius: 2}}`, "Vector[Float, Float]"},
		{"rectangle", `inside: {hyperrectangle: {corners: [[0, 0], [1, 1]]}}`, "Vector[Int, Int]"},
		{"label takes its space type", `inside: {label: {id: x, space: brain}}`, "Vector[Float, Float]"},
		{"implicit filter scan", `filter: {predicate: {"=": [".", [0, 0]]}}`, "Vector[Float, Float]"},
		{"bag list is a fixed 3-D vector", `bag: [{inside: {point: {position: [0]}}}]`, "Vector[Float, Float, Float]"},
		{"float accepts int", `union: [{inside: {point: {position: [0.0]}}}, {inside: {point: {position: [1]}}}]`, "Vector[Float]"},
		{"distinct forwards", `distinct: {complement: {inside: {point: {position: [3, 4]}}}}`, "Vector[Int, Int]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(bag(t, tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestValidateErrors(t *testing.T) {
	v := NewValidator(newTestStore(t))

	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{
			"space mismatch",
			`intersection: [{inside: {point: {position: [0, 0]}}}, {inside: {point: {position: [0, 0], space: brain}}}]`,
			`different reference spaces: "Universe" vs "brain"`,
		},
		{
			"union space mismatch",
			`union: [{inside: {point: {position: [0, 0], space: brain}}}, {inside: {point: {position: [0, 0]}}}]`,
			"different reference spaces",
		},
		{
			"int does not accept float",
			`union: [{inside: {point: {position: [0]}}}, {inside: {point: {position: [1.5]}}}]`,
			"incoherent types",
		},
		{
			"dimension mismatch",
			`intersection: [{inside: {point: {position: [0]}}}, {inside: {point: {position: [0, 0]}}}]`,
			"incoherent types",
		},
		{
			"three corners",
			`inside: {hyperrectangle: {corners: [[0, 0], [1, 1], [2, 2]]}}`,
			"only 2 (low, high) are supported",
		},
		{
			"mixed corner types",
			`inside: {hyperrectangle: {corners: [[0, 0], [1.5, 1.5]]}}`,
			"incompatible types",
		},
		{"nifti shape", `inside: {nifti: {space: brain}}`, "not yet implemented"},
		{"label in unknown space", `inside: {label: {id: x, space: nowhere}}`, "unknown reference space"},
		{
			"first failure in a bag list",
			`bag: [{inside: {point: {position: [0]}}}, {inside: {nifti: {}}}, {inside: {label: {id: x, space: nowhere}}}]`,
			"nifti shape",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(bag(t, tt.src))
			require.Error(t, err)
			assert.True(t, IsValidationError(err), "got %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestValidateLabelUnknownSpaceKeepsCause(t *testing.T) {
	v := NewValidator(newTestStore(t))
	_, err := v.Validate(&ast.Label{SpaceID: "nowhere", ID: "x"})
	assert.ErrorIs(t, err, space.ErrUnknownSpace)
}

func TestValidateProjections(t *testing.T) {
	v := NewValidator(newTestStore(t))

	got, err := v.Validate(query(t, `json: {value: {count: .}, bag: {inside: {point: {position: [1, 2]}}}}`))
	require.NoError(t, err)
	assert.Equal(t, "Vector[Int, Int]", got.String())

	_, err = v.Validate(query(t, `nifti: {bag: {inside: {point: {position: [1, 2]}}}}`))
	assert.True(t, IsValidationError(err))
}

func TestValidateLeaves(t *testing.T) {
	v := NewValidator(newTestStore(t))

	got, err := v.Validate(ast.LiteralPosition{ast.Int(1), ast.Float(2)})
	require.NoError(t, err)
	assert.Equal(t, "Vector[Int, Float]", got.String())

	got, err = v.Validate(ast.LiteralSelector{ast.NamedField("x")})
	require.NoError(t, err)
	assert.Equal(t, ast.IntType(), got)
}
