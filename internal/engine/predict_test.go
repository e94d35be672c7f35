package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mercator/internal/ast"
	"github.com/roach88/mercator/internal/space"
)

func TestPredict(t *testing.T) {
	p := NewPredictor(newTestStore(t))
	const universe = 100.0 // [0,0]-[10,10]
	const brain = 40000.0  // [-100,-100]-[100,100]

	rect := `{inside: {hyperrectangle: {corners: [[0, 0], [2, 3]]}}}`
	disc := `{inside: {hypersphere: {center: [5, 5], radius: 1}}}`

	tests := []struct {
		name string
		src  string
		want float64
	}{
		{"point", `inside: {point: {position: [0, 0]}}`, ast.PointVolume},
		{"label", `inside: {label: {id: x, space: brain}}`, ast.PointVolume},
		{"rectangle", rect[1 : len(rect)-1], 6},
		{"sphere", disc[1 : len(disc)-1], math.Pi},
		{"complement", `complement: ` + rect, universe - 6},
		{"complement in its operand space", `complement: {inside: {point: {position: [0, 0], space: brain}}}`, brain - ast.PointVolume},
		{"outside", `outside: {hyperrectangle: {corners: [[0, 0], [2, 3]]}}`, universe - 6},
		{"intersection takes the smaller", `intersection: [` + rect + `, ` + disc + `]`, math.Pi},
		{"union sums", `union: [` + rect + `, ` + disc + `]`, 6 + math.Pi},
		{"bag list sums", `bag: [` + rect + `, ` + rect + `, ` + disc + `]`, 12 + math.Pi},
		{"filter forwards", `filter: {predicate: {"<": [".", [1]]}, bag: ` + rect + `}`, 6},
		{"implicit filter scan", `filter: {predicate: {"<": [".", [1]]}}`, universe},
		{"distinct forwards", `distinct: ` + disc, math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Predict(bag(t, tt.src))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPredictPointIsNeverZero(t *testing.T) {
	p := NewPredictor(newTestStore(t))
	got, err := p.Predict(query(t, `distinct: {union: [{inside: {point: {position: [0, 0]}}}, {inside: {point: {position: [0, 0]}}}]}`))
	require.NoError(t, err)
	assert.Greater(t, got, 0.0)
}

func TestPredictErrors(t *testing.T) {
	p := NewPredictor(newTestStore(t))

	_, err := p.Predict(bag(t, `complement: {inside: {point: {position: [0], space: nowhere}}}`))
	require.Error(t, err)
	assert.True(t, IsPredictionError(err))
	assert.ErrorIs(t, err, space.ErrUnknownSpace)

	_, err = p.Predict(bag(t, `union: [{inside: {point: {position: [0]}}}, {outside: {point: {position: [0], space: nowhere}}}]`))
	assert.True(t, IsPredictionError(err))

	_, err = p.Predict(bag(t, `inside: {nifti: {}}`))
	assert.True(t, IsPredictionError(err))
}
