package space

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesBounds(t *testing.T) {
	_, err := New("", Position{0}, Position{1}, nil)
	assert.Error(t, err)

	_, err = New("s", Position{0, 0}, Position{1}, nil)
	assert.Error(t, err)

	_, err = New("s", Position{2}, Position{1}, nil)
	assert.Error(t, err)

	s, err := New("s", Position{0, 0}, Position{2, 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Dimensions())
	assert.InDelta(t, 6.0, s.Volume(), 1e-12)
	assert.IsType(t, Identity{}, s.Encoder)
}

func TestContainsIsInclusive(t *testing.T) {
	s, err := New("s", Position{0, 0}, Position{10, 10}, nil)
	require.NoError(t, err)

	assert.True(t, s.Contains(Position{0, 0}))
	assert.True(t, s.Contains(Position{10, 5}))
	assert.False(t, s.Contains(Position{10.5, 5}))
	assert.False(t, s.Contains(Position{1}))
}

func TestLinearEncoderRoundTrip(t *testing.T) {
	enc := LinearEncoder{Offset: []float64{-100, 0}, Scale: []float64{2}}
	s, err := New("brain", Position{-100, 0}, Position{100, 50}, enc)
	require.NoError(t, err)

	key, err := s.Encode(Position{-50, 10})
	require.NoError(t, err)
	assert.Equal(t, Position{100, 10}, key)

	back, err := s.Decode(key)
	require.NoError(t, err)
	assert.True(t, back.Equal(Position{-50, 10}))

	_, err = s.Encode(Position{1, 2, 3})
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(DefaultUniverse())
	assert.Equal(t, DefaultUniverseName, r.Universe().Name)
	assert.Equal(t, 3, r.Universe().Dimensions())
	assert.InDelta(t, math.Pow(math.MaxUint32, 3), r.Universe().Volume(), 1e15)

	brain, err := New("brain", Position{0, 0}, Position{1, 1}, nil)
	require.NoError(t, err)
	r.Register(brain)

	got, err := r.Space("brain")
	require.NoError(t, err)
	assert.Same(t, brain, got)

	_, err = r.Space("nope")
	assert.ErrorIs(t, err, ErrUnknownSpace)

	assert.Equal(t, []string{"Universe", "brain"}, r.Names())
}

func TestPositionKey(t *testing.T) {
	assert.Equal(t, "[0,1.5]", Position{0, 1.5}.Key())
	assert.Equal(t, "[]", Position{}.Key())
}

func TestSetUniverse(t *testing.T) {
	r := NewRegistry(DefaultUniverse())
	u, err := New("world", Position{0, 0}, Position{10, 10}, nil)
	require.NoError(t, err)

	r.SetUniverse(u)
	assert.Same(t, u, r.Universe())
	assert.Contains(t, r.Names(), DefaultUniverseName, "the previous universe stays registered")
}
