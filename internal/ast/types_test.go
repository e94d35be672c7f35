package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcceptsIsOneDirectional(t *testing.T) {
	assert.True(t, Accepts(FloatType(), IntType()), "Float accepts Int")
	assert.False(t, Accepts(IntType(), FloatType()), "Int rejects Float")
	assert.True(t, Accepts(IntType(), IntType()))
	assert.False(t, Accepts(StringType(), IntType()))
}

func TestAcceptsVectors(t *testing.T) {
	floats := FloatVector(2)
	ints := Pos(1, 2).Type()

	assert.True(t, Accepts(floats, ints))
	assert.False(t, Accepts(ints, floats))
	assert.False(t, Accepts(floats, FloatVector(3)), "dimension mismatch")
	assert.False(t, Accepts(floats, ArrayType(2, FloatType())), "kind mismatch")
}

func TestAcceptsArraysAndBags(t *testing.T) {
	assert.True(t, Accepts(ArrayType(3, FloatType()), ArrayType(3, IntType())))
	assert.False(t, Accepts(ArrayType(3, IntType()), ArrayType(3, FloatType())))
	assert.False(t, Accepts(ArrayType(3, FloatType()), ArrayType(2, FloatType())))

	assert.True(t, Accepts(BagType(IntType()), BagType(StringType())), "bags only compare kinds")
	assert.False(t, Accepts(BagType(), VectorType()))
}

func TestLiteralTypeString(t *testing.T) {
	assert.Equal(t, "Vector[Float, Float, Float]", FloatVector(3).String())
	assert.Equal(t, "Array[4; Int]", ArrayType(4, IntType()).String())
	assert.Equal(t, "Bag[String]", BagType(StringType()).String())
}
