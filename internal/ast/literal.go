package ast

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Node is implemented by every element of the expression tree.
type Node interface {
	node() // Sealed
}

// NumberKind distinguishes integer from floating literals.
type NumberKind uint8

const (
	IntNumber NumberKind = iota
	FloatNumber
)

// LiteralNumber is a numeric literal: either a 64-bit signed integer or a
// 64-bit float. The kind is kept because type checking distinguishes them.
type LiteralNumber struct {
	Kind  NumberKind
	Int   int64
	Float float64
}

// Int creates an integer literal.
func Int(v int64) LiteralNumber {
	return LiteralNumber{Kind: IntNumber, Int: v}
}

// Float creates a floating literal.
func Float(v float64) LiteralNumber {
	return LiteralNumber{Kind: FloatNumber, Float: v}
}

// Float64 returns the numeric value as a float64.
func (n LiteralNumber) Float64() float64 {
	if n.Kind == IntNumber {
		return float64(n.Int)
	}
	return n.Float
}

// Type returns the structural type of the literal.
func (n LiteralNumber) Type() LiteralType {
	if n.Kind == IntNumber {
		return IntType()
	}
	return FloatType()
}

// Equal reports whether other equals n.
//
// The comparison is directional: a Float receiver coerces an Int argument
// before comparing, an Int receiver never matches a Float argument. Callers
// put the value being tested on the left and the literal on the right.
func (n LiteralNumber) Equal(other LiteralNumber) bool {
	switch n.Kind {
	case IntNumber:
		return other.Kind == IntNumber && n.Int == other.Int
	default:
		return n.Float == other.Float64()
	}
}

// LiteralPosition is an ordered sequence of numbers; its length is the
// number of dimensions.
type LiteralPosition []LiteralNumber

func (LiteralPosition) node() {}

// Pos builds an integer position, mostly for tests and fixtures.
func Pos(values ...int64) LiteralPosition {
	p := make(LiteralPosition, len(values))
	for i, v := range values {
		p[i] = Int(v)
	}
	return p
}

// FloatPos builds a floating position.
func FloatPos(values ...float64) LiteralPosition {
	p := make(LiteralPosition, len(values))
	for i, v := range values {
		p[i] = Float(v)
	}
	return p
}

// Dimensions returns the number of coordinates.
func (p LiteralPosition) Dimensions() int {
	return len(p)
}

// Floats converts every coordinate to float64.
func (p LiteralPosition) Floats() []float64 {
	out := make([]float64, len(p))
	for i, n := range p {
		out[i] = n.Float64()
	}
	return out
}

// Length returns the squared euclidean length of the position vector.
func (p LiteralPosition) Length() float64 {
	v := p.Floats()
	return floats.Dot(v, v)
}

// Compare orders positions geometrically, by squared length. The order is
// partial: positions of different dimensions, or whose lengths are not
// comparable (NaN), are unordered and ok is false.
func (p LiteralPosition) Compare(other LiteralPosition) (cmp int, ok bool) {
	if len(p) != len(other) {
		return 0, false
	}
	l, r := p.Length(), other.Length()
	switch {
	case l < r:
		return -1, true
	case l > r:
		return 1, true
	case l == r:
		return 0, true
	default:
		return 0, false
	}
}

// Equal reports element-wise equality. Each element uses the directional
// LiteralNumber.Equal with p's element as the receiver.
func (p LiteralPosition) Equal(other LiteralPosition) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !p[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Type returns Vector of the element types.
func (p LiteralPosition) Type() LiteralType {
	elems := make([]LiteralType, len(p))
	for i, n := range p {
		elems[i] = n.Type()
	}
	return VectorType(elems...)
}

// Field is one step of a selector path: a property name with an optional
// array index.
type Field struct {
	Name  string
	Index *int
}

// NamedField returns a field without index.
func NamedField(name string) Field {
	return Field{Name: name}
}

// IndexedField returns a field selecting element idx of an array property.
func IndexedField(name string, idx int) Field {
	return Field{Name: name, Index: &idx}
}

// LiteralSelector is a path of fields. The empty selector (written ".")
// designates the object itself.
type LiteralSelector []Field

func (LiteralSelector) node() {}

// IsRoot reports whether the selector is the bare ".".
func (s LiteralSelector) IsRoot() bool {
	return len(s) == 0
}

// Last returns the final field, if any.
func (s LiteralSelector) Last() (Field, bool) {
	if len(s) == 0 {
		return Field{}, false
	}
	return s[len(s)-1], true
}

// Type returns the selector value type. Property types are not described by
// any schema yet, so every selector is assumed numeric.
func (s LiteralSelector) Type() LiteralType {
	return IntType()
}

// String renders the selector in query syntax.
func (s LiteralSelector) String() string {
	if len(s) == 0 {
		return "."
	}
	var b strings.Builder
	for _, f := range s {
		b.WriteByte('.')
		b.WriteString(f.Name)
		if f.Index != nil {
			fmt.Fprintf(&b, "[%d]", *f.Index)
		}
	}
	return b.String()
}

// ParseSelector parses the textual selector syntax: ".", ".a", ".a[2].b".
func ParseSelector(text string) (LiteralSelector, error) {
	if text == "." {
		return LiteralSelector{}, nil
	}
	if !strings.HasPrefix(text, ".") {
		return nil, fmt.Errorf("selector %q must start with '.'", text)
	}

	var sel LiteralSelector
	for _, part := range strings.Split(text[1:], ".") {
		if part == "" {
			return nil, fmt.Errorf("selector %q has an empty field", text)
		}
		name, rest, indexed := strings.Cut(part, "[")
		if name == "" {
			return nil, fmt.Errorf("selector %q has an empty field name", text)
		}
		if !indexed {
			sel = append(sel, NamedField(name))
			continue
		}
		digits, closed := strings.CutSuffix(rest, "]")
		idx, err := strconv.Atoi(digits)
		if !closed || err != nil || idx < 0 {
			return nil, fmt.Errorf("selector %q has an invalid index in %q", text, part)
		}
		sel = append(sel, IndexedField(name, idx))
	}
	return sel, nil
}
