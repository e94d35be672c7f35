package ast

import (
	"fmt"
	"strings"
)

// TypeKind enumerates the structural value types used during validation.
type TypeKind uint8

const (
	TypeString TypeKind = iota
	TypeInt
	TypeFloat
	TypeBag    // heterogeneous list of types
	TypeVector // heterogeneous list of coordinate types
	TypeArray  // fixed length, homogeneous element type
)

// LiteralType is the small structural type system of the query language.
// It exists only for type checking; execution never consults it.
type LiteralType struct {
	Kind  TypeKind
	Elems []LiteralType // Bag and Vector element types
	Len   int           // Array length
	Elem  *LiteralType  // Array element type
}

// StringType returns the String type.
func StringType() LiteralType { return LiteralType{Kind: TypeString} }

// IntType returns the Int type.
func IntType() LiteralType { return LiteralType{Kind: TypeInt} }

// FloatType returns the Float type.
func FloatType() LiteralType { return LiteralType{Kind: TypeFloat} }

// BagType returns a Bag of the given element types.
func BagType(elems ...LiteralType) LiteralType {
	return LiteralType{Kind: TypeBag, Elems: elems}
}

// VectorType returns a Vector of the given coordinate types.
func VectorType(elems ...LiteralType) LiteralType {
	return LiteralType{Kind: TypeVector, Elems: elems}
}

// ArrayType returns an Array of n elements of type elem.
func ArrayType(n int, elem LiteralType) LiteralType {
	return LiteralType{Kind: TypeArray, Len: n, Elem: &elem}
}

// FloatVector returns a Vector of n Float coordinates.
func FloatVector(n int) LiteralType {
	elems := make([]LiteralType, n)
	for i := range elems {
		elems[i] = FloatType()
	}
	return VectorType(elems...)
}

// Accepts reports whether a value of type actual may be used where expected
// is required.
//
// Coercion is one-directional: Float accepts Int, Int does not accept Float.
// Vector and Array apply the same rule element-wise, expected on the left.
// Bags only check the kind. Do not call Accepts with swapped arguments to get
// a symmetric comparison; the asymmetry is part of the language.
func Accepts(expected, actual LiteralType) bool {
	switch expected.Kind {
	case TypeString:
		return actual.Kind == TypeString
	case TypeInt:
		return actual.Kind == TypeInt
	case TypeFloat:
		return actual.Kind == TypeFloat || actual.Kind == TypeInt
	case TypeBag:
		return actual.Kind == TypeBag
	case TypeVector:
		if actual.Kind != TypeVector || len(expected.Elems) != len(actual.Elems) {
			return false
		}
		for i := range expected.Elems {
			if !Accepts(expected.Elems[i], actual.Elems[i]) {
				return false
			}
		}
		return true
	case TypeArray:
		if actual.Kind != TypeArray || expected.Len != actual.Len {
			return false
		}
		if expected.Elem == nil || actual.Elem == nil {
			return expected.Elem == actual.Elem
		}
		return Accepts(*expected.Elem, *actual.Elem)
	default:
		return false
	}
}

// String renders the type, e.g. "Vector[Int, Float]".
func (t LiteralType) String() string {
	switch t.Kind {
	case TypeString:
		return "String"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBag:
		return "Bag" + listTypes(t.Elems)
	case TypeVector:
		return "Vector" + listTypes(t.Elems)
	case TypeArray:
		elem := "?"
		if t.Elem != nil {
			elem = t.Elem.String()
		}
		return fmt.Sprintf("Array[%d; %s]", t.Len, elem)
	default:
		return fmt.Sprintf("TypeKind(%d)", t.Kind)
	}
}

func listTypes(types []LiteralType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
