package engine

import (
	"github.com/roach88/mercator/internal/ast"
	"github.com/roach88/mercator/internal/space"
)

// Validator type-checks expression trees.
//
// The only catalog lookups are for the universe (implicit filter scans) and
// for label shapes, whose type is the coordinate vector of their space.
type Validator struct {
	catalog space.Catalog
}

// NewValidator returns a validator resolving spaces through catalog.
func NewValidator(catalog space.Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// Validate returns the value type of n, or a VALIDATION error.
func (v *Validator) Validate(n ast.Node) (ast.LiteralType, error) {
	switch n := n.(type) {
	case ast.Projection:
		return v.projection(n)
	case ast.Bag:
		return v.bag(n)
	case ast.Shape:
		return v.shape(n)
	case ast.LiteralPosition:
		return n.Type(), nil
	case ast.LiteralSelector:
		return n.Type(), nil
	default:
		return ast.LiteralType{}, newError(ErrKindValidation, "cannot validate %T", n)
	}
}

func (v *Validator) projection(p ast.Projection) (ast.LiteralType, error) {
	switch p := p.(type) {
	case *ast.JSON:
		return v.bag(p.Bag)
	case *ast.Nifti:
		return ast.LiteralType{}, newError(ErrKindValidation, "nifti projection: not yet implemented")
	default:
		return ast.LiteralType{}, newError(ErrKindValidation, "unknown projection %T", p)
	}
}

func (v *Validator) bag(b ast.Bag) (ast.LiteralType, error) {
	switch b := b.(type) {
	case *ast.ViewPort:
		return v.bag(b.Bag)
	case *ast.Distinct:
		return v.bag(b.Bag)
	case *ast.Complement:
		return v.bag(b.Bag)
	case *ast.Filter:
		if b.Bag == nil {
			return ast.FloatVector(v.catalog.Universe().Dimensions()), nil
		}
		return v.bag(b.Bag)
	case *ast.Intersection:
		return v.binary("intersection", b.Left, b.Right)
	case *ast.Union:
		return v.binary("union", b.Left, b.Right)
	case *ast.BagList:
		for _, inner := range b.Bags {
			if _, err := v.bag(inner); err != nil {
				return ast.LiteralType{}, err
			}
		}
		// Elements may live in different spaces; the list reports a fixed
		// 3-D float vector whatever they contain.
		return ast.FloatVector(3), nil
	case *ast.Inside:
		return v.shape(b.Shape)
	case *ast.Outside:
		return v.shape(b.Shape)
	default:
		return ast.LiteralType{}, newError(ErrKindValidation, "unknown bag %T", b)
	}
}

// binary checks that both operands of a set operator live in the same space
// and carry compatible types. The left type is the result type; the right
// operand must be accepted by it.
func (v *Validator) binary(op string, left, right ast.Bag) (ast.LiteralType, error) {
	universe := v.catalog.Universe().Name
	ls, rs := left.Space(universe), right.Space(universe)
	if ls != rs {
		return ast.LiteralType{}, newError(ErrKindValidation,
			"%s: left and right sets are defined in different reference spaces: %q vs %q", op, ls, rs)
	}

	lt, err := v.bag(left)
	if err != nil {
		return ast.LiteralType{}, err
	}
	rt, err := v.bag(right)
	if err != nil {
		return ast.LiteralType{}, err
	}
	if !ast.Accepts(lt, rt) {
		return ast.LiteralType{}, newError(ErrKindValidation,
			"%s: incoherent types between left and right sets: %s vs %s", op, lt, rt)
	}
	return lt, nil
}

func (v *Validator) shape(s ast.Shape) (ast.LiteralType, error) {
	switch s := s.(type) {
	case *ast.Point:
		return s.Position.Type(), nil
	case *ast.HyperRectangle:
		if len(s.Corners) != 2 {
			return ast.LiteralType{}, newError(ErrKindValidation,
				"hyperrectangle: %d corner positions given, only 2 (low, high) are supported", len(s.Corners))
		}
		low, high := s.Corners[0].Type(), s.Corners[1].Type()
		if !ast.Accepts(low, high) {
			return ast.LiteralType{}, newError(ErrKindValidation,
				"hyperrectangle: incompatible types in corner definitions: %s vs %s", low, high)
		}
		return low, nil
	case *ast.HyperSphere:
		return s.Center.Type(), nil
	case *ast.Label:
		sp, err := v.catalog.Space(s.SpaceID)
		if err != nil {
			return ast.LiteralType{}, wrapError(ErrKindValidation, err, "label %q", s.ID)
		}
		return ast.FloatVector(sp.Dimensions()), nil
	case *ast.NiftiShape:
		return ast.LiteralType{}, newError(ErrKindValidation, "nifti shape: not yet implemented")
	default:
		return ast.LiteralType{}, newError(ErrKindValidation, "unknown shape %T", s)
	}
}
