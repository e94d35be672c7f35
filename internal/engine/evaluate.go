package engine

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/mercator/internal/ast"
	"github.com/roach88/mercator/internal/store"
)

// Evaluate reports whether o satisfies pred.
//
// Leaf comparisons resolve their left position against o and compare it to
// the literal by squared length. Equal is element-wise, with the resolved
// value as the receiver of the directional number comparison. Not, And and
// Or evaluate every operand: resolution has no side effects. An empty
// resolved position is never equal nor ordered. A nil predicate is
// satisfied by every object.
func Evaluate(pred ast.Predicate, o store.Object) bool {
	switch p := pred.(type) {
	case nil:
		return true
	case *ast.Less:
		cmp, ok := compare(p.Left, p.Right, o)
		return ok && cmp < 0
	case *ast.Greater:
		cmp, ok := compare(p.Left, p.Right, o)
		return ok && cmp > 0
	case *ast.Equal:
		v := Resolve(p.Left, o)
		return len(v) > 0 && v.Equal(p.Right)
	case *ast.Not:
		return !Evaluate(p.Predicate, o)
	case *ast.And:
		l, r := Evaluate(p.Left, o), Evaluate(p.Right, o)
		return l && r
	case *ast.Or:
		l, r := Evaluate(p.Left, o), Evaluate(p.Right, o)
		return l || r
	default:
		return false
	}
}

func compare(left ast.Position, right ast.LiteralPosition, o store.Object) (int, bool) {
	v := Resolve(left, o)
	if len(v) == 0 {
		return 0, false
	}
	return v.Compare(right)
}

// Resolve evaluates a position expression against o.
//
// A selector resolves to the object's position (the root selector) or to a
// numeric attribute; string comparisons yield [-1], [0] or [1] as Int.
// Resolved object coordinates are Float.
func Resolve(pos ast.Position, o store.Object) ast.LiteralPosition {
	switch p := pos.(type) {
	case *ast.PositionLiteral:
		return p.Value
	case *ast.PositionSelector:
		return SelectPosition(p.Selector, o)
	case *ast.StrCmp:
		l := norm.NFC.String(SelectString(p.Selector, o))
		r := norm.NFC.String(p.Literal)
		return ast.LiteralPosition{ast.Int(int64(strings.Compare(l, r)))}
	case *ast.StrCmpICase:
		fold := cases.Fold()
		l := fold.String(norm.NFC.String(SelectString(p.Selector, o)))
		r := fold.String(norm.NFC.String(p.Literal))
		return ast.LiteralPosition{ast.Int(int64(strings.Compare(l, r)))}
	default:
		return nil
	}
}

// SelectPosition resolves sel to a position. The root selector is the
// object's position. Other paths walk the attributes: a number becomes a
// one-dimensional position, an array of numbers a position of its length.
// Anything else resolves to the empty position, which is neither equal nor
// ordered against any literal.
func SelectPosition(sel ast.LiteralSelector, o store.Object) ast.LiteralPosition {
	if sel.IsRoot() {
		return ast.FloatPos(o.Position...)
	}
	v, ok := walk(sel, o.Properties.Attributes)
	if !ok {
		return nil
	}
	if f, ok := number(v); ok {
		return ast.FloatPos(f)
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make(ast.LiteralPosition, 0, len(items))
	for _, item := range items {
		f, ok := number(item)
		if !ok {
			return nil
		}
		out = append(out, ast.Float(f))
	}
	return out
}

// SelectString resolves sel to a string. A final field named id, type or
// reference_space designates the object's identifier, type name or space.
// Other paths walk the attributes; unresolvable paths yield "".
func SelectString(sel ast.LiteralSelector, o store.Object) string {
	if last, ok := sel.Last(); ok && last.Index == nil {
		switch last.Name {
		case "id":
			return o.Properties.ID
		case "type":
			return o.Properties.Type
		case "reference_space":
			return o.Space
		}
	}
	v, ok := walk(sel, o.Properties.Attributes)
	if !ok {
		return ""
	}
	switch v := v.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func walk(sel ast.LiteralSelector, attrs map[string]any) (any, bool) {
	var cur any = attrs
	for _, f := range sel {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[f.Name]; !ok {
			return nil, false
		}
		if f.Index != nil {
			items, ok := cur.([]any)
			if !ok || *f.Index >= len(items) {
				return nil, false
			}
			cur = items[*f.Index]
		}
	}
	return cur, true
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
