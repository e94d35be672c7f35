package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format renders a node in query-language syntax.
//
// Shapes always spell out their space. ViewPort nodes are implicit in the
// language and render as their inner bag.
func Format(n Node) string {
	var f formatter
	f.node(n)
	return f.String()
}

type formatter struct {
	strings.Builder
}

func (f *formatter) node(n Node) {
	switch n := n.(type) {
	case nil:
		f.WriteString("<nil>")
	case Projection:
		f.projection(n)
	case Bag:
		f.bag(n)
	case Shape:
		f.shape(n)
	case Predicate:
		f.predicate(n)
	case Position:
		f.position(n)
	case JSONValue:
		f.json(n)
	case LiteralPosition:
		f.literal(n)
	case LiteralSelector:
		f.WriteString(n.String())
	default:
		fmt.Fprintf(f, "<%T>", n)
	}
}

func (f *formatter) projection(p Projection) {
	switch p := p.(type) {
	case *JSON:
		f.WriteString("json(")
		f.json(p.Value)
		f.WriteString(", ")
		f.bag(p.Bag)
		f.WriteByte(')')
	case *Nifti:
		f.WriteString("nifti(")
		f.WriteString(p.Selector.String())
		f.WriteString(", ")
		f.bag(p.Bag)
		f.WriteByte(')')
	}
}

func (f *formatter) bag(b Bag) {
	switch b := b.(type) {
	case nil:
		f.WriteString("<nil>")
	case *ViewPort:
		f.bag(b.Bag)
	case *Distinct:
		f.call("distinct", b.Bag)
	case *Complement:
		f.call("complement", b.Bag)
	case *Filter:
		f.WriteString("filter(")
		switch {
		case b.Predicate == nil:
			f.bag(b.Bag)
		case b.Bag == nil:
			f.predicate(b.Predicate)
		default:
			f.predicate(b.Predicate)
			f.WriteString(", ")
			f.bag(b.Bag)
		}
		f.WriteByte(')')
	case *Intersection:
		f.call("intersection", b.Left, b.Right)
	case *Union:
		f.call("union", b.Left, b.Right)
	case *BagList:
		f.WriteString("bag{")
		for i, inner := range b.Bags {
			if i > 0 {
				f.WriteString(", ")
			}
			f.bag(inner)
		}
		f.WriteByte('}')
	case *Inside:
		f.WriteString("inside(")
		f.shape(b.Shape)
		f.WriteByte(')')
	case *Outside:
		f.WriteString("outside(")
		f.shape(b.Shape)
		f.WriteByte(')')
	}
}

func (f *formatter) call(name string, bags ...Bag) {
	f.WriteString(name)
	f.WriteByte('(')
	for i, b := range bags {
		if i > 0 {
			f.WriteString(", ")
		}
		f.bag(b)
	}
	f.WriteByte(')')
}

func (f *formatter) shape(s Shape) {
	switch s := s.(type) {
	case nil:
		f.WriteString("<nil>")
		return
	case *Point:
		f.WriteString("point{")
		f.literal(s.Position)
	case *HyperRectangle:
		f.WriteString("hyperrectangle{")
		for i, c := range s.Corners {
			if i > 0 {
				f.WriteString(", ")
			}
			f.literal(c)
		}
	case *HyperSphere:
		f.WriteString("hypersphere{")
		f.literal(s.Center)
		f.WriteString(", ")
		f.number(s.Radius)
	case *Label:
		f.WriteString("label{")
		f.WriteString(strconv.Quote(s.ID))
	case *NiftiShape:
		f.WriteString("nifti{")
		f.WriteString(strconv.Quote(s.SpaceID))
		f.WriteByte('}')
		return
	}
	f.WriteString(", ")
	f.WriteString(strconv.Quote(s.Space()))
	f.WriteByte('}')
}

func (f *formatter) predicate(p Predicate) {
	switch p := p.(type) {
	case *Less:
		f.comparison("<", p.Left, p.Right)
	case *Greater:
		f.comparison(">", p.Left, p.Right)
	case *Equal:
		f.comparison("=", p.Left, p.Right)
	case *Not:
		f.WriteString("!(")
		f.predicate(p.Predicate)
		f.WriteByte(')')
	case *And:
		f.combinator("&", p.Left, p.Right)
	case *Or:
		f.combinator("|", p.Left, p.Right)
	default:
		f.WriteString("<nil>")
	}
}

func (f *formatter) comparison(op string, left Position, right LiteralPosition) {
	f.WriteString(op)
	f.WriteByte('(')
	f.position(left)
	f.WriteString(", ")
	f.literal(right)
	f.WriteByte(')')
}

func (f *formatter) combinator(op string, left, right Predicate) {
	f.WriteString(op)
	f.WriteByte('(')
	f.predicate(left)
	f.WriteString(", ")
	f.predicate(right)
	f.WriteByte(')')
}

func (f *formatter) position(p Position) {
	switch p := p.(type) {
	case *PositionLiteral:
		f.literal(p.Value)
	case *PositionSelector:
		f.WriteString(p.Selector.String())
	case *StrCmp:
		fmt.Fprintf(f, "str_cmp(%s, %s)", p.Selector, strconv.Quote(p.Literal))
	case *StrCmpICase:
		fmt.Fprintf(f, "str_cmp_ignore_case(%s, %s)", p.Selector, strconv.Quote(p.Literal))
	default:
		f.WriteString("<nil>")
	}
}

func (f *formatter) literal(p LiteralPosition) {
	f.WriteByte('[')
	for i, n := range p {
		if i > 0 {
			f.WriteString(", ")
		}
		f.number(n)
	}
	f.WriteByte(']')
}

func (f *formatter) number(n LiteralNumber) {
	f.WriteString(FormatNumber(n))
}

// FormatNumber renders a literal so that it reads back with the same kind:
// floats always carry a decimal point or an exponent.
func FormatNumber(n LiteralNumber) string {
	if n.Kind == IntNumber {
		return strconv.FormatInt(n.Int, 10)
	}
	s := strconv.FormatFloat(n.Float, 'g', -1, 64)
	if math.IsInf(n.Float, 0) || math.IsNaN(n.Float) {
		return s
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func (f *formatter) json(v JSONValue) {
	switch v := v.(type) {
	case JSONString:
		f.WriteString(strconv.Quote(string(v)))
	case *JSONNumber:
		f.number(v.Value)
	case JSONBool:
		f.WriteString(strconv.FormatBool(bool(v)))
	case JSONNull:
		f.WriteString("null")
	case JSONObject:
		f.WriteByte('{')
		for i, field := range v {
			if i > 0 {
				f.WriteString(", ")
			}
			f.WriteString(strconv.Quote(field.Key))
			f.WriteString(": ")
			f.json(field.Value)
		}
		f.WriteByte('}')
	case JSONArray:
		f.WriteByte('[')
		for i, elem := range v {
			if i > 0 {
				f.WriteString(", ")
			}
			f.json(elem)
		}
		f.WriteByte(']')
	case *JSONSelector:
		f.WriteString(v.Selector.String())
	case *Aggregation:
		f.WriteString(v.Kind.String())
		f.WriteByte('(')
		if v.Distinct {
			f.WriteString("distinct ")
		}
		f.WriteString(v.Selector.String())
		f.WriteByte(')')
	default:
		f.WriteString("null")
	}
}
