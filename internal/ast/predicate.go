package ast

// Position is an expression evaluated against one spatial object, producing
// a LiteralPosition.
//
// Position types:
//   - PositionLiteral: a constant position
//   - PositionSelector: the object's spatial position (or a numeric property)
//   - StrCmp / StrCmpICase: a string comparison encoded as [-1], [0] or [1]
type Position interface {
	Node
	positionNode()
}

// PositionLiteral is a constant position.
type PositionLiteral struct {
	Value LiteralPosition
}

// PositionSelector resolves a selector against the object.
type PositionSelector struct {
	Selector LiteralSelector
}

// StrCmp compares the string designated by Selector with Literal.
type StrCmp struct {
	Selector LiteralSelector
	Literal  string
}

// StrCmpICase is StrCmp under Unicode case folding.
type StrCmpICase struct {
	Selector LiteralSelector
	Literal  string
}

func (*PositionLiteral) node()          {}
func (*PositionLiteral) positionNode()  {}
func (*PositionSelector) node()         {}
func (*PositionSelector) positionNode() {}
func (*StrCmp) node()                   {}
func (*StrCmp) positionNode()           {}
func (*StrCmpICase) node()              {}
func (*StrCmpICase) positionNode()      {}

// Predicate is a side-effect free boolean expression over one object.
//
// Leaf comparisons (Less, Greater, Equal) resolve Left against the object
// and compare the result with Right. Less and Greater use the squared-length
// partial order of LiteralPosition; Equal is element-wise.
type Predicate interface {
	Node
	predicateNode()
}

// Less holds when Left is strictly shorter than Right.
type Less struct {
	Left  Position
	Right LiteralPosition
}

// Greater holds when Left is strictly longer than Right.
type Greater struct {
	Left  Position
	Right LiteralPosition
}

// Equal holds when Left equals Right element-wise.
type Equal struct {
	Left  Position
	Right LiteralPosition
}

// Not negates a predicate.
type Not struct {
	Predicate Predicate
}

// And is the conjunction of two predicates.
type And struct {
	Left, Right Predicate
}

// Or is the disjunction of two predicates.
type Or struct {
	Left, Right Predicate
}

func (*Less) node()             {}
func (*Less) predicateNode()    {}
func (*Greater) node()          {}
func (*Greater) predicateNode() {}
func (*Equal) node()            {}
func (*Equal) predicateNode()   {}
func (*Not) node()              {}
func (*Not) predicateNode()     {}
func (*And) node()              {}
func (*And) predicateNode()     {}
func (*Or) node()               {}
func (*Or) predicateNode()      {}
