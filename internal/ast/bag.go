package ast

// Bag is a set-expression node. Executing a Bag yields objects grouped by
// the reference space they are expressed in.
//
// Bag types:
//   - ViewPort: implicit clip to the caller viewport (inserted by the parser)
//   - Distinct: per-space deduplication
//   - Filter: keep the objects satisfying a predicate
//   - Complement: everything in the universe not in the inner bag
//   - Intersection, Union: binary set operators over one space
//   - BagList: concatenation of bags from any spaces
//   - Inside, Outside: the objects within (or outside) a shape
type Bag interface {
	Node
	bagNode()

	// Space returns the coordinate space of the result. universe is the name
	// of the catalog's universe space, reported by bags spanning all spaces.
	Space(universe string) string
}

// ViewPort clips its bag to the caller's viewport, if one is configured.
// It is never written by users.
type ViewPort struct {
	Bag Bag
}

// Distinct removes duplicate objects within each space group.
type Distinct struct {
	Bag Bag
}

// Filter keeps the objects of Bag satisfying Predicate.
//
// A nil Predicate passes Bag through. A nil Bag stands for every object
// inside the universe bounding box.
type Filter struct {
	Predicate Predicate
	Bag       Bag
}

// Complement is every object of the universe not in Bag. The complement is
// always taken against the universe, whatever space Bag reports.
type Complement struct {
	Bag Bag
}

// Intersection keeps the objects of one operand whose position appears in
// the other. Both operands must report the same space.
type Intersection struct {
	Left, Right Bag
}

// Union concatenates both operands without deduplication. Both operands must
// report the same space.
type Union struct {
	Left, Right Bag
}

// BagList concatenates the results of its bags, which may live in
// different spaces.
type BagList struct {
	Bags []Bag
}

// Inside is the set of objects within Shape, surface included.
type Inside struct {
	Shape Shape
}

// Outside is the set of objects of the shape's space not strictly within
// Shape; the surface counts as outside.
type Outside struct {
	Shape Shape
}

func (*ViewPort) node()        {}
func (*ViewPort) bagNode()     {}
func (*Distinct) node()        {}
func (*Distinct) bagNode()     {}
func (*Filter) node()          {}
func (*Filter) bagNode()       {}
func (*Complement) node()      {}
func (*Complement) bagNode()   {}
func (*Intersection) node()    {}
func (*Intersection) bagNode() {}
func (*Union) node()           {}
func (*Union) bagNode()        {}
func (*BagList) node()         {}
func (*BagList) bagNode()      {}
func (*Inside) node()          {}
func (*Inside) bagNode()       {}
func (*Outside) node()         {}
func (*Outside) bagNode()      {}

func (b *ViewPort) Space(universe string) string   { return b.Bag.Space(universe) }
func (b *Distinct) Space(universe string) string   { return b.Bag.Space(universe) }
func (b *Complement) Space(universe string) string { return b.Bag.Space(universe) }
func (b *Inside) Space(string) string              { return b.Shape.Space() }
func (b *Outside) Space(string) string             { return b.Shape.Space() }

// Space of a filter is its bag's, or the universe for the implicit scan.
func (b *Filter) Space(universe string) string {
	if b.Bag == nil {
		return universe
	}
	return b.Bag.Space(universe)
}

// Space of an intersection is the left operand's; validation guarantees
// both operands agree.
func (b *Intersection) Space(universe string) string { return b.Left.Space(universe) }

// Space of a union is the left operand's; validation guarantees both
// operands agree.
func (b *Union) Space(universe string) string { return b.Left.Space(universe) }

// Space of a BagList is always the universe: its elements may span several
// spaces.
func (b *BagList) Space(universe string) string { return universe }
