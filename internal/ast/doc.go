// Package ast defines the expression tree of the volumetric query language.
//
// A query is a tree rooted at a Projection. Below it, Bag nodes form the
// set-expression tree, Shape nodes describe geometric regions tied to a named
// coordinate space, and Predicate/Position nodes describe per-object filters.
//
// ARCHITECTURE:
//
//	[query text] → (parser) → [AST] → Validator  (type check)
//	                                 → Predictor  (volume estimate)
//	                                 → Executor   (per-space result sets)
//
// The parser is an external collaborator. Decode builds the same tree from a
// YAML/JSON document so that tools and tests can drive the interpreters
// without it, and Format renders any node back into query text.
//
// SEALED INTERFACES:
//
// Node, Projection, Bag, Shape, Predicate, Position and JSONValue are sealed
// with unexported marker methods. Only types in this package implement them,
// which keeps the type switches in the interpreters exhaustive:
//
//	switch b := bag.(type) {
//	case *Distinct:
//	    // ...
//	case *Inside:
//	    // ...
//	}
//
// OWNERSHIP:
//
// Trees are built once, owned top-down (no sharing, no cycles) and never
// mutated after construction. Every interpreter walks the same tree
// read-only.
//
// SPACES:
//
// Every Bag reports the coordinate space its result is expressed in. The
// universe space name is not hardcoded here: Space takes it as an argument,
// because a BagList (and a Filter without an inner bag) spans every space and
// therefore reports whichever space the catalog designates as the universe.
package ast
